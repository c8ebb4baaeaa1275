package constants

// Static route constants
const (
	APIPrefix   = "/api"
	APIV1Prefix = "/v1"

	MetricsRoute = "/metrics"

	DocsBasePath = "/docs/api/"
	DocsVersion  = "v1"
)
