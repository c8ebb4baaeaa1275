package contentpolicy

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// The single external host allowed in video references and free-text links,
// plus its short-link alias.
const (
	ApprovedVideoDomain = "youtube.com"
	ApprovedVideoAlias  = "youtu.be"
)

// urlPattern extracts URL-shaped substrings: http/https scheme followed by
// non-whitespace, non-bracket characters.
var urlPattern = regexp.MustCompile("https?://[^\\s<>\"{}|\\\\^`\\[\\]]+")

// ValidationError reports a content-policy violation. It blocks the write it
// was raised on.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateVideoURL checks that a video reference points at the approved video
// domain. Empty values pass.
func ValidateVideoURL(value string) error {
	if value == "" {
		return nil
	}

	parsed, err := url.Parse(value)
	if err != nil || !hostApproved(parsed.Host) {
		return &ValidationError{
			Field:   "video_url",
			Message: fmt.Sprintf("video links must point to %s; only %s references are allowed", ApprovedVideoDomain, ApprovedVideoDomain),
		}
	}
	return nil
}

// ValidateNoExternalLinks scans free text for URLs and rejects any that point
// outside the approved video domain. Text without URLs passes.
func ValidateNoExternalLinks(value string) error {
	if value == "" {
		return nil
	}

	for _, raw := range urlPattern.FindAllString(value, -1) {
		parsed, err := url.Parse(raw)
		if err != nil || !hostApproved(parsed.Host) {
			return &ValidationError{
				Message: fmt.Sprintf("links to external resources other than %s are not allowed", ApprovedVideoDomain),
			}
		}
	}
	return nil
}

func hostApproved(host string) bool {
	return strings.Contains(host, ApprovedVideoDomain) || strings.Contains(host, ApprovedVideoAlias)
}
