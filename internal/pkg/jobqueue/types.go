package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeCourseNotification JobType = "course_notification"
	JobTypeDeactivationSweep  JobType = "deactivation_sweep"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// CourseNotificationJobPayload contains the payload for course update notifications
type CourseNotificationJobPayload struct {
	CourseID uint `json:"course_id"`
}

// ToMap converts the payload to a map for storage
func (p CourseNotificationJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"course_id": p.CourseID,
	}
}

// CourseNotificationJobPayloadFromMap creates a payload from a map
func CourseNotificationJobPayloadFromMap(data map[string]interface{}) (*CourseNotificationJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload CourseNotificationJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// DeactivationSweepJobPayload contains the payload for the inactive-user sweep
type DeactivationSweepJobPayload struct {
	// RequestedAt is informational; the sweep always measures from now.
	RequestedAt time.Time `json:"requested_at"`
}

// ToMap converts the payload to a map for storage
func (p DeactivationSweepJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"requested_at": p.RequestedAt.Format(time.RFC3339),
	}
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
