package constants

// JobStatus is the canonical lifecycle status of an analysis job.
type JobStatus string

// Stable values (clients poll on these exact strings).
const (
	JobStatusCreated   JobStatus = "CREATED"   // job registered, not yet picked up
	JobStatusRunning   JobStatus = "RUNNING"   // pipeline in progress
	JobStatusSucceeded JobStatus = "SUCCEEDED" // terminal success, result available
	JobStatusFailed    JobStatus = "FAILED"    // terminal failure, error message set
)

// Terminal reports whether a job in this status accepts no further mutation.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed
}
