package constants

const (
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusInProgress = "in_progress"
	StatusOK         = "ok"
	StatusQueued     = "queued"
	StatusPublished  = "published"
)

const (
	PublishQueue        = "publish_queue"
	PublishResultPrefix = "publish_result:"
)
