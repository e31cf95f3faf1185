package config

const (
	// TopicIngestDocument is the NSQ topic for document processing tasks.
	TopicIngestDocument = "ingest.task.document"
)

// RunnerChannel is the NSQ channel the task runner consumes on.
const RunnerChannel = "runner"
