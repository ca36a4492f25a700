package jobs

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Payload identifies one caption file to translate.
type Payload struct {
	InputPath      string `json:"input_path"`
	OutputPath     string `json:"output_path"`
	TargetLanguage string `json:"target_language"`
}

type EnqueueRequest struct {
	Source    string
	DedupeKey string
	Payload   Payload
}

// Job is one unit of translation work tracked by the queue. Failed jobs
// keep their checkpoint so a later run resumes instead of restarting.
type Job struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	DedupeKey string    `json:"dedupe_key"`
	Payload   Payload   `json:"payload"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
