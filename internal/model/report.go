package model

import "time"

type AnalysisReport struct {
	ID        int64     `json:"id"`
	JobID     string    `json:"job_id,omitempty"`
	Portfolio string    `json:"portfolio"`
	Report    string    `json:"report"`
	Symbols   []string  `json:"symbols"`
	ModelUsed string    `json:"model_used"`
	CreatedAt time.Time `json:"created_at"`
}

type ResearchJob struct {
	ID         string    `json:"id"`
	Portfolio  Portfolio `json:"portfolio"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
