package runerrors

import "time"

// RunError represents a persisted analysis error entry
type RunError struct {
	ID          int64     `json:"id"`
	RunID       string    `json:"run_id"`
	SpecID      string    `json:"spec_id,omitempty"`
	FilePath    string    `json:"file_path,omitempty"`
	Phase       string    `json:"phase,omitempty"` // fetch | analyze | publish | other
	Message     string    `json:"message"`
	DetailsJSON string    `json:"details_json,omitempty"` // raw JSON string
	CreatedAt   time.Time `json:"created_at"`
}
