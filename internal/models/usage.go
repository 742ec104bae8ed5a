package models

import "time"

// UsageRecord is the persisted ledger state for the rolling demo window.
// Cost and DocumentsUploaded increase monotonically within a window and
// reset to zero once the current time passes ResetAt.
type UsageRecord struct {
	Cost              float64   `json:"cost"`
	DocumentsUploaded int       `json:"documents_uploaded"`
	StartedAt         time.Time `json:"started_at"`
	ResetAt           time.Time `json:"reset_at"`
}

// UsageStats is the ledger read model returned to callers
type UsageStats struct {
	Cost              float64   `json:"cost"`
	DocumentsUploaded int       `json:"documents_uploaded"`
	ResetAt           time.Time `json:"reset_at"`
}

// LimitDecision is the result of evaluating a proposed operation against
// the configured ceilings. When denied, Reason carries the user-facing
// message for the first failing check.
type LimitDecision struct {
	Allowed        bool    `json:"allowed"`
	Reason         string  `json:"reason,omitempty"`
	CurrentUsage   float64 `json:"current_usage"`
	Limit          float64 `json:"limit"`
	RemainingUsage float64 `json:"remaining_usage"`
}

// Identity is the anonymous install identity plus the per-boot run id
type Identity struct {
	UserID    string    `json:"user_id"`
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
}
