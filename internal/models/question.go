package models

// Question is a generated cross-examination or deposition question.
// Questions are immutable once generated; the outline builder consumes
// them read-only by ID.
type Question struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Category    string   `json:"category"`
	Priority    int      `json:"priority"` // 1 = highest
	Rationale   string   `json:"rationale,omitempty"`
	FollowUps   []string `json:"follow_ups,omitempty"`
	SourceDocID string   `json:"source_doc_id,omitempty"`
}

// Question categories per flow. The remote model is prompted with these,
// and the fallback banks use them directly.
const (
	CategoryBackground     = "background"
	CategoryTimeline       = "timeline"
	CategoryCredibility    = "credibility"
	CategoryDamages        = "damages"
	CategoryInconsistency  = "inconsistency"
	CategoryFoundation     = "foundation"
	CategoryCommunications = "communications"
)
