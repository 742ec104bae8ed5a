package models

import (
	"time"
)

// SessionKind selects which prep flow a session belongs to
type SessionKind string

const (
	// KindTestimony is witness testimony practice
	KindTestimony SessionKind = "testimony"
	// KindDeposition is deposition preparation
	KindDeposition SessionKind = "deposition"
)

// Valid reports whether the kind is one of the two supported flows
func (k SessionKind) Valid() bool {
	return k == KindTestimony || k == KindDeposition
}

// Session is the prep session aggregate. Documents, questions and the
// outline are only ever appended or replaced wholesale; individual entries
// are never reordered except by explicit outline building.
type Session struct {
	ID          string      `json:"id"`
	Kind        SessionKind `json:"kind"`
	SubjectName string      `json:"subject_name"`
	CaseName    string      `json:"case_name"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Documents []Document `json:"documents"`
	Questions []Question `json:"questions"`
	Analysis  *Analysis  `json:"analysis,omitempty"`
	Outline   *Outline   `json:"outline,omitempty"`

	// Wizard bookkeeping
	CurrentStep  string   `json:"current_step"`
	VisitedSteps []string `json:"visited_steps"`
	LimitReached bool     `json:"limit_reached"`
	LimitReason  string   `json:"limit_reason,omitempty"`
}

// Analysis holds the document analysis produced for deposition prep
type Analysis struct {
	Gaps           []string       `json:"gaps"`
	Contradictions []string       `json:"contradictions"`
	Themes         []string       `json:"themes,omitempty"`
	Timeline       []TimelineItem `json:"timeline,omitempty"`
	Exhibits       []string       `json:"exhibits,omitempty"`
	Summary        string         `json:"summary,omitempty"`
	UsedFallback   bool           `json:"used_fallback"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// TimelineItem is a single dated event extracted from the documents
type TimelineItem struct {
	Date  string `json:"date"`
	Event string `json:"event"`
}

// Outline is an ordered arrangement of generated questions into sections
type Outline struct {
	Sections []OutlineSection `json:"sections"`
	BuiltAt  time.Time        `json:"built_at"`
}

// OutlineSection groups question IDs under a heading. IDs must reference
// questions already present on the session.
type OutlineSection struct {
	Title       string   `json:"title"`
	QuestionIDs []string `json:"question_ids"`
}

// ReadyDocuments counts documents whose text extraction completed
func (s *Session) ReadyDocuments() int {
	n := 0
	for _, d := range s.Documents {
		if d.Status == DocumentReady {
			n++
		}
	}
	return n
}

// QuestionByID looks up a generated question on the session
func (s *Session) QuestionByID(id string) (*Question, bool) {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i], true
		}
	}
	return nil, false
}
