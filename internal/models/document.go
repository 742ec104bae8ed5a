package models

import "time"

// DocumentType is the heuristic classification of an uploaded document
type DocumentType string

const (
	DocTranscript     DocumentType = "transcript"
	DocPriorTestimony DocumentType = "prior_testimony"
	DocExhibit        DocumentType = "exhibit"
	DocCaseFile       DocumentType = "case_file"
	DocOther          DocumentType = "other"
)

// DocumentStatus tracks text extraction progress
type DocumentStatus string

const (
	DocumentReady      DocumentStatus = "ready"
	DocumentProcessing DocumentStatus = "processing"
	DocumentError      DocumentStatus = "error"
)

// Document is an uploaded case document. It is created at upload, mutated
// once when extraction completes or fails, and removed only on session reset.
type Document struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       DocumentType   `json:"type"`
	Size       int64          `json:"size"`
	Text       string         `json:"text,omitempty"`
	Status     DocumentStatus `json:"status"`
	Error      string         `json:"error,omitempty"`
	UploadedAt time.Time      `json:"uploaded_at"`
}
