package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmalone/crossprep/internal/models"
)

func TestClassify_FilenameKeywords(t *testing.T) {
	tests := []struct {
		filename string
		want     models.DocumentType
	}{
		{"Hearing_Transcript_2025.txt", models.DocTranscript},
		{"smith-deposition.pdf", models.DocPriorTestimony},
		{"Exhibit_A_invoice.txt", models.DocExhibit},
		{"amended_complaint.txt", models.DocCaseFile},
		{"random_notes.txt", models.DocOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.filename, ""), tt.filename)
	}
}

func TestClassify_ContentKeywords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    models.DocumentType
	}{
		{"courtroom q&a", "THE COURT: Please be seated.\nQ. State your name.", models.DocTranscript},
		{"sworn statement", "having been duly sworn, testified as follows", models.DocPriorTestimony},
		{"marked exhibit", "Plaintiff's Exhibit 4, marked for identification", models.DocExhibit},
		{"pleading", "COMES NOW the plaintiff and alleges", models.DocCaseFile},
		{"plain notes", "met with the client to discuss scheduling", models.DocOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify("file.txt", tt.content), tt.name)
	}
}

func TestClassify_FilenameBeatsContent(t *testing.T) {
	// Filename keywords for every rule are checked before any content rule,
	// so an exhibit-named file with transcript content is still an exhibit
	got := Classify("exhibit_12.txt", "Q. Where were you?\nA. At home.")
	assert.Equal(t, models.DocExhibit, got)
}

func TestClassify_PrecedenceWithinContent(t *testing.T) {
	// Content matching both transcript and exhibit rules resolves to the
	// higher-precedence transcript type
	content := "THE COURT: Admitting Plaintiff's Exhibit 2.\nQ. Continue."
	assert.Equal(t, models.DocTranscript, Classify("file.txt", content))
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.Equal(t, models.DocTranscript, Classify("TRANSCRIPT.TXT", ""))
	assert.Equal(t, models.DocPriorTestimony, Classify("file.txt", "DULY SWORN"))
}

func TestClassify_Pure(t *testing.T) {
	// Same inputs, same output, no hidden state
	for i := 0; i < 3; i++ {
		assert.Equal(t, models.DocExhibit, Classify("invoice_march.txt", ""))
	}
}
