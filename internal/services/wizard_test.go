package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmalone/crossprep/internal/models"
	"github.com/dmalone/crossprep/internal/storage"
)

func newTestWizard(t *testing.T) (*Wizard, *SessionService) {
	t.Helper()
	sessions := NewSessionService(storage.NewMemoryStore())
	return NewWizard(sessions), sessions
}

func readyDoc(name string) models.Document {
	return models.Document{
		ID:         name,
		Name:       name,
		Type:       models.DocOther,
		Status:     models.DocumentReady,
		Text:       "some extracted text",
		UploadedAt: time.Now(),
	}
}

func someQuestions() []models.Question {
	return []models.Question{
		{ID: "q1", Text: "Where were you?", Category: models.CategoryTimeline, Priority: 1},
		{ID: "q2", Text: "Who was present?", Category: models.CategoryFoundation, Priority: 2},
	}
}

func TestWizard_NewSessionStartsAtDocuments(t *testing.T) {
	wizard, sessions := newTestWizard(t)
	session, err := sessions.Create(models.KindTestimony, "Jane Doe", "Doe v. Acme")
	require.NoError(t, err)

	state := wizard.State(session)
	assert.Equal(t, StepDocuments, state.CurrentStep)
	assert.Equal(t, testimonySteps, state.Steps)
	assert.Contains(t, state.AccessibleSteps, StepSetup)
	assert.NotContains(t, state.AccessibleSteps, StepQuestions)
}

func TestWizard_AdvanceRequiresReadyDocument(t *testing.T) {
	wizard, sessions := newTestWizard(t)
	session, _ := sessions.Create(models.KindTestimony, "Jane Doe", "Doe v. Acme")

	_, err := wizard.Advance(session.ID)
	assert.ErrorIs(t, err, ErrStepNotReady)

	// A document in the error state does not count
	sessions.AddDocument(session.ID, models.Document{ID: "bad", Status: models.DocumentError})
	_, err = wizard.Advance(session.ID)
	assert.ErrorIs(t, err, ErrStepNotReady)

	sessions.AddDocument(session.ID, readyDoc("notes.txt"))
	updated, err := wizard.Advance(session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepQuestions, updated.CurrentStep)
}

func TestWizard_TestimonyFullWalk(t *testing.T) {
	wizard, sessions := newTestWizard(t)
	session, _ := sessions.Create(models.KindTestimony, "Jane Doe", "Doe v. Acme")
	sessions.AddDocument(session.ID, readyDoc("notes.txt"))

	s, err := wizard.Advance(session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepQuestions, s.CurrentStep)

	// Practice needs generated questions
	_, err = wizard.Advance(session.ID)
	assert.ErrorIs(t, err, ErrStepNotReady)

	sessions.SetQuestions(session.ID, someQuestions())
	s, err = wizard.Advance(session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepPractice, s.CurrentStep)

	s, err = wizard.Advance(session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepReview, s.CurrentStep)

	_, err = wizard.Advance(session.ID)
	assert.ErrorIs(t, err, ErrLastStep)
}

func TestWizard_DepositionQuestionsNeedAnalysis(t *testing.T) {
	wizard, sessions := newTestWizard(t)
	session, _ := sessions.Create(models.KindDeposition, "John Roe", "Roe v. Acme")
	sessions.AddDocument(session.ID, readyDoc("depo.txt"))

	s, err := wizard.Advance(session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepAnalysis, s.CurrentStep)

	_, err = wizard.Advance(session.ID)
	assert.ErrorIs(t, err, ErrStepNotReady)

	sessions.SetAnalysis(session.ID, &models.Analysis{Gaps: []string{"missing witness list"}, GeneratedAt: time.Now()})
	s, err = wizard.Advance(session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepQuestions, s.CurrentStep)
}

func TestWizard_BackToVisitedStep(t *testing.T) {
	wizard, sessions := newTestWizard(t)
	session, _ := sessions.Create(models.KindTestimony, "Jane Doe", "Doe v. Acme")
	sessions.AddDocument(session.ID, readyDoc("notes.txt"))
	_, err := wizard.Advance(session.ID)
	require.NoError(t, err)

	s, err := wizard.Back(session.ID, StepDocuments)
	require.NoError(t, err)
	assert.Equal(t, StepDocuments, s.CurrentStep)
}

func TestWizard_BackToUnreachedStepFails(t *testing.T) {
	wizard, sessions := newTestWizard(t)
	session, _ := sessions.Create(models.KindTestimony, "Jane Doe", "Doe v. Acme")

	_, err := wizard.Back(session.ID, StepPractice)
	assert.ErrorIs(t, err, ErrStepNotAllowed)
}

func TestWizard_PartialAnalysisDoesNotUnlockStep(t *testing.T) {
	wizard, sessions := newTestWizard(t)
	session, _ := sessions.Create(models.KindDeposition, "John Roe", "Roe v. Acme")

	sessions.SetAnalysis(session.ID, &models.Analysis{Summary: "only a summary"})
	session, _ = sessions.Get(session.ID)
	assert.False(t, wizard.CanAccess(session, StepAnalysis))

	sessions.SetAnalysis(session.ID, &models.Analysis{Contradictions: []string{"dates disagree"}})
	session, _ = sessions.Get(session.ID)
	assert.True(t, wizard.CanAccess(session, StepAnalysis))
}

func TestWizard_LimitReachedBlocksAdvanceUntilAcknowledged(t *testing.T) {
	wizard, sessions := newTestWizard(t)
	session, _ := sessions.Create(models.KindTestimony, "Jane Doe", "Doe v. Acme")
	sessions.AddDocument(session.ID, readyDoc("notes.txt"))

	wizard.MarkLimitReached(session.ID, "session price limit of $0.50 reached")

	_, err := wizard.Advance(session.ID)
	assert.ErrorIs(t, err, ErrLimitReached)

	state := wizard.State(mustGet(t, sessions, session.ID))
	assert.True(t, state.LimitReached)
	assert.NotEmpty(t, state.LimitReason)

	_, err = wizard.Acknowledge(session.ID)
	require.NoError(t, err)

	s, err := wizard.Advance(session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepQuestions, s.CurrentStep)
	assert.False(t, s.LimitReached)
}

func TestWizard_ResetDeletesSessionButNotLedger(t *testing.T) {
	sessions := NewSessionService(storage.NewMemoryStore())
	wizard := NewWizard(sessions)
	ledger, err := NewLedger(storage.NewMemoryStore(), 24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, ledger.RecordCost(0.30))

	session, _ := sessions.Create(models.KindTestimony, "Jane Doe", "Doe v. Acme")
	require.NoError(t, wizard.Reset(session.ID))

	_, ok := sessions.Get(session.ID)
	assert.False(t, ok)
	assert.InDelta(t, 0.30, ledger.Stats().Cost, 1e-9, "reset must not touch the usage ledger")
}

func TestWizard_UnknownSession(t *testing.T) {
	wizard, _ := newTestWizard(t)

	_, err := wizard.Advance("nope")
	assert.ErrorIs(t, err, ErrUnknownSession)
	_, err = wizard.Back("nope", StepSetup)
	assert.ErrorIs(t, err, ErrUnknownSession)
	_, err = wizard.Acknowledge("nope")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func mustGet(t *testing.T, sessions *SessionService, id string) *models.Session {
	t.Helper()
	session, ok := sessions.Get(id)
	require.True(t, ok)
	return session
}
