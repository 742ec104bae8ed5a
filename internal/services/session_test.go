package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmalone/crossprep/internal/models"
	"github.com/dmalone/crossprep/internal/storage"
)

func TestSessionService_CreateAndGet(t *testing.T) {
	sessions := NewSessionService(storage.NewMemoryStore())

	session, err := sessions.Create(models.KindTestimony, "Jane Doe", "Doe v. Acme")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, StepDocuments, session.CurrentStep)
	assert.Equal(t, []string{StepSetup, StepDocuments}, session.VisitedSteps)

	loaded, ok := sessions.Get(session.ID)
	require.True(t, ok)
	assert.Equal(t, session.ID, loaded.ID)
	assert.Equal(t, "Jane Doe", loaded.SubjectName)
}

func TestSessionService_CreateRejectsUnknownKind(t *testing.T) {
	sessions := NewSessionService(storage.NewMemoryStore())

	_, err := sessions.Create("arbitration", "Jane Doe", "Doe v. Acme")
	assert.Error(t, err)
}

func TestSessionService_GetMissing(t *testing.T) {
	sessions := NewSessionService(storage.NewMemoryStore())

	session, ok := sessions.Get("nope")
	assert.False(t, ok)
	assert.Nil(t, session)
}

func TestSessionService_UpdateMissing(t *testing.T) {
	sessions := NewSessionService(storage.NewMemoryStore())

	_, ok := sessions.Update("nope", func(s *models.Session) {})
	assert.False(t, ok)
}

func TestSessionService_DeleteMissingIsNoop(t *testing.T) {
	sessions := NewSessionService(storage.NewMemoryStore())
	assert.NoError(t, sessions.Delete("nope"))
}

func TestSessionService_PersistsAcrossInstances(t *testing.T) {
	store := storage.NewMemoryStore()
	sessions := NewSessionService(store)
	session, err := sessions.Create(models.KindDeposition, "John Roe", "Roe v. Acme")
	require.NoError(t, err)

	again := NewSessionService(store)
	loaded, ok := again.Get(session.ID)
	require.True(t, ok)
	assert.Equal(t, models.KindDeposition, loaded.Kind)
}

func TestSessionService_List(t *testing.T) {
	sessions := NewSessionService(storage.NewMemoryStore())
	_, err := sessions.Create(models.KindTestimony, "A", "Case A")
	require.NoError(t, err)
	_, err = sessions.Create(models.KindDeposition, "B", "Case B")
	require.NoError(t, err)

	all, err := sessions.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSessionService_DocumentOrderPreserved(t *testing.T) {
	sessions := NewSessionService(storage.NewMemoryStore())
	session, _ := sessions.Create(models.KindTestimony, "Jane Doe", "Doe v. Acme")

	for _, name := range []string{"one.txt", "two.txt", "three.txt"} {
		_, ok := sessions.AddDocument(session.ID, models.Document{ID: name, Name: name, Status: models.DocumentReady})
		require.True(t, ok)
	}

	loaded := mustGet(t, sessions, session.ID)
	require.Len(t, loaded.Documents, 3)
	assert.Equal(t, "one.txt", loaded.Documents[0].Name)
	assert.Equal(t, "three.txt", loaded.Documents[2].Name)
}
