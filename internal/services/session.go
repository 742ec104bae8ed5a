package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmalone/crossprep/internal/logger"
	"github.com/dmalone/crossprep/internal/models"
	"github.com/dmalone/crossprep/internal/storage"
)

const sessionKeyPrefix = "session:"

// SessionService is CRUD over the prep-session aggregate. Every mutation
// re-serializes the whole session into the key-value store with no partial
// diffing, which is acceptable for a local single-user deployment.
// Mutators fail softly: an unknown session id returns (nil, false) rather
// than an error, and callers must check.
type SessionService struct {
	mu    sync.Mutex
	store storage.Store
}

// NewSessionService creates a session service over the given store
func NewSessionService(store storage.Store) *SessionService {
	return &SessionService{store: store}
}

// Create starts a new session in the setup-complete state. Subject and
// case name are required; validation is the caller's job so the service
// only guards the kind.
func (s *SessionService) Create(kind models.SessionKind, subjectName, caseName string) (*models.Session, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown session kind: %s", kind)
	}

	now := time.Now()
	session := &models.Session{
		ID:           uuid.NewString(),
		Kind:         kind,
		SubjectName:  subjectName,
		CaseName:     caseName,
		CreatedAt:    now,
		UpdatedAt:    now,
		Documents:    []models.Document{},
		Questions:    []models.Question{},
		CurrentStep:  StepDocuments,
		VisitedSteps: []string{StepSetup, StepDocuments},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persistLocked(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get loads a session by id. Returns (nil, false) when the id is unknown.
func (s *SessionService) Get(id string) (*models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

// Update applies fn to the session and persists the result. Returns
// (nil, false) when the id is unknown.
func (s *SessionService) Update(id string, fn func(*models.Session)) (*models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.getLocked(id)
	if !ok {
		return nil, false
	}

	fn(session)
	session.UpdatedAt = time.Now()
	if err := s.persistLocked(session); err != nil {
		logger.Errorf("failed to persist session %s: %v", id, err)
		return nil, false
	}
	return session, true
}

// AddDocument appends a document to the session's ordered list
func (s *SessionService) AddDocument(id string, doc models.Document) (*models.Session, bool) {
	return s.Update(id, func(session *models.Session) {
		session.Documents = append(session.Documents, doc)
	})
}

// SetQuestions replaces the generated question set
func (s *SessionService) SetQuestions(id string, questions []models.Question) (*models.Session, bool) {
	return s.Update(id, func(session *models.Session) {
		session.Questions = questions
	})
}

// SetAnalysis attaches the generated analysis
func (s *SessionService) SetAnalysis(id string, analysis *models.Analysis) (*models.Session, bool) {
	return s.Update(id, func(session *models.Session) {
		session.Analysis = analysis
	})
}

// SetOutline attaches a built outline
func (s *SessionService) SetOutline(id string, outline *models.Outline) (*models.Session, bool) {
	return s.Update(id, func(session *models.Session) {
		session.Outline = outline
	})
}

// Delete removes the session record. Deleting a missing session is a no-op.
func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Remove(sessionKeyPrefix + id)
}

// List returns all persisted sessions
func (s *SessionService) List() ([]*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.store.List(sessionKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*models.Session, 0, len(keys))
	for _, key := range keys {
		id := key[len(sessionKeyPrefix):]
		if session, ok := s.getLocked(id); ok {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func (s *SessionService) getLocked(id string) (*models.Session, bool) {
	data, ok, err := s.store.Get(sessionKeyPrefix + id)
	if err != nil {
		logger.Errorf("failed to read session %s: %v", id, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		logger.Errorf("failed to decode session %s: %v", id, err)
		return nil, false
	}
	return &session, true
}

func (s *SessionService) persistLocked(session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.store.Set(sessionKeyPrefix+session.ID, data); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}
