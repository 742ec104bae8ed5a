package services

import (
	"errors"

	"github.com/dmalone/crossprep/internal/models"
)

// Wizard step names. Both flows are fixed linear sequences; limit_reached
// is a pseudo-state layered on top of whatever step was active when the
// quota denial happened.
const (
	StepSetup        = "setup"
	StepDocuments    = "documents"
	StepAnalysis     = "analysis"
	StepQuestions    = "questions"
	StepPractice     = "practice"
	StepOutline      = "outline"
	StepReview       = "review"
	StepLimitReached = "limit_reached"
)

var (
	ErrUnknownSession = errors.New("unknown session")
	ErrStepNotReady   = errors.New("step requirements not met")
	ErrLastStep       = errors.New("already at the final step")
	ErrLimitReached   = errors.New("usage limit reached; acknowledge to continue")
	ErrStepNotAllowed = errors.New("step is not accessible")
)

var testimonySteps = []string{StepSetup, StepDocuments, StepQuestions, StepPractice, StepReview}
var depositionSteps = []string{StepSetup, StepDocuments, StepAnalysis, StepQuestions, StepOutline}

// FlowSteps returns the ordered steps for a session kind
func FlowSteps(kind models.SessionKind) []string {
	if kind == models.KindDeposition {
		return depositionSteps
	}
	return testimonySteps
}

// Wizard gates navigation through the linear prep flow. Accessibility of
// earlier steps is a reachability predicate recomputed from session
// contents on every call, not stored state.
type Wizard struct {
	sessions *SessionService
}

// NewWizard creates the wizard controller over the session store
func NewWizard(sessions *SessionService) *Wizard {
	return &Wizard{sessions: sessions}
}

// WizardState is the navigation view of a session
type WizardState struct {
	CurrentStep     string   `json:"current_step"`
	Steps           []string `json:"steps"`
	AccessibleSteps []string `json:"accessible_steps"`
	LimitReached    bool     `json:"limit_reached"`
	LimitReason     string   `json:"limit_reason,omitempty"`
}

// State computes the navigation view for a session
func (w *Wizard) State(session *models.Session) WizardState {
	steps := FlowSteps(session.Kind)
	state := WizardState{
		CurrentStep:  session.CurrentStep,
		Steps:        steps,
		LimitReached: session.LimitReached,
		LimitReason:  session.LimitReason,
	}
	for _, step := range steps {
		if w.CanAccess(session, step) {
			state.AccessibleSteps = append(state.AccessibleSteps, step)
		}
	}
	return state
}

// CanAccess reports whether the user may navigate to step: any step at or
// before the current one, or any step whose data already exists. A partial
// analysis object with neither gaps nor contradictions does not unlock the
// analysis step.
func (w *Wizard) CanAccess(session *models.Session, step string) bool {
	steps := FlowSteps(session.Kind)
	stepIdx := indexOf(steps, step)
	if stepIdx == -1 {
		return false
	}
	currentIdx := indexOf(steps, session.CurrentStep)
	if stepIdx <= currentIdx {
		return true
	}

	switch step {
	case StepDocuments:
		return len(session.Documents) > 0
	case StepAnalysis:
		return session.Analysis != nil &&
			(len(session.Analysis.Gaps) > 0 || len(session.Analysis.Contradictions) > 0)
	case StepQuestions, StepPractice:
		return len(session.Questions) > 0
	case StepOutline:
		return session.Outline != nil
	}
	return false
}

// Advance moves the session to the next step if its requirements are met.
// A session in the limit_reached pseudo-state cannot advance until the
// user acknowledges.
func (w *Wizard) Advance(id string) (*models.Session, error) {
	session, ok := w.sessions.Get(id)
	if !ok {
		return nil, ErrUnknownSession
	}
	if session.LimitReached {
		return nil, ErrLimitReached
	}

	steps := FlowSteps(session.Kind)
	currentIdx := indexOf(steps, session.CurrentStep)
	if currentIdx == -1 || currentIdx == len(steps)-1 {
		return nil, ErrLastStep
	}
	next := steps[currentIdx+1]

	if err := w.checkAdvance(session, next); err != nil {
		return nil, err
	}

	updated, ok := w.sessions.Update(id, func(s *models.Session) {
		s.CurrentStep = next
		s.VisitedSteps = appendVisited(s.VisitedSteps, next)
	})
	if !ok {
		return nil, ErrUnknownSession
	}
	return updated, nil
}

// checkAdvance enforces the data-availability predicate for entering a step
func (w *Wizard) checkAdvance(session *models.Session, next string) error {
	switch next {
	case StepAnalysis, StepQuestions:
		// Leaving the documents step needs at least one extracted document.
		// Entering questions from analysis additionally needs the analysis.
		if session.CurrentStep == StepDocuments && session.ReadyDocuments() == 0 {
			return ErrStepNotReady
		}
		if next == StepQuestions && session.Kind == models.KindDeposition && session.Analysis == nil {
			return ErrStepNotReady
		}
	case StepPractice, StepOutline:
		if len(session.Questions) == 0 {
			return ErrStepNotReady
		}
	}
	return nil
}

// Back navigates to an already-reachable earlier step
func (w *Wizard) Back(id, step string) (*models.Session, error) {
	session, ok := w.sessions.Get(id)
	if !ok {
		return nil, ErrUnknownSession
	}
	if !w.CanAccess(session, step) {
		return nil, ErrStepNotAllowed
	}

	updated, ok := w.sessions.Update(id, func(s *models.Session) {
		s.CurrentStep = step
		s.VisitedSteps = appendVisited(s.VisitedSteps, step)
	})
	if !ok {
		return nil, ErrUnknownSession
	}
	return updated, nil
}

// MarkLimitReached puts the session into the blocking pseudo-state
func (w *Wizard) MarkLimitReached(id, reason string) {
	w.sessions.Update(id, func(s *models.Session) {
		s.LimitReached = true
		s.LimitReason = reason
	})
}

// Acknowledge clears the limit_reached pseudo-state. The quota itself is
// still enforced by the evaluator on the next attempt.
func (w *Wizard) Acknowledge(id string) (*models.Session, error) {
	session, ok := w.sessions.Update(id, func(s *models.Session) {
		s.LimitReached = false
		s.LimitReason = ""
	})
	if !ok {
		return nil, ErrUnknownSession
	}
	return session, nil
}

// Reset deletes the session and returns the flow to setup. The usage
// ledger is deliberately untouched: its lifetime spans sessions.
func (w *Wizard) Reset(id string) error {
	return w.sessions.Delete(id)
}

func indexOf(steps []string, step string) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return -1
}

func appendVisited(visited []string, step string) []string {
	for _, v := range visited {
		if v == step {
			return visited
		}
	}
	return append(visited, step)
}
