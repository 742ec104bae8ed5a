package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmalone/crossprep/internal/config"
	"github.com/dmalone/crossprep/internal/llm"
	"github.com/dmalone/crossprep/internal/logger"
	"github.com/dmalone/crossprep/internal/models"
	"github.com/dmalone/crossprep/internal/parse"
)

// Analyzer sends session documents to the hosted completion endpoint and
// turns the (often near-JSON) response into domain records. Every failure
// mode (transport error, non-2xx, unparseable output) degrades to the
// deterministic offline fallback; callers never see a hard error from
// generation itself, only from quota denial.
type Analyzer struct {
	client llm.Client
	ledger *Ledger
	limits *LimitEvaluator
	cfg    *config.Config
}

// NewAnalyzer creates an analyzer over the shared ledger and evaluator
func NewAnalyzer(client llm.Client, ledger *Ledger, limits *LimitEvaluator, cfg *config.Config) *Analyzer {
	return &Analyzer{client: client, ledger: ledger, limits: limits, cfg: cfg}
}

// QuestionResult is the outcome of a question-generation run
type QuestionResult struct {
	Questions    []models.Question `json:"questions"`
	Cost         float64           `json:"cost"`
	UsedFallback bool              `json:"used_fallback"`
}

// AnalysisResult is the outcome of a document-analysis run
type AnalysisResult struct {
	Analysis     *models.Analysis `json:"analysis"`
	Cost         float64          `json:"cost"`
	UsedFallback bool             `json:"used_fallback"`
}

// wireQuestion is the shape the model is asked to emit
type wireQuestion struct {
	Question  string   `json:"question"`
	Category  string   `json:"category"`
	Priority  int      `json:"priority"`
	Rationale string   `json:"rationale"`
	FollowUps []string `json:"follow_ups"`
}

type wireAnalysis struct {
	Gaps           []string `json:"gaps"`
	Contradictions []string `json:"contradictions"`
	Themes         []string `json:"themes"`
	Timeline       []struct {
		Date  string `json:"date"`
		Event string `json:"event"`
	} `json:"timeline"`
	Exhibits []string `json:"exhibits"`
	Summary  string   `json:"summary"`
}

// GenerateQuestions produces the question set for a session. The second
// return carries the quota decision when generation was denied outright.
func (a *Analyzer) GenerateQuestions(ctx context.Context, session *models.Session) (*QuestionResult, *models.LimitDecision) {
	prompt := a.buildQuestionPrompt(session)
	cost := a.estimateCost(prompt)

	if decision := a.limits.CheckCost(cost); !decision.Allowed {
		return nil, &decision
	}

	raw, err := a.client.Complete(ctx, llm.Request{
		Messages:    prompt,
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		logger.Warnf("question generation call failed, using offline fallback: %v", err)
		return &QuestionResult{
			Questions:    FallbackQuestions(session.Kind, session.Documents),
			Cost:         0,
			UsedFallback: true,
		}, nil
	}

	// The call consumed characters whether or not the output parses
	if err := a.ledger.RecordCost(cost); err != nil {
		logger.Errorf("failed to record generation cost: %v", err)
	}

	var wires []wireQuestion
	strategy, err := parse.Decode(raw, &wires)
	if err != nil || len(wires) == 0 {
		logger.Warnf("could not parse model output, using offline fallback: %v", err)
		return &QuestionResult{
			Questions:    FallbackQuestions(session.Kind, session.Documents),
			Cost:         cost,
			UsedFallback: true,
		}, nil
	}
	logger.Debugf("decoded %d questions via %s strategy", len(wires), strategy)

	questions := make([]models.Question, 0, len(wires))
	for _, w := range wires {
		if strings.TrimSpace(w.Question) == "" {
			continue
		}
		priority := w.Priority
		if priority < 1 || priority > 3 {
			priority = 2
		}
		category := w.Category
		if category == "" {
			category = models.CategoryBackground
		}
		questions = append(questions, models.Question{
			ID:        uuid.NewString(),
			Text:      strings.TrimSpace(w.Question),
			Category:  category,
			Priority:  priority,
			Rationale: w.Rationale,
			FollowUps: w.FollowUps,
		})
	}
	if len(questions) == 0 {
		return &QuestionResult{
			Questions:    FallbackQuestions(session.Kind, session.Documents),
			Cost:         cost,
			UsedFallback: true,
		}, nil
	}

	return &QuestionResult{Questions: questions, Cost: cost}, nil
}

// GenerateAnalysis produces the deposition document analysis
func (a *Analyzer) GenerateAnalysis(ctx context.Context, session *models.Session) (*AnalysisResult, *models.LimitDecision) {
	prompt := a.buildAnalysisPrompt(session)
	cost := a.estimateCost(prompt)

	if decision := a.limits.CheckCost(cost); !decision.Allowed {
		return nil, &decision
	}

	raw, err := a.client.Complete(ctx, llm.Request{
		Messages:    prompt,
		Temperature: 0.4,
		MaxTokens:   1500,
	})
	if err != nil {
		logger.Warnf("analysis call failed, using offline fallback: %v", err)
		return &AnalysisResult{
			Analysis:     FallbackAnalysis(session.Documents),
			Cost:         0,
			UsedFallback: true,
		}, nil
	}

	if err := a.ledger.RecordCost(cost); err != nil {
		logger.Errorf("failed to record analysis cost: %v", err)
	}

	var wire wireAnalysis
	if _, err := parse.Decode(raw, &wire); err != nil {
		logger.Warnf("could not parse analysis output, using offline fallback: %v", err)
		return &AnalysisResult{
			Analysis:     FallbackAnalysis(session.Documents),
			Cost:         cost,
			UsedFallback: true,
		}, nil
	}

	analysis := &models.Analysis{
		Gaps:           wire.Gaps,
		Contradictions: wire.Contradictions,
		Themes:         wire.Themes,
		Exhibits:       wire.Exhibits,
		Summary:        wire.Summary,
		GeneratedAt:    time.Now(),
	}
	for _, t := range wire.Timeline {
		analysis.Timeline = append(analysis.Timeline, models.TimelineItem{Date: t.Date, Event: t.Event})
	}

	return &AnalysisResult{Analysis: analysis, Cost: cost}, nil
}

// estimateCost is the flat billing proxy: characters sent / 1000 * price.
// It is not a token count.
func (a *Analyzer) estimateCost(messages []llm.Message) float64 {
	chars := 0
	for _, m := range messages {
		chars += len(m.Content)
	}
	return float64(chars) / 1000 * a.cfg.PricePer1KChars
}

func (a *Analyzer) buildQuestionPrompt(session *models.Session) []llm.Message {
	kind := "cross-examination practice questions for a witness preparing to testify"
	if session.Kind == models.KindDeposition {
		kind = "deposition questions for examining a deponent"
	}

	system := fmt.Sprintf(
		"You are an experienced litigator drafting %s. "+
			"Respond with a JSON array only. Each element: "+
			`{"question","category","priority","rationale","follow_ups"}. `+
			"priority is 1 (critical) to 3 (optional). No prose outside the JSON.", kind)

	var b strings.Builder
	fmt.Fprintf(&b, "Witness/deponent: %s\nCase: %s\n\nCase documents:\n", session.SubjectName, session.CaseName)
	a.appendDocuments(&b, session.Documents)

	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: b.String()},
	}
}

func (a *Analyzer) buildAnalysisPrompt(session *models.Session) []llm.Message {
	system := "You are an experienced litigator reviewing case documents before a deposition. " +
		"Respond with a JSON object only: " +
		`{"gaps":[],"contradictions":[],"themes":[],"timeline":[{"date","event"}],"exhibits":[],"summary":""}. ` +
		"No prose outside the JSON."

	var b strings.Builder
	fmt.Fprintf(&b, "Deponent: %s\nCase: %s\n\nCase documents:\n", session.SubjectName, session.CaseName)
	a.appendDocuments(&b, session.Documents)

	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: b.String()},
	}
}

// appendDocuments concatenates ready document text, truncated to the
// configured prompt budget
func (a *Analyzer) appendDocuments(b *strings.Builder, docs []models.Document) {
	budget := a.cfg.MaxPromptChars
	for _, d := range docs {
		if d.Status != models.DocumentReady {
			continue
		}
		if budget <= 0 {
			break
		}
		text := d.Text
		if len(text) > budget {
			text = text[:budget]
		}
		fmt.Fprintf(b, "--- %s (%s) ---\n%s\n", d.Name, d.Type, text)
		budget -= len(text)
	}
}
