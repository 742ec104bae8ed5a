package services

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/dmalone/crossprep/internal/models"
)

// Facts are surface-level entities pulled from document text with plain
// regular expressions. They seed the offline question probes when the
// remote model is unavailable.
type Facts struct {
	Names   []string
	Dates   []string
	Amounts []string
}

var (
	nameRegexp   = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
	dateRegexp   = regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b|\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	amountRegexp = regexp.MustCompile(`\$[0-9][0-9,]*(?:\.[0-9]{2})?`)
)

// ExtractFacts runs the entity regexes over text, de-duplicating while
// preserving first-seen order
func ExtractFacts(text string) Facts {
	return Facts{
		Names:   dedupe(nameRegexp.FindAllString(text, 10)),
		Dates:   dedupe(dateRegexp.FindAllString(text, 10)),
		Amounts: dedupe(amountRegexp.FindAllString(text, 10)),
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// testimonyBank has exactly 20 entries: a failed remote call always yields
// a full practice set
var testimonyBank = []struct {
	text     string
	category string
	priority int
}{
	{"Please state your full name for the record.", models.CategoryBackground, 1},
	{"Where do you currently live, and how long have you lived there?", models.CategoryBackground, 2},
	{"What is your educational background?", models.CategoryBackground, 3},
	{"How are you employed, and what are your responsibilities?", models.CategoryBackground, 2},
	{"How do you know the parties in this case?", models.CategoryBackground, 1},
	{"Walk me through the events of the day in question, from the beginning.", models.CategoryTimeline, 1},
	{"When did you first become aware of the dispute in this case?", models.CategoryTimeline, 1},
	{"What happened immediately before the incident?", models.CategoryTimeline, 2},
	{"What happened immediately after the incident?", models.CategoryTimeline, 2},
	{"Are there dates you are unsure about in your account?", models.CategoryTimeline, 3},
	{"Have you discussed your testimony with anyone before today?", models.CategoryCredibility, 1},
	{"Have you ever given a statement about these events before?", models.CategoryCredibility, 1},
	{"Is there anything that might affect your memory of these events?", models.CategoryCredibility, 2},
	{"Were you taking any medication at the time that could affect your recollection?", models.CategoryCredibility, 3},
	{"Do you have any interest in the outcome of this case?", models.CategoryCredibility, 2},
	{"What documents did you review in preparation for today?", models.CategoryFoundation, 1},
	{"Who was present during the events you described?", models.CategoryFoundation, 2},
	{"How far away were you from what you observed?", models.CategoryFoundation, 3},
	{"What damages do you claim resulted from these events?", models.CategoryDamages, 1},
	{"How did you calculate the amounts you are claiming?", models.CategoryDamages, 2},
}

var depositionBank = []struct {
	text     string
	category string
	priority int
}{
	{"Please state and spell your full name.", models.CategoryBackground, 1},
	{"Have you been deposed before? If so, in what matters?", models.CategoryBackground, 2},
	{"What did you do to prepare for this deposition?", models.CategoryFoundation, 1},
	{"What documents have you reviewed relating to this case?", models.CategoryFoundation, 1},
	{"Identify everyone you have spoken with about this lawsuit.", models.CategoryCommunications, 1},
	{"Describe your role and responsibilities during the relevant period.", models.CategoryBackground, 2},
	{"Walk me through the sequence of events at issue, in order.", models.CategoryTimeline, 1},
	{"When did you first learn of the facts giving rise to this claim?", models.CategoryTimeline, 1},
	{"Do any documents exist that you expected to see but have not?", models.CategoryFoundation, 2},
	{"Have you ever made a prior statement inconsistent with your testimony today?", models.CategoryInconsistency, 1},
	{"Is there anything in your earlier account you would change now?", models.CategoryInconsistency, 2},
	{"What communications did you have by email or letter about these events?", models.CategoryCommunications, 2},
	{"Who else has knowledge of the facts you described?", models.CategoryFoundation, 2},
	{"What financial losses do you attribute to the events at issue?", models.CategoryDamages, 1},
	{"How were those figures arrived at, and by whom?", models.CategoryDamages, 2},
	{"Is there anything that would prevent you from testifying fully and accurately today?", models.CategoryCredibility, 1},
}

// FallbackQuestions builds the deterministic offline question set: probes
// derived from extracted facts, padded from the canned bank. The testimony
// set is always exactly 20 questions; the deposition set is at least the
// 16-question bank.
func FallbackQuestions(kind models.SessionKind, docs []models.Document) []models.Question {
	var text string
	var sourceID string
	for _, d := range docs {
		if d.Status == models.DocumentReady {
			text += d.Text + "\n"
			if sourceID == "" {
				sourceID = d.ID
			}
		}
	}
	facts := ExtractFacts(text)

	var probes []models.Question
	addProbe := func(text, category string) {
		probes = append(probes, models.Question{
			ID:          uuid.NewString(),
			Text:        text,
			Category:    category,
			Priority:    1,
			Rationale:   "Drawn from a fact found in the uploaded documents.",
			SourceDocID: sourceID,
		})
	}
	for _, n := range limit(facts.Names, 3) {
		addProbe(fmt.Sprintf("What is your relationship to %s?", n), models.CategoryFoundation)
	}
	for _, d := range limit(facts.Dates, 3) {
		addProbe(fmt.Sprintf("What happened on %s?", d), models.CategoryTimeline)
	}
	for _, a := range limit(facts.Amounts, 2) {
		addProbe(fmt.Sprintf("How was the figure of %s determined?", a), models.CategoryDamages)
	}

	if kind == models.KindDeposition {
		out := make([]models.Question, 0, len(depositionBank)+len(probes))
		for _, b := range depositionBank {
			out = append(out, models.Question{
				ID:       uuid.NewString(),
				Text:     b.text,
				Category: b.category,
				Priority: b.priority,
			})
		}
		return append(out, probes...)
	}

	// Testimony: probes first, canned fill to exactly 20
	out := make([]models.Question, 0, 20)
	out = append(out, probes...)
	if len(out) > 20 {
		out = out[:20]
	}
	for _, b := range testimonyBank {
		if len(out) == 20 {
			break
		}
		out = append(out, models.Question{
			ID:       uuid.NewString(),
			Text:     b.text,
			Category: b.category,
			Priority: b.priority,
		})
	}
	return out
}

// FallbackAnalysis builds the canned deposition analysis from extracted
// facts. It is deliberately generic: it flags what is missing rather than
// inventing substantive findings.
func FallbackAnalysis(docs []models.Document) *models.Analysis {
	var text string
	readyNames := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.Status == models.DocumentReady {
			text += d.Text + "\n"
			readyNames = append(readyNames, d.Name)
		}
	}
	facts := ExtractFacts(text)

	a := &models.Analysis{
		Gaps: []string{
			"No witness list or contact log was found among the uploaded documents.",
			"The documents do not establish a complete timeline of the disputed events.",
		},
		Contradictions: []string{
			"Automated review could not cross-check accounts; compare each witness statement against the transcript manually.",
		},
		Themes:       []string{"document completeness", "timeline reconstruction"},
		Exhibits:     readyNames,
		Summary:      fmt.Sprintf("Offline review of %d document(s). Verify coverage of key dates and amounts before the deposition.", len(readyNames)),
		UsedFallback: true,
		GeneratedAt:  time.Now(),
	}
	for _, d := range limit(facts.Dates, 5) {
		a.Timeline = append(a.Timeline, models.TimelineItem{Date: d, Event: "Referenced in uploaded documents"})
	}
	if len(facts.Amounts) > 0 {
		a.Themes = append(a.Themes, "damages figures")
	}
	return a
}

func limit(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}
