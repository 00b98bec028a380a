package scoring

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/prepdrill/prepdrill/internal/domain"
	"github.com/prepdrill/prepdrill/internal/telemetry"
)

// Scoring term lists. Matching is case-insensitive substring counting over the
// whole answer, so multi-word terms like "not sure" and "you know" count too.
var (
	fillerTerms     = []string{"um", "uh", "like", "you know", "basically", "actually"}
	confidenceTerms = []string{"confident", "sure", "definitely", "absolutely", "certainly"}
	hedgingTerms    = []string{"maybe", "perhaps", "might", "possibly", "not sure", "i think"}
	professionTerms = []string{"experience", "skills", "expertise", "professional", "team", "project"}
	casualTerms     = []string{"yeah", "gonna", "wanna", "kinda", "sorta"}
)

// Overall score weights over the raw (0-100) category scores. The overall
// score is rescaled from this blend directly, independent of the per-category
// display rescaling, so it can diverge from the mean of the displayed values.
const (
	weightContent         = 0.4
	weightClarity         = 0.25
	weightConfidence      = 0.2
	weightProfessionalism = 0.15
)

type Config struct {
	// Generator is an optional external feedback collaborator. When it
	// returns a valid record, that record is used verbatim; any failure
	// falls back to the rule-based scoring silently.
	Generator FeedbackGenerator
}

// Engine computes a FeedbackRecord from a question/answer/role triple. It
// never fails: empty input degrades to a fixed minimal record.
type Engine struct {
	gen FeedbackGenerator
}

func NewEngine(c Config) *Engine {
	return &Engine{gen: c.Generator}
}

// Score evaluates one answer. Category scores are computed on an internal
// 0-100 scale, clamped, then rescaled to the 1-10 display scale via
// round(raw/100*9 + 1).
func (e *Engine) Score(ctx context.Context, question, answer, role string) domain.FeedbackRecord {
	if strings.TrimSpace(answer) == "" {
		return noAnswerRecord()
	}

	if e.gen != nil {
		rec, err := e.gen.Generate(ctx, question, answer, role)
		if err == nil {
			return rec
		}

		telemetry.CollaboratorFallbacks.WithLabelValues("feedback").Inc()
		slog.DebugContext(ctx, "scoring: collaborator fallback", "error", err)
	}

	return e.ruleBased(question, answer, role)
}

func (e *Engine) ruleBased(question, answer, role string) domain.FeedbackRecord {
	raw := rawScores{
		content:         contentScore(question, answer),
		clarity:         clarityScore(answer),
		confidence:      confidenceScore(answer),
		professionalism: professionalismScore(answer),
	}

	weighted := weightContent*float64(raw.content) +
		weightClarity*float64(raw.clarity) +
		weightConfidence*float64(raw.confidence) +
		weightProfessionalism*float64(raw.professionalism)

	return domain.FeedbackRecord{
		Scores: domain.CategoryScores{
			Content:         display(raw.content),
			Clarity:         display(raw.clarity),
			Confidence:      display(raw.confidence),
			Professionalism: display(raw.professionalism),
		},
		OverallScore: int(math.Round(weighted/100*9 + 1)),
		Feedback:     feedbackText(weighted, raw),
		Suggestions:  suggestions(raw, role),
	}
}

type rawScores struct {
	content         int
	clarity         int
	confidence      int
	professionalism int
}

// noAnswerFloor is the fixed score for empty or whitespace-only answers.
const noAnswerFloor = 3

func noAnswerRecord() domain.FeedbackRecord {
	return domain.FeedbackRecord{
		Scores: domain.CategoryScores{
			Content:         noAnswerFloor,
			Clarity:         noAnswerFloor,
			Confidence:      noAnswerFloor,
			Professionalism: noAnswerFloor,
		},
		OverallScore: noAnswerFloor,
		Feedback:     "It looks like you didn't provide an answer. Try to respond with a complete thought, even a brief one.",
		Suggestions: []string{
			"Take a moment to gather your thoughts, then answer the question directly.",
			"If a question is unclear, restate it in your own words before answering.",
		},
	}
}

func contentScore(question, answer string) int {
	score := 50

	wc := len(strings.Fields(answer))
	switch {
	case wc >= 50 && wc <= 200:
		score += 30
	case wc >= 20 && wc < 50:
		score += 20
	case wc < 20:
		score += 10
	default: // over 200 words
		score += 15
	}

	// Up to 20 more for keyword overlap with the question: 5 points per
	// shared content word longer than 3 characters, at most 4 matches.
	answerWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(answer)) {
		answerWords[trimWord(w)] = true
	}

	matches := 0
	seen := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(question)) {
		w = trimWord(w)
		if len(w) <= 3 || seen[w] {
			continue
		}
		seen[w] = true
		if answerWords[w] {
			matches++
		}
	}
	if matches > 4 {
		matches = 4
	}
	score += matches * 5

	return clamp(score)
}

func clarityScore(answer string) int {
	score := 70

	if avg := averageSentenceLength(answer); avg >= 50 && avg <= 150 {
		score += 20
	} else {
		score += 10
	}

	penalty := countTerms(answer, fillerTerms) * 5
	if penalty > 30 {
		penalty = 30
	}
	score -= penalty

	return clamp(score)
}

func confidenceScore(answer string) int {
	score := 70

	bonus := countTerms(answer, confidenceTerms) * 10
	if bonus > 20 {
		bonus = 20
	}

	penalty := countTerms(answer, hedgingTerms) * 8
	if penalty > 25 {
		penalty = 25
	}

	return clamp(score + bonus - penalty)
}

func professionalismScore(answer string) int {
	score := 80

	bonus := countTerms(answer, professionTerms) * 5
	if bonus > 15 {
		bonus = 15
	}

	penalty := countTerms(answer, casualTerms) * 10
	if penalty > 25 {
		penalty = 25
	}

	return clamp(score + bonus - penalty)
}

// averageSentenceLength is the mean character length of sentences, split on
// terminal punctuation.
func averageSentenceLength(text string) int {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	total, n := 0, 0
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		total += len(p)
		n++
	}
	if n == 0 {
		return 0
	}
	return total / n
}

func countTerms(text string, terms []string) int {
	text = strings.ToLower(text)
	n := 0
	for _, t := range terms {
		n += strings.Count(text, t)
	}
	return n
}

func trimWord(w string) string {
	return strings.Trim(w, ".,!?;:\"'()")
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// display rescales a raw 0-100 score to the 1-10 display scale.
func display(raw int) int {
	return int(math.Round(float64(raw)/100*9 + 1))
}
