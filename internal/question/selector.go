package question

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/prepdrill/prepdrill/internal/domain"
	"github.com/prepdrill/prepdrill/internal/errors"
	"github.com/prepdrill/prepdrill/internal/telemetry"
)

const ReasonInvalidCount = "INVALID_QUESTION_COUNT"

// minResumeLength is the minimum resume summary length that yields a
// resume-derived question.
const minResumeLength = 100

type Config struct {
	History HistoryStore
	// Generator is an optional external question collaborator. Its output is
	// used only when it returns at least the requested number of questions.
	Generator QuestionGenerator
	// Rand overrides the random source for the fill draw. Tests inject a
	// seeded source.
	Rand *rand.Rand
}

// Selector picks a non-repeating set of questions per user from the static
// bank, with reset-on-exhaustion, optionally merging collaborator output.
type Selector struct {
	history HistoryStore
	gen     QuestionGenerator

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSelector(c Config) *Selector {
	rnd := c.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Selector{
		history: c.History,
		gen:     c.Generator,
		rnd:     rnd,
	}
}

type SelectRequest struct {
	Role          string
	ResumeSummary string
	Count         int
	// UserID enables per-user de-duplication. When absent, the draw may
	// return fewer than Count once the bank is exhausted.
	UserID string
	// TimeLimit overrides the default per-question time limit, in seconds.
	TimeLimit int
}

// Select returns exactly Count questions, best-effort. Selected questions are
// recorded into the user's history as a side effect.
func (s *Selector) Select(ctx context.Context, req SelectRequest) ([]domain.Question, error) {
	if req.Count <= 0 {
		return nil, errors.New(errors.CodeInvalidArgument,
			errors.WithReason(ReasonInvalidCount),
			errors.WithMessagef("question count must be positive, got %d", req.Count),
		)
	}

	if s.gen != nil {
		if qs, ok := s.tryGenerator(ctx, req); ok {
			return qs, nil
		}
	}

	served := make(map[string]bool)
	if req.UserID != "" {
		var err error
		if served, err = s.history.Served(ctx, req.UserID); err != nil {
			return nil, err
		}
	}

	chosen := make(map[string]bool)
	var texts []string

	add := func(q string) {
		if !chosen[q] {
			chosen[q] = true
			texts = append(texts, q)
		}
	}

	// draw takes up to n unserved questions from the pool, in pool order.
	// An exhausted pool clears the user's history and retries once, so
	// repetition only happens after a full cycle.
	draw := func(pool []string, n int) error {
		filtered := filter(pool, served, chosen)
		if len(filtered) == 0 && len(pool) > 0 && req.UserID != "" {
			if err := s.history.Clear(ctx, req.UserID); err != nil {
				return err
			}
			served = make(map[string]bool)
			filtered = filter(pool, served, chosen)
		}
		if len(filtered) > n {
			filtered = filtered[:n]
		}
		for _, q := range filtered {
			add(q)
		}
		return nil
	}

	if err := draw(generalQuestions, 2); err != nil {
		return nil, err
	}

	rolePool := roleBank(req.Role)
	if rolePool == nil {
		rolePool = technicalQuestions
	}
	if err := draw(rolePool, 2); err != nil {
		return nil, err
	}

	if q, ok := resumeQuestion(req.ResumeSummary); ok && !served[q] {
		add(q)
	}

	// Fill remaining slots by random draw from the combined pool.
	combined := append(append([]string{}, generalQuestions...), technicalQuestions...)
	s.fill(&texts, chosen, filter(combined, served, chosen), req.Count)

	if len(texts) < req.Count && req.UserID != "" {
		if err := s.history.Clear(ctx, req.UserID); err != nil {
			return nil, err
		}
		served = make(map[string]bool)
		s.fill(&texts, chosen, filter(combined, served, chosen), req.Count)
	}

	if len(texts) > req.Count {
		texts = texts[:req.Count]
	}

	if req.UserID != "" {
		if err := s.history.Record(ctx, req.UserID, texts); err != nil {
			return nil, err
		}
	}

	qs := make([]domain.Question, 0, len(texts))
	for _, t := range texts {
		qs = append(qs, domain.Question{
			Text:       t,
			TimeLimit:  timeLimit(req.TimeLimit),
			Difficulty: inferDifficulty(t),
			Category:   inferCategory(t),
		})
	}

	return qs, nil
}

// tryGenerator consults the external collaborator. Its output is accepted
// only when it yields at least Count well-formed questions.
func (s *Selector) tryGenerator(ctx context.Context, req SelectRequest) ([]domain.Question, bool) {
	qs, err := s.gen.Generate(ctx, req.Role, req.ResumeSummary, req.Count)
	if err == nil && len(qs) >= req.Count {
		qs = qs[:req.Count]
		texts := make([]string, 0, len(qs))
		for i := range qs {
			if qs[i].TimeLimit == 0 {
				qs[i].TimeLimit = timeLimit(req.TimeLimit)
			}
			if qs[i].Difficulty == "" {
				qs[i].Difficulty = inferDifficulty(qs[i].Text)
			}
			if qs[i].Category == "" {
				qs[i].Category = inferCategory(qs[i].Text)
			}
			texts = append(texts, qs[i].Text)
		}

		if req.UserID != "" {
			if err := s.history.Record(ctx, req.UserID, texts); err != nil {
				slog.WarnContext(ctx, "question: record generated questions failed", "error", err)
			}
		}
		return qs, true
	}

	telemetry.CollaboratorFallbacks.WithLabelValues("question").Inc()
	slog.DebugContext(ctx, "question: collaborator fallback",
		"error", err,
		"returned", len(qs),
		"requested", req.Count,
	)
	return nil, false
}

func (s *Selector) fill(texts *[]string, chosen map[string]bool, pool []string, count int) {
	s.mu.Lock()
	s.rnd.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	s.mu.Unlock()

	for _, q := range pool {
		if len(*texts) >= count {
			return
		}
		if !chosen[q] {
			chosen[q] = true
			*texts = append(*texts, q)
		}
	}
}

func filter(pool []string, served, chosen map[string]bool) []string {
	out := make([]string, 0, len(pool))
	for _, q := range pool {
		if !served[q] && !chosen[q] {
			out = append(out, q)
		}
	}
	return out
}

func resumeQuestion(summary string) (string, bool) {
	if len(summary) < minResumeLength {
		return "", false
	}

	lower := strings.ToLower(summary)
	for _, rp := range resumePrompts {
		for _, t := range rp.triggers {
			if strings.Contains(lower, t) {
				return rp.prompt, true
			}
		}
	}
	return "", false
}

func timeLimit(override int) int {
	if override > 0 {
		return override
	}
	return domain.DefaultTimeLimit
}

func inferDifficulty(text string) domain.Difficulty {
	lower := strings.ToLower(text)
	for _, kw := range []string{"complex", "challenging", "design"} {
		if strings.Contains(lower, kw) {
			return domain.DifficultyHard
		}
	}
	for _, kw := range []string{"experience", "approach", "handle"} {
		if strings.Contains(lower, kw) {
			return domain.DifficultyMedium
		}
	}
	return domain.DifficultyEasy
}

func inferCategory(text string) domain.Category {
	lower := strings.ToLower(text)
	for _, kw := range []string{"technical", "code", "system"} {
		if strings.Contains(lower, kw) {
			return domain.CategoryTechnical
		}
	}
	for _, kw := range []string{"team", "situation", "challenge"} {
		if strings.Contains(lower, kw) {
			return domain.CategoryBehavioral
		}
	}
	return domain.CategoryGeneral
}
