package question

import (
	"context"
	"errors"

	"github.com/prepdrill/prepdrill/internal/domain"
)

// Collaborator boundary errors, mirroring the scoring side: implementations
// distinguish an unreachable collaborator from an unparseable reply.
var (
	ErrUnavailable = errors.New("question collaborator unavailable")
	ErrMalformed   = errors.New("malformed collaborator questions")
)

// QuestionGenerator is an optional external collaborator producing tailored
// questions. It may return fewer than count; the selector only accepts a
// result of at least count questions.
type QuestionGenerator interface {
	Generate(ctx context.Context, role, resumeSummary string, count int) ([]domain.Question, error)
}
