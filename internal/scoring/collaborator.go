package scoring

import (
	"context"
	"errors"

	"github.com/prepdrill/prepdrill/internal/domain"
)

// Collaborator boundary errors. A generator must return one of these (wrapped
// is fine) so the engine can distinguish a dead collaborator from a bad reply;
// either way the rule-based path runs.
var (
	ErrUnavailable = errors.New("feedback collaborator unavailable")
	ErrMalformed   = errors.New("malformed collaborator feedback")
)

// FeedbackGenerator is an optional external collaborator producing a complete
// FeedbackRecord. Implementations validate their output before returning it:
// a record that reaches the engine is used verbatim.
type FeedbackGenerator interface {
	Generate(ctx context.Context, question, answer, role string) (domain.FeedbackRecord, error)
}
