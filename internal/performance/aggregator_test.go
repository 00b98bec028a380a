package performance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prepdrill/prepdrill/internal/domain"
	"github.com/prepdrill/prepdrill/internal/performance"
)

func TestCompute(t *testing.T) {
	type (
		inputs struct {
			session *domain.InterviewSession
		}

		outputs struct {
			snapshot domain.PerformanceSnapshot
		}
	)

	tests := map[string]struct {
		arrange func() inputs
		assert  func(t *testing.T, out outputs)
	}{
		"a session without questions should produce a zero snapshot": {
			arrange: func() inputs {
				return inputs{session: &domain.InterviewSession{}}
			},

			assert: func(t *testing.T, out outputs) {
				assert.Equal(t, domain.PerformanceSnapshot{}, out.snapshot)
			},
		},

		"an unanswered session should still carry a completion rate": {
			arrange: func() inputs {
				return inputs{session: &domain.InterviewSession{
					Questions: []domain.Question{{Text: "q1"}, {Text: "q2"}, {Text: "q3"}, {Text: "q4"}},
					Answers:   []domain.Answer{{Question: "q1", Answer: "a1"}},
				}}
			},

			assert: func(t *testing.T, out outputs) {
				assert.Equal(t, 25, out.snapshot.CompletionRate)
				assert.Zero(t, out.snapshot.OverallScore)
				assert.Zero(t, out.snapshot.CategoryScores)
			},
		},

		"scores should be averaged and rounded to one decimal": {
			arrange: func() inputs {
				return inputs{session: &domain.InterviewSession{
					Questions: []domain.Question{{Text: "q1"}, {Text: "q2"}},
					Answers:   []domain.Answer{{Question: "q1"}, {Question: "q2"}},
					Feedback: []domain.FeedbackRecord{
						{
							OverallScore: 8,
							Scores:       domain.CategoryScores{Content: 8, Clarity: 9, Confidence: 7, Professionalism: 8},
							ResponseTime: 30,
						},
						{
							OverallScore: 7,
							Scores:       domain.CategoryScores{Content: 7, Clarity: 8, Confidence: 6, Professionalism: 9},
							ResponseTime: 45,
						},
					},
				}}
			},

			assert: func(t *testing.T, out outputs) {
				want := domain.PerformanceSnapshot{
					OverallScore: 7.5,
					CategoryScores: domain.CategoryAverages{
						Content:         7.5,
						Clarity:         8.5,
						Confidence:      6.5,
						Professionalism: 8.5,
					},
					TotalTime:           75,
					AverageResponseTime: 38,
					CompletionRate:      100,
				}
				assert.Equal(t, want, out.snapshot)
			},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			in := tt.arrange()
			tt.assert(t, outputs{snapshot: performance.Compute(in.session)})
		})
	}
}
