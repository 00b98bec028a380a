package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdrill/prepdrill/internal/analytics"
	"github.com/prepdrill/prepdrill/internal/domain"
)

func TestSessionSummary(t *testing.T) {
	t.Run("should lead with the overall sentence and close with completion", func(t *testing.T) {
		ss := &domain.InterviewSession{
			Questions: []domain.Question{{Text: "q1"}, {Text: "q2"}},
			Answers: []domain.Answer{
				{Question: "q1", Answer: "a1", ResponseTime: 30},
				{Question: "q2", Answer: "a2", ResponseTime: 50},
			},
			Feedback: []domain.FeedbackRecord{
				{
					OverallScore: 8,
					Scores:       domain.CategoryScores{Content: 6, Clarity: 9, Confidence: 7, Professionalism: 8},
					ResponseTime: 30,
				},
				{
					OverallScore: 7,
					Scores:       domain.CategoryScores{Content: 7, Clarity: 8, Confidence: 6, Professionalism: 9},
					ResponseTime: 50,
				},
			},
		}

		got := analytics.SessionSummary(ss)

		require.Len(t, got, 4)
		assert.Equal(t, "Overall performance: 7.5/10 across 2 answered questions.", got[0])
		assert.Contains(t, got[1], "Content scored 6.5/10.")
		assert.Contains(t, got[2], "Confidence scored 6.5/10.")
		assert.Equal(t, "You completed 100% of the session with an average response time of 40 seconds.", got[3])
	})

	t.Run("a session without feedback should skip the category sentences", func(t *testing.T) {
		ss := &domain.InterviewSession{
			Questions: []domain.Question{{Text: "q1"}, {Text: "q2"}},
		}

		got := analytics.SessionSummary(ss)

		require.Len(t, got, 2)
		assert.Equal(t, "Overall performance: 0.0/10 across 0 answered questions.", got[0])
		assert.Equal(t, "You completed 0% of the session with an average response time of 0 seconds.", got[1])
	})
}
