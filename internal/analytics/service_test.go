package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdrill/prepdrill/internal/analytics"
	"github.com/prepdrill/prepdrill/internal/domain"
	"github.com/prepdrill/prepdrill/internal/errors"
	"github.com/prepdrill/prepdrill/internal/store"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestService_UserAnalytics(t *testing.T) {
	t.Run("a user without sessions should get the empty shape", func(t *testing.T) {
		s := makeService(t)

		got, err := s.UserAnalytics(context.Background(), analytics.UserAnalyticsRequest{UserID: "u1"})
		require.NoError(t, err)

		assert.Zero(t, got.Overview.TotalSessions)
		assert.Zero(t, got.Trend.Consistency)
		assert.Len(t, got.Performance.Distribution, 5, "all bands should be present even when empty")
		require.Len(t, got.Recommendations, 1)
		assert.Equal(t, analytics.RecommendationGetStarted, got.Recommendations[0].Type)
	})

	t.Run("an unknown timeframe should be rejected", func(t *testing.T) {
		s := makeService(t)

		_, err := s.UserAnalytics(context.Background(), analytics.UserAnalyticsRequest{
			UserID:    "u1",
			Timeframe: "year",
		})
		require.Error(t, err)
		assert.True(t, errors.HasReason(err, analytics.ReasonInvalidTimeframe))
	})

	t.Run("the week timeframe should exclude older sessions", func(t *testing.T) {
		s := makeService(t,
			completedSession("s1", "software engineer", daysAgo(10), 8),
			completedSession("s2", "software engineer", daysAgo(2), 9),
		)

		got, err := s.UserAnalytics(context.Background(), analytics.UserAnalyticsRequest{
			UserID:    "u1",
			Timeframe: analytics.TimeframeWeek,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, got.Overview.TotalSessions)

		got, err = s.UserAnalytics(context.Background(), analytics.UserAnalyticsRequest{
			UserID:    "u1",
			Timeframe: analytics.TimeframeAll,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, got.Overview.TotalSessions)
	})

	t.Run("overview should average every feedback record", func(t *testing.T) {
		s := makeService(t,
			completedSession("s1", "software engineer", daysAgo(3), 8, 7, 9),
			abandonedSession("s2", "product manager", daysAgo(2)),
		)

		got, err := s.UserAnalytics(context.Background(), analytics.UserAnalyticsRequest{UserID: "u1"})
		require.NoError(t, err)

		assert.Equal(t, 2, got.Overview.TotalSessions)
		assert.Equal(t, 1, got.Overview.CompletedSessions)
		assert.Equal(t, 50, got.Overview.CompletionRate)
		assert.Equal(t, 8.0, got.Overview.AverageScore)
		require.Len(t, got.Overview.TopRoles, 2)
	})

	t.Run("the distribution should band every score with percentages", func(t *testing.T) {
		s := makeService(t,
			completedSession("s1", "software engineer", daysAgo(3), 9, 7, 5),
		)

		got, err := s.UserAnalytics(context.Background(), analytics.UserAnalyticsRequest{UserID: "u1"})
		require.NoError(t, err)

		want := []analytics.Bucket{
			{Label: "excellent", Count: 1, Percentage: 33},
			{Label: "good", Count: 1, Percentage: 33},
			{Label: "average", Count: 1, Percentage: 33},
			{Label: "needsImprovement", Count: 0, Percentage: 0},
			{Label: "poor", Count: 0, Percentage: 0},
		}
		assert.Equal(t, want, got.Performance.Distribution)
	})

	t.Run("alternating scores around the overall mean should stay stable", func(t *testing.T) {
		scores := []int{8, 9, 8, 9, 8, 9}
		var sessions []*domain.InterviewSession
		for i, sc := range scores {
			sessions = append(sessions,
				completedSession(sessionID(i), "software engineer", daysAgo(len(scores)-i), sc))
		}

		s := makeService(t, sessions...)

		got, err := s.UserAnalytics(context.Background(), analytics.UserAnalyticsRequest{UserID: "u1"})
		require.NoError(t, err)

		assert.Equal(t, "stable", got.Trend.Direction)
		assert.Equal(t, 0.2, got.Trend.Improvement)
		assert.Equal(t, 1, got.Trend.LongestStreak)
		assert.Equal(t, 1, got.Trend.CurrentStreak)
	})

	t.Run("identical session scores should give perfect consistency", func(t *testing.T) {
		s := makeService(t,
			completedSession("s1", "software engineer", daysAgo(3), 8),
			completedSession("s2", "software engineer", daysAgo(2), 8),
			completedSession("s3", "software engineer", daysAgo(1), 8),
		)

		got, err := s.UserAnalytics(context.Background(), analytics.UserAnalyticsRequest{UserID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, 1.0, got.Trend.Consistency)
	})

	t.Run("a big score drop should trend declining and raise an alert", func(t *testing.T) {
		scores := []int{9, 9, 9, 9, 9, 6, 6, 6, 6, 6}
		var sessions []*domain.InterviewSession
		for i, sc := range scores {
			sessions = append(sessions,
				completedSession(sessionID(i), "software engineer", daysAgo(len(scores)-i), sc))
		}

		s := makeService(t, sessions...)

		got, err := s.UserAnalytics(context.Background(), analytics.UserAnalyticsRequest{UserID: "u1"})
		require.NoError(t, err)

		assert.Equal(t, "declining", got.Trend.Direction)
		assert.Equal(t, -3.0, got.Trend.Improvement)

		var alerts int
		for _, r := range got.Recommendations {
			if r.Type == analytics.RecommendationAlert {
				alerts++
			}
		}
		assert.Equal(t, 1, alerts)
	})

	t.Run("skills should tier roles by their average score", func(t *testing.T) {
		s := makeService(t,
			completedSession("s1", "software engineer", daysAgo(4), 8),
			completedSession("s2", "software engineer", daysAgo(3), 8),
			completedSession("s3", "product manager", daysAgo(2), 5),
		)

		got, err := s.UserAnalytics(context.Background(), analytics.UserAnalyticsRequest{UserID: "u1"})
		require.NoError(t, err)

		require.Len(t, got.Skills.Skills, 2)
		assert.Equal(t, "software engineer", got.Skills.Skills[0].Role)
		assert.Equal(t, 2, got.Skills.Skills[0].Sessions)
		assert.Equal(t, "expert", got.Skills.Skills[0].Proficiency)
		assert.Equal(t, "beginner", got.Skills.Skills[1].Proficiency)

		require.Len(t, got.Skills.NeedingWork, 1)
		assert.Equal(t, "product manager", got.Skills.NeedingWork[0].Role)
	})

	t.Run("a week of idleness should recommend practice", func(t *testing.T) {
		s := makeService(t,
			completedSession("s1", "software engineer", daysAgo(9), 8),
		)

		got, err := s.UserAnalytics(context.Background(), analytics.UserAnalyticsRequest{UserID: "u1"})
		require.NoError(t, err)

		var practice int
		for _, r := range got.Recommendations {
			if r.Type == analytics.RecommendationPractice {
				practice++
			}
		}
		assert.Equal(t, 1, practice)
	})

	t.Run("weak categories should produce targeted improvement advice", func(t *testing.T) {
		ss := completedSession("s1", "software engineer", daysAgo(2), 5)
		ss.Feedback[0].Scores = domain.CategoryScores{Content: 4, Clarity: 8, Confidence: 7, Professionalism: 8}

		s := makeService(t, ss)

		got, err := s.UserAnalytics(context.Background(), analytics.UserAnalyticsRequest{UserID: "u1"})
		require.NoError(t, err)

		var categories []string
		for _, r := range got.Recommendations {
			if r.Type == analytics.RecommendationImprovement && r.Category != "" {
				categories = append(categories, r.Category)
			}
		}
		assert.Equal(t, []string{"content"}, categories)
	})

	t.Run("score history should keep the last 10 completed sessions in order", func(t *testing.T) {
		var sessions []*domain.InterviewSession
		for i := 0; i < 12; i++ {
			sessions = append(sessions,
				completedSession(sessionID(i), "software engineer", daysAgo(20-i), 7))
		}
		sessions = append(sessions, abandonedSession("sx", "software engineer", daysAgo(1)))

		s := makeService(t, sessions...)

		got, err := s.UserAnalytics(context.Background(), analytics.UserAnalyticsRequest{UserID: "u1"})
		require.NoError(t, err)

		require.Len(t, got.Performance.ScoreHistory, 10)
		for i := 1; i < len(got.Performance.ScoreHistory); i++ {
			assert.False(t, got.Performance.ScoreHistory[i].Date.Before(got.Performance.ScoreHistory[i-1].Date))
		}
	})
}

// completedSession builds a completed one-question-per-score session. Each
// score becomes one feedback record with that overall score in every category.
func completedSession(id, role string, startedAt time.Time, scores ...int) *domain.InterviewSession {
	ss := &domain.InterviewSession{
		SessionID:    id,
		UserID:       "u1",
		Role:         role,
		Status:       domain.StatusCompleted,
		StartedAt:    startedAt,
		LastActivity: startedAt,
	}

	completedAt := startedAt.Add(10 * time.Minute)
	ss.CompletedAt = &completedAt

	for i, sc := range scores {
		q := domain.Question{Text: sessionID(i) + " question"}
		ss.Questions = append(ss.Questions, q)
		ss.Answers = append(ss.Answers, domain.Answer{Question: q.Text, Answer: "answer", ResponseTime: 30})
		ss.Feedback = append(ss.Feedback, domain.FeedbackRecord{
			QuestionIndex: i,
			OverallScore:  sc,
			Scores: domain.CategoryScores{
				Content:         sc,
				Clarity:         sc,
				Confidence:      sc,
				Professionalism: sc,
			},
			ResponseTime: 30,
		})
	}

	return ss
}

func abandonedSession(id, role string, startedAt time.Time) *domain.InterviewSession {
	return &domain.InterviewSession{
		SessionID:    id,
		UserID:       "u1",
		Role:         role,
		Status:       domain.StatusAbandoned,
		Questions:    []domain.Question{{Text: "q"}},
		StartedAt:    startedAt,
		LastActivity: startedAt,
	}
}

func makeService(t *testing.T, sessions ...*domain.InterviewSession) *analytics.Service {
	t.Helper()

	db := store.NewMemory()
	for _, ss := range sessions {
		require.NoError(t, db.UpsertSession(context.Background(), ss))
	}

	return analytics.NewService(analytics.Config{
		Store: db,
		Now:   func() time.Time { return testNow },
	})
}

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func sessionID(i int) string {
	return string(rune('a' + i))
}
