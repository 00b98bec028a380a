package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prepdrill/prepdrill/internal/domain"
	"github.com/prepdrill/prepdrill/internal/errors"
	"github.com/prepdrill/prepdrill/internal/store"
)

const ReasonInvalidTimeframe = "INVALID_TIMEFRAME"

const (
	trendWindow    = 5
	historyLength  = 10
	idleDays       = 7
	maxTopRoles    = 3
	maxEdgeEntries = 2
)

type Config struct {
	Store store.Store
	Now   func() time.Time
}

// Service computes cross-session statistics for a user from many completed
// sessions.
type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(c Config) *Service {
	s := &Service{store: c.Store, now: c.Now}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type UserAnalyticsRequest struct {
	UserID    string
	Timeframe Timeframe
}

// UserAnalytics aggregates all of the user's sessions inside the timeframe.
func (s *Service) UserAnalytics(ctx context.Context, req UserAnalyticsRequest) (*Analytics, error) {
	now := s.now()

	since, ok := req.Timeframe.Since(now)
	if !ok {
		return nil, errors.New(errors.CodeInvalidArgument,
			errors.WithReason(ReasonInvalidTimeframe),
			errors.WithMessagef("unknown timeframe %q", req.Timeframe),
		)
	}

	sessions, err := s.store.ListSessionsByUser(ctx, req.UserID, since)
	if err != nil {
		return nil, err
	}

	return compute(sessions, now), nil
}

// compute builds the full analytics from sessions ordered by start time
// ascending.
func compute(sessions []domain.InterviewSession, now time.Time) *Analytics {
	means := sessionMeans(sessions)

	return &Analytics{
		Overview:        overview(sessions),
		Performance:     performanceStats(sessions),
		Trend:           trend(means),
		Skills:          skills(sessions),
		Recommendations: recommendations(sessions, means, now),
	}
}

func overview(sessions []domain.InterviewSession) Overview {
	o := Overview{TotalSessions: len(sessions)}

	var sum float64
	var n int
	byRole := make(map[string]int)
	for _, ss := range sessions {
		if ss.Status == domain.StatusCompleted {
			o.CompletedSessions++
		}
		byRole[ss.Role]++
		for _, fb := range ss.Feedback {
			sum += float64(fb.OverallScore)
			n++
		}
	}

	if len(sessions) > 0 {
		o.CompletionRate = int(math.Round(100 * float64(o.CompletedSessions) / float64(len(sessions))))
	}
	if n > 0 {
		o.AverageScore = round1(sum / float64(n))
	}

	for role, count := range byRole {
		o.TopRoles = append(o.TopRoles, RoleCount{Role: role, Sessions: count})
	}
	sort.Slice(o.TopRoles, func(i, j int) bool {
		if o.TopRoles[i].Sessions != o.TopRoles[j].Sessions {
			return o.TopRoles[i].Sessions > o.TopRoles[j].Sessions
		}
		return o.TopRoles[i].Role < o.TopRoles[j].Role
	})
	if len(o.TopRoles) > maxTopRoles {
		o.TopRoles = o.TopRoles[:maxTopRoles]
	}

	return o
}

var distributionBands = []struct {
	label     string
	threshold float64
}{
	{"excellent", 9},
	{"good", 7},
	{"average", 5},
	{"needsImprovement", 3},
	{"poor", math.Inf(-1)},
}

func performanceStats(sessions []domain.InterviewSession) Performance {
	var p Performance

	var content, clarity, confidence, professionalism float64
	counts := make(map[string]int)
	total := 0
	for _, ss := range sessions {
		for _, fb := range ss.Feedback {
			content += float64(fb.Scores.Content)
			clarity += float64(fb.Scores.Clarity)
			confidence += float64(fb.Scores.Confidence)
			professionalism += float64(fb.Scores.Professionalism)

			for _, band := range distributionBands {
				if float64(fb.OverallScore) >= band.threshold {
					counts[band.label]++
					break
				}
			}
			total++
		}
	}

	if total > 0 {
		n := float64(total)
		p.CategoryAverages = domain.CategoryAverages{
			Content:         round1(content / n),
			Clarity:         round1(clarity / n),
			Confidence:      round1(confidence / n),
			Professionalism: round1(professionalism / n),
		}
	}

	p.Distribution = make([]Bucket, 0, len(distributionBands))
	for _, band := range distributionBands {
		b := Bucket{Label: band.label, Count: counts[band.label]}
		if total > 0 {
			b.Percentage = int(math.Round(100 * float64(b.Count) / float64(total)))
		}
		p.Distribution = append(p.Distribution, b)
	}

	cats := []CategoryAverage{
		{"content", p.CategoryAverages.Content},
		{"clarity", p.CategoryAverages.Clarity},
		{"confidence", p.CategoryAverages.Confidence},
		{"professionalism", p.CategoryAverages.Professionalism},
	}
	if total > 0 {
		best := make([]CategoryAverage, 0, len(cats))
		worst := make([]CategoryAverage, 0, len(cats))
		for _, c := range cats {
			if c.Score >= 7 {
				best = append(best, c)
			} else {
				worst = append(worst, c)
			}
		}
		sort.Slice(best, func(i, j int) bool { return best[i].Score > best[j].Score })
		sort.Slice(worst, func(i, j int) bool { return worst[i].Score < worst[j].Score })
		if len(best) > maxEdgeEntries {
			best = best[:maxEdgeEntries]
		}
		if len(worst) > maxEdgeEntries {
			worst = worst[:maxEdgeEntries]
		}
		p.BestCategories = best
		p.WorstCategories = worst
	}

	// Score history: last 10 completed sessions, chronological.
	for _, ss := range sessions {
		if ss.Status != domain.StatusCompleted || len(ss.Feedback) == 0 {
			continue
		}
		point := ScorePoint{Score: meanScore(ss.Feedback)}
		if ss.CompletedAt != nil {
			point.Date = *ss.CompletedAt
		}
		p.ScoreHistory = append(p.ScoreHistory, point)
	}
	if len(p.ScoreHistory) > historyLength {
		p.ScoreHistory = p.ScoreHistory[len(p.ScoreHistory)-historyLength:]
	}

	return p
}

// trend compares the 5 most recent session means against the 5 oldest, and
// derives consistency and streaks. Means are chronological.
func trend(means []float64) Trend {
	t := Trend{Direction: "stable", Consistency: 1}

	if len(means) == 0 {
		t.Consistency = 0
		return t
	}
	if len(means) < 2 {
		return t
	}

	recent := means[max(0, len(means)-trendWindow):]
	older := means[:min(trendWindow, len(means))]

	t.Improvement = round1(mean(recent) - mean(older))
	switch {
	case t.Improvement > 0.5:
		t.Direction = "improving"
	case t.Improvement < -0.5:
		t.Direction = "declining"
	}

	t.Consistency = round2(math.Max(0, 1-stddev(means)/5))

	overall := mean(means)
	run := 0
	for _, m := range means {
		if m >= overall {
			run++
			if run > t.LongestStreak {
				t.LongestStreak = run
			}
		} else {
			run = 0
		}
	}
	for i := len(means) - 1; i >= 0 && means[i] >= overall; i-- {
		t.CurrentStreak++
	}

	return t
}

var proficiencyTiers = []struct {
	label     string
	threshold float64
}{
	{"expert", 8},
	{"advanced", 7},
	{"intermediate", 6},
	{"beginner", 4},
	{"novice", math.Inf(-1)},
}

func skills(sessions []domain.InterviewSession) SkillBreakdown {
	type roleAgg struct {
		sessions  int
		scoreSum  float64
		scored    int
		practiced time.Time
	}

	byRole := make(map[string]*roleAgg)
	for _, ss := range sessions {
		agg := byRole[ss.Role]
		if agg == nil {
			agg = &roleAgg{}
			byRole[ss.Role] = agg
		}
		agg.sessions++
		if len(ss.Feedback) > 0 {
			agg.scoreSum += meanScore(ss.Feedback)
			agg.scored++
		}
		if ss.StartedAt.After(agg.practiced) {
			agg.practiced = ss.StartedAt
		}
	}

	var b SkillBreakdown
	for role, agg := range byRole {
		skill := RoleSkill{
			Role:          role,
			Sessions:      agg.sessions,
			LastPracticed: agg.practiced,
		}
		if agg.scored > 0 {
			skill.AverageScore = round1(agg.scoreSum / float64(agg.scored))
		}
		for _, tier := range proficiencyTiers {
			if skill.AverageScore >= tier.threshold {
				skill.Proficiency = tier.label
				break
			}
		}
		b.Skills = append(b.Skills, skill)
	}

	sort.Slice(b.Skills, func(i, j int) bool {
		if b.Skills[i].AverageScore != b.Skills[j].AverageScore {
			return b.Skills[i].AverageScore > b.Skills[j].AverageScore
		}
		return b.Skills[i].Role < b.Skills[j].Role
	})

	for i, skill := range b.Skills {
		if i < maxTopRoles {
			b.Strongest = append(b.Strongest, skill)
		}
		if skill.AverageScore < 7 && len(b.NeedingWork) < maxTopRoles {
			b.NeedingWork = append(b.NeedingWork, skill)
		}
	}
	// Worst first for the needing-work list.
	sort.Slice(b.NeedingWork, func(i, j int) bool {
		return b.NeedingWork[i].AverageScore < b.NeedingWork[j].AverageScore
	})

	return b
}

var categoryAdvice = map[string]string{
	"content":         "Practice structuring answers with concrete examples and outcomes.",
	"clarity":         "Record yourself answering and listen for filler words and rambling.",
	"confidence":      "Rehearse your core stories until you can tell them without hedging.",
	"professionalism": "Review your phrasing and keep the tone consistently professional.",
}

func recommendations(sessions []domain.InterviewSession, means []float64, now time.Time) []Recommendation {
	if len(sessions) == 0 {
		return []Recommendation{{
			Type:    RecommendationGetStarted,
			Message: "Start your first practice interview to begin tracking your progress.",
		}}
	}

	var recs []Recommendation

	p := performanceStats(sessions)
	for _, c := range []CategoryAverage{
		{"content", p.CategoryAverages.Content},
		{"clarity", p.CategoryAverages.Clarity},
		{"confidence", p.CategoryAverages.Confidence},
		{"professionalism", p.CategoryAverages.Professionalism},
	} {
		if c.Score > 0 && c.Score < 6 {
			recs = append(recs, Recommendation{
				Type:     RecommendationImprovement,
				Category: c.Category,
				Message:  fmt.Sprintf("Your %s scores average %.1f/10. %s", c.Category, c.Score, categoryAdvice[c.Category]),
			})
		}
	}

	t := trend(means)
	if t.Direction == "declining" {
		recs = append(recs, Recommendation{
			Type:    RecommendationAlert,
			Message: "Your recent scores are trending down. Slow down and revisit the suggestions from your last few sessions.",
		})
	}
	if t.Consistency < 0.5 {
		recs = append(recs, Recommendation{
			Type:    RecommendationImprovement,
			Message: "Your performance varies widely between sessions. Shorter, more frequent practice helps stabilize results.",
		})
	}

	last := sessions[len(sessions)-1].StartedAt
	if now.Sub(last) > idleDays*24*time.Hour {
		recs = append(recs, Recommendation{
			Type:    RecommendationPractice,
			Message: "It has been over a week since your last session. Regular practice keeps your skills sharp.",
		})
	}

	return recs
}

// sessionMeans returns the per-session mean overall score for sessions that
// have at least one feedback record, in chronological order.
func sessionMeans(sessions []domain.InterviewSession) []float64 {
	var means []float64
	for _, ss := range sessions {
		if len(ss.Feedback) > 0 {
			means = append(means, meanScore(ss.Feedback))
		}
	}
	return means
}

func meanScore(feedback []domain.FeedbackRecord) float64 {
	var sum float64
	for _, fb := range feedback {
		sum += float64(fb.OverallScore)
	}
	return round1(sum / float64(len(feedback)))
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func stddev(vs []float64) float64 {
	m := mean(vs)
	var sum float64
	for _, v := range vs {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(vs)))
}

func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
