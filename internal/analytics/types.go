package analytics

import (
	"time"

	"github.com/prepdrill/prepdrill/internal/domain"
)

// Timeframe is the analytics window, anchored at now.
type Timeframe string

const (
	TimeframeWeek        Timeframe = "week"
	TimeframeMonth       Timeframe = "month"
	TimeframeThreeMonths Timeframe = "3months"
	TimeframeAll         Timeframe = "all"
)

// Since returns the window start, zero time for an unbounded window, and
// whether the timeframe is known. An empty timeframe means all.
func (t Timeframe) Since(now time.Time) (time.Time, bool) {
	switch t {
	case TimeframeWeek:
		return now.AddDate(0, 0, -7), true
	case TimeframeMonth:
		return now.AddDate(0, 0, -30), true
	case TimeframeThreeMonths:
		return now.AddDate(0, 0, -90), true
	case TimeframeAll, "":
		return time.Time{}, true
	}
	return time.Time{}, false
}

type Analytics struct {
	Overview        Overview         `json:"overview"`
	Performance     Performance      `json:"performance"`
	Trend           Trend            `json:"trend"`
	Skills          SkillBreakdown   `json:"skills"`
	Recommendations []Recommendation `json:"recommendations"`
}

type Overview struct {
	TotalSessions     int         `json:"total_sessions"`
	CompletedSessions int         `json:"completed_sessions"`
	CompletionRate    int         `json:"completion_rate"`
	AverageScore      float64     `json:"average_score"`
	TopRoles          []RoleCount `json:"top_roles"`
}

type RoleCount struct {
	Role     string `json:"role"`
	Sessions int    `json:"sessions"`
}

type Performance struct {
	CategoryAverages domain.CategoryAverages `json:"category_averages"`
	Distribution     []Bucket                `json:"distribution"`
	BestCategories   []CategoryAverage       `json:"best_categories"`
	WorstCategories  []CategoryAverage       `json:"worst_categories"`
	ScoreHistory     []ScorePoint            `json:"score_history"`
}

// Bucket is one band of the score distribution. Labels and thresholds, first
// matching descending threshold wins: excellent >=9, good >=7, average >=5,
// needsImprovement >=3, poor otherwise.
type Bucket struct {
	Label      string `json:"label"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type CategoryAverage struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

type ScorePoint struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

type Trend struct {
	// Direction is improving, declining, or stable.
	Direction string `json:"direction"`
	// Improvement is the mean score of the 5 most recent sessions minus the
	// mean of the 5 oldest, rounded to 1 decimal.
	Improvement float64 `json:"improvement"`
	// Consistency is max(0, 1 - stddev(session means)/5).
	Consistency   float64 `json:"consistency"`
	LongestStreak int     `json:"longest_streak"`
	CurrentStreak int     `json:"current_streak"`
}

type SkillBreakdown struct {
	Skills      []RoleSkill `json:"skills"`
	Strongest   []RoleSkill `json:"strongest"`
	NeedingWork []RoleSkill `json:"needing_work"`
}

type RoleSkill struct {
	Role          string    `json:"role"`
	Sessions      int       `json:"sessions"`
	AverageScore  float64   `json:"average_score"`
	LastPracticed time.Time `json:"last_practiced"`
	// Proficiency tiers: expert >=8, advanced >=7, intermediate >=6,
	// beginner >=4, novice otherwise.
	Proficiency string `json:"proficiency"`
}

type Recommendation struct {
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
	Message  string `json:"message"`
}

const (
	RecommendationImprovement = "improvement"
	RecommendationAlert       = "alert"
	RecommendationPractice    = "practice"
	RecommendationGetStarted  = "get-started"
)
