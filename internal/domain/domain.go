package domain

import (
	"time"
)

// Status is the lifecycle state of an interview session.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Category of a question.
type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryTechnical  Category = "technical"
	CategoryBehavioral Category = "behavioral"
)

// DefaultTimeLimit is the per-question time limit in seconds unless overridden
// by session settings.
const DefaultTimeLimit = 120

// SessionTTL is how long an active session may stay idle before it is
// considered expired. Expiry is advisory: it is computed, never stored.
const SessionTTL = time.Hour

// Question is a single interview question. Immutable once attached to a session.
type Question struct {
	Text       string     `json:"text"`
	TimeLimit  int        `json:"time_limit"`
	Difficulty Difficulty `json:"difficulty"`
	Category   Category   `json:"category"`
}

// Answer is one submitted answer. Answers are append-only and answers[i]
// always corresponds to questions[i].
type Answer struct {
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	ResponseTime int       `json:"response_time"`
	Timestamp    time.Time `json:"timestamp"`
	IsVoice      bool      `json:"is_voice"`
	AudioRef     string    `json:"audio_ref,omitempty"`
}

// CategoryScores holds the four per-category scores on the 1-10 display scale.
type CategoryScores struct {
	Content         int `json:"content"`
	Clarity         int `json:"clarity"`
	Confidence      int `json:"confidence"`
	Professionalism int `json:"professionalism"`
}

// FeedbackRecord is the scored evaluation of a single answer. One record is
// created per answered question, at the same index as the answer.
type FeedbackRecord struct {
	QuestionIndex int            `json:"question_index"`
	Scores        CategoryScores `json:"scores"`
	OverallScore  int            `json:"overall_score"`
	Feedback      string         `json:"feedback"`
	Suggestions   []string       `json:"suggestions"`
	ResponseTime  int            `json:"response_time"`
}

// CategoryAverages holds per-category mean scores rounded to 1 decimal.
type CategoryAverages struct {
	Content         float64 `json:"content"`
	Clarity         float64 `json:"clarity"`
	Confidence      float64 `json:"confidence"`
	Professionalism float64 `json:"professionalism"`
}

// PerformanceSnapshot is the derived roll-up of a session's feedback records.
// It is recomputed on completion, never edited directly.
type PerformanceSnapshot struct {
	OverallScore        float64          `json:"overall_score"`
	CategoryScores      CategoryAverages `json:"category_scores"`
	TotalTime           int              `json:"total_time"`
	AverageResponseTime int              `json:"average_response_time"`
	CompletionRate      int              `json:"completion_rate"`
}

// SessionSettings are caller-provided knobs fixed at session creation.
type SessionSettings struct {
	TimeLimit     int        `json:"time_limit"`
	Difficulty    Difficulty `json:"difficulty"`
	QuestionCount int        `json:"question_count"`
	EnableVoice   bool       `json:"enable_voice"`
}

// InterviewSession is the aggregate root for one interview attempt: a fixed
// question list, growing answer/feedback lists, and one status.
type InterviewSession struct {
	SessionID    string              `json:"session_id"`
	UserID       string              `json:"user_id"`
	Role         string              `json:"role"`
	Status       Status              `json:"status"`
	Questions    []Question          `json:"questions"`
	Answers      []Answer            `json:"answers"`
	Feedback     []FeedbackRecord    `json:"feedback"`
	Settings     SessionSettings     `json:"settings"`
	Performance  PerformanceSnapshot `json:"performance"`
	StartedAt    time.Time           `json:"started_at"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
	LastActivity time.Time           `json:"last_activity"`
}

// CurrentQuestionIndex is the index of the next unanswered question.
func (s *InterviewSession) CurrentQuestionIndex() int {
	return len(s.Answers)
}

// IsExpired reports whether the session is active but idle beyond SessionTTL.
func (s *InterviewSession) IsExpired(now time.Time) bool {
	return s.Status == StatusActive && now.Sub(s.LastActivity) > SessionTTL
}

// HasAnswer reports whether an identical (question, answer) pair was already
// submitted to this session.
func (s *InterviewSession) HasAnswer(question, answer string) bool {
	for _, a := range s.Answers {
		if a.Question == question && a.Answer == answer {
			return true
		}
	}
	return false
}
