package domain

const (
	EventNameAnswerScored     = "answer.scored"
	EventNameSessionCompleted = "session.completed"
)

type EventAnswerScored struct {
	SessionID string
	UserID    string
	Feedback  FeedbackRecord
}

func (EventAnswerScored) Name() string { return EventNameAnswerScored }

type EventSessionCompleted struct {
	Session InterviewSession
}

func (EventSessionCompleted) Name() string { return EventNameSessionCompleted }
