package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prepdrill/prepdrill/internal/domain"
	"github.com/prepdrill/prepdrill/internal/errors"
	"github.com/prepdrill/prepdrill/internal/event"
	"github.com/prepdrill/prepdrill/internal/performance"
	"github.com/prepdrill/prepdrill/internal/question"
	"github.com/prepdrill/prepdrill/internal/scoring"
	"github.com/prepdrill/prepdrill/internal/store"
	"github.com/prepdrill/prepdrill/internal/telemetry"
)

// Machine-checkable rejection reasons.
const (
	ReasonMissingRole          = "MISSING_ROLE"
	ReasonSessionNotActive     = "SESSION_NOT_ACTIVE"
	ReasonSessionExpired       = "SESSION_EXPIRED"
	ReasonSessionCompleted     = "SESSION_COMPLETED"
	ReasonAllAnswered          = "ALL_QUESTIONS_ANSWERED"
	ReasonDuplicateAnswer      = "DUPLICATE_ANSWER"
	ReasonOutOfQuestions       = "OUT_OF_QUESTIONS"
	ReasonVoiceProcessingBusy  = "VOICE_PROCESSING_BUSY"
	ReasonVoiceDisabled        = "VOICE_DISABLED"
	ReasonTranscriptionFailed  = "TRANSCRIPTION_FAILED"
	ReasonTranscriptionTimeout = "TRANSCRIPTION_TIMEOUT"
)

const (
	defaultQuestionCount    = 5
	defaultTranscribeBudget = 90 * time.Second
)

// Transcriber converts recorded audio into text plus a short heuristic
// feedback line. There is no text fallback: a transcription failure is
// surfaced to the caller.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, question string) (transcript, feedback string, err error)
}

type Config struct {
	Store       store.Store
	Selector    *question.Selector
	Scorer      *scoring.Engine
	Transcriber Transcriber
	Guard       VoiceGuard
	EventBus    *event.Bus

	// TranscribeBudget bounds one transcription run. Zero means the 90s
	// default.
	TranscribeBudget time.Duration

	// Now overrides the clock in tests.
	Now func() time.Time
}

// Service owns the session lifecycle: question sequencing, answer intake,
// completion, and the two-phase voice protocol. Each mutation is a
// read-modify-write of one stored document.
type Service struct {
	store       store.Store
	selector    *question.Selector
	scorer      *scoring.Engine
	transcriber Transcriber
	guard       VoiceGuard
	eb          *event.Bus
	budget      time.Duration
	now         func() time.Time
}

func NewService(c Config) *Service {
	s := &Service{
		store:       c.Store,
		selector:    c.Selector,
		scorer:      c.Scorer,
		transcriber: c.Transcriber,
		guard:       c.Guard,
		eb:          c.EventBus,
		budget:      c.TranscribeBudget,
		now:         c.Now,
	}
	if s.budget == 0 {
		s.budget = defaultTranscribeBudget
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type StartSessionRequest struct {
	UserID        string
	Role          string
	ResumeSummary string
	Settings      domain.SessionSettings
}

// StartSession selects questions and creates a new active session.
func (s *Service) StartSession(ctx context.Context, req StartSessionRequest) (*domain.InterviewSession, error) {
	if req.Role == "" {
		return nil, errors.New(errors.CodeInvalidArgument,
			errors.WithReason(ReasonMissingRole),
			errors.WithMessagef("role is required"),
		)
	}

	settings := req.Settings
	if settings.QuestionCount <= 0 {
		settings.QuestionCount = defaultQuestionCount
	}
	if settings.TimeLimit <= 0 {
		settings.TimeLimit = domain.DefaultTimeLimit
	}

	questions, err := s.selector.Select(ctx, question.SelectRequest{
		Role:          req.Role,
		ResumeSummary: req.ResumeSummary,
		Count:         settings.QuestionCount,
		UserID:        req.UserID,
		TimeLimit:     settings.TimeLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := s.now()
	ss := &domain.InterviewSession{
		SessionID:    id.String(),
		UserID:       req.UserID,
		Role:         req.Role,
		Status:       domain.StatusActive,
		Questions:    questions,
		Settings:     settings,
		StartedAt:    now,
		LastActivity: now,
	}

	if err := s.store.UpsertSession(ctx, ss); err != nil {
		return nil, err
	}

	telemetry.SessionsStarted.Inc()
	slog.InfoContext(ctx, "session: started",
		"session", ss.SessionID,
		"user", ss.UserID,
		"questions", len(ss.Questions),
	)

	return ss, nil
}

// GetSession returns the stored session document.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.InterviewSession, error) {
	return s.store.FindSession(ctx, sessionID)
}

type CurrentQuestionResponse struct {
	Index    int
	Question domain.Question
}

// CurrentQuestion returns the next unanswered question.
func (s *Service) CurrentQuestion(ctx context.Context, sessionID string) (*CurrentQuestionResponse, error) {
	ss, err := s.store.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch {
	case ss.Status == domain.StatusCompleted:
		return nil, errors.New(errors.CodeFailedPrecondition,
			errors.WithReason(ReasonSessionCompleted),
			errors.WithMessagef("session %s is already completed", sessionID),
		)
	case ss.IsExpired(s.now()):
		return nil, errors.New(errors.CodeFailedPrecondition,
			errors.WithReason(ReasonSessionExpired),
			errors.WithMessagef("session %s expired", sessionID),
		)
	case ss.Status != domain.StatusActive:
		return nil, errors.New(errors.CodeFailedPrecondition,
			errors.WithReason(ReasonSessionNotActive),
			errors.WithMessagef("session %s is %s", sessionID, ss.Status),
		)
	}

	idx := ss.CurrentQuestionIndex()
	if idx >= len(ss.Questions) {
		return nil, errors.New(errors.CodeOutOfRange,
			errors.WithReason(ReasonOutOfQuestions),
			errors.WithMessagef("no questions left in session %s", sessionID),
		)
	}

	return &CurrentQuestionResponse{Index: idx, Question: ss.Questions[idx]}, nil
}

type SubmitAnswerRequest struct {
	SessionID    string
	Answer       string
	ResponseTime int
	IsVoice      bool
	AudioRef     string
}

type SubmitAnswerResponse struct {
	Feedback  domain.FeedbackRecord
	Completed bool
	Session   *domain.InterviewSession
}

// SubmitAnswer appends the answer and its feedback record in one write.
// Scoring happens before anything is persisted, so an answer can never be
// stored without its matching feedback. The last accepted answer completes
// the session.
func (s *Service) SubmitAnswer(ctx context.Context, req SubmitAnswerRequest) (*SubmitAnswerResponse, error) {
	ss, err := s.store.FindSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	if ss.Status != domain.StatusActive {
		return nil, errors.New(errors.CodeFailedPrecondition,
			errors.WithReason(ReasonSessionNotActive),
			errors.WithMessagef("session %s is %s", req.SessionID, ss.Status),
		)
	}

	idx := ss.CurrentQuestionIndex()
	if idx >= len(ss.Questions) {
		return nil, errors.New(errors.CodeFailedPrecondition,
			errors.WithReason(ReasonAllAnswered),
			errors.WithMessagef("all %d questions already answered", len(ss.Questions)),
		)
	}

	q := ss.Questions[idx]
	if ss.HasAnswer(q.Text, req.Answer) {
		return nil, errors.New(errors.CodeAlreadyExists,
			errors.WithReason(ReasonDuplicateAnswer),
			errors.WithMessagef("identical answer already submitted for this question"),
		)
	}

	now := s.now()

	fb := s.scorer.Score(ctx, q.Text, req.Answer, ss.Role)
	fb.QuestionIndex = idx
	fb.ResponseTime = req.ResponseTime

	ss.Answers = append(ss.Answers, domain.Answer{
		Question:     q.Text,
		Answer:       req.Answer,
		ResponseTime: req.ResponseTime,
		Timestamp:    now,
		IsVoice:      req.IsVoice,
		AudioRef:     req.AudioRef,
	})
	ss.Feedback = append(ss.Feedback, fb)
	ss.LastActivity = now

	completed := len(ss.Answers) == len(ss.Questions)
	if completed {
		ss.Status = domain.StatusCompleted
		ss.CompletedAt = &now
		ss.Performance = performance.Compute(ss)
	}

	if err := s.store.UpsertSession(ctx, ss); err != nil {
		return nil, err
	}

	telemetry.AnswersScored.Inc()
	telemetry.OverallScores.Observe(float64(fb.OverallScore))

	s.eb.Publish(ctx, domain.EventAnswerScored{
		SessionID: ss.SessionID,
		UserID:    ss.UserID,
		Feedback:  fb,
	})

	if completed {
		telemetry.SessionsCompleted.Inc()
		s.eb.Publish(ctx, domain.EventSessionCompleted{Session: *ss})
		slog.InfoContext(ctx, "session: completed",
			"session", ss.SessionID,
			"user", ss.UserID,
			"overall", ss.Performance.OverallScore,
		)
	}

	return &SubmitAnswerResponse{
		Feedback:  fb,
		Completed: completed,
		Session:   ss,
	}, nil
}

// Abandon transitions an active session to abandoned. Completed is terminal;
// abandoning an already abandoned session is a no-op.
func (s *Service) Abandon(ctx context.Context, sessionID string) (*domain.InterviewSession, error) {
	ss, err := s.store.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch ss.Status {
	case domain.StatusCompleted:
		return nil, errors.New(errors.CodeFailedPrecondition,
			errors.WithReason(ReasonSessionCompleted),
			errors.WithMessagef("session %s is already completed", sessionID),
		)
	case domain.StatusAbandoned:
		return ss, nil
	}

	ss.Status = domain.StatusAbandoned
	ss.LastActivity = s.now()
	ss.Performance = performance.Compute(ss)

	if err := s.store.UpsertSession(ctx, ss); err != nil {
		return nil, err
	}

	return ss, nil
}

// IsExpired reports the advisory expiry state of a session. Nothing
// transitions an expired session automatically; callers may Abandon it.
func (s *Service) IsExpired(ctx context.Context, sessionID string) (bool, error) {
	ss, err := s.store.FindSession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return ss.IsExpired(s.now()), nil
}

type TranscribeRequest struct {
	SessionID string
	AudioPath string
}

type TranscribeResponse struct {
	Transcript    string
	BasicFeedback string
}

// TranscribeAnswer runs phase one of the voice protocol: transcribe the
// recording and hand the text back for user review. It never mutates the
// session; acceptance of the transcript is a normal SubmitAnswer call. A
// per-session guard rejects concurrent transcriptions.
func (s *Service) TranscribeAnswer(ctx context.Context, req TranscribeRequest) (*TranscribeResponse, error) {
	ss, err := s.store.FindSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	if ss.Status != domain.StatusActive {
		return nil, errors.New(errors.CodeFailedPrecondition,
			errors.WithReason(ReasonSessionNotActive),
			errors.WithMessagef("session %s is %s", req.SessionID, ss.Status),
		)
	}
	if !ss.Settings.EnableVoice {
		return nil, errors.New(errors.CodeInvalidArgument,
			errors.WithReason(ReasonVoiceDisabled),
			errors.WithMessagef("voice answers are disabled for session %s", req.SessionID),
		)
	}

	idx := ss.CurrentQuestionIndex()
	if idx >= len(ss.Questions) {
		return nil, errors.New(errors.CodeFailedPrecondition,
			errors.WithReason(ReasonAllAnswered),
			errors.WithMessagef("all %d questions already answered", len(ss.Questions)),
		)
	}

	ok, err := s.guard.Acquire(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.CodeAborted,
			errors.WithReason(ReasonVoiceProcessingBusy),
			errors.WithMessagef("a voice answer is already being processed for session %s", req.SessionID),
		)
	}
	defer func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), req.SessionID); err != nil {
			slog.WarnContext(ctx, "session: release voice guard failed", "error", err)
		}
	}()

	tctx, cancel := context.WithTimeout(ctx, s.budget)
	defer cancel()

	start := time.Now()
	transcript, feedback, err := s.transcriber.Transcribe(tctx, req.AudioPath, ss.Questions[idx].Text)
	telemetry.TranscriptionSeconds.Observe(time.Since(start).Seconds())

	if tctx.Err() != nil {
		return nil, errors.New(errors.CodeDeadlineExceeded,
			errors.WithReason(ReasonTranscriptionTimeout),
			errors.WithMessagef("transcription exceeded %s", s.budget),
			errors.WithRetry(),
			errors.WithCause(err),
		)
	}
	if err != nil {
		return nil, errors.New(errors.CodeUnavailable,
			errors.WithReason(ReasonTranscriptionFailed),
			errors.WithMessagef("audio processing failed"),
			errors.WithRetry(),
			errors.WithCause(err),
		)
	}
	if transcript == "" {
		return nil, errors.New(errors.CodeUnavailable,
			errors.WithReason(ReasonTranscriptionFailed),
			errors.WithMessagef("no speech detected in the recording"),
			errors.WithRetry(),
		)
	}

	return &TranscribeResponse{
		Transcript:    transcript,
		BasicFeedback: feedback,
	}, nil
}
