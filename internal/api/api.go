package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/prepdrill/prepdrill/internal/analytics"
	"github.com/prepdrill/prepdrill/internal/domain"
	"github.com/prepdrill/prepdrill/internal/errors"
	"github.com/prepdrill/prepdrill/internal/event"
	"github.com/prepdrill/prepdrill/internal/session"
)

type Config struct {
	Router       *gin.Engine
	EventBus     *event.Bus
	Session      *session.Service
	Analytics    *analytics.Service
	Redis        Redis
	PubsubPrefix string
}

type Redis interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type API struct {
	ss *session.Service
	as *analytics.Service

	redis  Redis
	prefix string
}

func New(c Config) *API {
	a := &API{
		ss:     c.Session,
		as:     c.Analytics,
		redis:  c.Redis,
		prefix: c.PubsubPrefix,
	}

	v1 := c.Router.Group("/api/v1")
	v1.POST("/sessions", a.startSession)
	v1.GET("/sessions/:id", a.getSession)
	v1.GET("/sessions/:id/question", a.currentQuestion)
	v1.POST("/sessions/:id/answers", a.submitAnswer)
	v1.POST("/sessions/:id/voice", a.transcribeAnswer)
	v1.POST("/sessions/:id/abandon", a.abandonSession)
	v1.GET("/sessions/:id/summary", a.sessionSummary)
	v1.GET("/users/:id/analytics", a.userAnalytics)

	c.EventBus.Subscribe(domain.EventNameSessionCompleted, func(ctx context.Context, e event.Event) error {
		return a.PublishSessionCompleted(ctx, e.(domain.EventSessionCompleted))
	})

	return a
}

type startSessionRequest struct {
	UserID        string                 `json:"user_id"`
	Role          string                 `json:"role"`
	ResumeSummary string                 `json:"resume_summary"`
	Settings      domain.SessionSettings `json:"settings"`
}

func (a *API) startSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err)))
		return
	}

	ss, err := a.ss.StartSession(c.Request.Context(), session.StartSessionRequest{
		UserID:        req.UserID,
		Role:          req.Role,
		ResumeSummary: req.ResumeSummary,
		Settings:      req.Settings,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": ss})
}

func (a *API) getSession(c *gin.Context) {
	ss, err := a.ss.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": ss})
}

func (a *API) currentQuestion(c *gin.Context) {
	resp, err := a.ss.CurrentQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"index":    resp.Index,
		"question": resp.Question,
	})
}

type submitAnswerRequest struct {
	Answer       string `json:"answer"`
	ResponseTime int    `json:"response_time"`
	IsVoice      bool   `json:"is_voice"`
	AudioRef     string `json:"audio_ref"`
}

func (a *API) submitAnswer(c *gin.Context) {
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err)))
		return
	}

	resp, err := a.ss.SubmitAnswer(c.Request.Context(), session.SubmitAnswerRequest{
		SessionID:    c.Param("id"),
		Answer:       req.Answer,
		ResponseTime: req.ResponseTime,
		IsVoice:      req.IsVoice,
		AudioRef:     req.AudioRef,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{
		"feedback":  resp.Feedback,
		"completed": resp.Completed,
	}
	if resp.Completed {
		body["performance"] = resp.Session.Performance
	}

	c.JSON(http.StatusOK, body)
}

type transcribeRequest struct {
	AudioPath string `json:"audio_path"`
}

func (a *API) transcribeAnswer(c *gin.Context) {
	var req transcribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err)))
		return
	}

	resp, err := a.ss.TranscribeAnswer(c.Request.Context(), session.TranscribeRequest{
		SessionID: c.Param("id"),
		AudioPath: req.AudioPath,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transcript":     resp.Transcript,
		"basic_feedback": resp.BasicFeedback,
	})
}

func (a *API) abandonSession(c *gin.Context) {
	ss, err := a.ss.Abandon(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": ss})
}

func (a *API) sessionSummary(c *gin.Context) {
	ss, err := a.ss.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": analytics.SessionSummary(ss)})
}

func (a *API) userAnalytics(c *gin.Context) {
	resp, err := a.as.UserAnalytics(c.Request.Context(), analytics.UserAnalyticsRequest{
		UserID:    c.Param("id"),
		Timeframe: analytics.Timeframe(c.Query("timeframe")),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func respondError(c *gin.Context, err error) {
	e := errors.Convert(err)
	c.JSON(e.HTTPStatusCode(), gin.H{"error": e})
}
