package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/prepdrill/prepdrill/internal/analytics"
	"github.com/prepdrill/prepdrill/internal/api"
	"github.com/prepdrill/prepdrill/internal/event"
	"github.com/prepdrill/prepdrill/internal/gemini"
	"github.com/prepdrill/prepdrill/internal/question"
	"github.com/prepdrill/prepdrill/internal/scoring"
	"github.com/prepdrill/prepdrill/internal/session"
	"github.com/prepdrill/prepdrill/internal/store"
	"github.com/prepdrill/prepdrill/internal/telemetry"
	"github.com/prepdrill/prepdrill/internal/transcribe"
)

const voiceGuardTTL = 2 * time.Minute

type Config struct {
	HTTP struct {
		Port int32
	}

	Redis struct {
		Addrs  []string
		Pass   string
		Prefix string
	}

	Postgres struct {
		Addr string
		User string
		Pass string
		Name string
	}

	Gemini struct {
		Enabled bool
		APIKey  string
		Model   string
	}

	Whisper struct {
		FFmpegBin  string
		WhisperBin string
		ModelPath  string
	}
}

type Server struct {
	c Config

	eb *event.Bus

	infra struct {
		redis    redis.UniversalClient
		postgres *pgxpool.Pool
	}

	service struct {
		session   *session.Service
		analytics *analytics.Service
	}

	http *http.Server
}

func Init(c Config) (*Server, error) {
	s := &Server{c: c}

	s.eb = event.NewBus()

	if err := s.initInfra(); err != nil {
		return nil, fmt.Errorf("server: init infra: %w", err)
	}

	if err := s.initService(); err != nil {
		return nil, fmt.Errorf("server: init service: %w", err)
	}

	s.initAPI()
	return s, nil
}

func (s *Server) initInfra() error {
	if err := s.initRedis(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	if err := s.initPostgres(); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}

	return nil
}

func (s *Server) initRedis() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    s.c.Redis.Addrs,
		Password: s.c.Redis.Pass,
	})

	if err := telemetry.MonitorRedis(r); err != nil {
		return err
	}

	if err := r.Ping(ctx).Err(); err != nil {
		return err
	}

	s.infra.redis = r
	return nil
}

func (s *Server) initPostgres() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cc, err := pgxpool.ParseConfig(fmt.Sprintf("postgres://%s:%s@%s/%s",
		s.c.Postgres.User, s.c.Postgres.Pass, s.c.Postgres.Addr, s.c.Postgres.Name))
	if err != nil {
		return err
	}

	db, err := pgxpool.NewWithConfig(ctx, cc)
	if err != nil {
		return err
	}

	if err := db.Ping(ctx); err != nil {
		return err
	}

	s.infra.postgres = db
	return nil
}

func (s *Server) initService() error {
	var (
		feedbackGen scoring.FeedbackGenerator
		questionGen question.QuestionGenerator
	)

	if s.c.Gemini.Enabled {
		gc, err := gemini.NewClient(context.Background(), gemini.Config{
			APIKey: s.c.Gemini.APIKey,
			Model:  s.c.Gemini.Model,
		})
		if err != nil {
			return fmt.Errorf("gemini: %w", err)
		}
		feedbackGen = gc.Feedback()
		questionGen = gc.Questions()
	}

	sessions := store.NewPostgres(s.infra.postgres)

	selector := question.NewSelector(question.Config{
		History:   question.NewRedisHistory(s.infra.redis, s.c.Redis.Prefix),
		Generator: questionGen,
	})

	s.service.session = session.NewService(session.Config{
		Store:    sessions,
		Selector: selector,
		Scorer:   scoring.NewEngine(scoring.Config{Generator: feedbackGen}),
		Transcriber: transcribe.NewWhisper(transcribe.Config{
			FFmpegBin:  s.c.Whisper.FFmpegBin,
			WhisperBin: s.c.Whisper.WhisperBin,
			ModelPath:  s.c.Whisper.ModelPath,
		}),
		Guard:    session.NewRedisGuard(s.infra.redis, s.c.Redis.Prefix, voiceGuardTTL),
		EventBus: s.eb,
	})

	s.service.analytics = analytics.NewService(analytics.Config{
		Store: sessions,
	})

	return nil
}

func (s *Server) initAPI() {
	e := gin.New()
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))
	pprof.Register(e, "/debug/pprof")
	e.Use(gin.Recovery())

	api.New(api.Config{
		Router:       e,
		EventBus:     s.eb,
		Session:      s.service.session,
		Analytics:    s.service.analytics,
		Redis:        s.infra.redis,
		PubsubPrefix: s.c.Redis.Prefix,
	})

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.c.HTTP.Port),
		Handler:           e,
		ReadHeaderTimeout: 60 * time.Second,
	}
}

func (s *Server) Start() {
	ctx := context.TODO()

	var eg errgroup.Group
	eg.Go(func() error {
		slog.InfoContext(ctx, fmt.Sprintf("server: HTTP listening on port %d", s.c.HTTP.Port))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		slog.ErrorContext(ctx, "server: shutdown with error", "error", err)
	}
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "server: shutdown HTTP failed", "error", err)
	}

	s.eb.Stop()
	s.infra.postgres.Close()

	slog.InfoContext(ctx, "server: shutdown completed")
}
