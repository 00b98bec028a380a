package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prepdrill_sessions_started_total",
		Help: "Number of interview sessions created.",
	})

	SessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prepdrill_sessions_completed_total",
		Help: "Number of interview sessions that reached the completed state.",
	})

	AnswersScored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prepdrill_answers_scored_total",
		Help: "Number of accepted answer submissions.",
	})

	OverallScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prepdrill_answer_overall_score",
		Help:    "Distribution of per-answer overall scores on the 1-10 scale.",
		Buckets: prometheus.LinearBuckets(1, 1, 10),
	})

	// CollaboratorFallbacks counts silent fallbacks to the rule-based path,
	// labeled by collaborator (feedback, question).
	CollaboratorFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prepdrill_collaborator_fallbacks_total",
		Help: "Number of times an external collaborator result was discarded.",
	}, []string{"collaborator"})

	TranscriptionSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prepdrill_transcription_seconds",
		Help:    "Wall-clock duration of audio transcription runs.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 9),
	})
)
