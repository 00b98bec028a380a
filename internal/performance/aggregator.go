// Package performance rolls per-session feedback records up into a
// PerformanceSnapshot.
package performance

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/prepdrill/prepdrill/internal/domain"
)

// Compute derives the snapshot for a session. The completion rate is always
// computed, even with zero feedback; score fields stay at their zero defaults
// until at least one feedback record exists.
func Compute(ss *domain.InterviewSession) domain.PerformanceSnapshot {
	snap := domain.PerformanceSnapshot{
		CompletionRate: completionRate(len(ss.Answers), len(ss.Questions)),
	}

	if len(ss.Feedback) == 0 {
		return snap
	}

	var overall, content, clarity, confidence, professionalism, respTime float64
	for _, fb := range ss.Feedback {
		overall += float64(fb.OverallScore)
		content += float64(fb.Scores.Content)
		clarity += float64(fb.Scores.Clarity)
		confidence += float64(fb.Scores.Confidence)
		professionalism += float64(fb.Scores.Professionalism)
		respTime += float64(fb.ResponseTime)
		snap.TotalTime += fb.ResponseTime
	}

	n := float64(len(ss.Feedback))
	snap.OverallScore = round1(overall / n)
	snap.CategoryScores = domain.CategoryAverages{
		Content:         round1(content / n),
		Clarity:         round1(clarity / n),
		Confidence:      round1(confidence / n),
		Professionalism: round1(professionalism / n),
	}
	snap.AverageResponseTime = int(math.Round(respTime / n))

	return snap
}

func completionRate(answered, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(answered) / float64(total)))
}

// round1 rounds to 1 decimal, half away from zero.
func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
