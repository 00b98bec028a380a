package analytics

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/prepdrill/prepdrill/internal/domain"
	"github.com/prepdrill/prepdrill/internal/performance"
)

const maxSummarySentences = 4

var scorePattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// SessionSummary condenses one session into at most four sentences: the
// overall-performance sentence first, then the two lowest-scoring category
// sentences (ordered by the score embedded in the templated text), then one
// closing sentence.
func SessionSummary(ss *domain.InterviewSession) []string {
	snap := performance.Compute(ss)

	summary := []string{
		fmt.Sprintf("Overall performance: %.1f/10 across %d answered questions.",
			snap.OverallScore, len(ss.Answers)),
	}

	if len(ss.Feedback) > 0 {
		sentences := []string{
			fmt.Sprintf("Content scored %.1f/10. %s", snap.CategoryScores.Content, categoryAdvice["content"]),
			fmt.Sprintf("Clarity scored %.1f/10. %s", snap.CategoryScores.Clarity, categoryAdvice["clarity"]),
			fmt.Sprintf("Confidence scored %.1f/10. %s", snap.CategoryScores.Confidence, categoryAdvice["confidence"]),
			fmt.Sprintf("Professionalism scored %.1f/10. %s", snap.CategoryScores.Professionalism, categoryAdvice["professionalism"]),
		}
		sort.SliceStable(sentences, func(i, j int) bool {
			return embeddedScore(sentences[i]) < embeddedScore(sentences[j])
		})
		summary = append(summary, sentences[:2]...)
	}

	summary = append(summary, fmt.Sprintf(
		"You completed %d%% of the session with an average response time of %d seconds.",
		snap.CompletionRate, snap.AverageResponseTime))

	if len(summary) > maxSummarySentences {
		summary = summary[:maxSummarySentences]
	}

	return summary
}

// embeddedScore pulls the first number out of a templated sentence.
func embeddedScore(sentence string) float64 {
	m := scorePattern.FindString(sentence)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}
