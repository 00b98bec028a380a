package scoring

import (
	"fmt"
	"strings"
)

// Thresholds on the raw 0-100 scale used when assembling feedback text.
const (
	weakThreshold       = 60
	weakProfThreshold   = 70
	strongThreshold     = 80
	suggestionThreshold = 70
)

var categorySentences = map[string]string{
	"content":         "Add more specific details and concrete examples to strengthen your answer.",
	"clarity":         "Work on structuring your response more clearly and cutting filler words.",
	"confidence":      "Use more assertive language to project confidence.",
	"professionalism": "Keep the tone professional and avoid casual phrasing.",
}

// feedbackText assembles the textual feedback: a score-banded opener, one
// clause per weak category, and a closing strong-points clause.
func feedbackText(weighted float64, raw rawScores) string {
	var parts []string

	switch {
	case weighted >= 85:
		parts = append(parts, "Excellent answer! You communicated your points with depth and precision.")
	case weighted >= 70:
		parts = append(parts, "Good answer with room for improvement.")
	case weighted >= 55:
		parts = append(parts, "Decent answer, but several areas need attention.")
	default:
		parts = append(parts, "This answer needs improvement. Review the suggestions and try again.")
	}

	if raw.content < weakThreshold {
		parts = append(parts, categorySentences["content"])
	}
	if raw.clarity < weakThreshold {
		parts = append(parts, categorySentences["clarity"])
	}
	if raw.confidence < weakThreshold {
		parts = append(parts, categorySentences["confidence"])
	}
	if raw.professionalism < weakProfThreshold {
		parts = append(parts, categorySentences["professionalism"])
	}

	var strong []string
	for _, c := range []struct {
		name  string
		score int
	}{
		{"content", raw.content},
		{"clarity", raw.clarity},
		{"confidence", raw.confidence},
		{"professionalism", raw.professionalism},
	} {
		if c.score >= strongThreshold {
			strong = append(strong, c.name)
		}
	}
	if len(strong) > 0 {
		parts = append(parts, fmt.Sprintf("Strong points: %s.", strings.Join(strong, ", ")))
	}

	return strings.Join(parts, " ")
}

var categorySuggestions = map[string][]string{
	"content": {
		"Structure examples with the situation, your actions, and the outcome.",
		"Quantify your impact with concrete numbers where possible.",
	},
	"clarity": {
		"Pause to think instead of reaching for filler words.",
		"Keep sentences short and focused on one idea each.",
	},
	"confidence": {
		"Replace hedging phrases with direct statements.",
		"Practice answering out loud to build conviction in your delivery.",
	},
	"professionalism": {
		"Mention relevant skills and experience explicitly.",
		"Use industry terminology where it fits naturally.",
	},
}

var roleSuggestions = []struct {
	key        string
	suggestion string
}{
	{"software engineer", "Reference specific technologies and design trade-offs from systems you have built."},
	{"data scientist", "Back your answers with data, metrics, and model evaluation results."},
	{"product manager", "Frame your answers around user impact and prioritization decisions."},
	{"marketing", "Tie your answers to campaigns, audience growth, and measurable outcomes."},
}

const maxSuggestions = 5

// suggestions returns generic advice for each weak category plus at most one
// role-specific suggestion, truncated to maxSuggestions.
func suggestions(raw rawScores, role string) []string {
	var out []string

	if raw.content < suggestionThreshold {
		out = append(out, categorySuggestions["content"]...)
	}
	if raw.clarity < suggestionThreshold {
		out = append(out, categorySuggestions["clarity"]...)
	}
	if raw.confidence < suggestionThreshold {
		out = append(out, categorySuggestions["confidence"]...)
	}
	if raw.professionalism < suggestionThreshold {
		out = append(out, categorySuggestions["professionalism"]...)
	}

	lowerRole := strings.ToLower(role)
	matched := false
	for _, rs := range roleSuggestions {
		if strings.Contains(lowerRole, rs.key) {
			out = append(out, rs.suggestion)
			matched = true
			break
		}
	}
	if !matched {
		out = append(out, fmt.Sprintf("Relate your answers to the %s role and its day-to-day responsibilities.", role))
	}

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}

	return out
}
