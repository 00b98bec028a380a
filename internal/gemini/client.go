// Package gemini implements the optional AI collaborators on top of the
// Gemini API. Responses are validated here, at the boundary: the core only
// ever sees a well-formed result or an Unavailable/Malformed error.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/prepdrill/prepdrill/internal/domain"
	"github.com/prepdrill/prepdrill/internal/question"
	"github.com/prepdrill/prepdrill/internal/scoring"
)

const defaultModel = "gemini-2.0-flash"

type Config struct {
	APIKey string
	Model  string
}

type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, c Config) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	model := c.Model
	if model == "" {
		model = defaultModel
	}

	return &Client{client: gc, model: model}, nil
}

// Feedback returns the client as a scoring collaborator.
func (c *Client) Feedback() scoring.FeedbackGenerator {
	return feedbackGenerator{c}
}

// Questions returns the client as a question collaborator.
func (c *Client) Questions() question.QuestionGenerator {
	return questionGenerator{c}
}

func (c *Client) generateJSON(ctx context.Context, prompt string) ([]byte, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("empty result")
	}

	text, err := result.Text()
	if err != nil {
		return nil, err
	}

	return []byte(stripFences(text)), nil
}

// stripFences removes a markdown code fence around a JSON reply, if present.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}

type feedbackGenerator struct {
	c *Client
}

type feedbackPayload struct {
	Scores struct {
		Content         int `json:"content"`
		Clarity         int `json:"clarity"`
		Confidence      int `json:"confidence"`
		Professionalism int `json:"professionalism"`
	} `json:"scores"`
	OverallScore int      `json:"overall_score"`
	Feedback     string   `json:"feedback"`
	Suggestions  []string `json:"suggestions"`
}

func (g feedbackGenerator) Generate(ctx context.Context, q, answer, role string) (domain.FeedbackRecord, error) {
	prompt := fmt.Sprintf(`You are an interview coach evaluating one answer.
Question: %s
Answer: %s
Role: %s

Reply with JSON only, in this exact shape:
{"scores":{"content":N,"clarity":N,"confidence":N,"professionalism":N},"overall_score":N,"feedback":"...","suggestions":["..."]}
All scores are integers from 1 to 10. At most 5 suggestions.`, q, answer, role)

	raw, err := g.c.generateJSON(ctx, prompt)
	if err != nil {
		return domain.FeedbackRecord{}, fmt.Errorf("%w: %v", scoring.ErrUnavailable, err)
	}

	var p feedbackPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.FeedbackRecord{}, fmt.Errorf("%w: %v", scoring.ErrMalformed, err)
	}

	// A usable overall score is the minimum bar for substituting the
	// rule-based path.
	if p.OverallScore < 1 || p.OverallScore > 10 {
		return domain.FeedbackRecord{}, fmt.Errorf("%w: overall score %d out of range", scoring.ErrMalformed, p.OverallScore)
	}

	if len(p.Suggestions) > 5 {
		p.Suggestions = p.Suggestions[:5]
	}

	return domain.FeedbackRecord{
		Scores: domain.CategoryScores{
			Content:         clampScore(p.Scores.Content),
			Clarity:         clampScore(p.Scores.Clarity),
			Confidence:      clampScore(p.Scores.Confidence),
			Professionalism: clampScore(p.Scores.Professionalism),
		},
		OverallScore: p.OverallScore,
		Feedback:     p.Feedback,
		Suggestions:  p.Suggestions,
	}, nil
}

type questionGenerator struct {
	c *Client
}

type questionPayload struct {
	Text       string `json:"text"`
	Difficulty string `json:"difficulty"`
	Category   string `json:"category"`
}

func (g questionGenerator) Generate(ctx context.Context, role, resumeSummary string, count int) ([]domain.Question, error) {
	prompt := fmt.Sprintf(`Generate %d interview questions for a %s candidate.
Resume summary (may be empty): %s

Reply with a JSON array only, each element in this exact shape:
{"text":"...","difficulty":"easy|medium|hard","category":"general|technical|behavioral"}`, count, role, resumeSummary)

	raw, err := g.c.generateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", question.ErrUnavailable, err)
	}

	var payload []questionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", question.ErrMalformed, err)
	}

	qs := make([]domain.Question, 0, len(payload))
	for _, p := range payload {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		qs = append(qs, domain.Question{
			Text:       p.Text,
			Difficulty: parseDifficulty(p.Difficulty),
			Category:   parseCategory(p.Category),
		})
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("%w: no usable questions in reply", question.ErrMalformed)
	}

	return qs, nil
}

func clampScore(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

func parseDifficulty(s string) domain.Difficulty {
	switch domain.Difficulty(strings.ToLower(s)) {
	case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard:
		return domain.Difficulty(strings.ToLower(s))
	}
	return ""
}

func parseCategory(s string) domain.Category {
	switch domain.Category(strings.ToLower(s)) {
	case domain.CategoryGeneral, domain.CategoryTechnical, domain.CategoryBehavioral:
		return domain.Category(strings.ToLower(s))
	}
	return ""
}
