// Package openai provides a card generator adapter using the OpenAI API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.CardGenerator = (*Generator)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4.1-mini"
	DefaultTimeout = 120 * time.Second

	// DefaultRequestsPerMinute caps generation calls so long URL lists
	// stay inside the API rate limits.
	DefaultRequestsPerMinute = 30
)

// systemPrompt frames the model as a flashcard author.
const systemPrompt = "You generate high-quality Anki cards from articles."

// basePrompt instructs the model to emit a CLOZE section and a BASIC
// section, each card formatted with semicolon separators.
const basePrompt = `You are a spaced repetition tutor creating Anki flashcards from an article the user provides.

Your task is to extract two types of flashcards:

Cloze Cards
- Identify the main argument (central thesis) and key supporting claims (major justifications, logical steps, or contrasts).
- Summarize each claim in a clear, concise sentence. Keep sentences short and direct, with no extra clauses or fluff.
- Create cloze deletions targeting key terms, distinctions, or causal claims.
- Use multiple clozes per sentence if helpful (e.g., {{c1::term}} and {{c2::contrast}}).
- Each cloze should be 1-5 words and stand on its own. Do not cloze whole phrases or compound ideas.
- Avoid orphaning sentences; ensure each cloze deletion is meaningful and complete.
- Avoid examples, metaphors, quotes, or trivia. Focus only on the core reasoning.
- Each cloze deletion should be a complete thought that can stand alone. Try and combine clozes into a single sentence if they are closely related.
- Aim for 2-10 cloze cards. Include more only if necessary for clarity and understanding.
Basic Cards
- Extract definitions, statistics, distinctions, or cause-effect relationships the author defines or builds on.
- Use a simple front-back format: one question, one answer.
- Keep both the question and answer short and direct.
- Avoid vague rephrasings, filler, or incidental facts.
- Aim for 2-10 basic cards. Include more only if the content is clear and important.

Ambiguity Handling
- If the argument is implicit, infer it: Why was this written? What is the author trying to convey?
- If the structure is loose, extract only what is meaningful and intentional.

Output Format
- Begin with the line CLOZE, then list all cloze cards.
- Then write BASIC, and list all basic cards.
- Format each card using semicolons:
  - Cloze: {{c1::clozed phrase}} ; ;
  - Basic: Question ; Answer ;
- Output only the formatted cards. No explanations, preambles, or summaries.
`

// Config holds configuration for the OpenAI card generator.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the chat model to use (default: gpt-4.1-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerMinute caps the generation call rate (default: 30).
	RequestsPerMinute int
}

// Generator produces flashcards from article text via chat completions.
type Generator struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	model   string
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	Temperature float64             `json:"temperature,omitempty"`
}

// chatCompletionMsg is the OpenAI chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewGenerator creates a new OpenAI card generator.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}

	return &Generator{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Generate produces cloze and basic cards for the article.
func (g *Generator) Generate(ctx context.Context, article *domain.Article, customPrompt string) ([]domain.Card, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	content, err := g.chatCompletion(ctx, buildPrompt(article.Text, customPrompt))
	if err != nil {
		return nil, err
	}

	return parseCards(content, article.Identity), nil
}

// buildPrompt assembles the full user prompt for one article.
func buildPrompt(text, customPrompt string) string {
	var b strings.Builder
	b.WriteString(basePrompt)
	if strings.TrimSpace(customPrompt) != "" {
		b.WriteString("\nThe user provided these additional instructions:\n")
		b.WriteString(strings.TrimSpace(customPrompt))
		b.WriteString("\n")
	}
	b.WriteString("\nArticle Content:\n")
	b.WriteString(text)
	return b.String()
}

// chatCompletion sends one chat request and returns the model output.
func (g *Generator) chatCompletion(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: g.model,
		Messages: []chatCompletionMsg{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		g.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// parseCards splits the model output into CLOZE and BASIC sections and
// converts each semicolon-formatted line into a card. Lines outside
// both sections and lines with no content are dropped.
func parseCards(output, articleIdentity string) []domain.Card {
	var cards []domain.Card
	now := time.Now()
	section := ""

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		if strings.HasPrefix(upper, "CLOZE") {
			section = "cloze"
			continue
		}
		if strings.HasPrefix(upper, "BASIC") {
			section = "basic"
			continue
		}

		var card domain.Card
		switch section {
		case "cloze":
			text := strings.TrimSpace(strings.TrimRight(line, "; "))
			if text == "" {
				continue
			}
			card = domain.Card{
				Kind:   domain.CardKindCloze,
				Fields: []domain.CardField{{Name: "Text", Value: text}},
			}
		case "basic":
			front, back, ok := splitBasicLine(line)
			if !ok {
				continue
			}
			card = domain.Card{
				Kind: domain.CardKindBasic,
				Fields: []domain.CardField{
					{Name: "Front", Value: front},
					{Name: "Back", Value: back},
				},
			}
		default:
			continue
		}

		card.ID = uuid.NewString()
		card.ArticleIdentity = articleIdentity
		card.CreatedAt = now
		cards = append(cards, card)
	}

	return cards
}

// splitBasicLine parses "Question ; Answer ;" into its two halves.
func splitBasicLine(line string) (front, back string, ok bool) {
	parts := strings.SplitN(line, ";", 3)
	if len(parts) < 2 {
		return "", "", false
	}
	front = strings.TrimSpace(parts[0])
	back = strings.TrimSpace(parts[1])
	if front == "" || back == "" {
		return "", "", false
	}
	return front, back, true
}

// ModelName returns the name of the generation model being used.
func (g *Generator) ModelName() string {
	return g.model
}

// Close releases resources.
func (g *Generator) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
