// Package coach talks to an OpenAI-compatible chat completion endpoint on
// behalf of the AI coach view. The client is a thin HTTP wrapper; all
// conversation state lives in the store.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stridehq/stride/internal/store"
	"github.com/stridehq/stride/internal/streak"
)

// Message is one turn of a coach conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response is the assistant's reply plus token accounting.
type Response struct {
	Content string
	Model   string
	Usage   Usage
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Complete sends the conversation and returns the assistant's reply.
func (c *Client) Complete(ctx context.Context, messages []Message) (*Response, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("coach: empty conversation")
	}

	apiReq := chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   1024,
		Temperature: 0.7,
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coach API error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, err
	}

	content := ""
	if len(apiResp.Choices) > 0 {
		content = apiResp.Choices[0].Message.Content
	}

	return &Response{
		Content: content,
		Model:   apiResp.Model,
		Usage: Usage{
			PromptTokens:     apiResp.Usage.PromptTokens,
			CompletionTokens: apiResp.Usage.CompletionTokens,
			TotalTokens:      apiResp.Usage.TotalTokens,
		},
	}, nil
}

// BuildSystemPrompt assembles the coach's context: who the user is, where
// their streak stands, and any recent pain reports the coach should respect.
func BuildSystemPrompt(name string, current, daysSince int, pain []store.PainLog) string {
	var b strings.Builder
	b.WriteString("You are a supportive fitness habit coach. Keep replies short, practical and encouraging.")

	if name != "" {
		fmt.Fprintf(&b, " The user's name is %s.", name)
	}

	switch {
	case daysSince == streak.Never:
		b.WriteString(" The user has not logged any activity yet.")
	case current > 0:
		fmt.Fprintf(&b, " The user is on a %d-day streak.", current)
	default:
		fmt.Fprintf(&b, " The user's streak is broken; their last activity was %d days ago.", daysSince)
	}

	if len(pain) > 0 {
		b.WriteString(" Recent pain reports:")
		for _, p := range pain {
			fmt.Fprintf(&b, " %s (severity %d/10)", p.BodyPart, p.Severity)
			if p.Note != "" {
				fmt.Fprintf(&b, ", %s", p.Note)
			}
			b.WriteString(";")
		}
		b.WriteString(" adjust suggestions so they do not aggravate these.")
	}

	return b.String()
}

// Chat completion API types (OpenAI-compatible)
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
