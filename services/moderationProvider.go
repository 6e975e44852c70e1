package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ErrNotConfigured means the selected provider has no API key. Callers
// treat this as a distinct state from a failed call.
var ErrNotConfigured = errors.New("moderation provider not configured")

const moderationPrompt = `You are a content moderator for a church's prayer request system. Your task is to:

1. Check if the prayer request is appropriate for a church setting
2. Remove any personally identifiable information (names, addresses, phone numbers, etc.)
3. Flag content that might be inappropriate, harmful, or off-topic

Respond in JSON format:
{
  "sanitizedContent": "The prayer request with personal info removed, or null if too inappropriate",
  "flagged": true/false,
  "flagReason": "Reason for flagging, or null if not flagged",
  "appropriate": true/false
}

Guidelines:
- Prayer requests should be respectful and suitable for public display
- Remove specific names (replace with "a person", "a family member", etc.)
- Remove locations, addresses, phone numbers, email addresses
- Flag content that is: hateful, political, promotional, spam, or unrelated to prayer
- Keep the essence and emotion of the prayer request intact
- Respond only with valid JSON, no other text`

// moderationProvider is the capability shared by the interchangeable AI
// backends: hand the provider plain text, get back its raw reply.
type moderationProvider interface {
	moderate(ctx context.Context, content string) (string, error)
}

// openAIEndpoint is a variable so tests can point the provider at a fake.
var openAIEndpoint = "https://api.openai.com/v1/chat/completions"

type openAIProvider struct {
	apiKey string
	model  string
}

func (p openAIProvider) moderate(ctx context.Context, content string) (string, error) {
	if p.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(map[string]interface{}{
		"model": p.model,
		"messages": []map[string]string{
			{"role": "system", "content": moderationPrompt},
			{"role": "user", "content": "Prayer request to review:\n\n" + content},
		},
		"temperature": 0.3,
		"max_tokens":  1000,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API error: %s", strings.TrimSpace(string(raw)))
	}

	var reply struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", fmt.Errorf("OpenAI API error: %v", err)
	}
	if len(reply.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API error: response contains no choices")
	}

	return reply.Choices[0].Message.Content, nil
}

type anthropicProvider struct {
	apiKey string
	model  string
}

func (p anthropicProvider) moderate(ctx context.Context, content string) (string, error) {
	if p.apiKey == "" {
		return "", ErrNotConfigured
	}

	client := anthropic.NewClient(option.WithAPIKey(p.apiKey))

	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 1000,
		System:    []anthropic.TextBlockParam{{Text: moderationPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("Prayer request to review:\n\n" + content)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %v", err)
	}
	if len(msg.Content) == 0 {
		return "", fmt.Errorf("Anthropic API error: empty response")
	}

	return msg.Content[0].Text, nil
}
