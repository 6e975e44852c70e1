package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeOpenAI stands in for the chat completions endpoint and replies with
// the given assistant message.
func fakeOpenAI(t *testing.T, status int, reply string) func() {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if assert.Len(t, body.Messages, 2) {
			assert.Equal(t, "system", body.Messages[0].Role)
			assert.True(t, strings.HasPrefix(body.Messages[1].Content, "Prayer request to review:\n\n"))
		}

		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(reply))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))

	original := openAIEndpoint
	openAIEndpoint = server.URL

	return func() {
		openAIEndpoint = original
		server.Close()
	}
}

func TestSanitizeDisabled(t *testing.T) {
	t.Setenv("AI_ENABLED", "false")

	result := Sanitize(context.Background(), "Please pray for my family")

	assert.Equal(t, SanitizationResult{
		SanitizedContent: strPtr("Please pray for my family"),
		Flagged:          false,
		FlagReason:       nil,
		Appropriate:      true,
	}, result)
}

func TestSanitizeNotConfigured(t *testing.T) {
	t.Setenv("AI_ENABLED", "true")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	result := Sanitize(context.Background(), "Please pray for my family")

	assert.True(t, result.Flagged)
	assert.False(t, result.Appropriate)
	// the original text stays viewable even though the request is held
	assert.Equal(t, strPtr("Please pray for my family"), result.SanitizedContent)
	assert.Equal(t, strPtr("AI not configured - requires manual review"), result.FlagReason)
}

func TestSanitizeAnthropicNotConfigured(t *testing.T) {
	t.Setenv("AI_ENABLED", "true")
	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "")

	result := Sanitize(context.Background(), "Please pray for my family")

	assert.True(t, result.Flagged)
	assert.Equal(t, strPtr("AI not configured - requires manual review"), result.FlagReason)
	assert.Equal(t, strPtr("Please pray for my family"), result.SanitizedContent)
}

func TestSanitizeUnknownProviderPassesThrough(t *testing.T) {
	t.Setenv("AI_ENABLED", "true")
	t.Setenv("AI_PROVIDER", "llama")

	result := Sanitize(context.Background(), "Please pray for my family")

	assert.Equal(t, SanitizationResult{
		SanitizedContent: strPtr("Please pray for my family"),
		Appropriate:      true,
	}, result)
}

func TestSanitizeSuccess(t *testing.T) {
	t.Setenv("AI_ENABLED", "true")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "test-key")

	cleanup := fakeOpenAI(t, http.StatusOK,
		`{"sanitizedContent": "Please pray for a person who is ill", "flagged": false, "flagReason": null, "appropriate": true}`)
	defer cleanup()

	result := Sanitize(context.Background(), "Please pray for Matti who is ill")

	assert.False(t, result.Flagged)
	assert.True(t, result.Appropriate)
	assert.Equal(t, strPtr("Please pray for a person who is ill"), result.SanitizedContent)
}

func TestSanitizeVerdictSurroundedByProse(t *testing.T) {
	t.Setenv("AI_ENABLED", "true")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "test-key")

	cleanup := fakeOpenAI(t, http.StatusOK,
		"Here is the moderation result:\n{\"sanitizedContent\": null, \"flagged\": true, \"flagReason\": \"spam\", \"appropriate\": false}\nThanks!")
	defer cleanup()

	result := Sanitize(context.Background(), "BUY NOW!!!")

	assert.True(t, result.Flagged)
	assert.Nil(t, result.SanitizedContent)
	assert.Equal(t, strPtr("spam"), result.FlagReason)
}

func TestSanitizeParseFailure(t *testing.T) {
	t.Setenv("AI_ENABLED", "true")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "test-key")

	cleanup := fakeOpenAI(t, http.StatusOK, "I cannot review this content.")
	defer cleanup()

	result := Sanitize(context.Background(), "Please pray for my family")

	assert.True(t, result.Flagged)
	assert.False(t, result.Appropriate)
	assert.Nil(t, result.SanitizedContent)
	assert.Equal(t, strPtr("Failed to parse AI response"), result.FlagReason)
}

func TestSanitizeProviderError(t *testing.T) {
	t.Setenv("AI_ENABLED", "true")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "test-key")

	cleanup := fakeOpenAI(t, http.StatusInternalServerError, "upstream exploded")
	defer cleanup()

	result := Sanitize(context.Background(), "Please pray for my family")

	assert.True(t, result.Flagged)
	assert.Nil(t, result.SanitizedContent)
	if assert.NotNil(t, result.FlagReason) {
		assert.True(t, strings.HasPrefix(*result.FlagReason, "AI processing error:"))
		assert.Contains(t, *result.FlagReason, "upstream exploded")
	}
}
