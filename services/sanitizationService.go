package services

import (
	"context"
	"errors"
	"log"
	"os"
)

// SanitizationResult is the moderation verdict for one submission. A nil
// SanitizedContent means the text is not publishable as-is and the request
// is held for manual review.
type SanitizationResult struct {
	SanitizedContent *string `json:"sanitizedContent"`
	Flagged          bool    `json:"flagged"`
	FlagReason       *string `json:"flagReason"`
	Appropriate      bool    `json:"appropriate"`
}

func passthrough(content string) SanitizationResult {
	return SanitizationResult{
		SanitizedContent: &content,
		Flagged:          false,
		FlagReason:       nil,
		Appropriate:      true,
	}
}

func getenvDefault(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Sanitize runs submitted text through the configured moderation provider
// and always returns a usable verdict: every failure mode resolves to a
// flagged result, so a moderation outage degrades to "held for manual
// review" rather than a failed submission. Single attempt, no retry.
//
// When the selected provider has no credential the original text is kept
// as SanitizedContent even though the result is flagged; runtime and parse
// failures null the text instead.
func Sanitize(ctx context.Context, content string) SanitizationResult {
	if os.Getenv("AI_ENABLED") == "false" {
		return passthrough(content)
	}

	providerName := getenvDefault("AI_PROVIDER", "openai")

	var provider moderationProvider
	switch providerName {
	case "openai":
		provider = openAIProvider{
			apiKey: os.Getenv("OPENAI_API_KEY"),
			model:  getenvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		}
	case "anthropic":
		provider = anthropicProvider{
			apiKey: os.Getenv("ANTHROPIC_API_KEY"),
			model:  getenvDefault("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
		}
	default:
		log.Printf("Unknown AI provider: %s, returning content as-is", providerName)
		return passthrough(content)
	}

	raw, err := provider.moderate(ctx, content)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			log.Printf("%s API key not configured", providerName)
			reason := "AI not configured - requires manual review"
			return SanitizationResult{
				SanitizedContent: &content,
				Flagged:          true,
				FlagReason:       &reason,
				Appropriate:      false,
			}
		}

		log.Println("AI sanitization error:", err)
		reason := "AI processing error: " + err.Error()
		return SanitizationResult{
			SanitizedContent: nil,
			Flagged:          true,
			FlagReason:       &reason,
			Appropriate:      false,
		}
	}

	result, err := parseModerationResponse(raw)
	if err != nil {
		log.Printf("Failed to parse AI response: %s", raw)
		reason := "Failed to parse AI response"
		return SanitizationResult{
			SanitizedContent: nil,
			Flagged:          true,
			FlagReason:       &reason,
			Appropriate:      false,
		}
	}

	return result
}
