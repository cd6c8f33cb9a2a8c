// Package llm wraps the hosted model providers used to polish report narratives.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
)

type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// NewProvider is swapped in tests. Callers restore it with t.Cleanup.
var NewProvider func(providerName, model, apiKey string) (Provider, error) = defaultNewProvider

var defaultModels = map[string]string{
	"anthropic": "claude-3-5-haiku-latest",
	"openai":    "gpt-4o-mini",
	"google":    "gemini-1.5-flash",
}

var apiKeyEnv = map[string]string{
	"anthropic": "ANTHROPIC_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"google":    "GOOGLE_API_KEY",
}

func defaultNewProvider(providerName, model, apiKey string) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(providerName))
	envKey, known := apiKeyEnv[name]
	if !known {
		return nil, fmt.Errorf("llm: unknown provider %q", providerName)
	}
	if model == "" {
		model = defaultModels[name]
	}
	if apiKey == "" {
		apiKey = os.Getenv(envKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("llm: %s environment variable not set", envKey)
	}
	switch name {
	case "anthropic":
		return newAnthropicProvider(model, apiKey), nil
	case "openai":
		return newOpenAIProvider(model, apiKey), nil
	default:
		return newGoogleProvider(model, apiKey), nil
	}
}
