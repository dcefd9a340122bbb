package cli

import (
	"strings"
	"testing"

	"github.com/mgpai22/mkvsub/internal/translate"
)

func TestModelAllowlists(t *testing.T) {
	tests := []struct {
		name  string
		check func(string) bool
		model string
		want  bool
	}{
		{"gemini flash", isValidGeminiModel, "gemini-2.5-flash", true},
		{"gemini pro preview", isValidGeminiModel, "gemini-3-pro-preview", true},
		{"gemini unknown", isValidGeminiModel, "gemini-1.0-ultra", false},
		{"openai gpt-5-mini", isValidOpenAIModel, "gpt-5-mini", true},
		{"openai o3", isValidOpenAIModel, "o3", true},
		{"openai unknown", isValidOpenAIModel, "gpt-3.5-turbo", false},
		{"anthropic haiku", isValidAnthropicModel, "claude-haiku-4-5", true},
		{"anthropic opus", isValidAnthropicModel, "claude-opus-4-1", true},
		{"anthropic unknown", isValidAnthropicModel, "claude-2", false},
		{"empty model", isValidGeminiModel, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.model); got != tt.want {
				t.Errorf("model %q validity = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func TestValidateModel(t *testing.T) {
	if err := validateModel(translate.ProviderGemini, "gemini-2.5-pro"); err != nil {
		t.Errorf("valid model rejected: %v", err)
	}

	err := validateModel(translate.ProviderOpenAI, "gpt-2")
	if err == nil {
		t.Fatal("expected error for unknown model")
	}
	if !strings.Contains(err.Error(), "--model-override") {
		t.Errorf("error should mention the override flag: %v", err)
	}

	err = validateModel(translate.ProviderAnthropic, "claude-1")
	if err == nil {
		t.Fatal("expected error for unknown anthropic model")
	}

	// unknown providers defer validation to the translator factory
	if err := validateModel(translate.Provider("other"), "anything"); err != nil {
		t.Errorf("unexpected error for unknown provider: %v", err)
	}
}

func TestEnvKeyForProvider(t *testing.T) {
	tests := []struct {
		provider translate.Provider
		want     string
	}{
		{translate.ProviderGemini, "GEMINI_API_KEY"},
		{translate.ProviderOpenAI, "OPENAI_API_KEY"},
		{translate.ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{translate.Provider("other"), "API_KEY"},
	}

	for _, tt := range tests {
		if got := envKeyForProvider(tt.provider); got != tt.want {
			t.Errorf("envKeyForProvider(%s) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}
