package llm

import (
	"strings"
	"testing"

	"github.com/ppiankov/forensia/internal/model"
)

func TestBuildPrompt_Defaults(t *testing.T) {
	prompt := BuildPrompt(model.DefaultFeatures(), model.ClassificationAuthentic)

	expected := []string{
		"Language: English",
		"Pause entropy: 1.250",
		"Pitch jitter: 0.840%",
		"Amplitude shimmer: 1.120%",
		"Silence noise variance: 0.0045",
		"Prosody drift score: 2.10",
		"Final classification: Authentic / Human",
	}
	for _, s := range expected {
		if !strings.Contains(prompt, s) {
			t.Errorf("Prompt missing %q", s)
		}
	}
}

func TestBuildPrompt_Rules(t *testing.T) {
	prompt := BuildPrompt(model.DefaultFeatures(), model.ClassificationSynthetic)

	rules := []string{
		"You do NOT analyze audio.",
		"You do NOT decide classifications.",
		"You do NOT invent features.",
		"You do NOT speculate.",
		"max 20 words",
		"neutral, technical language",
		"Avoid mentioning AI models",
	}
	for _, r := range rules {
		if !strings.Contains(prompt, r) {
			t.Errorf("Prompt missing rule %q", r)
		}
	}
	if !strings.Contains(prompt, "Final classification: Synthetic / Generated") {
		t.Error("Prompt missing classification label")
	}
}

func TestBuildPrompt_OutOfRangeValuesPassThrough(t *testing.T) {
	f := model.DefaultFeatures()
	f.PauseEntropy = 12.3456
	f.SilenceNoiseVariance = -0.5
	f.Language = model.LanguageMalayalam

	prompt := BuildPrompt(f, model.ClassificationAltered)

	for _, s := range []string{"Pause entropy: 12.346", "Silence noise variance: -0.5000", "Language: Malayalam"} {
		if !strings.Contains(prompt, s) {
			t.Errorf("Prompt missing %q", s)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Provider != "gemini" {
		t.Errorf("Expected gemini provider, got %q", config.Provider)
	}
	if config.Model != DefaultModel {
		t.Errorf("Expected model %q, got %q", DefaultModel, config.Model)
	}
	if config.Temperature != 0.1 || config.TopK != 1 {
		t.Errorf("Expected temperature 0.1 / topK 1, got %v / %d", config.Temperature, config.TopK)
	}
	if config.Timeout != 0 {
		t.Errorf("Expected no timeout by default, got %d", config.Timeout)
	}
}

func TestConfigFromModel(t *testing.T) {
	mc := model.DefaultConfig().LLM
	mc.APIKey = "k"
	mc.HTTPSProxy = "http://proxy:1"

	c := ConfigFromModel(mc)
	if c.APIKey != "k" || c.HTTPSProxy != "http://proxy:1" || c.Model != mc.Model || c.TopK != 1 {
		t.Errorf("Unexpected conversion: %+v", c)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		provider string
		apiKey   string
		wantName string
		wantErr  bool
	}{
		{"gemini", "k", "gemini", false},
		{"", "k", "gemini", false},
		{"openai", "k", "openai", false},
		{"claude", "k", "anthropic", false},
		{"ollama", "", "ollama", false},
		{"gemini", "", "", true},
		{"openai", "", "", true},
		{"cohere", "k", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.provider+"/"+tt.apiKey, func(t *testing.T) {
			p, err := NewProvider(Config{Provider: tt.provider, APIKey: tt.apiKey, Model: "m"})
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Expected %s, got %s", tt.wantName, p.Name())
			}
		})
	}
}
