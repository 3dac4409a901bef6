package config

import (
	"os"
	"strings"
	"sync"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type LLMConfig struct {
	Provider string
}

var (
	llmConfig *LLMConfig
	llmOnce   sync.Once
)

func LoadLLMConfig() *LLMConfig {
	llmOnce.Do(func() {
		provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
		if provider == "" {
			provider = ProviderOpenAI
		}
		llmConfig = &LLMConfig{Provider: provider}
	})
	return llmConfig
}
