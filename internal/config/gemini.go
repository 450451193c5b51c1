package config

import (
	"os"
	"strconv"
	"sync"
)

type GeminiConfig struct {
	APIKey         string
	EmbeddingModel string
	EmbeddingDims  int
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		model := os.Getenv("GEMINI_EMBEDDING_MODEL")
		if model == "" {
			model = "gemini-embedding-001"
		}
		dims := 1536
		if v := os.Getenv("GEMINI_EMBEDDING_DIMS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				dims = n
			}
		}
		geminiConfig = &GeminiConfig{
			APIKey:         os.Getenv("GEMINI_API_KEY"),
			EmbeddingModel: model,
			EmbeddingDims:  dims,
		}
	})
	return geminiConfig
}
