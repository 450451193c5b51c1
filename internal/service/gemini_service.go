package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/launchbase/readiness-api/internal/config"
	"github.com/launchbase/readiness-api/internal/logger"
	"google.golang.org/genai"
)

// ErrEmbeddingService wraps transport and API failures from the
// embedding provider. Callers drop the affected chunk and continue.
var ErrEmbeddingService = errors.New("embedding service failure")

type EmbedderInterface interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

type GeminiService struct {
	client         *genai.Client
	log            *logger.Logger
	model          string
	dims           int
	MaxRetries     int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	RequestTimeout time.Duration

	// Shared by concurrent embedding goroutines, so the failure
	// counter must be atomic.
	consecutiveErrors atomic.Int32
	circuitBreakerMax int
}

func NewGeminiService(ctx context.Context, log *logger.Logger) (*GeminiService, error) {
	geminiConfig := config.LoadGeminiConfig()
	if geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiService{
		client:            client,
		log:               log.With("service", "GeminiService"),
		model:             geminiConfig.EmbeddingModel,
		dims:              geminiConfig.EmbeddingDims,
		MaxRetries:        3,
		BaseDelay:         time.Second,
		MaxDelay:          90 * time.Second,
		RequestTimeout:    90 * time.Second,
		circuitBreakerMax: 5,
	}, nil
}

func (s *GeminiService) Dimensions() int {
	return s.dims
}

func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmedText := strings.TrimSpace(text)
	if trimmedText == "" {
		return nil, fmt.Errorf("%w: text for embedding cannot be empty", ErrEmbeddingService)
	}

	if len(trimmedText) > 10000 {
		s.log.Warn("Embedding text exceeds recommended limit, truncating", "length", len(trimmedText))
		trimmedText = trimmedText[:truncationPoint(trimmedText, 10000)]
	}

	if failures := s.consecutiveErrors.Load(); failures >= int32(s.circuitBreakerMax) {
		return nil, fmt.Errorf("%w: circuit breaker open after %d consecutive errors", ErrEmbeddingService, failures)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	content := []*genai.Content{genai.NewContentFromText(trimmedText, genai.RoleUser)}
	embedConfig := &genai.EmbedContentConfig{
		OutputDimensionality: genai.Ptr(int32(s.dims)),
	}

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			s.log.Info("Retrying GenerateEmbedding", "attempt", attempt, "max", s.MaxRetries, "delay", delay)

			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				return nil, fmt.Errorf("%w: context timeout during retry: %v", ErrEmbeddingService, timeoutCtx.Err())
			}
		}

		result, err := s.client.Models.EmbedContent(timeoutCtx, s.model, content, embedConfig)
		if err == nil {
			s.consecutiveErrors.Store(0)
			embedding, err := s.validateEmbeddingResponse(result)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid embedding response: %v", ErrEmbeddingService, err)
			}
			return embedding, nil
		}

		lastErr = err

		if !s.isRetryableError(err) {
			s.log.Warn("Non-retryable embedding error", "error", err)
			s.consecutiveErrors.Add(1)
			return nil, fmt.Errorf("%w: %v", ErrEmbeddingService, err)
		}

		s.log.Warn("Retryable embedding error", "attempt", attempt+1, "error", err)
	}

	s.consecutiveErrors.Add(1)
	return nil, fmt.Errorf("%w: max retries (%d) exceeded: %v", ErrEmbeddingService, s.MaxRetries, lastErr)
}

// truncationPoint walks limit backward to a rune boundary so byte-level
// truncation never leaves a split rune at the end.
func truncationPoint(s string, limit int) int {
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return limit
}

func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > s.MaxDelay {
		delay = s.MaxDelay
	}

	jitter := time.Duration(float64(delay) * 0.25)
	delay = delay - jitter/2 + time.Duration(float64(jitter)*0.5)

	return delay
}

func (s *GeminiService) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errMsg := err.Error()

	if strings.Contains(errMsg, "context canceled") ||
		strings.Contains(errMsg, "context deadline exceeded") {
		return false
	}
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429:
			return true
		case 500, 502, 503, 504:
			return true
		case 400, 401, 403, 404:
			return false
		}
	}

	if strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF") {
		return true
	}

	return false
}

func (s *GeminiService) validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	embedding := resp.Embeddings[0].Values
	if len(embedding) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}
	if len(embedding) != s.dims {
		return nil, fmt.Errorf("embedding has %d values, expected %d", len(embedding), s.dims)
	}

	for i, val := range embedding {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}
	return embedding, nil
}

func (s *GeminiService) ResetCircuitBreaker() {
	s.consecutiveErrors.Store(0)
}

func (s *GeminiService) GetCircuitBreakerStatus() (consecutiveErrors int, isOpen bool) {
	failures := int(s.consecutiveErrors.Load())
	return failures, failures >= s.circuitBreakerMax
}
