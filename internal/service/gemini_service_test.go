package service

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf8"
)

func TestTruncationPointKeepsValidUTF8(t *testing.T) {
	// One ASCII byte then two-byte runes, so byte 10000 lands inside a
	// rune and a blind slice would emit invalid UTF-8.
	text := "a" + strings.Repeat("é", 6000)
	cut := truncationPoint(text, 10000)
	if cut > 10000 {
		t.Fatalf("truncation point %d exceeds limit", cut)
	}
	if !utf8.ValidString(text[:cut]) {
		t.Fatalf("truncated text is invalid UTF-8 at %d", cut)
	}

	ascii := strings.Repeat("x", 12000)
	if got := truncationPoint(ascii, 10000); got != 10000 {
		t.Fatalf("ASCII truncation moved the cut: got %d", got)
	}
}

func TestCircuitBreakerCounterSharedAcrossGoroutines(t *testing.T) {
	// ingestFile fans GenerateEmbedding out across goroutines sharing
	// one service, so the failure counter is written concurrently.
	s := &GeminiService{circuitBreakerMax: 5}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.consecutiveErrors.Add(1)
		}()
	}
	wg.Wait()

	if got := s.consecutiveErrors.Load(); got != 8 {
		t.Fatalf("expected 8 recorded failures, got %d", got)
	}
	if got := s.consecutiveErrors.Load(); got < int32(s.circuitBreakerMax) {
		t.Fatalf("breaker should be open at %d failures", got)
	}

	s.consecutiveErrors.Store(0)
	if got := s.consecutiveErrors.Load(); got != 0 {
		t.Fatalf("expected counter reset, got %d", got)
	}
}
