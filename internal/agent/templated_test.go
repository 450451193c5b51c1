package agent

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBaseLevelStageMapping(t *testing.T) {
	cases := []struct {
		stage string
		want  int
	}{
		{"series_a", 6},
		{"seed", 5},
		{"pre_seed", 3},
		{"", 3},
		{"series_b", 3},
	}
	for _, tc := range cases {
		if got := BaseLevel(tc.stage); got != tc.want {
			t.Fatalf("BaseLevel(%q) = %d, want %d", tc.stage, got, tc.want)
		}
	}
}

func TestScoreDimensionTechnologyUsesStageBase(t *testing.T) {
	scorer := NewTemplatedScorer(nil)
	in := Input{VentureID: uuid.New(), VentureName: "OrbitalWorks", Stage: "series_a"}

	out, err := scorer.ScoreDimension(context.Background(), DimensionTechnology, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Level != 6 {
		t.Fatalf("Technology level at series_a: got %d, want 6", out.Level)
	}
	if out.Dimension != DimensionTechnology {
		t.Fatalf("dimension mismatch: %s", out.Dimension)
	}
}

func TestScoreDimensionBounds(t *testing.T) {
	scorer := NewTemplatedScorer(nil)
	in := Input{VentureID: uuid.New(), VentureName: "DebrisNet", Stage: "unknown"}

	for _, dim := range AllDimensions() {
		out, err := scorer.ScoreDimension(context.Background(), dim, in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", dim, err)
		}
		if out.Level < 1 || out.Level > 9 {
			t.Fatalf("%s: level %d out of range", dim, out.Level)
		}
		if out.Confidence < 0 || out.Confidence > 1 {
			t.Fatalf("%s: confidence %f out of range", dim, out.Confidence)
		}
		if len(out.Recommendations) == 0 {
			t.Fatalf("%s: rubric produced no recommendations", dim)
		}
	}
}

func TestScoreDimensionEvidenceRefsCapped(t *testing.T) {
	scorer := NewTemplatedScorer(nil)
	evidence := make([]EvidenceChunk, 5)
	for i := range evidence {
		evidence[i] = EvidenceChunk{SourceRef: "doc.pdf#chunk_0", Content: "patent"}
	}
	in := Input{
		VentureID: uuid.New(),
		Stage:     "seed",
		Evidence:  map[Dimension][]EvidenceChunk{DimensionIP: evidence},
	}

	out, err := scorer.ScoreDimension(context.Background(), DimensionIP, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Evidence) != 3 {
		t.Fatalf("expected evidence capped at 3, got %d", len(out.Evidence))
	}
}

func TestDefaultRubricsCarryValidImpacts(t *testing.T) {
	valid := map[string]bool{ImpactLow: true, ImpactMedium: true, ImpactHigh: true}
	rubrics := DefaultRubrics()
	for _, dim := range AllDimensions() {
		rubric, ok := rubrics[dim]
		if !ok {
			t.Fatalf("%s: missing rubric entry", dim)
		}
		for _, rec := range rubric.Recommendations {
			if !valid[rec.Impact] {
				t.Fatalf("%s: recommendation %q has impact %q", dim, rec.Action, rec.Impact)
			}
		}
	}
}

func TestRubricCacheTTLAndInvalidate(t *testing.T) {
	loads := 0
	cache := NewRubricCache(time.Minute, func() map[Dimension]Rubric {
		loads++
		return DefaultRubrics()
	})

	current := time.Unix(0, 0)
	cache.now = func() time.Time { return current }

	cache.Get(DimensionTeam)
	cache.Get(DimensionFunding)
	if loads != 1 {
		t.Fatalf("expected 1 load within TTL, got %d", loads)
	}

	current = current.Add(2 * time.Minute)
	cache.Get(DimensionTeam)
	if loads != 2 {
		t.Fatalf("expected reload after TTL, got %d loads", loads)
	}

	cache.Invalidate()
	cache.Get(DimensionTeam)
	if loads != 3 {
		t.Fatalf("expected reload after Invalidate, got %d loads", loads)
	}
}
