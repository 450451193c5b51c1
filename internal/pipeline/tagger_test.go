package pipeline

import (
	"reflect"
	"sort"
	"testing"

	"github.com/launchbase/readiness-api/internal/agent"
)

func TestTagDimensionsKeywordMatch(t *testing.T) {
	tags := TagDimensions("We filed a patent and refined our revenue model last quarter.")
	sort.Strings(tags)
	want := []string{"Business Model", "IP"}
	if !reflect.DeepEqual(tags, want) {
		t.Fatalf("got %v, want %v", tags, want)
	}
}

func TestTagDimensionsCaseInsensitive(t *testing.T) {
	tags := TagDimensions("PATENT PENDING")
	if len(tags) != 1 || tags[0] != "IP" {
		t.Fatalf("got %v, want [IP]", tags)
	}
}

func TestTagDimensionsMultipleMatches(t *testing.T) {
	tags := TagDimensions("Our team closed a funding round to derisk the propulsion technology.")
	got := map[string]bool{}
	for _, tag := range tags {
		got[tag] = true
	}
	for _, want := range []string{"Technology", "Team", "Funding"} {
		if !got[want] {
			t.Fatalf("missing tag %s in %v", want, tags)
		}
	}
}

// A chunk matching no keywords gets every dimension, so dimension-scoped
// retrieval never silently loses it.
func TestTagDimensionsFallbackToAll(t *testing.T) {
	tags := TagDimensions("lorem ipsum dolor sit amet")
	if len(tags) != 8 {
		t.Fatalf("expected all 8 dimensions, got %d: %v", len(tags), tags)
	}
	for i, d := range agent.AllDimensions() {
		if tags[i] != string(d) {
			t.Fatalf("tag %d: got %q, want %q", i, tags[i], d)
		}
	}
}
