package agent

import (
	"sync"
	"time"
)

// Rubric is the per-dimension template a scorer fills in: how the
// dimension shifts from the stage base level, the justification
// skeleton, and the canned next steps and recommendations.
type Rubric struct {
	LevelOffset     int
	Summary         string
	NextSteps       []string
	Recommendations []RecommendationDraft
}

// RubricCache holds the rubric table behind a TTL so a future
// database-backed rubric source is not re-read on every scoring call.
// It owns its expiry and exposes explicit invalidation instead of
// living as package-level mutable state.
type RubricCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	load     func() map[Dimension]Rubric
	now      func() time.Time
	rubrics  map[Dimension]Rubric
	loadedAt time.Time
}

func NewRubricCache(ttl time.Duration, load func() map[Dimension]Rubric) *RubricCache {
	if load == nil {
		load = DefaultRubrics
	}
	return &RubricCache{ttl: ttl, load: load, now: time.Now}
}

func (c *RubricCache) Get(dim Dimension) Rubric {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rubrics == nil || c.now().Sub(c.loadedAt) > c.ttl {
		c.rubrics = c.load()
		c.loadedAt = c.now()
	}
	return c.rubrics[dim]
}

// Invalidate clears the cached table; the next Get reloads.
func (c *RubricCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rubrics = nil
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

// DefaultRubrics is the built-in scoring table.
func DefaultRubrics() map[Dimension]Rubric {
	return map[Dimension]Rubric{
		DimensionTechnology: {
			LevelOffset: 0,
			Summary:     "Technical maturity assessed from submitted engineering material and declared stage.",
			NextSteps: []string{
				"Document current TRL with test evidence",
				"Define the next qualification milestone",
			},
			Recommendations: []RecommendationDraft{
				{Action: "Run an independent design review of the core subsystem", Impact: ImpactHigh, ETAWeeks: intPtr(6)},
				{Action: "Publish a technology roadmap with TRL gates", Impact: ImpactMedium, ETAWeeks: intPtr(4)},
			},
		},
		DimensionCustomerMarket: {
			LevelOffset: -1,
			Summary:     "Market readiness inferred from customer and segment evidence in the submission.",
			NextSteps: []string{
				"Validate demand with at least three reference customers",
			},
			Recommendations: []RecommendationDraft{
				{Action: "Secure letters of intent from target customers", Impact: ImpactHigh, ETAWeeks: intPtr(8)},
			},
		},
		DimensionBusinessModel: {
			LevelOffset: -1,
			Summary:     "Business model clarity judged from revenue and pricing discussion.",
			NextSteps: []string{
				"Model unit economics for the primary offering",
			},
			Recommendations: []RecommendationDraft{
				{Action: "Stress-test pricing against two comparable missions", Impact: ImpactMedium, ETAWeeks: intPtr(3)},
			},
		},
		DimensionTeam: {
			LevelOffset: 1,
			Summary:     "Team coverage of engineering, commercial, and regulatory roles.",
			NextSteps: []string{
				"Map open roles against the next funding milestone",
			},
			Recommendations: []RecommendationDraft{
				{Action: "Recruit a systems engineering lead", Impact: ImpactHigh, ETAWeeks: intPtr(12), Dependency: strPtr("Funding close")},
			},
		},
		DimensionIP: {
			LevelOffset: -2,
			Summary:     "Intellectual property position from filings and licensing evidence.",
			NextSteps: []string{
				"Complete a freedom-to-operate search",
			},
			Recommendations: []RecommendationDraft{
				{Action: "File provisional patents on the core technology", Impact: ImpactHigh, ETAWeeks: intPtr(10)},
			},
		},
		DimensionFunding: {
			LevelOffset: 0,
			Summary:     "Funding posture from runway, raise history, and grant activity.",
			NextSteps: []string{
				"Extend runway visibility to eighteen months",
			},
			Recommendations: []RecommendationDraft{
				{Action: "Prepare a data room for the next raise", Impact: ImpactMedium, ETAWeeks: intPtr(5)},
			},
		},
		DimensionSustainability: {
			LevelOffset: -2,
			Summary:     "Sustainability practices including debris mitigation and end-of-life planning.",
			NextSteps: []string{
				"Draft a debris mitigation plan aligned with licensing requirements",
			},
			Recommendations: []RecommendationDraft{
				{Action: "Adopt a deorbit strategy for all flight hardware", Impact: ImpactMedium, ETAWeeks: intPtr(8)},
			},
		},
		DimensionSystemIntegration: {
			LevelOffset: -1,
			Summary:     "Integration readiness across interfaces, ground segment, and launch.",
			NextSteps: []string{
				"Freeze interface control documents for the next build",
			},
			Recommendations: []RecommendationDraft{
				{Action: "Book a qualification test campaign slot", Impact: ImpactHigh, ETAWeeks: intPtr(16), Dependency: strPtr("Prototype completion")},
			},
		},
	}
}
