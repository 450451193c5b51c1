package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/launchbase/readiness-api/internal/agent"
	"github.com/launchbase/readiness-api/internal/logger"
	"github.com/launchbase/readiness-api/internal/model"
)

func newAssessmentFixture(stage string, withSubmission bool) (*AssessmentUsecase, *fakeAssessmentStore, *fakeSubmissionStore, *model.Venture) {
	venture := &model.Venture{ID: uuid.New(), Name: "OrbitalWorks", Stage: stage}

	var submission *model.Submission
	if withSubmission {
		submission = &model.Submission{
			ID:        uuid.New(),
			VentureID: venture.ID,
			Status:    model.SubmissionProcessing,
		}
	}

	store := newFakeAssessmentStore()
	submissions := newFakeSubmissionStore(submission)
	uc := NewAssessmentUsecase(
		&fakeVentureStore{venture: venture},
		submissions,
		&fakeEvidenceStore{},
		store,
		agent.NewTemplatedScorer(nil),
		logger.NewNop(),
	)
	return uc, store, submissions, venture
}

func TestRunAssessmentProducesAllDimensions(t *testing.T) {
	uc, store, submissions, venture := newAssessmentFixture("series_a", true)

	if err := uc.RunAssessment(context.Background(), venture.ID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.scores) != 8 {
		t.Fatalf("expected 8 score rows, got %d", len(store.scores))
	}
	if len(store.runs) != 8 {
		t.Fatalf("expected 8 agent runs, got %d", len(store.runs))
	}
	tech := store.scores[venture.ID.String()+"/Technology"]
	if tech.Level != 6 {
		t.Fatalf("Technology at series_a: got level %d, want 6", tech.Level)
	}

	subID := ""
	for id := range submissions.statuses {
		subID = id
	}
	if submissions.statuses[subID] != model.SubmissionCompleted {
		t.Fatalf("submission not marked completed: %v", submissions.statuses)
	}
}

// Running the worker twice leaves exactly one score row per dimension
// (upsert) but doubles the recommendation and run counts (append-only).
func TestRunAssessmentTwiceUpsertsScoresAccumulatesRest(t *testing.T) {
	uc, store, _, venture := newAssessmentFixture("seed", true)
	ctx := context.Background()

	if err := uc.RunAssessment(ctx, venture.ID.String()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstRecs := len(store.recs)
	if firstRecs == 0 {
		t.Fatalf("first run produced no recommendations")
	}

	if err := uc.RunAssessment(ctx, venture.ID.String()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(store.scores) != 8 {
		t.Fatalf("expected 8 score rows after rerun, got %d", len(store.scores))
	}
	if len(store.recs) != 2*firstRecs {
		t.Fatalf("expected %d recommendations after rerun, got %d", 2*firstRecs, len(store.recs))
	}
	if len(store.runs) != 16 {
		t.Fatalf("expected 16 agent runs after rerun, got %d", len(store.runs))
	}
}

func TestRunAssessmentMissingVentureAbortsJob(t *testing.T) {
	uc, _, _, _ := newAssessmentFixture("seed", true)
	err := uc.RunAssessment(context.Background(), uuid.NewString())
	if err == nil {
		t.Fatalf("expected error for unknown venture")
	}
}

// A venture without any submission still gets scored on stage context;
// no agent runs are written because there is no submission to attach
// them to.
func TestRunAssessmentWithoutSubmission(t *testing.T) {
	uc, store, submissions, venture := newAssessmentFixture("pre_seed", false)

	if err := uc.RunAssessment(context.Background(), venture.ID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.scores) != 8 {
		t.Fatalf("expected 8 score rows, got %d", len(store.scores))
	}
	if len(store.runs) != 0 {
		t.Fatalf("expected no agent runs without submission, got %d", len(store.runs))
	}
	if len(submissions.statuses) != 0 {
		t.Fatalf("no submission should have been touched: %v", submissions.statuses)
	}
}

type lowConfidenceScorer struct{}

func (lowConfidenceScorer) ModelName() string { return "stub" }

func (lowConfidenceScorer) ScoreDimension(ctx context.Context, dim agent.Dimension, in agent.Input) (agent.AgentOutput, error) {
	return agent.AgentOutput{
		Dimension:     dim,
		Level:         2,
		Confidence:    0.2,
		Justification: "insufficient evidence",
	}, nil
}

func TestRunAssessmentFlagsLowConfidence(t *testing.T) {
	venture := &model.Venture{ID: uuid.New(), Name: "DebrisNet", Stage: "seed"}
	submission := &model.Submission{ID: uuid.New(), VentureID: venture.ID, Status: model.SubmissionProcessing}
	store := newFakeAssessmentStore()

	uc := NewAssessmentUsecase(
		&fakeVentureStore{venture: venture},
		newFakeSubmissionStore(submission),
		&fakeEvidenceStore{},
		store,
		lowConfidenceScorer{},
		logger.NewNop(),
	)

	if err := uc.RunAssessment(context.Background(), venture.ID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, run := range store.runs {
		if !strings.Contains(string(run.Flags), "low_confidence") {
			t.Fatalf("run %s missing low_confidence flag: %s", run.Dimension, run.Flags)
		}
	}
}
