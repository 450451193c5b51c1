package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/launchbase/readiness-api/internal/agent"
	"github.com/launchbase/readiness-api/internal/logger"
	"github.com/launchbase/readiness-api/internal/model"
)

const lowConfidenceThreshold = 0.5

type VentureStore interface {
	FindByID(id string) (*model.Venture, error)
}

type EvidenceStore interface {
	FindBySubmissionAndDimension(submissionID string, dimension string) ([]model.Chunk, error)
}

type AssessmentStore interface {
	CreateAgentRun(run *model.AgentRun) error
	UpsertScore(score *model.Score) error
	CreateRecommendations(recommendations []model.Recommendation) error
	FindScoresByVenture(ventureID string) ([]model.Score, error)
	FindRecommendationsByVenture(ventureID string, offset, limit int) ([]model.Recommendation, error)
	CountRecommendationsByVenture(ventureID string) (int64, error)
	FindLatestRunsBySubmission(submissionID string) ([]model.AgentRun, error)
}

// AssessmentUsecase runs one assessment job end to end: venture context,
// latest submission, the eight dimension scorers, and persistence of
// runs, scores, and recommendations.
//
// Known race, by spec: nothing serializes concurrent assessments of the
// same venture. Score upserts are last-write-wins and agent runs and
// recommendations accumulate.
type AssessmentUsecase struct {
	ventures    VentureStore
	submissions SubmissionStore
	evidence    EvidenceStore
	store       AssessmentStore
	scorer      agent.DimensionScorer
	log         *logger.Logger
}

func NewAssessmentUsecase(
	ventures VentureStore,
	submissions SubmissionStore,
	evidence EvidenceStore,
	store AssessmentStore,
	scorer agent.DimensionScorer,
	log *logger.Logger,
) *AssessmentUsecase {
	return &AssessmentUsecase{
		ventures:    ventures,
		submissions: submissions,
		evidence:    evidence,
		store:       store,
		scorer:      scorer,
		log:         log.With("component", "AssessmentUsecase"),
	}
}

type scoredDimension struct {
	output   agent.AgentOutput
	duration time.Duration
}

// RunAssessment is the worker entrypoint for a dequeued job. A missing
// venture aborts the job; a missing submission does not — older
// ventures may never have uploaded anything, and scoring then proceeds
// on stage context alone.
func (uc *AssessmentUsecase) RunAssessment(ctx context.Context, ventureID string) error {
	venture, err := uc.ventures.FindByID(ventureID)
	if err != nil {
		return fmt.Errorf("load venture %s: %w", ventureID, err)
	}

	var submission *model.Submission
	sub, err := uc.submissions.FindLatestByVenture(ventureID)
	switch {
	case err == nil:
		submission = sub
	case errors.Is(err, gorm.ErrRecordNotFound):
		uc.log.Info("No submission for venture, scoring on stage context only", "venture_id", ventureID)
	default:
		return fmt.Errorf("load latest submission for %s: %w", ventureID, err)
	}

	input := agent.Input{
		VentureID:   venture.ID,
		VentureName: venture.Name,
		Stage:       venture.Stage,
		Evidence:    map[agent.Dimension][]agent.EvidenceChunk{},
	}
	if submission != nil {
		input.SubmissionID = &submission.ID
		input.Evidence = uc.collectEvidence(submission.ID.String())
	}

	dimensions := agent.AllDimensions()
	results := make([]scoredDimension, len(dimensions))

	// The eight scorers are independent computations over the same
	// context, so they run concurrently. Persistence stays sequential
	// below: there is no transaction spanning the upserts.
	g, gctx := errgroup.WithContext(ctx)
	for i, dim := range dimensions {
		i, dim := i, dim
		g.Go(func() error {
			started := time.Now()
			out, err := uc.scorer.ScoreDimension(gctx, dim, input)
			if err != nil {
				return fmt.Errorf("score %s: %w", dim, err)
			}
			results[i] = scoredDimension{output: out, duration: time.Since(started)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, result := range results {
		if err := uc.persistResult(venture, submission, result); err != nil {
			return err
		}
	}

	if submission != nil {
		if err := uc.submissions.UpdateStatus(submission.ID.String(), model.SubmissionCompleted); err != nil {
			return fmt.Errorf("mark submission completed: %w", err)
		}
	}

	uc.log.Info("Assessment completed", "venture_id", ventureID, "dimensions", len(results))
	return nil
}

func (uc *AssessmentUsecase) collectEvidence(submissionID string) map[agent.Dimension][]agent.EvidenceChunk {
	evidence := map[agent.Dimension][]agent.EvidenceChunk{}
	for _, dim := range agent.AllDimensions() {
		chunks, err := uc.evidence.FindBySubmissionAndDimension(submissionID, string(dim))
		if err != nil {
			uc.log.Warn("Evidence lookup failed", "submission_id", submissionID, "dimension", dim, "error", err)
			continue
		}
		for _, chunk := range chunks {
			evidence[dim] = append(evidence[dim], agent.EvidenceChunk{
				SourceRef: chunk.SourceRef,
				Content:   chunk.Content,
			})
		}
	}
	return evidence
}

func (uc *AssessmentUsecase) persistResult(venture *model.Venture, submission *model.Submission, result scoredDimension) error {
	out := result.output

	if submission != nil {
		outputJSON, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("marshal agent output: %w", err)
		}
		evidenceRefs, _ := json.Marshal(out.Evidence)

		var flags []string
		if out.Confidence < lowConfidenceThreshold {
			flags = append(flags, "low_confidence")
		}
		flagsJSON, _ := json.Marshal(flags)

		run := &model.AgentRun{
			SubmissionID: submission.ID,
			Dimension:    string(out.Dimension),
			Model:        uc.scorer.ModelName(),
			OutputJSON:   outputJSON,
			Confidence:   out.Confidence,
			DurationMS:   result.duration.Milliseconds(),
			EvidenceRefs: evidenceRefs,
			Flags:        flagsJSON,
		}
		if err := uc.store.CreateAgentRun(run); err != nil {
			return fmt.Errorf("persist agent run for %s: %w", out.Dimension, err)
		}
	}

	score := &model.Score{
		VentureID:  venture.ID,
		Dimension:  string(out.Dimension),
		Level:      out.Level,
		Confidence: out.Confidence,
	}
	if err := uc.store.UpsertScore(score); err != nil {
		return fmt.Errorf("upsert score for %s: %w", out.Dimension, err)
	}

	recommendations := make([]model.Recommendation, 0, len(out.Recommendations))
	for _, draft := range out.Recommendations {
		recommendations = append(recommendations, model.Recommendation{
			VentureID:  venture.ID,
			Dimension:  string(out.Dimension),
			Action:     draft.Action,
			Impact:     draft.Impact,
			ETAWeeks:   draft.ETAWeeks,
			Dependency: draft.Dependency,
			Status:     "open",
		})
	}
	if err := uc.store.CreateRecommendations(recommendations); err != nil {
		return fmt.Errorf("persist recommendations for %s: %w", out.Dimension, err)
	}
	return nil
}
