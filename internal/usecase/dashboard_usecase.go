package usecase

import (
	"errors"

	"github.com/tidwall/gjson"
	"gorm.io/gorm"

	"github.com/launchbase/readiness-api/internal/dto"
	"github.com/launchbase/readiness-api/internal/model"
	"github.com/launchbase/readiness-api/internal/response"
)

const (
	defaultRecommendationPageSize = 20
	maxRecommendationPageSize     = 100
)

// GetDashboard assembles the investor-facing readiness view: current
// scores enriched with the latest agent run's justification, plus a
// page of the accumulated recommendation list. Recommendations are
// paginated because re-runs append rows without bound.
func (uc *AssessmentUsecase) GetDashboard(ventureID string, page, pageSize int) (*dto.VentureDashboardDTO, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxRecommendationPageSize {
		pageSize = defaultRecommendationPageSize
	}

	venture, err := uc.ventures.FindByID(ventureID)
	if err != nil {
		return nil, nil, err
	}

	scores, err := uc.store.FindScoresByVenture(ventureID)
	if err != nil {
		return nil, nil, err
	}
	totalRecs, err := uc.store.CountRecommendationsByVenture(ventureID)
	if err != nil {
		return nil, nil, err
	}
	offset := (page - 1) * pageSize
	recommendations, err := uc.store.FindRecommendationsByVenture(ventureID, offset, pageSize)
	if err != nil {
		return nil, nil, err
	}

	dashboard := &dto.VentureDashboardDTO{
		VentureID:       venture.ID,
		VentureName:     venture.Name,
		Stage:           venture.Stage,
		Scores:          make([]dto.ScoreDTO, 0, len(scores)),
		Recommendations: make([]dto.RecommendationDTO, 0, len(recommendations)),
	}

	// The latest run per dimension carries the narrative fields that
	// the scores table deliberately does not store.
	runsByDimension := map[string]model.AgentRun{}
	submission, err := uc.submissions.FindLatestByVenture(ventureID)
	if err == nil {
		dashboard.SubmissionStatus = submission.Status
		runs, err := uc.store.FindLatestRunsBySubmission(submission.ID.String())
		if err != nil {
			uc.log.Warn("Agent run lookup failed", "venture_id", ventureID, "error", err)
		}
		for _, run := range runs {
			runsByDimension[run.Dimension] = run
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	for _, score := range scores {
		scoreDTO := dto.ScoreDTO{
			Dimension:  score.Dimension,
			Level:      score.Level,
			Confidence: score.Confidence,
		}
		if run, ok := runsByDimension[score.Dimension]; ok {
			output := gjson.ParseBytes(run.OutputJSON)
			scoreDTO.Justification = output.Get("justification").String()
			for _, step := range output.Get("next_steps").Array() {
				scoreDTO.NextSteps = append(scoreDTO.NextSteps, step.String())
			}
			for _, flag := range gjson.ParseBytes(run.Flags).Array() {
				scoreDTO.Flags = append(scoreDTO.Flags, flag.String())
			}
		}
		dashboard.Scores = append(dashboard.Scores, scoreDTO)
	}

	for _, rec := range recommendations {
		dashboard.Recommendations = append(dashboard.Recommendations, dto.RecommendationDTO{
			ID:         rec.ID,
			Dimension:  rec.Dimension,
			Action:     rec.Action,
			Impact:     rec.Impact,
			ETAWeeks:   rec.ETAWeeks,
			Dependency: rec.Dependency,
			Status:     rec.Status,
			CreatedAt:  rec.CreatedAt,
		})
	}

	return dashboard, recommendationPagination(page, pageSize, offset, len(recommendations), totalRecs), nil
}

func recommendationPagination(page, pageSize, offset, returned int, total int64) *response.Pagination {
	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}
	p := &response.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: total,
		HasMore:    int64(offset+returned) < total,
	}
	if returned > 0 {
		p.From = offset + 1
		p.To = offset + returned
	}
	return p
}
