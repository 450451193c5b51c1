package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pgvector/pgvector-go"

	"github.com/launchbase/readiness-api/internal/agent"
	"github.com/launchbase/readiness-api/internal/dto"
	"github.com/launchbase/readiness-api/internal/middleware"
	"github.com/launchbase/readiness-api/internal/model"
	"github.com/launchbase/readiness-api/internal/queue"
	"github.com/launchbase/readiness-api/internal/repository"
	"github.com/launchbase/readiness-api/internal/service"
	"github.com/launchbase/readiness-api/internal/usecase"
	"github.com/launchbase/readiness-api/internal/util"
	"github.com/tidwall/gjson"
)

type VentureHandler struct {
	ventureRepo *repository.VentureRepository
	chunkRepo   *repository.ChunkRepository
	assessments *usecase.AssessmentUsecase
	embedder    service.EmbedderInterface
	queue       *queue.Queue
}

func NewVentureHandler(
	ventureRepo *repository.VentureRepository,
	chunkRepo *repository.ChunkRepository,
	assessments *usecase.AssessmentUsecase,
	embedder service.EmbedderInterface,
	q *queue.Queue,
) *VentureHandler {
	return &VentureHandler{
		ventureRepo: ventureRepo,
		chunkRepo:   chunkRepo,
		assessments: assessments,
		embedder:    embedder,
		queue:       q,
	}
}

func (h *VentureHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/ventures", h.Create)
	app.Get("/ventures/:id", h.Get)
	app.Get("/ventures/:id/dashboard", h.Dashboard)
	app.Post("/ventures/:id/assess", middleware.RateLimiter(2, 10*time.Second), h.Assess)
	app.Get("/ventures/:id/search", h.Search)
}

type createVentureRequest struct {
	Name        string `json:"name"`
	Stage       string `json:"stage"`
	Description string `json:"description"`
}

func (h *VentureHandler) Create(c *fiber.Ctx) error {
	var req createVentureRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	if req.Name == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "name is required",
		})
	}

	venture := model.Venture{
		Name:        req.Name,
		Stage:       req.Stage,
		Description: req.Description,
	}
	if err := h.ventureRepo.Create(&venture); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to create venture",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Venture created",
		Data:    venture,
	})
}

func (h *VentureHandler) Get(c *fiber.Ctx) error {
	venture, err := h.ventureRepo.FindByID(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "venture not found",
		})
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Venture found",
		Data:    venture,
	})
}

func (h *VentureHandler) Dashboard(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	dashboard, pagination, err := h.assessments.GetDashboard(c.Params("id"), page, pageSize)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "venture not found",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get dashboard",
		Data:       dashboard,
		Pagination: pagination,
	})
}

// Assess enqueues an assessment job; the worker picks it up
// asynchronously and the dashboard reflects results when done.
func (h *VentureHandler) Assess(c *fiber.Ctx) error {
	venture, err := h.ventureRepo.FindByID(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "venture not found",
		})
	}

	job := queue.AssessmentJob{VentureID: venture.ID.String()}
	if err := h.queue.Enqueue(c.Context(), job); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to enqueue assessment",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "Assessment queued",
		Data:    fiber.Map{"venture_id": venture.ID, "status": "queued"},
	})
}

// Search embeds the query text and runs a pgvector nearest-neighbour
// lookup over the venture's chunks, optionally filtered by dimension
// tag.
func (h *VentureHandler) Search(c *fiber.Ctx) error {
	id := c.Params("id")
	query := c.Query("q")
	if query == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "q parameter is required",
		})
	}
	dimension := c.Query("dimension")
	if dimension != "" && !agent.IsValidDimension(dimension) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "unknown dimension",
		})
	}
	topK := c.QueryInt("top_k", 5)

	embedding, err := h.embedder.GenerateEmbedding(c.Context(), query)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to embed query",
		}, err)
	}

	chunks, err := h.chunkRepo.SearchSimilar(pgvector.NewVector(embedding), id, dimension, topK)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "search failed",
		}, err)
	}

	results := make([]dto.ChunkSearchResultDTO, 0, len(chunks))
	for _, chunk := range chunks {
		var dims []string
		for _, d := range gjson.ParseBytes(chunk.Dimensions).Array() {
			dims = append(dims, d.String())
		}
		results = append(results, dto.ChunkSearchResultDTO{
			SourceRef:  chunk.SourceRef,
			Content:    chunk.Content,
			Dimensions: dims,
		})
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success search chunks",
		Data:    results,
	})
}
