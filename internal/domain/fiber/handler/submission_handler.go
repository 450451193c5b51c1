package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/launchbase/readiness-api/internal/config"
	"github.com/launchbase/readiness-api/internal/dto"
	"github.com/launchbase/readiness-api/internal/logger"
	"github.com/launchbase/readiness-api/internal/model"
	"github.com/launchbase/readiness-api/internal/repository"
	"github.com/launchbase/readiness-api/internal/service"
	"github.com/launchbase/readiness-api/internal/usecase"
	"github.com/launchbase/readiness-api/internal/util"
)

type SubmissionHandler struct {
	ventureRepo    *repository.VentureRepository
	submissionRepo *repository.SubmissionRepository
	fileRepo       *repository.FileRepository
	storage        service.StorageServiceInterface
	ingestion      *usecase.IngestionUsecase
	log            *logger.Logger
}

func NewSubmissionHandler(
	ventureRepo *repository.VentureRepository,
	submissionRepo *repository.SubmissionRepository,
	fileRepo *repository.FileRepository,
	storage service.StorageServiceInterface,
	ingestion *usecase.IngestionUsecase,
	log *logger.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		ventureRepo:    ventureRepo,
		submissionRepo: submissionRepo,
		fileRepo:       fileRepo,
		storage:        storage,
		ingestion:      ingestion,
		log:            log.With("component", "SubmissionHandler"),
	}
}

func (h *SubmissionHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/ventures/:id/files", h.Upload)
	app.Post("/submissions/:id/process", h.Process)
	app.Get("/submissions/:id", h.Status)
	app.Delete("/files/:id", h.DeleteFile)
}

// Upload stores the blob and attaches a file row to the venture's open
// submission, creating one if none is pending. The virus scan is a
// stub: every file passes.
func (h *SubmissionHandler) Upload(c *fiber.Ctx) error {
	venture, err := h.ventureRepo.FindByID(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "venture not found",
		})
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "document file is required",
		}, err)
	}

	maxSize := config.LoadAppConfig().MaxUploadSize
	if fileHeader.Size > maxSize {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusRequestEntityTooLarge,
			Message: fmt.Sprintf("file too large (max %d bytes)", maxSize),
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot read uploaded file",
		}, err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot read uploaded file",
		}, err)
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	storagePath := fmt.Sprintf("%s/%s%s", venture.ID, uuid.NewString(), filepath.Ext(fileHeader.Filename))
	if err := h.storage.Upload(c.Context(), storagePath, data, mimeType); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to store file",
		}, err)
	}

	submission, err := h.submissionRepo.FindOpenByVenture(venture.ID.String())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		submission = &model.Submission{
			VentureID: venture.ID,
			Status:    model.SubmissionPending,
		}
		err = h.submissionRepo.Create(submission)
	}
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to resolve submission",
		}, err)
	}

	file := model.File{
		SubmissionID: submission.ID,
		StoragePath:  storagePath,
		MimeType:     mimeType,
		Size:         fileHeader.Size,
		ScanClean:    true,
	}
	if err := h.fileRepo.Create(&file); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to record file",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "File uploaded",
		Data: fiber.Map{
			"file_id":       file.ID,
			"submission_id": submission.ID,
			"storage_path":  storagePath,
		},
	})
}

// Process kicks off ingestion in the background; the client polls the
// submission status endpoint.
func (h *SubmissionHandler) Process(c *fiber.Ctx) error {
	submission, err := h.submissionRepo.FindByID(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "submission not found",
		})
	}

	submissionID := submission.ID.String()
	go func() {
		if err := h.ingestion.Ingest(context.Background(), submissionID); err != nil {
			h.log.Error("Ingestion failed", "submission_id", submissionID, "error", err)
		}
	}()

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "Processing started",
		Data:    fiber.Map{"id": submission.ID, "status": model.SubmissionProcessing},
	})
}

func (h *SubmissionHandler) Status(c *fiber.Ctx) error {
	submission, err := h.submissionRepo.FindByID(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "submission not found",
		})
	}
	data := dto.SubmissionStatusDTO{
		ID:        submission.ID,
		VentureID: submission.VentureID,
		Status:    submission.Status,
		CreatedAt: submission.CreatedAt,
		UpdatedAt: submission.UpdatedAt,
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get submission",
		Data:    data,
	})
}

// DeleteFile drops the blob and the row; chunks cascade with the file,
// and removing the submission's last file removes the submission too.
func (h *SubmissionHandler) DeleteFile(c *fiber.Ctx) error {
	file, err := h.fileRepo.FindByID(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "file not found",
		})
	}

	if err := h.storage.Remove(c.Context(), []string{file.StoragePath}); err != nil {
		h.log.Warn("Blob removal failed, deleting row anyway", "path", file.StoragePath, "error", err)
	}
	if err := h.fileRepo.Delete(file.ID.String()); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to delete file",
		}, err)
	}

	remaining, err := h.fileRepo.CountBySubmission(file.SubmissionID.String())
	if err == nil && remaining == 0 {
		if err := h.submissionRepo.Delete(file.SubmissionID.String()); err != nil {
			h.log.Warn("Empty submission cleanup failed", "submission_id", file.SubmissionID, "error", err)
		}
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "File deleted",
	})
}
