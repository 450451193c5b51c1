package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/pgvector/pgvector-go"
	"golang.org/x/sync/errgroup"

	"github.com/launchbase/readiness-api/internal/logger"
	"github.com/launchbase/readiness-api/internal/model"
	"github.com/launchbase/readiness-api/internal/pipeline"
	"github.com/launchbase/readiness-api/internal/service"
)

type FileStore interface {
	FindBySubmission(submissionID string) ([]model.File, error)
}

type ChunkWriter interface {
	Create(chunk *model.Chunk) error
}

type SubmissionStore interface {
	FindByID(id string) (*model.Submission, error)
	FindLatestByVenture(ventureID string) (*model.Submission, error)
	UpdateStatus(id string, status string) error
}

// IngestionUsecase drives upload batches through extract -> chunk ->
// tag + embed -> persist. Work is best effort with per-file isolation:
// one bad file never blocks its siblings.
type IngestionUsecase struct {
	files       FileStore
	chunks      ChunkWriter
	submissions SubmissionStore
	storage     service.StorageServiceInterface
	embedder    service.EmbedderInterface
	chunker     *pipeline.Chunker
	log         *logger.Logger

	fileTimeout      time.Duration
	embedConcurrency int
}

func NewIngestionUsecase(
	files FileStore,
	chunks ChunkWriter,
	submissions SubmissionStore,
	storage service.StorageServiceInterface,
	embedder service.EmbedderInterface,
	log *logger.Logger,
) *IngestionUsecase {
	return &IngestionUsecase{
		files:            files,
		chunks:           chunks,
		submissions:      submissions,
		storage:          storage,
		embedder:         embedder,
		chunker:          pipeline.DefaultChunker(),
		log:              log.With("component", "IngestionUsecase"),
		fileTimeout:      2 * time.Minute,
		embedConcurrency: 4,
	}
}

// Ingest processes every file of a submission. Re-running on the same
// files produces duplicate chunk rows; there is no dedup.
func (uc *IngestionUsecase) Ingest(ctx context.Context, submissionID string) error {
	if _, err := uc.submissions.FindByID(submissionID); err != nil {
		return err
	}
	if err := uc.submissions.UpdateStatus(submissionID, model.SubmissionProcessing); err != nil {
		uc.log.Warn("Could not mark submission processing", "submission_id", submissionID, "error", err)
	}

	files, err := uc.files.FindBySubmission(submissionID)
	if err != nil {
		return err
	}

	for _, file := range files {
		uc.ingestFile(ctx, file)
	}
	uc.log.Info("Submission ingested", "submission_id", submissionID, "files", len(files))
	return nil
}

// ingestFile downloads, extracts, chunks, and indexes one file. All
// failure paths log and return; none of them abort the batch. The whole
// file runs under one timeout so an oversized document cannot stall the
// worker.
func (uc *IngestionUsecase) ingestFile(ctx context.Context, file model.File) {
	fileCtx, cancel := context.WithTimeout(ctx, uc.fileTimeout)
	defer cancel()

	log := uc.log.With("file_id", file.ID.String(), "path", file.StoragePath)

	data, err := uc.storage.Download(fileCtx, file.StoragePath)
	if err != nil {
		log.Error("File download failed, skipping", "error", err)
		return
	}

	text, err := pipeline.Extract(data, file.MimeType)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnsupportedFormat) || errors.Is(err, pipeline.ErrEmptyExtraction) {
			log.Info("File skipped", "mime_type", file.MimeType, "reason", err.Error())
			return
		}
		log.Error("Extraction failed, skipping", "error", err)
		return
	}

	chunks := uc.chunker.Split(text, file.StoragePath)
	if len(chunks) == 0 {
		log.Info("Nothing to index", "mime_type", file.MimeType)
		return
	}

	// Tag + embed + persist each chunk independently; the semaphore
	// keeps concurrent embedding calls under the provider rate limit.
	var persisted, dropped int
	g, gctx := errgroup.WithContext(fileCtx)
	g.SetLimit(uc.embedConcurrency)
	results := make([]bool, len(chunks))

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			tags := pipeline.TagDimensions(chunk.Content)

			embedding, err := uc.embedder.GenerateEmbedding(gctx, chunk.Content)
			if err != nil {
				log.Warn("Chunk dropped: embedding failed", "source_ref", chunk.SourceRef, "error", err)
				return nil
			}

			dims, err := json.Marshal(tags)
			if err != nil {
				return nil
			}
			row := &model.Chunk{
				FileID:     file.ID,
				Content:    chunk.Content,
				SourceRef:  chunk.SourceRef,
				Dimensions: dims,
				Embedding:  pgvector.NewVector(embedding),
			}
			if err := uc.chunks.Create(row); err != nil {
				log.Error("Chunk persist failed", "source_ref", chunk.SourceRef, "error", err)
				return nil
			}
			results[i] = true
			return nil
		})
	}
	_ = g.Wait()

	for _, ok := range results {
		if ok {
			persisted++
		} else {
			dropped++
		}
	}
	log.Info("File ingested", "chunks", persisted, "dropped", dropped)
}
