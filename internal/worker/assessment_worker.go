package worker

import (
	"context"
	"fmt"

	"github.com/launchbase/readiness-api/internal/logger"
	"github.com/launchbase/readiness-api/internal/queue"
	"github.com/launchbase/readiness-api/internal/usecase"
)

// AssessmentWorker consumes assessment jobs one at a time per instance.
// A failing or panicking job is surfaced to the queue (dead-letter) and
// never takes the loop down; the affected submission simply stays in
// its prior status.
type AssessmentWorker struct {
	queue       *queue.Queue
	assessments *usecase.AssessmentUsecase
	log         *logger.Logger
}

func New(q *queue.Queue, assessments *usecase.AssessmentUsecase, log *logger.Logger) *AssessmentWorker {
	return &AssessmentWorker{
		queue:       q,
		assessments: assessments,
		log:         log.With("component", "AssessmentWorker"),
	}
}

func (w *AssessmentWorker) Start(ctx context.Context) {
	w.log.Info("Starting assessment worker")
	go w.queue.Consume(ctx, w.handle)
}

func (w *AssessmentWorker) handle(ctx context.Context, job queue.AssessmentJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Assessment job panicked", "venture_id", job.VentureID, "panic", r)
			err = fmt.Errorf("assessment job panic: %v", r)
		}
	}()

	w.log.Info("Processing assessment job", "venture_id", job.VentureID)
	return w.assessments.RunAssessment(ctx, job.VentureID)
}
