package usecase

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/launchbase/readiness-api/internal/model"
)

type fakeVentureStore struct {
	venture *model.Venture
}

func (f *fakeVentureStore) FindByID(id string) (*model.Venture, error) {
	if f.venture == nil || f.venture.ID.String() != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.venture, nil
}

type fakeSubmissionStore struct {
	submission *model.Submission
	statuses   map[string]string
}

func newFakeSubmissionStore(submission *model.Submission) *fakeSubmissionStore {
	return &fakeSubmissionStore{submission: submission, statuses: map[string]string{}}
}

func (f *fakeSubmissionStore) FindByID(id string) (*model.Submission, error) {
	if f.submission == nil || f.submission.ID.String() != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.submission, nil
}

func (f *fakeSubmissionStore) FindLatestByVenture(ventureID string) (*model.Submission, error) {
	if f.submission == nil || f.submission.VentureID.String() != ventureID {
		return nil, gorm.ErrRecordNotFound
	}
	return f.submission, nil
}

func (f *fakeSubmissionStore) UpdateStatus(id string, status string) error {
	f.statuses[id] = status
	if f.submission != nil && f.submission.ID.String() == id {
		f.submission.Status = status
	}
	return nil
}

type fakeEvidenceStore struct {
	chunks map[string][]model.Chunk // keyed by dimension
}

func (f *fakeEvidenceStore) FindBySubmissionAndDimension(submissionID string, dimension string) ([]model.Chunk, error) {
	return f.chunks[dimension], nil
}

// fakeAssessmentStore mirrors the persistence contract: scores upsert
// on (venture, dimension), runs and recommendations append.
type fakeAssessmentStore struct {
	runs   []model.AgentRun
	scores map[string]model.Score
	recs   []model.Recommendation
}

func newFakeAssessmentStore() *fakeAssessmentStore {
	return &fakeAssessmentStore{scores: map[string]model.Score{}}
}

func (f *fakeAssessmentStore) CreateAgentRun(run *model.AgentRun) error {
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeAssessmentStore) UpsertScore(score *model.Score) error {
	f.scores[score.VentureID.String()+"/"+score.Dimension] = *score
	return nil
}

func (f *fakeAssessmentStore) CreateRecommendations(recommendations []model.Recommendation) error {
	f.recs = append(f.recs, recommendations...)
	return nil
}

func (f *fakeAssessmentStore) FindScoresByVenture(ventureID string) ([]model.Score, error) {
	var out []model.Score
	for _, s := range f.scores {
		if s.VentureID.String() == ventureID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeAssessmentStore) FindRecommendationsByVenture(ventureID string, offset, limit int) ([]model.Recommendation, error) {
	var all []model.Recommendation
	for _, r := range f.recs {
		if r.VentureID.String() == ventureID {
			all = append(all, r)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeAssessmentStore) CountRecommendationsByVenture(ventureID string) (int64, error) {
	var count int64
	for _, r := range f.recs {
		if r.VentureID.String() == ventureID {
			count++
		}
	}
	return count, nil
}

func (f *fakeAssessmentStore) FindLatestRunsBySubmission(submissionID string) ([]model.AgentRun, error) {
	latest := map[string]model.AgentRun{}
	for _, run := range f.runs {
		if run.SubmissionID.String() == submissionID {
			latest[run.Dimension] = run
		}
	}
	var out []model.AgentRun
	for _, run := range latest {
		out = append(out, run)
	}
	return out, nil
}

type fakeFileStore struct {
	files []model.File
}

func (f *fakeFileStore) FindBySubmission(submissionID string) ([]model.File, error) {
	var out []model.File
	for _, file := range f.files {
		if file.SubmissionID.String() == submissionID {
			out = append(out, file)
		}
	}
	return out, nil
}

type fakeChunkWriter struct {
	mu   sync.Mutex
	rows []model.Chunk
}

func (f *fakeChunkWriter) Create(chunk *model.Chunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, *chunk)
	return nil
}

type fakeStorage struct {
	objects map[string][]byte
	failOn  map[string]error
}

func (f *fakeStorage) Download(ctx context.Context, path string) ([]byte, error) {
	if err, ok := f.failOn[path]; ok {
		return nil, err
	}
	return f.objects[path], nil
}

func (f *fakeStorage) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[path] = data
	return nil
}

func (f *fakeStorage) Remove(ctx context.Context, paths []string) error {
	for _, p := range paths {
		delete(f.objects, p)
	}
	return nil
}

type fakeEmbedder struct {
	mu       sync.Mutex
	calls    int
	failCall int // 1-based call number to fail, 0 means never
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	if f.failCall != 0 && call == f.failCall {
		return nil, context.DeadlineExceeded
	}
	return make([]float32, 1536), nil
}

func (f *fakeEmbedder) Dimensions() int { return 1536 }
