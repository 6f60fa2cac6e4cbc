package assessment_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/infrastructure/functions"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

type mockCandidateRepository struct {
	candidates map[uuid.UUID]*entity.Candidate
}

func newMockCandidateRepository(cs ...*entity.Candidate) *mockCandidateRepository {
	m := &mockCandidateRepository{candidates: make(map[uuid.UUID]*entity.Candidate)}
	for _, c := range cs {
		m.candidates[c.ID] = c
	}
	return m
}

func (m *mockCandidateRepository) Create(ctx context.Context, c *entity.Candidate) error {
	m.candidates[c.ID] = c
	return nil
}

func (m *mockCandidateRepository) Update(ctx context.Context, c *entity.Candidate) error {
	m.candidates[c.ID] = c
	return nil
}

func (m *mockCandidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.candidates, id)
	return nil
}

func (m *mockCandidateRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Candidate, error) {
	if c, ok := m.candidates[id]; ok {
		return c, nil
	}
	return nil, apperror.ErrCandidateNotFound
}

func (m *mockCandidateRepository) FindByProfileID(ctx context.Context, profileID uuid.UUID) (*entity.Candidate, error) {
	for _, c := range m.candidates {
		if c.ProfileID == profileID {
			return c, nil
		}
	}
	return nil, apperror.ErrCandidateNotFound
}

func (m *mockCandidateRepository) List(ctx context.Context, filter repository.CandidateFilter) ([]*entity.Candidate, int, error) {
	return nil, 0, nil
}

type mockAssessmentRepository struct {
	assessments map[uuid.UUID]*entity.Assessment
	results     map[uuid.UUID]*entity.AssessmentResult
}

func newMockAssessmentRepository(as ...*entity.Assessment) *mockAssessmentRepository {
	m := &mockAssessmentRepository{
		assessments: make(map[uuid.UUID]*entity.Assessment),
		results:     make(map[uuid.UUID]*entity.AssessmentResult),
	}
	for _, a := range as {
		m.assessments[a.ID] = a
	}
	return m
}

func (m *mockAssessmentRepository) Create(ctx context.Context, a *entity.Assessment) error {
	m.assessments[a.ID] = a
	return nil
}

func (m *mockAssessmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Assessment, error) {
	if a, ok := m.assessments[id]; ok {
		return a, nil
	}
	return nil, apperror.ErrAssessmentNotFound
}

func (m *mockAssessmentRepository) List(ctx context.Context) ([]*entity.Assessment, error) {
	result := make([]*entity.Assessment, 0, len(m.assessments))
	for _, a := range m.assessments {
		result = append(result, a)
	}
	return result, nil
}

func (m *mockAssessmentRepository) CreateResult(ctx context.Context, r *entity.AssessmentResult) error {
	m.results[r.ID] = r
	return nil
}

func (m *mockAssessmentRepository) UpdateResult(ctx context.Context, r *entity.AssessmentResult) error {
	if _, ok := m.results[r.ID]; !ok {
		return apperror.ErrResultNotFound
	}
	m.results[r.ID] = r
	return nil
}

func (m *mockAssessmentRepository) FindResultByID(ctx context.Context, id uuid.UUID) (*entity.AssessmentResult, error) {
	if r, ok := m.results[id]; ok {
		return r, nil
	}
	return nil, apperror.ErrResultNotFound
}

func (m *mockAssessmentRepository) FindResult(ctx context.Context, candidateID, assessmentID uuid.UUID) (*entity.AssessmentResult, error) {
	for _, r := range m.results {
		if r.CandidateID == candidateID && r.AssessmentID == assessmentID {
			return r, nil
		}
	}
	return nil, apperror.ErrResultNotFound
}

func (m *mockAssessmentRepository) ListResultsByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*entity.AssessmentResult, error) {
	var result []*entity.AssessmentResult
	for _, r := range m.results {
		if r.CandidateID == candidateID {
			result = append(result, r)
		}
	}
	return result, nil
}

type mockActivityRepository struct {
	activities []*entity.Activity
}

func (m *mockActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	m.activities = append(m.activities, a)
	return nil
}

func (m *mockActivityRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID, limit int) ([]*entity.Activity, error) {
	return m.activities, nil
}

type recordingNotifier struct {
	results    []*entity.AssessmentResult
	activities []*entity.Activity
}

func (n *recordingNotifier) ResultChanged(r *entity.AssessmentResult) {
	n.results = append(n.results, r)
}

func (n *recordingNotifier) ActivityAdded(a *entity.Activity) {
	n.activities = append(n.activities, a)
}

type fakeGenerator struct {
	questions []functions.GeneratedQuestion
	err       error
	requests  []functions.GenerateQuestionsRequest
}

func (g *fakeGenerator) GenerateQuestions(ctx context.Context, in functions.GenerateQuestionsRequest) ([]functions.GeneratedQuestion, error) {
	g.requests = append(g.requests, in)
	return g.questions, g.err
}
