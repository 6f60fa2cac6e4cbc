package training_test

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

type mockCandidateRepository struct {
	candidates map[uuid.UUID]*entity.Candidate
	updates    int
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
	m.updates++
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

type mockTrainingRepository struct {
	modules  map[uuid.UUID]*entity.TrainingModule
	progress map[uuid.UUID]map[uuid.UUID]*entity.TrainingProgress
	saves    int
}

func newMockTrainingRepository(modules ...*entity.TrainingModule) *mockTrainingRepository {
	m := &mockTrainingRepository{
		modules:  make(map[uuid.UUID]*entity.TrainingModule),
		progress: make(map[uuid.UUID]map[uuid.UUID]*entity.TrainingProgress),
	}
	for _, mod := range modules {
		m.modules[mod.ID] = mod
	}
	return m
}

func (m *mockTrainingRepository) CreateModule(ctx context.Context, mod *entity.TrainingModule) error {
	m.modules[mod.ID] = mod
	return nil
}

func (m *mockTrainingRepository) FindModuleByID(ctx context.Context, id uuid.UUID) (*entity.TrainingModule, error) {
	if mod, ok := m.modules[id]; ok {
		return mod, nil
	}
	return nil, apperror.ErrModuleNotFound
}

func (m *mockTrainingRepository) ListModules(ctx context.Context) ([]*entity.TrainingModule, error) {
	result := make([]*entity.TrainingModule, 0, len(m.modules))
	for _, mod := range m.modules {
		result = append(result, mod)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (m *mockTrainingRepository) FindProgress(ctx context.Context, candidateID uuid.UUID) (map[uuid.UUID]*entity.TrainingProgress, error) {
	result := make(map[uuid.UUID]*entity.TrainingProgress)
	for id, p := range m.progress[candidateID] {
		copied := *p
		copied.WatchedVideoIDs = append([]string(nil), p.WatchedVideoIDs...)
		result[id] = &copied
	}
	return result, nil
}

func (m *mockTrainingRepository) SaveProgress(ctx context.Context, p *entity.TrainingProgress) error {
	m.saves++
	if m.progress[p.CandidateID] == nil {
		m.progress[p.CandidateID] = make(map[uuid.UUID]*entity.TrainingProgress)
	}
	copied := *p
	m.progress[p.CandidateID][p.ModuleID] = &copied
	return nil
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
	changed    []*entity.Candidate
	activities []*entity.Activity
}

func (n *recordingNotifier) CandidateChanged(c *entity.Candidate, created bool) {
	n.changed = append(n.changed, c)
}

func (n *recordingNotifier) ActivityAdded(a *entity.Activity) {
	n.activities = append(n.activities, a)
}
