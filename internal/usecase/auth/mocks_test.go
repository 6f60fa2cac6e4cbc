package auth_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

type mockUserRepository struct {
	users map[uuid.UUID]*entity.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uuid.UUID]*entity.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, u *entity.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperror.ErrEmailTaken
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, u *entity.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperror.ErrUserNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.ErrUserNotFound
}

func (m *mockUserRepository) UpdateLastLoginAt(ctx context.Context, id uuid.UUID) error {
	return nil
}

type mockCandidateRepository struct {
	candidates map[uuid.UUID]*entity.Candidate
}

func newMockCandidateRepository() *mockCandidateRepository {
	return &mockCandidateRepository{candidates: make(map[uuid.UUID]*entity.Candidate)}
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
	var result []*entity.Candidate
	for _, c := range m.candidates {
		result = append(result, c)
	}
	return result, len(result), nil
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
