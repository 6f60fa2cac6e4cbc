package candidate_test

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/infrastructure/functions"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
	"github.com/ignatzorin/hiring-backend/internal/storage"
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
	if _, ok := m.candidates[c.ID]; !ok {
		return apperror.ErrCandidateNotFound
	}
	m.updates++
	m.candidates[c.ID] = c
	return nil
}

func (m *mockCandidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.candidates[id]; !ok {
		return apperror.ErrCandidateNotFound
	}
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
	var matched []*entity.Candidate
	for _, c := range m.candidates {
		if filter.Status != "" && string(c.Status) != filter.Status {
			continue
		}
		if filter.AssignedManagerID != nil && (c.AssignedManagerID == nil || *c.AssignedManagerID != *filter.AssignedManagerID) {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID.String() < matched[j].ID.String() })

	total := len(matched)
	if filter.Offset >= total {
		return nil, total, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit == 0 || end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

type mockActivityRepository struct {
	activities []*entity.Activity
}

func (m *mockActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	m.activities = append(m.activities, a)
	return nil
}

func (m *mockActivityRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID, limit int) ([]*entity.Activity, error) {
	var result []*entity.Activity
	for _, a := range m.activities {
		if a.CandidateID == candidateID && len(result) < limit {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockActivityRepository) last() *entity.Activity {
	if len(m.activities) == 0 {
		return nil
	}
	return m.activities[len(m.activities)-1]
}

type mockJobRepository struct {
	jobs map[uuid.UUID]*entity.Job
}

func newMockJobRepository(jobs ...*entity.Job) *mockJobRepository {
	m := &mockJobRepository{jobs: make(map[uuid.UUID]*entity.Job)}
	for _, j := range jobs {
		m.jobs[j.ID] = j
	}
	return m
}

func (m *mockJobRepository) Create(ctx context.Context, j *entity.Job) error {
	m.jobs[j.ID] = j
	return nil
}

func (m *mockJobRepository) Update(ctx context.Context, j *entity.Job) error {
	m.jobs[j.ID] = j
	return nil
}

func (m *mockJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	if j, ok := m.jobs[id]; ok {
		return j, nil
	}
	return nil, apperror.ErrJobNotFound
}

func (m *mockJobRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Job, error) {
	var result []*entity.Job
	for _, j := range m.jobs {
		if !activeOnly || j.IsActive {
			result = append(result, j)
		}
	}
	return result, nil
}

type mockUserRepository struct {
	users map[uuid.UUID]*entity.User
}

func newMockUserRepository(users ...*entity.User) *mockUserRepository {
	m := &mockUserRepository{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, u *entity.User) error {
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

type recordingNotifier struct {
	changed    []*entity.Candidate
	deleted    []uuid.UUID
	activities []*entity.Activity
}

func (n *recordingNotifier) CandidateChanged(c *entity.Candidate, created bool) {
	n.changed = append(n.changed, c)
}

func (n *recordingNotifier) CandidateDeleted(id uuid.UUID) {
	n.deleted = append(n.deleted, id)
}

func (n *recordingNotifier) ActivityAdded(a *entity.Activity) {
	n.activities = append(n.activities, a)
}

type fakeStore struct {
	deleted []uuid.UUID
	err     error
}

func (s *fakeStore) Upload(ctx context.Context, candidateID uuid.UUID, kind entity.DocumentKind, name string, r io.Reader) (*storage.StoredDocument, error) {
	if s.err != nil {
		return nil, s.err
	}
	_, _ = io.Copy(io.Discard, r)
	return &storage.StoredDocument{
		URL:  "https://cdn.example.com/media/" + candidateID.String() + "/" + string(kind),
		Path: "/data/" + name,
	}, nil
}

func (s *fakeStore) DeleteCandidate(ctx context.Context, candidateID uuid.UUID) error {
	s.deleted = append(s.deleted, candidateID)
	return nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (e *fakeExtractor) Supports(path string) bool { return true }

func (e *fakeExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	return e.text, e.err
}

var errBroken = errors.New("broken")

type fakeMailer struct {
	mu   sync.Mutex
	sent chan functions.Email
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan functions.Email, 4)}
}

func (m *fakeMailer) SendEmail(ctx context.Context, email functions.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent <- email
	return nil
}
