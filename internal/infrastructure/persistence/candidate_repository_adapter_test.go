package persistence

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/hiring-backend/internal/db"
	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%anna%", likePattern("anna"))
	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%c:\\tmp%`, likePattern(`c:\tmp`))
}

// Тесты ниже нужны живой PostgreSQL: TEST_DATABASE_URL=postgres://... go test ./...
func testRepositories(t *testing.T) (*CandidateRepositoryAdapter, *UserRepositoryAdapter) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан")
	}

	ctx := context.Background()
	conn, err := db.NewPostgres(ctx, dsn, db.PoolOptions{MaxOpenConns: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = db.RunMigrations(ctx, conn, "../../../migrations")
	require.NoError(t, err)
	return NewCandidateRepositoryAdapter(conn), NewUserRepositoryAdapter(conn)
}

func createCandidate(t *testing.T, candidates *CandidateRepositoryAdapter, users *UserRepositoryAdapter, name string) (*entity.User, *entity.Candidate) {
	t.Helper()
	ctx := context.Background()

	user, err := entity.NewUser(uuid.NewString()+"@example.com", "hash", name, entity.RoleCandidate)
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, user))

	c := entity.NewCandidate(user.ID)
	require.NoError(t, candidates.Create(ctx, c))
	return user, c
}

func TestCandidateRepository_DeleteRemovesLogin(t *testing.T) {
	candidates, users := testRepositories(t)
	ctx := context.Background()

	user, c := createCandidate(t, candidates, users, "Delete Me")

	require.NoError(t, candidates.Delete(ctx, c.ID))

	_, err := candidates.FindByID(ctx, c.ID)
	assert.True(t, apperror.IsNotFound(err))
	_, err = users.FindByEmail(ctx, user.Email)
	assert.True(t, apperror.IsNotFound(err))

	assert.True(t, apperror.IsNotFound(candidates.Delete(ctx, c.ID)))
}

func TestCandidateRepository_SearchTreatsWildcardsLiterally(t *testing.T) {
	candidates, users := testRepositories(t)
	ctx := context.Background()

	marker := uuid.NewString()[:8]
	_, plain := createCandidate(t, candidates, users, "Plain "+marker)
	_, percent := createCandidate(t, candidates, users, "Percent "+marker+"%")

	items, total, err := candidates.List(ctx, repository.CandidateFilter{Search: marker + "%", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, percent.ID, items[0].ID)

	items, _, err = candidates.List(ctx, repository.CandidateFilter{Search: marker, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 2)
	ids := []uuid.UUID{items[0].ID, items[1].ID}
	assert.ElementsMatch(t, []uuid.UUID{plain.ID, percent.ID}, ids)
}
