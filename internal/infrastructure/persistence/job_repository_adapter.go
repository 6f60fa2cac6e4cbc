package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

type JobRepositoryAdapter struct {
	db *sqlx.DB
}

func NewJobRepositoryAdapter(db *sqlx.DB) *JobRepositoryAdapter {
	return &JobRepositoryAdapter{db: db}
}

func (r *JobRepositoryAdapter) Create(ctx context.Context, j *entity.Job) error {
	query := `INSERT INTO jobs (id, title, description, location, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, j.ID, j.Title, j.Description, j.Location, j.IsActive, j.CreatedBy, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать вакансию")
	}
	return nil
}

func (r *JobRepositoryAdapter) Update(ctx context.Context, j *entity.Job) error {
	query := `UPDATE jobs SET title = $2, description = $3, location = $4, is_active = $5, updated_at = $6 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, j.ID, j.Title, j.Description, j.Location, j.IsActive, j.UpdatedAt)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить вакансию")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperror.ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	var row jobRow
	query := `SELECT id, title, description, location, is_active, created_by, created_at, updated_at FROM jobs WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить вакансию")
	}
	return row.toEntity(), nil
}

func (r *JobRepositoryAdapter) List(ctx context.Context, activeOnly bool) ([]*entity.Job, error) {
	query := `SELECT id, title, description, location, is_active, created_by, created_at, updated_at FROM jobs`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY created_at DESC`

	var rows []jobRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить вакансии")
	}
	result := make([]*entity.Job, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type jobRow struct {
	ID          uuid.UUID  `db:"id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Location    *string    `db:"location"`
	IsActive    bool       `db:"is_active"`
	CreatedBy   *uuid.UUID `db:"created_by"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (j *jobRow) toEntity() *entity.Job {
	return &entity.Job{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		IsActive:    j.IsActive,
		CreatedBy:   j.CreatedBy,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}
