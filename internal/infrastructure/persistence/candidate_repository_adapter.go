package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

type CandidateRepositoryAdapter struct {
	db *sqlx.DB
}

func NewCandidateRepositoryAdapter(db *sqlx.DB) *CandidateRepositoryAdapter {
	return &CandidateRepositoryAdapter{db: db}
}

const candidateSelect = `SELECT c.id, c.profile_id, u.full_name, u.email, c.status, c.current_step,
		c.resume_url, c.resume_text, c.about_me_video_url, c.sales_pitch_video_url,
		c.assigned_manager_id, c.location, c.phone, c.region, c.created_at, c.updated_at
	FROM candidates c
	JOIN users u ON u.id = c.profile_id`

func (r *CandidateRepositoryAdapter) Create(ctx context.Context, c *entity.Candidate) error {
	query := `INSERT INTO candidates (id, profile_id, status, current_step, resume_url, resume_text,
			about_me_video_url, sales_pitch_video_url, assigned_manager_id, location, phone, region, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.ProfileID, string(c.Status), int(c.CurrentStep), c.ResumeURL, c.ResumeText,
		c.AboutMeVideoURL, c.SalesPitchVideoURL, c.AssignedManagerID, c.Location, c.Phone, c.Region,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать кандидата")
	}
	return nil
}

func (r *CandidateRepositoryAdapter) Update(ctx context.Context, c *entity.Candidate) error {
	query := `UPDATE candidates
		SET status = $2, current_step = $3, resume_url = $4, resume_text = $5, about_me_video_url = $6,
		    sales_pitch_video_url = $7, assigned_manager_id = $8, location = $9, phone = $10, region = $11,
		    updated_at = $12
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		c.ID, string(c.Status), int(c.CurrentStep.Clamp()), c.ResumeURL, c.ResumeText, c.AboutMeVideoURL,
		c.SalesPitchVideoURL, c.AssignedManagerID, c.Location, c.Phone, c.Region, c.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить кандидата")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить результат обновления")
	}
	if rows == 0 {
		return apperror.ErrCandidateNotFound
	}
	return nil
}

func (r *CandidateRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, table := range []string{"assessment_results", "training_progress", "activities"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE candidate_id = $1`, id); err != nil {
				return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить данные кандидата")
			}
		}

		var profileID uuid.UUID
		err := tx.GetContext(ctx, &profileID, `DELETE FROM candidates WHERE id = $1 RETURNING profile_id`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrCandidateNotFound
		}
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить кандидата")
		}

		// без записи кандидата учётная запись бесполезна: вход вёл бы на NOT_FOUND
		_, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1 AND role = $2`, profileID, string(entity.RoleCandidate))
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить профиль кандидата")
		}
		return nil
	})
}

// likePattern экранирует спецсимволы LIKE в пользовательском вводе.
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

func (r *CandidateRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Candidate, error) {
	return r.findOne(ctx, candidateSelect+` WHERE c.id = $1`, id)
}

func (r *CandidateRepositoryAdapter) FindByProfileID(ctx context.Context, profileID uuid.UUID) (*entity.Candidate, error) {
	return r.findOne(ctx, candidateSelect+` WHERE c.profile_id = $1`, profileID)
}

func (r *CandidateRepositoryAdapter) List(ctx context.Context, filter repository.CandidateFilter) ([]*entity.Candidate, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.Status != "" {
		where += fmt.Sprintf(" AND LOWER(c.status) = LOWER($%d)", argNum)
		args = append(args, filter.Status)
		argNum++
	}
	if filter.AssignedManagerID != nil {
		where += fmt.Sprintf(" AND c.assigned_manager_id = $%d", argNum)
		args = append(args, *filter.AssignedManagerID)
		argNum++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (u.full_name ILIKE $%d OR u.email ILIKE $%d OR c.resume_text ILIKE $%d)", argNum, argNum, argNum)
		args = append(args, likePattern(filter.Search))
		argNum++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM candidates c JOIN users u ON u.id = c.profile_id` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать кандидатов")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := candidateSelect + where + fmt.Sprintf(" ORDER BY c.updated_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, limit, filter.Offset)

	var rows []candidateRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить кандидатов")
	}

	result := make([]*entity.Candidate, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, total, nil
}

func (r *CandidateRepositoryAdapter) findOne(ctx context.Context, query string, arg any) (*entity.Candidate, error) {
	var row candidateRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrCandidateNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить кандидата")
	}
	return row.toEntity(), nil
}

type candidateRow struct {
	ID                 uuid.UUID  `db:"id"`
	ProfileID          uuid.UUID  `db:"profile_id"`
	FullName           string     `db:"full_name"`
	Email              string     `db:"email"`
	Status             string     `db:"status"`
	CurrentStep        int        `db:"current_step"`
	ResumeURL          *string    `db:"resume_url"`
	ResumeText         *string    `db:"resume_text"`
	AboutMeVideoURL    *string    `db:"about_me_video_url"`
	SalesPitchVideoURL *string    `db:"sales_pitch_video_url"`
	AssignedManagerID  *uuid.UUID `db:"assigned_manager_id"`
	Location           *string    `db:"location"`
	Phone              *string    `db:"phone"`
	Region             *string    `db:"region"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

func (c *candidateRow) toEntity() *entity.Candidate {
	return &entity.Candidate{
		ID:                 c.ID,
		ProfileID:          c.ProfileID,
		FullName:           c.FullName,
		Email:              c.Email,
		Status:             pipeline.Status(c.Status),
		CurrentStep:        pipeline.Step(c.CurrentStep).Clamp(),
		ResumeURL:          c.ResumeURL,
		ResumeText:         c.ResumeText,
		AboutMeVideoURL:    c.AboutMeVideoURL,
		SalesPitchVideoURL: c.SalesPitchVideoURL,
		AssignedManagerID:  c.AssignedManagerID,
		Location:           c.Location,
		Phone:              c.Phone,
		Region:             c.Region,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

type ActivityRepositoryAdapter struct {
	db *sqlx.DB
}

func NewActivityRepositoryAdapter(db *sqlx.DB) *ActivityRepositoryAdapter {
	return &ActivityRepositoryAdapter{db: db}
}

func (r *ActivityRepositoryAdapter) Create(ctx context.Context, a *entity.Activity) error {
	query := `INSERT INTO activities (id, candidate_id, actor_id, kind, text, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, a.ID, a.CandidateID, a.ActorID, string(a.Kind), a.Text, a.CreatedAt); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось записать активность")
	}
	return nil
}

func (r *ActivityRepositoryAdapter) ListByCandidate(ctx context.Context, candidateID uuid.UUID, limit int) ([]*entity.Activity, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []activityRow
	query := `SELECT id, candidate_id, actor_id, kind, text, created_at
		FROM activities WHERE candidate_id = $1 ORDER BY created_at DESC LIMIT $2`
	if err := r.db.SelectContext(ctx, &rows, query, candidateID, limit); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить активность")
	}

	result := make([]*entity.Activity, len(rows))
	for i, row := range rows {
		result[i] = &entity.Activity{
			ID:          row.ID,
			CandidateID: row.CandidateID,
			ActorID:     row.ActorID,
			Kind:        entity.ActivityKind(row.Kind),
			Text:        row.Text,
			CreatedAt:   row.CreatedAt,
		}
	}
	return result, nil
}

type activityRow struct {
	ID          uuid.UUID  `db:"id"`
	CandidateID uuid.UUID  `db:"candidate_id"`
	ActorID     *uuid.UUID `db:"actor_id"`
	Kind        string     `db:"kind"`
	Text        string     `db:"text"`
	CreatedAt   time.Time  `db:"created_at"`
}
