package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

type AssessmentRepositoryAdapter struct {
	db *sqlx.DB
}

func NewAssessmentRepositoryAdapter(db *sqlx.DB) *AssessmentRepositoryAdapter {
	return &AssessmentRepositoryAdapter{db: db}
}

// questionJSON - формат вопроса в JSONB колонках.
type questionJSON struct {
	ID                 string   `json:"id"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
}

func encodeQuestions(questions []entity.Question) ([]byte, error) {
	out := make([]questionJSON, len(questions))
	for i, q := range questions {
		out[i] = questionJSON{ID: q.ID, Text: q.Text, Options: q.Options, CorrectAnswerIndex: q.CorrectAnswerIndex}
	}
	return jsonb(out, "[]")
}

func decodeQuestions(raw []byte) ([]entity.Question, error) {
	var in []questionJSON
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, err
		}
	}
	out := make([]entity.Question, len(in))
	for i, q := range in {
		out[i] = entity.Question{ID: q.ID, Text: q.Text, Options: q.Options, CorrectAnswerIndex: q.CorrectAnswerIndex}
	}
	return out, nil
}

func (r *AssessmentRepositoryAdapter) Create(ctx context.Context, a *entity.Assessment) error {
	questions, err := encodeQuestions(a.Questions)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать вопросы")
	}

	query := `INSERT INTO assessments (id, title, description, time_limit_minutes, questions, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.db.ExecContext(ctx, query, a.ID, a.Title, a.Description, a.TimeLimitMinutes, questions, a.CreatedBy, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать тест")
	}
	return nil
}

func (r *AssessmentRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Assessment, error) {
	var row assessmentRow
	query := `SELECT id, title, description, time_limit_minutes, questions, created_by, created_at, updated_at
		FROM assessments WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrAssessmentNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить тест")
	}
	return row.toEntity()
}

func (r *AssessmentRepositoryAdapter) List(ctx context.Context) ([]*entity.Assessment, error) {
	var rows []assessmentRow
	query := `SELECT id, title, description, time_limit_minutes, questions, created_by, created_at, updated_at
		FROM assessments ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить тесты")
	}

	result := make([]*entity.Assessment, 0, len(rows))
	for i := range rows {
		a, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *AssessmentRepositoryAdapter) CreateResult(ctx context.Context, res *entity.AssessmentResult) error {
	answers, timings, err := encodeAnswers(res)
	if err != nil {
		return err
	}

	query := `INSERT INTO assessment_results (id, candidate_id, assessment_id, score, completed, answers, answer_timings,
			started_at, completed_at, reviewed_at, reviewed_by, review_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.db.ExecContext(ctx, query,
		res.ID, res.CandidateID, res.AssessmentID, res.Score, res.Completed, answers, timings,
		res.StartedAt, res.CompletedAt, res.ReviewedAt, res.ReviewedBy, res.ReviewNotes,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить результат теста")
	}
	return nil
}

func (r *AssessmentRepositoryAdapter) UpdateResult(ctx context.Context, res *entity.AssessmentResult) error {
	answers, timings, err := encodeAnswers(res)
	if err != nil {
		return err
	}

	query := `UPDATE assessment_results
		SET score = $2, completed = $3, answers = $4, answer_timings = $5, completed_at = $6,
		    reviewed_at = $7, reviewed_by = $8, review_notes = $9
		WHERE id = $1`
	out, err := r.db.ExecContext(ctx, query,
		res.ID, res.Score, res.Completed, answers, timings, res.CompletedAt, res.ReviewedAt, res.ReviewedBy, res.ReviewNotes,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить результат теста")
	}
	if rows, _ := out.RowsAffected(); rows == 0 {
		return apperror.ErrResultNotFound
	}
	return nil
}

const resultColumns = `id, candidate_id, assessment_id, score, completed, answers, answer_timings,
	started_at, completed_at, reviewed_at, reviewed_by, review_notes`

func (r *AssessmentRepositoryAdapter) FindResultByID(ctx context.Context, id uuid.UUID) (*entity.AssessmentResult, error) {
	return r.findResult(ctx, `SELECT `+resultColumns+` FROM assessment_results WHERE id = $1`, id)
}

func (r *AssessmentRepositoryAdapter) FindResult(ctx context.Context, candidateID, assessmentID uuid.UUID) (*entity.AssessmentResult, error) {
	return r.findResult(ctx, `SELECT `+resultColumns+` FROM assessment_results WHERE candidate_id = $1 AND assessment_id = $2`, candidateID, assessmentID)
}

func (r *AssessmentRepositoryAdapter) ListResultsByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*entity.AssessmentResult, error) {
	var rows []resultRow
	query := `SELECT ` + resultColumns + ` FROM assessment_results WHERE candidate_id = $1 ORDER BY started_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, candidateID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить результаты тестов")
	}

	result := make([]*entity.AssessmentResult, 0, len(rows))
	for i := range rows {
		res, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	return result, nil
}

func (r *AssessmentRepositoryAdapter) findResult(ctx context.Context, query string, args ...any) (*entity.AssessmentResult, error) {
	var row resultRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrResultNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить результат теста")
	}
	return row.toEntity()
}

func encodeAnswers(res *entity.AssessmentResult) ([]byte, []byte, error) {
	answers, err := jsonb(res.Answers, "{}")
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать ответы")
	}
	timings, err := jsonb(res.AnswerTimings, "{}")
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать время ответов")
	}
	return answers, timings, nil
}

type assessmentRow struct {
	ID               uuid.UUID  `db:"id"`
	Title            string     `db:"title"`
	Description      string     `db:"description"`
	TimeLimitMinutes int        `db:"time_limit_minutes"`
	Questions        []byte     `db:"questions"`
	CreatedBy        *uuid.UUID `db:"created_by"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

func (a *assessmentRow) toEntity() (*entity.Assessment, error) {
	questions, err := decodeQuestions(a.Questions)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "повреждены вопросы теста")
	}
	return &entity.Assessment{
		ID:               a.ID,
		Title:            a.Title,
		Description:      a.Description,
		TimeLimitMinutes: a.TimeLimitMinutes,
		Questions:        questions,
		CreatedBy:        a.CreatedBy,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}, nil
}

type resultRow struct {
	ID            uuid.UUID  `db:"id"`
	CandidateID   uuid.UUID  `db:"candidate_id"`
	AssessmentID  uuid.UUID  `db:"assessment_id"`
	Score         *int       `db:"score"`
	Completed     bool       `db:"completed"`
	Answers       []byte     `db:"answers"`
	AnswerTimings []byte     `db:"answer_timings"`
	StartedAt     time.Time  `db:"started_at"`
	CompletedAt   *time.Time `db:"completed_at"`
	ReviewedAt    *time.Time `db:"reviewed_at"`
	ReviewedBy    *uuid.UUID `db:"reviewed_by"`
	ReviewNotes   *string    `db:"review_notes"`
}

func (r *resultRow) toEntity() (*entity.AssessmentResult, error) {
	res := &entity.AssessmentResult{
		ID:            r.ID,
		CandidateID:   r.CandidateID,
		AssessmentID:  r.AssessmentID,
		Score:         r.Score,
		Completed:     r.Completed,
		Answers:       map[string]int{},
		AnswerTimings: map[string]int{},
		StartedAt:     r.StartedAt,
		CompletedAt:   r.CompletedAt,
		ReviewedAt:    r.ReviewedAt,
		ReviewedBy:    r.ReviewedBy,
		ReviewNotes:   r.ReviewNotes,
	}
	if len(r.Answers) > 0 {
		if err := json.Unmarshal(r.Answers, &res.Answers); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "повреждены ответы")
		}
	}
	if len(r.AnswerTimings) > 0 {
		if err := json.Unmarshal(r.AnswerTimings, &res.AnswerTimings); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "повреждено время ответов")
		}
	}
	return res, nil
}
