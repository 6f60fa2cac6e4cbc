package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

type TrainingRepositoryAdapter struct {
	db *sqlx.DB
}

func NewTrainingRepositoryAdapter(db *sqlx.DB) *TrainingRepositoryAdapter {
	return &TrainingRepositoryAdapter{db: db}
}

type videoJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (r *TrainingRepositoryAdapter) CreateModule(ctx context.Context, m *entity.TrainingModule) error {
	videos := make([]videoJSON, len(m.Videos))
	for i, v := range m.Videos {
		videos[i] = videoJSON{ID: v.ID, Title: v.Title, URL: v.URL}
	}
	rawVideos, err := jsonb(videos, "[]")
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать видео")
	}
	rawQuiz, err := encodeQuestions(m.Quiz)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать квиз")
	}

	query := `INSERT INTO training_modules (id, title, description, position, videos, quiz, next_step, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.db.ExecContext(ctx, query, m.ID, m.Title, m.Description, m.Position, rawVideos, rawQuiz, int(m.NextStep), m.CreatedAt)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать модуль")
	}
	return nil
}

func (r *TrainingRepositoryAdapter) FindModuleByID(ctx context.Context, id uuid.UUID) (*entity.TrainingModule, error) {
	var row moduleRow
	query := `SELECT id, title, description, position, videos, quiz, next_step, created_at FROM training_modules WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrModuleNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить модуль")
	}
	return row.toEntity()
}

func (r *TrainingRepositoryAdapter) ListModules(ctx context.Context) ([]*entity.TrainingModule, error) {
	var rows []moduleRow
	query := `SELECT id, title, description, position, videos, quiz, next_step, created_at
		FROM training_modules ORDER BY position ASC, created_at ASC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить модули")
	}

	result := make([]*entity.TrainingModule, 0, len(rows))
	for i := range rows {
		m, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, nil
}

func (r *TrainingRepositoryAdapter) FindProgress(ctx context.Context, candidateID uuid.UUID) (map[uuid.UUID]*entity.TrainingProgress, error) {
	var rows []progressRow
	query := `SELECT candidate_id, module_id, watched_video_ids, quiz_completed, quiz_score, updated_at
		FROM training_progress WHERE candidate_id = $1`
	if err := r.db.SelectContext(ctx, &rows, query, candidateID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить прогресс обучения")
	}

	result := make(map[uuid.UUID]*entity.TrainingProgress, len(rows))
	for _, row := range rows {
		result[row.ModuleID] = &entity.TrainingProgress{
			CandidateID:     row.CandidateID,
			ModuleID:        row.ModuleID,
			WatchedVideoIDs: []string(row.WatchedVideoIDs),
			QuizCompleted:   row.QuizCompleted,
			QuizScore:       row.QuizScore,
			UpdatedAt:       row.UpdatedAt,
		}
	}
	return result, nil
}

func (r *TrainingRepositoryAdapter) SaveProgress(ctx context.Context, p *entity.TrainingProgress) error {
	query := `INSERT INTO training_progress (candidate_id, module_id, watched_video_ids, quiz_completed, quiz_score, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (candidate_id, module_id) DO UPDATE
		SET watched_video_ids = EXCLUDED.watched_video_ids,
		    quiz_completed = EXCLUDED.quiz_completed,
		    quiz_score = EXCLUDED.quiz_score,
		    updated_at = EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		p.CandidateID, p.ModuleID, pq.Array(p.WatchedVideoIDs), p.QuizCompleted, p.QuizScore, p.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить прогресс обучения")
	}
	return nil
}

type moduleRow struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Position    int       `db:"position"`
	Videos      []byte    `db:"videos"`
	Quiz        []byte    `db:"quiz"`
	NextStep    int       `db:"next_step"`
	CreatedAt   time.Time `db:"created_at"`
}

func (m *moduleRow) toEntity() (*entity.TrainingModule, error) {
	var videos []videoJSON
	if len(m.Videos) > 0 {
		if err := json.Unmarshal(m.Videos, &videos); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "повреждён список видео")
		}
	}
	quiz, err := decodeQuestions(m.Quiz)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "повреждён квиз модуля")
	}

	out := &entity.TrainingModule{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Position:    m.Position,
		Videos:      make([]entity.TrainingVideo, len(videos)),
		Quiz:        quiz,
		NextStep:    pipeline.Step(m.NextStep),
		CreatedAt:   m.CreatedAt,
	}
	for i, v := range videos {
		out.Videos[i] = entity.TrainingVideo{ID: v.ID, Title: v.Title, URL: v.URL}
	}
	return out, nil
}

type progressRow struct {
	CandidateID     uuid.UUID      `db:"candidate_id"`
	ModuleID        uuid.UUID      `db:"module_id"`
	WatchedVideoIDs pq.StringArray `db:"watched_video_ids"`
	QuizCompleted   bool           `db:"quiz_completed"`
	QuizScore       *int           `db:"quiz_score"`
	UpdatedAt       time.Time      `db:"updated_at"`
}
