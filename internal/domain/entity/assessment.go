package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

// Question - вопрос с вариантами ответа. Используется и в тестах, и в квизах модулей.
type Question struct {
	ID                 string
	Text               string
	Options            []string
	CorrectAnswerIndex int
}

// ValidateQuestions проверяет вопросы и проставляет недостающие ID.
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return apperror.Validation("нужен хотя бы один вопрос")
	}

	seen := make(map[string]struct{}, len(questions))
	for i := range questions {
		q := &questions[i]
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			return apperror.Validation(fmt.Sprintf("вопрос %d: текст обязателен", i+1))
		}
		if len(q.Options) < 2 {
			return apperror.Validation(fmt.Sprintf("вопрос %d: нужно минимум два варианта ответа", i+1))
		}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return apperror.Validation(fmt.Sprintf("вопрос %d: вариант %d пустой", i+1, j+1))
			}
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
			return apperror.Validation(fmt.Sprintf("вопрос %d: индекс правильного ответа вне диапазона", i+1))
		}

		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if _, dup := seen[q.ID]; dup {
			return apperror.Validation(fmt.Sprintf("вопрос %d: повторяющийся ID", i+1))
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}

func scoringQuestions(questions []Question) []pipeline.Question {
	out := make([]pipeline.Question, len(questions))
	for i, q := range questions {
		out[i] = pipeline.Question{ID: q.ID, CorrectAnswerIndex: q.CorrectAnswerIndex}
	}
	return out
}

// validateAnswers требует ответ на каждый вопрос в пределах вариантов.
func validateAnswers(questions []Question, answers map[string]int) error {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	for id, idx := range answers {
		q, ok := byID[id]
		if !ok {
			return apperror.Validation("ответ на неизвестный вопрос")
		}
		if idx < 0 || idx >= len(q.Options) {
			return apperror.Validation("выбранный вариант вне диапазона")
		}
	}
	for _, q := range questions {
		if _, ok := answers[q.ID]; !ok {
			return apperror.Validation("нужно ответить на все вопросы")
		}
	}
	return nil
}

type Assessment struct {
	ID               uuid.UUID
	Title            string
	Description      string
	TimeLimitMinutes int
	Questions        []Question
	CreatedBy        *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewAssessment(title, description string, timeLimitMinutes int, questions []Question, createdBy *uuid.UUID) (*Assessment, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.Validation("название теста обязательно")
	}
	if timeLimitMinutes < 0 {
		return nil, apperror.Validation("лимит времени не может быть отрицательным")
	}
	if err := ValidateQuestions(questions); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Assessment{
		ID:               uuid.New(),
		Title:            title,
		Description:      strings.TrimSpace(description),
		TimeLimitMinutes: timeLimitMinutes,
		Questions:        questions,
		CreatedBy:        createdBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (a *Assessment) Score(answers map[string]int) int {
	return pipeline.ScoreQuiz(scoringQuestions(a.Questions), answers)
}

// AssessmentResult - попытка кандидата. Score пустой до отправки.
type AssessmentResult struct {
	ID            uuid.UUID
	CandidateID   uuid.UUID
	AssessmentID  uuid.UUID
	Score         *int
	Completed     bool
	Answers       map[string]int
	AnswerTimings map[string]int
	StartedAt     time.Time
	CompletedAt   *time.Time
	ReviewedAt    *time.Time
	ReviewedBy    *uuid.UUID
	ReviewNotes   *string
}

func StartAssessment(candidateID, assessmentID uuid.UUID) *AssessmentResult {
	return &AssessmentResult{
		ID:            uuid.New(),
		CandidateID:   candidateID,
		AssessmentID:  assessmentID,
		Answers:       map[string]int{},
		AnswerTimings: map[string]int{},
		StartedAt:     time.Now(),
	}
}

// Submit оценивает ответы. Повторная отправка запрещена.
func (r *AssessmentResult) Submit(a *Assessment, answers, timings map[string]int) error {
	if r.Completed {
		return apperror.New(apperror.ErrCodeConflict, "тест уже отправлен")
	}
	if a == nil || a.ID != r.AssessmentID {
		return apperror.Validation("результат не относится к этому тесту")
	}
	if err := validateAnswers(a.Questions, answers); err != nil {
		return err
	}
	for _, seconds := range timings {
		if seconds < 0 {
			return apperror.Validation("время ответа не может быть отрицательным")
		}
	}

	score := a.Score(answers)
	now := time.Now()

	r.Answers = answers
	if timings == nil {
		timings = map[string]int{}
	}
	r.AnswerTimings = timings
	r.Score = &score
	r.Completed = true
	r.CompletedAt = &now
	return nil
}

func (r *AssessmentResult) Review(reviewerID uuid.UUID, notes string) error {
	if !r.Completed {
		return apperror.Validation("нельзя проверить незавершённый тест")
	}
	now := time.Now()
	r.ReviewedAt = &now
	r.ReviewedBy = &reviewerID
	if notes = strings.TrimSpace(notes); notes != "" {
		r.ReviewNotes = &notes
	}
	return nil
}

func (r *AssessmentResult) Passed() bool {
	return r.Score != nil && pipeline.IsPassing(*r.Score)
}
