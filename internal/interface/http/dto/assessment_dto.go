package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
)

type QuestionDTO struct {
	ID                 string   `json:"id,omitempty"`
	Text               string   `json:"text" binding:"required"`
	Options            []string `json:"options" binding:"required"`
	CorrectAnswerIndex *int     `json:"correct_answer_index,omitempty"`
}

type CreateAssessmentRequest struct {
	Title            string        `json:"title" binding:"required"`
	Description      string        `json:"description"`
	TimeLimitMinutes int           `json:"time_limit_minutes"`
	Questions        []QuestionDTO `json:"questions" binding:"required"`
}

type GenerateQuestionsRequest struct {
	Topic    string `json:"topic" binding:"required"`
	JobTitle string `json:"job_title"`
	Count    int    `json:"count"`
}

type SubmitAssessmentRequest struct {
	Answers map[string]int `json:"answers" binding:"required"`
	Timings map[string]int `json:"answer_timings"`
}

type ReviewResultRequest struct {
	Notes string `json:"notes"`
}

// ToQuestions переводит вопросы запроса в сущности. Вопрос без индекса
// правильного ответа получает -1 и не пройдёт валидацию.
func ToQuestions(in []QuestionDTO) []entity.Question {
	out := make([]entity.Question, len(in))
	for i, q := range in {
		correct := -1
		if q.CorrectAnswerIndex != nil {
			correct = *q.CorrectAnswerIndex
		}
		out[i] = entity.Question{ID: q.ID, Text: q.Text, Options: q.Options, CorrectAnswerIndex: correct}
	}
	return out
}

// ToQuestionDTOs скрывает правильные ответы, если withAnswers=false (для кандидата).
func ToQuestionDTOs(in []entity.Question, withAnswers bool) []QuestionDTO {
	out := make([]QuestionDTO, len(in))
	for i, q := range in {
		out[i] = QuestionDTO{ID: q.ID, Text: q.Text, Options: q.Options}
		if withAnswers {
			correct := q.CorrectAnswerIndex
			out[i].CorrectAnswerIndex = &correct
		}
	}
	return out
}

type AssessmentResponse struct {
	ID               uuid.UUID     `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	TimeLimitMinutes int           `json:"time_limit_minutes"`
	Questions        []QuestionDTO `json:"questions"`
	CreatedAt        time.Time     `json:"created_at"`
}

func ToAssessmentResponse(a *entity.Assessment, withAnswers bool) AssessmentResponse {
	return AssessmentResponse{
		ID:               a.ID,
		Title:            a.Title,
		Description:      a.Description,
		TimeLimitMinutes: a.TimeLimitMinutes,
		Questions:        ToQuestionDTOs(a.Questions, withAnswers),
		CreatedAt:        a.CreatedAt,
	}
}

type ResultResponse struct {
	ID            uuid.UUID      `json:"id"`
	CandidateID   uuid.UUID      `json:"candidate_id"`
	AssessmentID  uuid.UUID      `json:"assessment_id"`
	Score         *int           `json:"score"`
	Passed        bool           `json:"passed"`
	Completed     bool           `json:"completed"`
	Answers       map[string]int `json:"answers"`
	AnswerTimings map[string]int `json:"answer_timings"`
	StartedAt     time.Time      `json:"started_at"`
	CompletedAt   *time.Time     `json:"completed_at"`
	ReviewedAt    *time.Time     `json:"reviewed_at"`
	ReviewedBy    *uuid.UUID     `json:"reviewed_by"`
	ReviewNotes   *string        `json:"review_notes,omitempty"`
}

func ToResultResponse(r *entity.AssessmentResult) ResultResponse {
	return ResultResponse{
		ID:            r.ID,
		CandidateID:   r.CandidateID,
		AssessmentID:  r.AssessmentID,
		Score:         r.Score,
		Passed:        r.Passed(),
		Completed:     r.Completed,
		Answers:       r.Answers,
		AnswerTimings: r.AnswerTimings,
		StartedAt:     r.StartedAt,
		CompletedAt:   r.CompletedAt,
		ReviewedAt:    r.ReviewedAt,
		ReviewedBy:    r.ReviewedBy,
		ReviewNotes:   r.ReviewNotes,
	}
}
