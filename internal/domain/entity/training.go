package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

type TrainingVideo struct {
	ID    string
	Title string
	URL   string
}

// TrainingModule - модуль обучения. Порядок модулей задаёт Position.
type TrainingModule struct {
	ID          uuid.UUID
	Title       string
	Description string
	Position    int
	Videos      []TrainingVideo
	Quiz        []Question
	NextStep    pipeline.Step
	CreatedAt   time.Time
}

func NewTrainingModule(title, description string, position int, videos []TrainingVideo, quiz []Question, nextStep pipeline.Step) (*TrainingModule, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.Validation("название модуля обязательно")
	}
	if !nextStep.IsValid() || nextStep.IsTerminal() {
		return nil, apperror.Validation("модуль не может переводить кандидата на этот шаг")
	}
	for i := range videos {
		if videos[i].ID == "" {
			videos[i].ID = uuid.NewString()
		}
	}
	if len(quiz) > 0 {
		if err := ValidateQuestions(quiz); err != nil {
			return nil, err
		}
	}

	return &TrainingModule{
		ID:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Position:    position,
		Videos:      videos,
		Quiz:        quiz,
		NextStep:    nextStep,
		CreatedAt:   time.Now(),
	}, nil
}

func (m *TrainingModule) HasVideo(videoID string) bool {
	for _, v := range m.Videos {
		if v.ID == videoID {
			return true
		}
	}
	return false
}

func (m *TrainingModule) ScoreQuiz(answers map[string]int) int {
	return pipeline.ScoreQuiz(scoringQuestions(m.Quiz), answers)
}

// TrainingProgress - прогресс кандидата по модулю.
type TrainingProgress struct {
	CandidateID     uuid.UUID
	ModuleID        uuid.UUID
	WatchedVideoIDs []string
	QuizCompleted   bool
	QuizScore       *int
	UpdatedAt       time.Time
}

func NewTrainingProgress(candidateID, moduleID uuid.UUID) *TrainingProgress {
	return &TrainingProgress{
		CandidateID:     candidateID,
		ModuleID:        moduleID,
		WatchedVideoIDs: []string{},
		UpdatedAt:       time.Now(),
	}
}

// MarkWatched отмечает видео просмотренным. Повторная отметка ничего не меняет.
func (p *TrainingProgress) MarkWatched(m *TrainingModule, videoID string) error {
	if !m.HasVideo(videoID) {
		return apperror.Validation("видео не относится к модулю")
	}
	for _, id := range p.WatchedVideoIDs {
		if id == videoID {
			return nil
		}
	}
	p.WatchedVideoIDs = append(p.WatchedVideoIDs, videoID)
	p.UpdatedAt = time.Now()
	return nil
}

// RecordQuiz сохраняет лучший результат; квиз считается пройденным с 70%.
func (p *TrainingProgress) RecordQuiz(score int) bool {
	if p.QuizScore == nil || score > *p.QuizScore {
		p.QuizScore = &score
	}
	passed := pipeline.IsPassing(score)
	if passed {
		p.QuizCompleted = true
	}
	p.UpdatedAt = time.Now()
	return passed
}

// Input собирает вход для цепочки разблокировки. Учитываются только видео модуля;
// модуль без квиза считается с пройденным квизом.
func (p *TrainingProgress) Input(m *TrainingModule) pipeline.ModuleInput {
	in := pipeline.ModuleInput{TotalVideos: len(m.Videos), QuizCompleted: len(m.Quiz) == 0}
	if p == nil {
		return in
	}
	for _, id := range p.WatchedVideoIDs {
		if m.HasVideo(id) {
			in.WatchedVideos++
		}
	}
	in.QuizCompleted = in.QuizCompleted || p.QuizCompleted
	return in
}
