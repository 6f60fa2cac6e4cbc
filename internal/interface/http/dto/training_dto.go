package dto

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/usecase/training"
)

type VideoDTO struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	URL     string `json:"url" binding:"required"`
	Watched bool   `json:"watched,omitempty"`
}

type CreateModuleRequest struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	Position    int           `json:"position"`
	NextStep    int           `json:"next_step"`
	Videos      []VideoDTO    `json:"videos"`
	Quiz        []QuestionDTO `json:"quiz"`
}

type MarkWatchedRequest struct {
	VideoID string `json:"video_id" binding:"required"`
}

type SubmitQuizRequest struct {
	Answers map[string]int `json:"answers" binding:"required"`
}

func ToVideos(in []VideoDTO) []entity.TrainingVideo {
	out := make([]entity.TrainingVideo, len(in))
	for i, v := range in {
		out[i] = entity.TrainingVideo{ID: v.ID, Title: v.Title, URL: v.URL}
	}
	return out
}

type ModuleResponse struct {
	ID          uuid.UUID             `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Position    int                   `json:"position"`
	NextStep    pipeline.Step         `json:"next_step"`
	Videos      []VideoDTO            `json:"videos"`
	Quiz        []QuestionDTO         `json:"quiz"`
	State       *pipeline.ModuleState `json:"state,omitempty"`
	QuizScore   *int                  `json:"quiz_score,omitempty"`
}

// ToModuleResponse собирает модуль без состояния прохождения.
func ToModuleResponse(m *entity.TrainingModule, withAnswers bool) ModuleResponse {
	videos := make([]VideoDTO, len(m.Videos))
	for i, v := range m.Videos {
		videos[i] = VideoDTO{ID: v.ID, Title: v.Title, URL: v.URL}
	}
	return ModuleResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Position:    m.Position,
		NextStep:    m.NextStep,
		Videos:      videos,
		Quiz:        ToQuestionDTOs(m.Quiz, withAnswers),
	}
}

type TrainingResponse struct {
	Candidate CandidateResponse `json:"candidate"`
	Modules   []ModuleResponse  `json:"modules"`
}

func ToTrainingResponse(o *training.Overview) TrainingResponse {
	modules := make([]ModuleResponse, 0, len(o.Modules))
	for _, view := range o.Modules {
		resp := ToModuleResponse(view.Module, false)
		state := view.State
		resp.State = &state

		// ссылки закрытого модуля кандидату не отдаём
		if state.Locked {
			for i := range resp.Videos {
				resp.Videos[i].URL = ""
			}
		}
		if view.Progress != nil {
			watched := make(map[string]struct{}, len(view.Progress.WatchedVideoIDs))
			for _, id := range view.Progress.WatchedVideoIDs {
				watched[id] = struct{}{}
			}
			for i := range resp.Videos {
				_, resp.Videos[i].Watched = watched[resp.Videos[i].ID]
			}
			resp.QuizScore = view.Progress.QuizScore
		}
		modules = append(modules, resp)
	}
	return TrainingResponse{Candidate: ToCandidateResponse(o.Candidate), Modules: modules}
}

type QuizResultResponse struct {
	Score    int              `json:"score"`
	Passed   bool             `json:"passed"`
	Advanced bool             `json:"advanced"`
	Training TrainingResponse `json:"training"`
}

func ToQuizResultResponse(r *training.QuizResult) QuizResultResponse {
	return QuizResultResponse{
		Score:    r.Score,
		Passed:   r.Passed,
		Advanced: r.Advanced,
		Training: ToTrainingResponse(r.Overview),
	}
}
