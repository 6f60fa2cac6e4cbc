package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/hiring-backend/internal/interface/http/dto"
	"github.com/ignatzorin/hiring-backend/internal/interface/http/response"
	"github.com/ignatzorin/hiring-backend/internal/usecase/training"
)

type TrainingUseCases struct {
	Get          *training.GetTrainingUseCase
	MarkWatched  *training.MarkVideoWatchedUseCase
	SubmitQuiz   *training.SubmitQuizUseCase
	CreateModule *training.CreateModuleUseCase
	ListModules  *training.ListModulesUseCase
}

type TrainingHandler struct {
	uc TrainingUseCases
}

func NewTrainingHandler(uc TrainingUseCases) *TrainingHandler {
	return &TrainingHandler{uc: uc}
}

// GetTraining обрабатывает GET /api/training: модули со статусом разблокировки.
func (h *TrainingHandler) GetTraining(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	overview, err := h.uc.Get.Execute(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToTrainingResponse(overview))
}

// MarkWatched обрабатывает POST /api/training/modules/:id/watched.
func (h *TrainingHandler) MarkWatched(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	moduleID, ok := paramUUID(c, "id", "некорректный ID модуля")
	if !ok {
		return
	}

	var req dto.MarkWatchedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "video_id обязателен")
		return
	}

	overview, err := h.uc.MarkWatched.Execute(c.Request.Context(), training.MarkWatchedInput{
		Principal: p,
		ModuleID:  moduleID,
		VideoID:   req.VideoID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToTrainingResponse(overview))
}

// SubmitQuiz обрабатывает POST /api/training/modules/:id/quiz.
func (h *TrainingHandler) SubmitQuiz(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	moduleID, ok := paramUUID(c, "id", "некорректный ID модуля")
	if !ok {
		return
	}

	var req dto.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "answers обязательны")
		return
	}

	result, err := h.uc.SubmitQuiz.Execute(c.Request.Context(), training.SubmitQuizInput{
		Principal: p,
		ModuleID:  moduleID,
		Answers:   req.Answers,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToQuizResultResponse(result))
}

func (h *TrainingHandler) CreateModule(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.uc.CreateModule.Execute(c.Request.Context(), training.CreateModuleInput{
		Principal:   p,
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
		Videos:      dto.ToVideos(req.Videos),
		Quiz:        dto.ToQuestions(req.Quiz),
		NextStep:    req.NextStep,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToModuleResponse(created, true))
}

// ListModules - модули для сотрудников, с правильными ответами.
func (h *TrainingHandler) ListModules(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	modules, err := h.uc.ListModules.Execute(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.ModuleResponse, 0, len(modules))
	for _, m := range modules {
		out = append(out, dto.ToModuleResponse(m, true))
	}
	response.Success(c, out)
}
