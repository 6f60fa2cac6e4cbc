package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/hiring-backend/internal/interface/http/dto"
	"github.com/ignatzorin/hiring-backend/internal/interface/http/response"
	"github.com/ignatzorin/hiring-backend/internal/usecase/assessment"
)

type AssessmentUseCases struct {
	Create      *assessment.CreateAssessmentUseCase
	Generate    *assessment.GenerateQuestionsUseCase
	List        *assessment.ListAssessmentsUseCase
	Get         *assessment.GetAssessmentUseCase
	Start       *assessment.StartAssessmentUseCase
	Submit      *assessment.SubmitAssessmentUseCase
	Review      *assessment.ReviewResultUseCase
	ListResults *assessment.ListResultsUseCase
}

type AssessmentHandler struct {
	uc AssessmentUseCases
}

func NewAssessmentHandler(uc AssessmentUseCases) *AssessmentHandler {
	return &AssessmentHandler{uc: uc}
}

func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.uc.Create.Execute(c.Request.Context(), assessment.CreateInput{
		Principal:        p,
		Title:            req.Title,
		Description:      req.Description,
		TimeLimitMinutes: req.TimeLimitMinutes,
		Questions:        dto.ToQuestions(req.Questions),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToAssessmentResponse(created, true))
}

// GenerateQuestions обрабатывает POST /api/assessments/generate. Вопросы не сохраняются.
func (h *AssessmentHandler) GenerateQuestions(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req dto.GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "topic обязателен")
		return
	}

	questions, err := h.uc.Generate.Execute(c.Request.Context(), assessment.GenerateInput{
		Principal: p,
		Topic:     req.Topic,
		JobTitle:  req.JobTitle,
		Count:     req.Count,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToQuestionDTOs(questions, true))
}

// ListAssessments: кандидат получает тесты без правильных ответов.
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	items, err := h.uc.List.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.AssessmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, dto.ToAssessmentResponse(a, p.Role.IsStaff()))
	}
	response.Success(c, out)
}

func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "некорректный ID теста")
	if !ok {
		return
	}

	found, err := h.uc.Get.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToAssessmentResponse(found, p.Role.IsStaff()))
}

// StartAssessment обрабатывает POST /api/assessments/:id/start.
func (h *AssessmentHandler) StartAssessment(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "некорректный ID теста")
	if !ok {
		return
	}

	result, err := h.uc.Start.Execute(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToResultResponse(result))
}

// SubmitResult обрабатывает POST /api/results/:id/submit.
func (h *AssessmentHandler) SubmitResult(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "некорректный ID результата")
	if !ok {
		return
	}

	var req dto.SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "answers обязательны")
		return
	}

	result, err := h.uc.Submit.Execute(c.Request.Context(), assessment.SubmitInput{
		Principal: p,
		ResultID:  id,
		Answers:   req.Answers,
		Timings:   req.Timings,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToResultResponse(result))
}

// ReviewResult обрабатывает POST /api/results/:id/review.
func (h *AssessmentHandler) ReviewResult(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "некорректный ID результата")
	if !ok {
		return
	}

	var req dto.ReviewResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	result, err := h.uc.Review.Execute(c.Request.Context(), assessment.ReviewInput{
		Principal: p,
		ResultID:  id,
		Notes:     req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToResultResponse(result))
}

// ListResults обрабатывает GET /api/candidates/:id/results.
func (h *AssessmentHandler) ListResults(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "некорректный ID кандидата")
	if !ok {
		return
	}

	items, err := h.uc.ListResults.Execute(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.ResultResponse, 0, len(items))
	for _, r := range items {
		out = append(out, dto.ToResultResponse(r))
	}
	response.Success(c, out)
}
