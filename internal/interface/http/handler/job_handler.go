package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/hiring-backend/internal/interface/http/dto"
	"github.com/ignatzorin/hiring-backend/internal/interface/http/response"
	"github.com/ignatzorin/hiring-backend/internal/usecase/job"
)

type JobHandler struct {
	createJobUC *job.CreateJobUseCase
	listJobsUC  *job.ListJobsUseCase
	getJobUC    *job.GetJobUseCase
	closeJobUC  *job.CloseJobUseCase
}

func NewJobHandler(
	createJobUC *job.CreateJobUseCase,
	listJobsUC *job.ListJobsUseCase,
	getJobUC *job.GetJobUseCase,
	closeJobUC *job.CloseJobUseCase,
) *JobHandler {
	return &JobHandler{
		createJobUC: createJobUC,
		listJobsUC:  listJobsUC,
		getJobUC:    getJobUC,
		closeJobUC:  closeJobUC,
	}
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.createJobUC.Execute(c.Request.Context(), job.CreateJobInput{
		Principal:   p,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToJobResponse(created))
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	items, err := h.listJobsUC.Execute(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToJobList(items))
}

func (h *JobHandler) GetJob(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "некорректный ID вакансии")
	if !ok {
		return
	}

	found, err := h.getJobUC.Execute(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToJobResponse(found))
}

// CloseJob обрабатывает POST /api/jobs/:id/close.
func (h *JobHandler) CloseJob(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "некорректный ID вакансии")
	if !ok {
		return
	}

	closed, err := h.closeJobUC.Execute(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToJobResponse(closed))
}
