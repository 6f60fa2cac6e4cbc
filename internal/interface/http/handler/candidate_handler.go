package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/hiring-backend/internal/interface/http/dto"
	"github.com/ignatzorin/hiring-backend/internal/interface/http/response"
	"github.com/ignatzorin/hiring-backend/internal/usecase/candidate"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CandidateUseCases - набор use case кандидатской части.
type CandidateUseCases struct {
	Dashboard      *candidate.DashboardUseCase
	Upload         *candidate.UploadDocumentUseCase
	UpdateProfile  *candidate.UpdateProfileUseCase
	ApplyToJob     *candidate.ApplyToJobUseCase
	Get            *candidate.GetCandidateUseCase
	List           *candidate.ListCandidatesUseCase
	ListActivities *candidate.ListActivitiesUseCase
	UpdateStatus   *candidate.UpdateStatusUseCase
	AssignManager  *candidate.AssignManagerUseCase
	Delete         *candidate.DeleteCandidateUseCase
	Export         *candidate.ExportCandidatesUseCase
}

type CandidateHandler struct {
	uc CandidateUseCases
}

func NewCandidateHandler(uc CandidateUseCases) *CandidateHandler {
	return &CandidateHandler{uc: uc}
}

// Dashboard обрабатывает GET /api/dashboard. Вид зависит от роли.
func (h *CandidateHandler) Dashboard(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	d, err := h.uc.Dashboard.Execute(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToDashboardResponse(d))
}

// UploadDocument обрабатывает POST /api/me/documents (multipart: kind, file).
func (h *CandidateHandler) UploadDocument(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "поле file обязательно")
		return
	}
	if file.Size == 0 {
		response.BadRequest(c, "файл не может быть пустым")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "не удалось прочитать файл")
		return
	}
	defer src.Close()

	updated, err := h.uc.Upload.Execute(c.Request.Context(), candidate.UploadDocumentInput{
		Principal: p,
		Kind:      c.PostForm("kind"),
		Filename:  file.Filename,
		Content:   src,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToCandidateResponse(updated))
}

// UpdateProfile обрабатывает PATCH /api/me/profile.
func (h *CandidateHandler) UpdateProfile(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	updated, err := h.uc.UpdateProfile.Execute(c.Request.Context(), candidate.UpdateProfileInput{
		Principal: p,
		Location:  req.Location,
		Phone:     req.Phone,
		Region:    req.Region,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToCandidateResponse(updated))
}

// ApplyToJob обрабатывает POST /api/jobs/:id/apply.
func (h *CandidateHandler) ApplyToJob(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	jobID, ok := paramUUID(c, "id", "некорректный ID вакансии")
	if !ok {
		return
	}

	updated, err := h.uc.ApplyToJob.Execute(c.Request.Context(), p, jobID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToCandidateResponse(updated))
}

func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "некорректный ID кандидата")
	if !ok {
		return
	}

	found, err := h.uc.Get.Execute(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToCandidateResponse(found))
}

// listInput собирает фильтр из query: status, manager_id, search, limit, offset.
func listInput(c *gin.Context) (candidate.ListInput, bool) {
	managerID, ok := parseUUIDQuery(c, "manager_id")
	if !ok {
		response.BadRequest(c, "некорректный manager_id")
		return candidate.ListInput{}, false
	}
	return candidate.ListInput{
		Status:            c.Query("status"),
		AssignedManagerID: managerID,
		Search:            c.Query("search"),
		Limit:             parseIntQuery(c, "limit", 0),
		Offset:            parseIntQuery(c, "offset", 0),
	}, true
}

// ListCandidates обрабатывает GET /api/candidates.
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	input, ok := listInput(c)
	if !ok {
		return
	}

	result, err := h.uc.List.Execute(c.Request.Context(), p, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToCandidateList(result.Items), result.Total, result.Limit, result.Offset)
}

// ExportCandidates обрабатывает GET /api/candidates/export и отдаёт XLSX.
func (h *CandidateHandler) ExportCandidates(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	input, ok := listInput(c)
	if !ok {
		return
	}

	data, err := h.uc.Export.Execute(c.Request.Context(), p, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("candidates-%s.xlsx", time.Now().Format("2006-01-02"))
	response.Attachment(c, filename, xlsxContentType, data)
}

// ListActivities обрабатывает GET /api/candidates/:id/activities.
func (h *CandidateHandler) ListActivities(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "некорректный ID кандидата")
	if !ok {
		return
	}

	items, err := h.uc.ListActivities.Execute(c.Request.Context(), p, id, parseIntQuery(c, "limit", 0))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToActivityList(items))
}

// UpdateStatus обрабатывает PATCH /api/candidates/:id/status.
func (h *CandidateHandler) UpdateStatus(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "некорректный ID кандидата")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status обязателен")
		return
	}

	updated, err := h.uc.UpdateStatus.Execute(c.Request.Context(), candidate.UpdateStatusInput{
		Principal:       p,
		CandidateID:     id,
		Status:          req.Status,
		NotifyCandidate: req.NotifyCandidate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToCandidateResponse(updated))
}

// AssignManager обрабатывает PATCH /api/candidates/:id/manager.
func (h *CandidateHandler) AssignManager(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "некорректный ID кандидата")
	if !ok {
		return
	}

	var req dto.AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "manager_id обязателен")
		return
	}
	managerID, err := parseUUID(req.ManagerID)
	if err != nil {
		response.BadRequest(c, "некорректный manager_id")
		return
	}

	updated, err := h.uc.AssignManager.Execute(c.Request.Context(), p, id, managerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToCandidateResponse(updated))
}

func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "некорректный ID кандидата")
	if !ok {
		return
	}

	if err := h.uc.Delete.Execute(c.Request.Context(), p, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
