package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/hiring-backend/internal/interface/http/dto"
	"github.com/ignatzorin/hiring-backend/internal/interface/http/response"
	"github.com/ignatzorin/hiring-backend/internal/usecase/admin"
)

type AdminHandler struct {
	changeEmailUC *admin.ChangeEmailUseCase
	changeRoleUC  *admin.ChangeRoleUseCase
	createStaffUC *admin.CreateStaffUseCase
}

func NewAdminHandler(changeEmailUC *admin.ChangeEmailUseCase, changeRoleUC *admin.ChangeRoleUseCase, createStaffUC *admin.CreateStaffUseCase) *AdminHandler {
	return &AdminHandler{
		changeEmailUC: changeEmailUC,
		changeRoleUC:  changeRoleUC,
		createStaffUC: createStaffUC,
	}
}

// ChangeEmail обрабатывает PATCH /api/admin/users/:id/email.
func (h *AdminHandler) ChangeEmail(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "некорректный ID пользователя")
	if !ok {
		return
	}

	var req dto.ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email обязателен")
		return
	}

	updated, err := h.changeEmailUC.Execute(c.Request.Context(), p, id, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToUserResponse(updated))
}

// ChangeRole обрабатывает PATCH /api/admin/users/:id/role.
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "некорректный ID пользователя")
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "role обязательна")
		return
	}

	updated, err := h.changeRoleUC.Execute(c.Request.Context(), p, id, req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToUserResponse(updated))
}

func (h *AdminHandler) CreateStaff(c *gin.Context) {
	p, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.createStaffUC.Execute(c.Request.Context(), admin.CreateStaffInput{
		Principal: p,
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		Role:      req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToUserResponse(created))
}
