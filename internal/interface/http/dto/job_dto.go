package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
)

type CreateJobRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Location    *string `json:"location"`
}

type JobResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    *string   `json:"location"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToJobResponse(j *entity.Job) JobResponse {
	return JobResponse{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		IsActive:    j.IsActive,
		CreatedAt:   j.CreatedAt,
	}
}

func ToJobList(items []*entity.Job) []JobResponse {
	out := make([]JobResponse, 0, len(items))
	for _, j := range items {
		out = append(out, ToJobResponse(j))
	}
	return out
}

type ChangeEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type CreateStaffRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}
