package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/usecase/candidate"
)

type UpdateStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	NotifyCandidate bool   `json:"notify_candidate"`
}

type AssignManagerRequest struct {
	ManagerID string `json:"manager_id" binding:"required"`
}

type UpdateProfileRequest struct {
	Location *string `json:"location"`
	Phone    *string `json:"phone"`
	Region   *string `json:"region"`
}

// CandidateResponse - запись кандидата вместе с производным представлением.
// current_step в ответе всегда разрешённый шаг, а не сырое значение из БД.
type CandidateResponse struct {
	ID                 uuid.UUID     `json:"id"`
	ProfileID          uuid.UUID     `json:"profile_id"`
	FullName           string        `json:"full_name"`
	Email              string        `json:"email"`
	Status             string        `json:"status"`
	ResumeURL          *string       `json:"resume_url"`
	AboutMeVideoURL    *string       `json:"about_me_video_url"`
	SalesPitchVideoURL *string       `json:"sales_pitch_video_url"`
	AssignedManagerID  *uuid.UUID    `json:"assigned_manager_id"`
	Location           *string       `json:"location"`
	Phone              *string       `json:"phone"`
	Region             *string       `json:"region"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	View               pipeline.View `json:"view"`
}

func ToCandidateResponse(c *entity.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:                 c.ID,
		ProfileID:          c.ProfileID,
		FullName:           c.FullName,
		Email:              c.Email,
		Status:             string(c.Status),
		ResumeURL:          c.ResumeURL,
		AboutMeVideoURL:    c.AboutMeVideoURL,
		SalesPitchVideoURL: c.SalesPitchVideoURL,
		AssignedManagerID:  c.AssignedManagerID,
		Location:           c.Location,
		Phone:              c.Phone,
		Region:             c.Region,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
		View:               c.View(),
	}
}

func ToCandidateList(items []*entity.Candidate) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(items))
	for _, c := range items {
		out = append(out, ToCandidateResponse(c))
	}
	return out
}

type ActivityResponse struct {
	ID          uuid.UUID  `json:"id"`
	CandidateID uuid.UUID  `json:"candidate_id"`
	ActorID     *uuid.UUID `json:"actor_id"`
	Kind        string     `json:"kind"`
	Text        string     `json:"text"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ToActivityList(items []*entity.Activity) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(items))
	for _, a := range items {
		out = append(out, ActivityResponse{
			ID:          a.ID,
			CandidateID: a.CandidateID,
			ActorID:     a.ActorID,
			Kind:        string(a.Kind),
			Text:        a.Text,
			CreatedAt:   a.CreatedAt,
		})
	}
	return out
}

// StageCount - число кандидатов на шаге для сводки сотрудников.
type StageCount struct {
	Stage pipeline.Stage `json:"stage"`
	Count int            `json:"count"`
}

type DashboardResponse struct {
	Kind       string             `json:"kind"`
	Candidate  *CandidateResponse `json:"candidate,omitempty"`
	Activities []ActivityResponse `json:"activities,omitempty"`
	Stages     []StageCount       `json:"stages,omitempty"`
	Total      int                `json:"total"`
}

func ToDashboardResponse(d *candidate.Dashboard) DashboardResponse {
	resp := DashboardResponse{Kind: d.Kind, Total: d.Total}
	if d.Candidate != nil {
		c := ToCandidateResponse(d.Candidate)
		resp.Candidate = &c
		resp.Activities = ToActivityList(d.Activities)
	}
	if d.StageCounts != nil {
		for step := pipeline.StepProfileCreated; step <= pipeline.StepClosed; step++ {
			resp.Stages = append(resp.Stages, StageCount{Stage: pipeline.StageInfo(step), Count: d.StageCounts[step]})
		}
	}
	return resp
}
