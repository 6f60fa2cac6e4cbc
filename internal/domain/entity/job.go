package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

type Job struct {
	ID          uuid.UUID
	Title       string
	Description string
	Location    *string
	IsActive    bool
	CreatedBy   *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewJob(title, description string, location *string, createdBy *uuid.UUID) (*Job, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.Validation("название вакансии обязательно")
	}
	if len([]rune(title)) > 200 {
		return nil, apperror.Validation("название вакансии не должно превышать 200 символов")
	}

	now := time.Now()
	return &Job{
		ID:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Location:    location,
		IsActive:    true,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (j *Job) Close() {
	j.IsActive = false
	j.UpdatedAt = time.Now()
}
