package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

// DocumentKind - тип материала заявки.
type DocumentKind string

const (
	DocumentResume          DocumentKind = "resume"
	DocumentAboutMeVideo    DocumentKind = "about_me_video"
	DocumentSalesPitchVideo DocumentKind = "sales_pitch_video"
)

func ParseDocumentKind(raw string) (DocumentKind, error) {
	k := DocumentKind(strings.ToLower(strings.TrimSpace(raw)))
	switch k {
	case DocumentResume, DocumentAboutMeVideo, DocumentSalesPitchVideo:
		return k, nil
	}
	return "", apperror.Validation("неизвестный тип документа")
}

func (k DocumentKind) IsVideo() bool {
	return k == DocumentAboutMeVideo || k == DocumentSalesPitchVideo
}

// Candidate - запись кандидата в воронке. Status хранится как есть:
// для старых строк это может быть значение вне закрытого набора.
type Candidate struct {
	ID                 uuid.UUID
	ProfileID          uuid.UUID
	FullName           string
	Email              string
	Status             pipeline.Status
	CurrentStep        pipeline.Step
	ResumeURL          *string
	ResumeText         *string
	AboutMeVideoURL    *string
	SalesPitchVideoURL *string
	AssignedManagerID  *uuid.UUID
	Location           *string
	Phone              *string
	Region             *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewCandidate создаётся вместе с профилем при регистрации.
func NewCandidate(profileID uuid.UUID) *Candidate {
	now := time.Now()
	return &Candidate{
		ID:          uuid.New(),
		ProfileID:   profileID,
		Status:      pipeline.StatusProfileCreated,
		CurrentStep: pipeline.StepProfileCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func (c *Candidate) HasResume() bool          { return present(c.ResumeURL) }
func (c *Candidate) HasAboutMeVideo() bool    { return present(c.AboutMeVideoURL) }
func (c *Candidate) HasSalesPitchVideo() bool { return present(c.SalesPitchVideoURL) }

// ApplicationSubmitted вычисляется из наличия трёх материалов и нигде не хранится.
func (c *Candidate) ApplicationSubmitted() bool {
	return pipeline.IsApplicationSubmitted(c.HasResume(), c.HasAboutMeVideo(), c.HasSalesPitchVideo())
}

func (c *Candidate) Facts() pipeline.Facts {
	return pipeline.Facts{
		Status:        string(c.Status),
		StoredStep:    c.CurrentStep,
		HasResume:     c.HasResume(),
		HasAboutMe:    c.HasAboutMeVideo(),
		HasSalesPitch: c.HasSalesPitchVideo(),
	}
}

func (c *Candidate) View() pipeline.View {
	return pipeline.Resolve(c.Facts())
}

// Step - шаг с учётом статуса; для неизвестного статуса берётся сохранённый.
func (c *Candidate) Step() pipeline.Step {
	return pipeline.ResolveStep(string(c.Status), c.CurrentStep)
}

func (c *Candidate) CanAccessTraining() bool {
	return pipeline.CanAccessTraining(string(c.Status), c.CurrentStep, c.ApplicationSubmitted())
}

// ChangeStatus выставляет канонический статус. Статус ниже текущего шага
// отклоняется, кроме отказа, архивации и возврата закрытого кандидата.
func (c *Candidate) ChangeStatus(raw string) error {
	status, ok := pipeline.ParseStatus(raw)
	if !ok {
		return apperror.Validation("недопустимый статус кандидата")
	}
	if !pipeline.AllowsStatusChange(c.Step(), string(status)) {
		return apperror.ErrStepRegression
	}

	c.CurrentStep = pipeline.NextStepForStatusChange(c.Step(), string(status))
	c.Status = status
	c.UpdatedAt = time.Now()
	return nil
}

// ApplyToJob переводит кандидата в applied и возвращает текст активности.
// Кандидат, ушедший дальше этапа заявки, сохраняет свой статус.
func (c *Candidate) ApplyToJob(job *Job) (string, error) {
	if job == nil || !job.IsActive {
		return "", apperror.Validation("вакансия закрыта")
	}
	if c.Step().IsTerminal() {
		return "", apperror.ErrCandidateClosed
	}

	if c.Step() <= pipeline.StepApplication {
		c.Status = pipeline.StatusApplied
		c.CurrentStep = pipeline.AdvanceStep(c.CurrentStep, pipeline.StepApplication)
	}
	c.UpdatedAt = time.Now()
	return pipeline.AppliedToJobLabel(job.Title), nil
}

func (c *Candidate) AttachDocument(kind DocumentKind, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return apperror.Validation("ссылка на файл обязательна")
	}

	switch kind {
	case DocumentResume:
		c.ResumeURL = &url
	case DocumentAboutMeVideo:
		c.AboutMeVideoURL = &url
	case DocumentSalesPitchVideo:
		c.SalesPitchVideoURL = &url
	default:
		return apperror.Validation("неизвестный тип документа")
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (c *Candidate) SetResumeText(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		c.ResumeText = nil
		return
	}
	c.ResumeText = &text
}

func (c *Candidate) AssignManager(managerID uuid.UUID) {
	c.AssignedManagerID = &managerID
	c.UpdatedAt = time.Now()
}

// AdvanceStep продвигает кандидата после пройденного теста модуля.
// Шаг не уменьшается; статус подтягивается к новому шагу.
func (c *Candidate) AdvanceStep(next pipeline.Step) bool {
	current := c.Step()
	advanced := pipeline.AdvanceStep(current, next)
	if advanced == current {
		return false
	}

	if status, ok := pipeline.StatusForStep(advanced); ok {
		c.Status = status
	}
	c.CurrentStep = advanced
	c.UpdatedAt = time.Now()
	return true
}

func (c *Candidate) UpdateContacts(location, phone, region *string) {
	if location != nil {
		c.Location = location
	}
	if phone != nil {
		c.Phone = phone
	}
	if region != nil {
		c.Region = region
	}
	c.UpdatedAt = time.Now()
}

func (c *Candidate) IsOwnedBy(userID uuid.UUID) bool {
	return c.ProfileID == userID
}
