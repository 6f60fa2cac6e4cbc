package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/logger"
)

// CandidateRow - строка кандидата в событии вместе с производным представлением.
type CandidateRow struct {
	ID                uuid.UUID     `json:"id"`
	ProfileID         uuid.UUID     `json:"profile_id"`
	FullName          string        `json:"full_name"`
	Status            string        `json:"status"`
	CurrentStep       pipeline.Step `json:"current_step"`
	AssignedManagerID *uuid.UUID    `json:"assigned_manager_id,omitempty"`
	UpdatedAt         time.Time     `json:"updated_at"`
	View              pipeline.View `json:"view"`
}

type ActivityRow struct {
	ID        uuid.UUID           `json:"id"`
	Kind      entity.ActivityKind `json:"kind"`
	Text      string              `json:"text"`
	ActorID   *uuid.UUID          `json:"actor_id,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// Notifier переводит изменения сущностей в события хаба.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) CandidateChanged(c *entity.Candidate, created bool) {
	kind := ChangeUpdate
	if created {
		kind = ChangeInsert
	}
	n.publish(kind, TableCandidates, c.ID, c.UpdatedAt, CandidateRow{
		ID:                c.ID,
		ProfileID:         c.ProfileID,
		FullName:          c.FullName,
		Status:            string(c.Status),
		CurrentStep:       c.CurrentStep,
		AssignedManagerID: c.AssignedManagerID,
		UpdatedAt:         c.UpdatedAt,
		View:              c.View(),
	})
}

func (n *Notifier) CandidateDeleted(candidateID uuid.UUID) {
	n.publish(ChangeDelete, TableCandidates, candidateID, time.Now(), nil)
}

func (n *Notifier) ActivityAdded(a *entity.Activity) {
	n.publish(ChangeInsert, TableActivities, a.CandidateID, a.CreatedAt, ActivityRow{
		ID:        a.ID,
		Kind:      a.Kind,
		Text:      a.Text,
		ActorID:   a.ActorID,
		CreatedAt: a.CreatedAt,
	})
}

// ResultChanged сообщает об изменении результата теста без данных ответов.
func (n *Notifier) ResultChanged(r *entity.AssessmentResult) {
	n.publish(ChangeUpdate, TableAssessmentResults, r.CandidateID, time.Now(), map[string]any{
		"id":            r.ID,
		"assessment_id": r.AssessmentID,
		"score":         r.Score,
		"completed":     r.Completed,
		"reviewed":      r.ReviewedAt != nil,
	})
}

func (n *Notifier) publish(kind ChangeType, table string, candidateID uuid.UUID, version time.Time, row any) {
	e := Event{Type: kind, Table: table, CandidateID: candidateID, Version: version}
	if row != nil {
		raw, err := json.Marshal(row)
		if err != nil {
			logger.WithCandidate(candidateID).WithError(err).Error("realtime: не удалось сериализовать строку")
			return
		}
		e.Row = raw
	}

	if err := n.hub.Publish(e); err != nil {
		logger.WithCandidate(candidateID).WithError(err).Warn("realtime: событие не отправлено")
	}
}
