package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ChangeType - тип изменения строки.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

func (t ChangeType) IsValid() bool {
	return t == ChangeInsert || t == ChangeUpdate || t == ChangeDelete
}

// Таблицы, изменения которых рассылаются подписчикам.
const (
	TableCandidates        = "candidates"
	TableActivities        = "activities"
	TableAssessmentResults = "assessment_results"
	TableTrainingProgress  = "training_progress"
)

// Event - уведомление об изменении. Version - updated_at строки на момент изменения.
type Event struct {
	Type        ChangeType      `json:"type"`
	Table       string          `json:"table"`
	CandidateID uuid.UUID       `json:"candidate_id"`
	Version     time.Time       `json:"version"`
	Row         json.RawMessage `json:"row,omitempty"`
}
