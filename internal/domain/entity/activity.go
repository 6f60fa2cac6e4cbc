package entity

import (
	"time"

	"github.com/google/uuid"
)

// ActivityKind - тип записи в ленте кандидата.
type ActivityKind string

const (
	ActivityProfileCreated      ActivityKind = "profile_created"
	ActivityApplied             ActivityKind = "applied"
	ActivityStatusChange        ActivityKind = "status_change"
	ActivityDocumentUploaded    ActivityKind = "document_uploaded"
	ActivityManagerAssigned     ActivityKind = "manager_assigned"
	ActivityAssessmentCompleted ActivityKind = "assessment_completed"
	ActivityAssessmentReviewed  ActivityKind = "assessment_reviewed"
	ActivityTrainingQuizPassed  ActivityKind = "training_quiz_passed"
)

type Activity struct {
	ID          uuid.UUID
	CandidateID uuid.UUID
	ActorID     *uuid.UUID
	Kind        ActivityKind
	Text        string
	CreatedAt   time.Time
}

func NewActivity(candidateID uuid.UUID, actorID *uuid.UUID, kind ActivityKind, text string) *Activity {
	return &Activity{
		ID:          uuid.New(),
		CandidateID: candidateID,
		ActorID:     actorID,
		Kind:        kind,
		Text:        text,
		CreatedAt:   time.Now(),
	}
}
