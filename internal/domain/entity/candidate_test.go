package entity_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

func strPtr(s string) *string { return &s }

func submittedCandidate() *entity.Candidate {
	c := entity.NewCandidate(uuid.New())
	c.ResumeURL = strPtr("/media/cv.pdf")
	c.AboutMeVideoURL = strPtr("/media/about.mp4")
	c.SalesPitchVideoURL = strPtr("/media/pitch.mp4")
	return c
}

func TestNewCandidate_StartsAtProfileCreated(t *testing.T) {
	c := entity.NewCandidate(uuid.New())

	assert.Equal(t, pipeline.StatusProfileCreated, c.Status)
	assert.Equal(t, pipeline.StepProfileCreated, c.CurrentStep)
	assert.False(t, c.ApplicationSubmitted())
	assert.True(t, c.View().ShowApplicationPrompt)
}

func TestCandidate_ApplicationSubmittedIgnoresBlankURLs(t *testing.T) {
	c := submittedCandidate()
	assert.True(t, c.ApplicationSubmitted())

	c.SalesPitchVideoURL = strPtr("   ")
	assert.False(t, c.ApplicationSubmitted())
}

func TestCandidate_ChangeStatus_NeverRegressesStep(t *testing.T) {
	c := entity.NewCandidate(uuid.New())

	require.NoError(t, c.ChangeStatus("manager_interview"))
	assert.Equal(t, pipeline.StepManagerInterview, c.CurrentStep)

	err := c.ChangeStatus("HR_Review")
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, pipeline.StatusManagerInterview, c.Status)
	assert.Equal(t, pipeline.StepManagerInterview, c.CurrentStep)
	assert.Equal(t, pipeline.StepManagerInterview, c.View().Step)

	require.NoError(t, c.ChangeStatus("rejected"))
	assert.Equal(t, pipeline.StepClosed, c.CurrentStep)

	require.NoError(t, c.ChangeStatus("screening"))
	assert.Equal(t, pipeline.StepHRReview, c.CurrentStep)
	assert.Equal(t, pipeline.StepHRReview, c.View().Step)
}

func TestCandidate_ScreeningAfterInterviewKeepsStepOnEveryPath(t *testing.T) {
	c := submittedCandidate()
	require.NoError(t, c.ChangeStatus("manager_interview"))
	assert.Error(t, c.ChangeStatus("screening"))

	// строка, записанная до появления проверки
	c.Status = pipeline.StatusScreening
	assert.Equal(t, pipeline.StepManagerInterview, c.Step())
	assert.Equal(t, pipeline.StepManagerInterview, c.View().Step)
	assert.True(t, c.CanAccessTraining())

	assert.False(t, c.AdvanceStep(pipeline.StepTraining))
	assert.Equal(t, pipeline.StepManagerInterview, c.CurrentStep)
	assert.Equal(t, pipeline.StatusScreening, c.Status)

	assert.True(t, c.AdvanceStep(pipeline.StepPaidProject))
	assert.Equal(t, pipeline.StepPaidProject, c.CurrentStep)
	assert.Equal(t, pipeline.StatusPaidProject, c.Status)
}

func TestCandidate_ChangeStatus_StoresAppliedForJobVariant(t *testing.T) {
	c := entity.NewCandidate(uuid.New())
	require.NoError(t, c.ChangeStatus("Applied to job: Closer"))

	assert.Equal(t, pipeline.StatusApplied, c.Status)
	assert.Equal(t, pipeline.StepApplication, c.CurrentStep)
}

func TestCandidate_ChangeStatus_RejectsUnknown(t *testing.T) {
	c := entity.NewCandidate(uuid.New())
	err := c.ChangeStatus("on_hold")

	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, pipeline.StatusProfileCreated, c.Status)
}

func TestCandidate_LegacyStatusKeepsStoredStep(t *testing.T) {
	c := entity.NewCandidate(uuid.New())
	c.Status = "legacy_interview"
	c.CurrentStep = pipeline.StepManagerInterview

	assert.Equal(t, pipeline.StepManagerInterview, c.Step())
	assert.Equal(t, "legacy_interview", c.View().Badge.Label)
}

func TestCandidate_ApplyToJob(t *testing.T) {
	job, err := entity.NewJob("Sales Rep", "", nil, nil)
	require.NoError(t, err)

	c := entity.NewCandidate(uuid.New())
	text, err := c.ApplyToJob(job)
	require.NoError(t, err)
	assert.Equal(t, "Applied to job: Sales Rep", text)
	assert.Equal(t, pipeline.StatusApplied, c.Status)
	assert.Equal(t, pipeline.StepApplication, c.CurrentStep)

	require.NoError(t, c.ChangeStatus("hr_approved"))
	_, err = c.ApplyToJob(job)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusHRApproved, c.Status)
	assert.Equal(t, pipeline.StepTraining, c.CurrentStep)
}

func TestCandidate_ApplyToJob_ClosedCandidateOrJob(t *testing.T) {
	job, _ := entity.NewJob("Sales Rep", "", nil, nil)

	c := entity.NewCandidate(uuid.New())
	require.NoError(t, c.ChangeStatus("archived"))
	_, err := c.ApplyToJob(job)
	assert.True(t, apperror.IsConflict(err))

	job.Close()
	_, err = entity.NewCandidate(uuid.New()).ApplyToJob(job)
	assert.True(t, apperror.IsValidation(err))
}

func TestCandidate_AttachDocument(t *testing.T) {
	c := entity.NewCandidate(uuid.New())

	require.NoError(t, c.AttachDocument(entity.DocumentResume, "/media/a.pdf"))
	require.NoError(t, c.AttachDocument(entity.DocumentAboutMeVideo, "/media/a.mp4"))
	assert.False(t, c.ApplicationSubmitted())
	require.NoError(t, c.AttachDocument(entity.DocumentSalesPitchVideo, "/media/b.mp4"))
	assert.True(t, c.ApplicationSubmitted())

	assert.Error(t, c.AttachDocument(entity.DocumentResume, " "))
	assert.Error(t, c.AttachDocument("photo", "/media/x.png"))
}

func TestCandidate_AdvanceStep_SyncsStatus(t *testing.T) {
	c := submittedCandidate()
	require.NoError(t, c.ChangeStatus("hr_approved"))

	assert.True(t, c.AdvanceStep(pipeline.StepManagerInterview))
	assert.Equal(t, pipeline.StatusManagerInterview, c.Status)
	assert.Equal(t, pipeline.StepManagerInterview, c.Step())

	assert.False(t, c.AdvanceStep(pipeline.StepTraining))
	assert.Equal(t, pipeline.StepManagerInterview, c.Step())
}

func TestCandidate_AdvanceStep_TerminalIsFrozen(t *testing.T) {
	c := submittedCandidate()
	require.NoError(t, c.ChangeStatus("rejected"))

	assert.False(t, c.AdvanceStep(pipeline.StepManagerInterview))
	assert.Equal(t, pipeline.StatusRejected, c.Status)
}

func TestCandidate_CanAccessTraining(t *testing.T) {
	c := submittedCandidate()
	require.NoError(t, c.ChangeStatus("hr_review"))
	assert.False(t, c.CanAccessTraining())

	require.NoError(t, c.ChangeStatus("hr_approved"))
	assert.True(t, c.CanAccessTraining())

	c.ResumeURL = nil
	assert.False(t, c.CanAccessTraining())
}

func TestParseDocumentKind(t *testing.T) {
	k, err := entity.ParseDocumentKind(" Sales_Pitch_Video ")
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentSalesPitchVideo, k)
	assert.True(t, k.IsVideo())

	_, err = entity.ParseDocumentKind("avatar")
	assert.Error(t, err)
}

func TestPrincipal(t *testing.T) {
	owner := uuid.New()
	c := entity.NewCandidate(owner)

	assert.True(t, entity.Principal{UserID: owner, Role: entity.RoleCandidate}.CanViewCandidate(c))
	assert.False(t, entity.Principal{UserID: uuid.New(), Role: entity.RoleCandidate}.CanViewCandidate(c))
	assert.True(t, entity.Principal{UserID: uuid.New(), Role: entity.RoleManager}.CanViewCandidate(c))

	assert.Equal(t, "director", entity.Principal{Role: entity.RoleAdmin}.Dashboard())
	assert.Equal(t, "unknown", entity.Principal{Role: "guest"}.Dashboard())
}
