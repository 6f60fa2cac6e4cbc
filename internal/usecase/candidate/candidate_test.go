package candidate_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
	"github.com/ignatzorin/hiring-backend/internal/usecase/candidate"
)

func newCandidate(status pipeline.Status, step pipeline.Step) (*entity.Candidate, entity.Principal) {
	owner := uuid.New()
	c := entity.NewCandidate(owner)
	c.Status = status
	c.CurrentStep = step
	c.Email = "jane@example.com"
	c.FullName = "Jane"
	return c, entity.Principal{UserID: owner, Role: entity.RoleCandidate}
}

func staff(role entity.Role) entity.Principal {
	return entity.Principal{UserID: uuid.New(), Role: role}
}

func TestDashboard_Candidate(t *testing.T) {
	c, p := newCandidate(pipeline.StatusProfileCreated, pipeline.StepProfileCreated)
	activities := &mockActivityRepository{}
	for i := 0; i < 12; i++ {
		_ = activities.Create(context.Background(), entity.NewActivity(c.ID, nil, entity.ActivityStatusChange, "x"))
	}

	uc := candidate.NewDashboardUseCase(newMockCandidateRepository(c), activities)
	d, err := uc.Execute(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "candidate", d.Kind)
	assert.Equal(t, c.ID, d.Candidate.ID)
	require.NotNil(t, d.View)
	assert.True(t, d.View.ShowApplicationPrompt)
	assert.Len(t, d.Activities, 10)
}

func TestDashboard_ManagerSeesOnlyAssigned(t *testing.T) {
	manager := staff(entity.RoleManager)
	mine, _ := newCandidate(pipeline.StatusTraining, pipeline.StepTraining)
	mine.AssignManager(manager.UserID)
	other, _ := newCandidate(pipeline.StatusHired, pipeline.StepHired)

	uc := candidate.NewDashboardUseCase(newMockCandidateRepository(mine, other), &mockActivityRepository{})

	d, err := uc.Execute(context.Background(), manager)
	require.NoError(t, err)
	assert.Equal(t, "manager", d.Kind)
	assert.Equal(t, 1, d.Total)
	assert.Equal(t, 1, d.StageCounts[pipeline.StepTraining])
	assert.Zero(t, d.StageCounts[pipeline.StepHired])

	d, err = uc.Execute(context.Background(), staff(entity.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, "director", d.Kind)
	assert.Equal(t, 2, d.Total)
}

func TestUploadDocument_ResumeExtractsText(t *testing.T) {
	c, p := newCandidate(pipeline.StatusProfileCreated, pipeline.StepProfileCreated)
	repo := newMockCandidateRepository(c)
	activities := &mockActivityRepository{}
	notifier := &recordingNotifier{}

	uc := candidate.NewUploadDocumentUseCase(repo, activities, &fakeStore{}, &fakeExtractor{text: " closer with 5 years "}, notifier)
	got, err := uc.Execute(context.Background(), candidate.UploadDocumentInput{
		Principal: p,
		Kind:      "resume",
		Filename:  "cv.pdf",
		Content:   bytes.NewReader([]byte("%PDF-1.4")),
	})
	require.NoError(t, err)

	assert.True(t, got.HasResume())
	require.NotNil(t, got.ResumeText)
	assert.Equal(t, "closer with 5 years", *got.ResumeText)
	assert.Equal(t, "Uploaded resume", activities.last().Text)
	assert.Len(t, notifier.changed, 1)
	assert.Len(t, notifier.activities, 1)
}

func TestUploadDocument_ExtractionFailureIsNotFatal(t *testing.T) {
	c, p := newCandidate(pipeline.StatusProfileCreated, pipeline.StepProfileCreated)
	uc := candidate.NewUploadDocumentUseCase(newMockCandidateRepository(c), &mockActivityRepository{}, &fakeStore{},
		&fakeExtractor{err: errBroken}, &recordingNotifier{})

	got, err := uc.Execute(context.Background(), candidate.UploadDocumentInput{Principal: p, Kind: "resume", Filename: "cv.doc", Content: bytes.NewReader(nil)})
	require.NoError(t, err)
	assert.True(t, got.HasResume())
	assert.Nil(t, got.ResumeText)
}

func TestUploadDocument_CompletesApplication(t *testing.T) {
	c, p := newCandidate(pipeline.StatusProfileCreated, pipeline.StepProfileCreated)
	uc := candidate.NewUploadDocumentUseCase(newMockCandidateRepository(c), &mockActivityRepository{}, &fakeStore{}, nil, &recordingNotifier{})

	for _, kind := range []string{"resume", "about_me_video", "sales_pitch_video"} {
		_, err := uc.Execute(context.Background(), candidate.UploadDocumentInput{Principal: p, Kind: kind, Filename: "f", Content: bytes.NewReader(nil)})
		require.NoError(t, err)
	}
	assert.True(t, c.ApplicationSubmitted())
	assert.False(t, c.View().ShowApplicationPrompt)
}

func TestUploadDocument_Rejections(t *testing.T) {
	c, p := newCandidate(pipeline.StatusProfileCreated, pipeline.StepProfileCreated)
	repo := newMockCandidateRepository(c)

	uc := candidate.NewUploadDocumentUseCase(repo, &mockActivityRepository{}, &fakeStore{}, nil, &recordingNotifier{})
	_, err := uc.Execute(context.Background(), candidate.UploadDocumentInput{Principal: p, Kind: "avatar", Content: bytes.NewReader(nil)})
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(context.Background(), candidate.UploadDocumentInput{Principal: staff(entity.RoleHR), Kind: "resume", Content: bytes.NewReader(nil)})
	assert.True(t, apperror.IsForbidden(err))

	tooLarge := apperror.New(apperror.ErrCodeTooLarge, "too large")
	uc = candidate.NewUploadDocumentUseCase(repo, &mockActivityRepository{}, &fakeStore{err: tooLarge}, nil, &recordingNotifier{})
	_, err = uc.Execute(context.Background(), candidate.UploadDocumentInput{Principal: p, Kind: "resume", Content: bytes.NewReader(nil)})
	assert.ErrorIs(t, err, tooLarge)
	assert.False(t, c.HasResume())
}

func TestUpdateProfile(t *testing.T) {
	c, p := newCandidate(pipeline.StatusApplied, pipeline.StepApplication)
	uc := candidate.NewUpdateProfileUseCase(newMockCandidateRepository(c), &recordingNotifier{})

	city := "Berlin"
	got, err := uc.Execute(context.Background(), candidate.UpdateProfileInput{Principal: p, Location: &city})
	require.NoError(t, err)
	assert.Equal(t, "Berlin", *got.Location)

	bad := "call me maybe"
	_, err = uc.Execute(context.Background(), candidate.UpdateProfileInput{Principal: p, Phone: &bad})
	assert.True(t, apperror.IsValidation(err))
}

func TestApplyToJob(t *testing.T) {
	job, err := entity.NewJob("Closer", "", nil, nil)
	require.NoError(t, err)
	c, p := newCandidate(pipeline.StatusProfileCreated, pipeline.StepProfileCreated)
	activities := &mockActivityRepository{}

	uc := candidate.NewApplyToJobUseCase(newMockCandidateRepository(c), newMockJobRepository(job), activities, &recordingNotifier{})
	got, err := uc.Execute(context.Background(), p, job.ID)
	require.NoError(t, err)

	assert.Equal(t, pipeline.StatusApplied, got.Status)
	assert.Equal(t, pipeline.StepApplication, got.CurrentStep)
	assert.Equal(t, entity.ActivityApplied, activities.last().Kind)
	assert.Equal(t, "Applied to job: Closer", activities.last().Text)

	_, err = uc.Execute(context.Background(), p, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestApplyToJob_ClosedCandidate(t *testing.T) {
	job, _ := entity.NewJob("Closer", "", nil, nil)
	c, p := newCandidate(pipeline.StatusRejected, pipeline.StepClosed)

	uc := candidate.NewApplyToJobUseCase(newMockCandidateRepository(c), newMockJobRepository(job), &mockActivityRepository{}, &recordingNotifier{})
	_, err := uc.Execute(context.Background(), p, job.ID)
	assert.ErrorIs(t, err, apperror.ErrCandidateClosed)
}

func TestGetCandidate_Visibility(t *testing.T) {
	c, owner := newCandidate(pipeline.StatusApplied, pipeline.StepApplication)
	uc := candidate.NewGetCandidateUseCase(newMockCandidateRepository(c))

	got, err := uc.Execute(context.Background(), owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = uc.Execute(context.Background(), staff(entity.RoleManager), c.ID)
	require.NoError(t, err)

	stranger := entity.Principal{UserID: uuid.New(), Role: entity.RoleCandidate}
	_, err = uc.Execute(context.Background(), stranger, c.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListCandidates(t *testing.T) {
	a, _ := newCandidate(pipeline.StatusApplied, pipeline.StepApplication)
	b, _ := newCandidate(pipeline.StatusHRReview, pipeline.StepHRReview)
	uc := candidate.NewListCandidatesUseCase(newMockCandidateRepository(a, b))

	res, err := uc.Execute(context.Background(), staff(entity.RoleHR), candidate.ListInput{Status: "HR Review", Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, b.ID, res.Items[0].ID)
	assert.Equal(t, 100, res.Limit)

	res, err = uc.Execute(context.Background(), staff(entity.RoleHR), candidate.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Limit)
	assert.Len(t, res.Items, 2)

	_, err = uc.Execute(context.Background(), staff(entity.RoleHR), candidate.ListInput{Status: "on_hold"})
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(context.Background(), entity.Principal{UserID: uuid.New(), Role: entity.RoleCandidate}, candidate.ListInput{})
	assert.True(t, apperror.IsForbidden(err))
}

func TestListCandidates_ManagerSeesOnlyAssigned(t *testing.T) {
	manager := staff(entity.RoleManager)
	mine, _ := newCandidate(pipeline.StatusApplied, pipeline.StepApplication)
	mine.AssignManager(manager.UserID)
	unassigned, _ := newCandidate(pipeline.StatusApplied, pipeline.StepApplication)
	foreign, _ := newCandidate(pipeline.StatusHRReview, pipeline.StepHRReview)
	foreign.AssignManager(uuid.New())

	uc := candidate.NewListCandidatesUseCase(newMockCandidateRepository(mine, unassigned, foreign))

	res, err := uc.Execute(context.Background(), manager, candidate.ListInput{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, mine.ID, res.Items[0].ID)

	otherManager := *foreign.AssignedManagerID
	res, err = uc.Execute(context.Background(), manager, candidate.ListInput{AssignedManagerID: &otherManager})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, mine.ID, res.Items[0].ID)

	res, err = uc.Execute(context.Background(), staff(entity.RoleDirector), candidate.ListInput{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 3)
}

func TestListActivities(t *testing.T) {
	c, owner := newCandidate(pipeline.StatusApplied, pipeline.StepApplication)
	activities := &mockActivityRepository{}
	_ = activities.Create(context.Background(), entity.NewActivity(c.ID, nil, entity.ActivityApplied, "Applied to job: Closer"))
	_ = activities.Create(context.Background(), entity.NewActivity(uuid.New(), nil, entity.ActivityApplied, "other"))

	uc := candidate.NewListActivitiesUseCase(newMockCandidateRepository(c), activities)
	got, err := uc.Execute(context.Background(), owner, c.ID, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Applied to job: Closer", got[0].Text)
}

func TestUpdateStatus_RecordsActivityAndKeepsStep(t *testing.T) {
	c, _ := newCandidate(pipeline.StatusManagerInterview, pipeline.StepManagerInterview)
	repo := newMockCandidateRepository(c)
	activities := &mockActivityRepository{}
	notifier := &recordingNotifier{}
	hr := staff(entity.RoleHR)

	uc := candidate.NewUpdateStatusUseCase(repo, activities, notifier, nil)
	_, err := uc.Execute(context.Background(), candidate.UpdateStatusInput{Principal: hr, CandidateID: c.ID, Status: "hr_review"})
	assert.True(t, apperror.IsConflict(err))
	assert.Zero(t, repo.updates)
	assert.Empty(t, activities.activities)
	assert.Empty(t, notifier.changed)

	got, err := uc.Execute(context.Background(), candidate.UpdateStatusInput{Principal: hr, CandidateID: c.ID, Status: "paid_project"})
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusPaidProject, got.Status)
	assert.Equal(t, pipeline.StepPaidProject, got.CurrentStep)
	assert.Equal(t, pipeline.StepPaidProject, got.View().Step)
	assert.Equal(t, "Status changed from Manager Interview to Paid Project", activities.last().Text)
	assert.Equal(t, hr.UserID, *activities.last().ActorID)
	assert.Len(t, notifier.changed, 1)

	got, err = uc.Execute(context.Background(), candidate.UpdateStatusInput{Principal: hr, CandidateID: c.ID, Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, pipeline.StepClosed, got.CurrentStep)
}

func TestUpdateStatus_NoChangeIsNoop(t *testing.T) {
	c, _ := newCandidate(pipeline.StatusTraining, pipeline.StepTraining)
	repo := newMockCandidateRepository(c)
	activities := &mockActivityRepository{}

	uc := candidate.NewUpdateStatusUseCase(repo, activities, &recordingNotifier{}, nil)
	_, err := uc.Execute(context.Background(), candidate.UpdateStatusInput{Principal: staff(entity.RoleManager), CandidateID: c.ID, Status: "Training"})
	require.NoError(t, err)
	assert.Zero(t, repo.updates)
	assert.Empty(t, activities.activities)
}

func TestUpdateStatus_Rejections(t *testing.T) {
	c, owner := newCandidate(pipeline.StatusApplied, pipeline.StepApplication)
	uc := candidate.NewUpdateStatusUseCase(newMockCandidateRepository(c), &mockActivityRepository{}, &recordingNotifier{}, nil)

	_, err := uc.Execute(context.Background(), candidate.UpdateStatusInput{Principal: owner, CandidateID: c.ID, Status: "hired"})
	assert.True(t, apperror.IsForbidden(err))

	_, err = uc.Execute(context.Background(), candidate.UpdateStatusInput{Principal: staff(entity.RoleHR), CandidateID: c.ID, Status: "on_hold"})
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, pipeline.StatusApplied, c.Status)

	_, err = uc.Execute(context.Background(), candidate.UpdateStatusInput{Principal: staff(entity.RoleHR), CandidateID: uuid.New(), Status: "hired"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateStatus_SendsEmail(t *testing.T) {
	c, _ := newCandidate(pipeline.StatusHRReview, pipeline.StepHRReview)
	mailer := newFakeMailer()

	uc := candidate.NewUpdateStatusUseCase(newMockCandidateRepository(c), &mockActivityRepository{}, &recordingNotifier{}, mailer)
	_, err := uc.Execute(context.Background(), candidate.UpdateStatusInput{
		Principal:       staff(entity.RoleHR),
		CandidateID:     c.ID,
		Status:          "hr_approved",
		NotifyCandidate: true,
	})
	require.NoError(t, err)

	select {
	case email := <-mailer.sent:
		assert.Equal(t, "jane@example.com", email.To)
		assert.Equal(t, "Your application status: HR Approved", email.Subject)
		assert.Contains(t, email.Body, "Hello Jane")
	case <-time.After(2 * time.Second):
		t.Fatal("письмо не отправлено")
	}
}

func TestAssignManager(t *testing.T) {
	c, _ := newCandidate(pipeline.StatusApplied, pipeline.StepApplication)
	manager, err := entity.NewUser("boss@example.com", "hash", "Boss", entity.RoleManager)
	require.NoError(t, err)
	hrUser, _ := entity.NewUser("hr@example.com", "hash", "", entity.RoleHR)
	activities := &mockActivityRepository{}

	uc := candidate.NewAssignManagerUseCase(newMockCandidateRepository(c), newMockUserRepository(manager, hrUser), activities, &recordingNotifier{})

	got, err := uc.Execute(context.Background(), staff(entity.RoleHR), c.ID, manager.ID)
	require.NoError(t, err)
	assert.Equal(t, manager.ID, *got.AssignedManagerID)
	assert.Equal(t, "Assigned to manager Boss", activities.last().Text)

	_, err = uc.Execute(context.Background(), staff(entity.RoleHR), c.ID, hrUser.ID)
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(context.Background(), staff(entity.RoleHR), c.ID, uuid.New())
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(context.Background(), staff(entity.RoleManager), c.ID, manager.ID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestDeleteCandidate(t *testing.T) {
	c, _ := newCandidate(pipeline.StatusApplied, pipeline.StepApplication)
	repo := newMockCandidateRepository(c)
	store := &fakeStore{}
	notifier := &recordingNotifier{}
	uc := candidate.NewDeleteCandidateUseCase(repo, store, notifier)

	assert.True(t, apperror.IsForbidden(uc.Execute(context.Background(), staff(entity.RoleHR), c.ID)))

	require.NoError(t, uc.Execute(context.Background(), staff(entity.RoleDirector), c.ID))
	assert.Empty(t, repo.candidates)
	assert.Equal(t, []uuid.UUID{c.ID}, store.deleted)
	assert.Equal(t, []uuid.UUID{c.ID}, notifier.deleted)

	assert.True(t, apperror.IsNotFound(uc.Execute(context.Background(), staff(entity.RoleAdmin), c.ID)))
}

func TestExportCandidates(t *testing.T) {
	var cs []*entity.Candidate
	for i := 0; i < 130; i++ {
		c, _ := newCandidate(pipeline.StatusApplied, pipeline.StepApplication)
		cs = append(cs, c)
	}
	uc := candidate.NewExportCandidatesUseCase(newMockCandidateRepository(cs...))

	raw, err := uc.Execute(context.Background(), staff(entity.RoleHR), candidate.ListInput{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("PK")))

	_, err = uc.Execute(context.Background(), staff(entity.RoleManager), candidate.ListInput{})
	assert.True(t, apperror.IsForbidden(err))
}
