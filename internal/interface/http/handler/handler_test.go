package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/http/middleware"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
	"github.com/ignatzorin/hiring-backend/internal/realtime"
	"github.com/ignatzorin/hiring-backend/internal/usecase/auth"
	"github.com/ignatzorin/hiring-backend/internal/usecase/job"
)

type memoryJobs struct {
	jobs map[uuid.UUID]*entity.Job
}

func (m *memoryJobs) Create(ctx context.Context, j *entity.Job) error {
	m.jobs[j.ID] = j
	return nil
}

func (m *memoryJobs) Update(ctx context.Context, j *entity.Job) error {
	m.jobs[j.ID] = j
	return nil
}

func (m *memoryJobs) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	if j, ok := m.jobs[id]; ok {
		return j, nil
	}
	return nil, apperror.ErrJobNotFound
}

func (m *memoryJobs) List(ctx context.Context, activeOnly bool) ([]*entity.Job, error) {
	var out []*entity.Job
	for _, j := range m.jobs {
		if !activeOnly || j.IsActive {
			out = append(out, j)
		}
	}
	return out, nil
}

// memoryCandidates реализует только поиск, остальное не нужно обработчику подписки.
type memoryCandidates struct {
	repository.CandidateRepository
	byProfile map[uuid.UUID]*entity.Candidate
	byID      map[uuid.UUID]*entity.Candidate
}

func (m *memoryCandidates) FindByID(ctx context.Context, id uuid.UUID) (*entity.Candidate, error) {
	if c, ok := m.byID[id]; ok {
		return c, nil
	}
	return nil, apperror.ErrCandidateNotFound
}

func (m *memoryCandidates) FindByProfileID(ctx context.Context, profileID uuid.UUID) (*entity.Candidate, error) {
	if c, ok := m.byProfile[profileID]; ok {
		return c, nil
	}
	return nil, apperror.ErrCandidateNotFound
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func newRouter(p *entity.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if p != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserIDKey, p.UserID)
			c.Set(middleware.ContextRoleKey, string(p.Role))
			c.Next()
		})
	}
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newJobHandler() *JobHandler {
	repo := &memoryJobs{jobs: make(map[uuid.UUID]*entity.Job)}
	return NewJobHandler(job.NewCreateJobUseCase(repo), job.NewListJobsUseCase(repo), job.NewGetJobUseCase(repo), job.NewCloseJobUseCase(repo))
}

func TestJobHandler_CreateCloseHidesFromCandidates(t *testing.T) {
	h := newJobHandler()
	hr := &entity.Principal{UserID: uuid.New(), Role: entity.RoleHR}
	cand := &entity.Principal{UserID: uuid.New(), Role: entity.RoleCandidate}

	staff := newRouter(hr)
	staff.POST("/jobs", h.CreateJob)
	staff.POST("/jobs/:id/close", h.CloseJob)
	staff.GET("/jobs/:id", h.GetJob)

	public := newRouter(cand)
	public.GET("/jobs/:id", h.GetJob)
	public.POST("/jobs", h.CreateJob)

	w := do(staff, http.MethodPost, "/jobs", map[string]any{"title": "Sales Rep", "description": "Cold calls"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID       uuid.UUID `json:"id"`
		IsActive bool      `json:"is_active"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	assert.True(t, created.IsActive)

	path := "/jobs/" + created.ID.String()
	assert.Equal(t, http.StatusOK, do(public, http.MethodGet, path, nil).Code)

	require.Equal(t, http.StatusOK, do(staff, http.MethodPost, path+"/close", nil).Code)

	w = do(public, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w).Error.Code)
	assert.Equal(t, http.StatusOK, do(staff, http.MethodGet, path, nil).Code)

	w = do(public, http.MethodPost, "/jobs", map[string]any{"title": "Closer"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestJobHandler_ValidationError(t *testing.T) {
	h := newJobHandler()
	r := newRouter(&entity.Principal{UserID: uuid.New(), Role: entity.RoleAdmin})
	r.POST("/jobs", h.CreateJob)

	w := do(r, http.MethodPost, "/jobs", map[string]any{"title": strings.Repeat("x", 201)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)

	w = do(r, http.MethodPost, "/jobs", map[string]any{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", decode(t, w).Error.Code)
}

func TestCandidateHandler_Unauthorized(t *testing.T) {
	h := NewCandidateHandler(CandidateUseCases{})
	r := newRouter(nil)
	r.GET("/dashboard", h.Dashboard)
	r.GET("/candidates/:id", h.GetCandidate)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/dashboard", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/candidates/"+uuid.NewString(), nil).Code)
}

func TestCandidateHandler_BadInput(t *testing.T) {
	h := NewCandidateHandler(CandidateUseCases{})
	r := newRouter(&entity.Principal{UserID: uuid.New(), Role: entity.RoleHR})
	r.GET("/candidates", h.ListCandidates)
	r.GET("/candidates/:id", h.GetCandidate)
	r.PATCH("/candidates/:id/status", h.UpdateStatus)
	r.PATCH("/candidates/:id/manager", h.AssignManager)
	r.POST("/me/documents", h.UploadDocument)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/candidates/invalid-uuid", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/candidates?manager_id=nope", nil).Code)

	id := uuid.NewString()
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/candidates/"+id+"/status", map[string]any{}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/candidates/"+id+"/manager", map[string]any{"manager_id": "boss"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/me/documents", nil).Code)
}

func TestAssessmentHandler_BadInput(t *testing.T) {
	h := NewAssessmentHandler(AssessmentUseCases{})
	r := newRouter(&entity.Principal{UserID: uuid.New(), Role: entity.RoleCandidate})
	r.POST("/assessments/:id/start", h.StartAssessment)
	r.POST("/results/:id/submit", h.SubmitResult)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/assessments/x/start", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/results/"+uuid.NewString()+"/submit", map[string]any{}).Code)
}

func TestRealtimeHandler_RejectsBeforeUpgrade(t *testing.T) {
	tokens := auth.NewTokenManager("access", "refresh", time.Minute, time.Hour)
	owner := &entity.User{ID: uuid.New(), Email: "c@example.com", Role: entity.RoleCandidate}
	own := entity.NewCandidate(owner.ID)
	repo := &memoryCandidates{byProfile: map[uuid.UUID]*entity.Candidate{owner.ID: own}}
	h := NewRealtimeHandler(realtime.NewHub(), tokens, repo, []string{"*"})

	r := newRouter(nil)
	r.GET("/ws", h.Handle)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/ws", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/ws?token=garbage", nil).Code)

	pair, err := tokens.GeneratePair(owner)
	require.NoError(t, err)
	w := do(r, http.MethodGet, "/ws?token="+pair.AccessToken+"&candidate_id="+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRealtimeHandler_StaffReceivesAllCandidates(t *testing.T) {
	hub := realtime.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	defer func() { cancel(); <-stopped }()

	tokens := auth.NewTokenManager("access", "refresh", time.Minute, time.Hour)
	h := NewRealtimeHandler(hub, tokens, &memoryCandidates{}, []string{"*"})
	r := newRouter(nil)
	r.GET("/ws", h.Handle)
	srv := httptest.NewServer(r)
	defer srv.Close()

	hr := &entity.User{ID: uuid.New(), Email: "hr@example.com", Role: entity.RoleHR}
	pair, err := tokens.GeneratePair(hr)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + pair.AccessToken
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers(realtime.AllCandidates) == 1 }, time.Second, 5*time.Millisecond)

	c := entity.NewCandidate(uuid.New())
	realtime.NewNotifier(hub).CandidateChanged(c, true)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var e realtime.Event
	require.NoError(t, conn.ReadJSON(&e))
	assert.Equal(t, c.ID, e.CandidateID)
	assert.Equal(t, realtime.ChangeInsert, e.Type)
}

func TestRealtimeHandler_ManagerSubscribesOnlyToAssigned(t *testing.T) {
	hub := realtime.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	defer func() { cancel(); <-stopped }()

	manager := &entity.User{ID: uuid.New(), Email: "m@example.com", Role: entity.RoleManager}
	assigned := entity.NewCandidate(uuid.New())
	assigned.AssignManager(manager.ID)
	unassigned := entity.NewCandidate(uuid.New())
	repo := &memoryCandidates{byID: map[uuid.UUID]*entity.Candidate{assigned.ID: assigned, unassigned.ID: unassigned}}

	tokens := auth.NewTokenManager("access", "refresh", time.Minute, time.Hour)
	h := NewRealtimeHandler(hub, tokens, repo, []string{"*"})
	r := newRouter(nil)
	r.GET("/ws", h.Handle)

	pair, err := tokens.GeneratePair(manager)
	require.NoError(t, err)
	base := "/ws?token=" + pair.AccessToken

	w := do(r, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, base+"&candidate_id="+unassigned.ID.String(), nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, base+"&candidate_id="+uuid.NewString(), nil).Code)
	assert.Zero(t, hub.Subscribers(realtime.AllCandidates))

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + base + "&candidate_id=" + assigned.ID.String()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers(assigned.ID) == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, hub.Subscribers(realtime.AllCandidates))
}
