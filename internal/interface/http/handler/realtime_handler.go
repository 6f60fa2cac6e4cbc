package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/interface/http/response"
	"github.com/ignatzorin/hiring-backend/internal/logger"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
	"github.com/ignatzorin/hiring-backend/internal/realtime"
	"github.com/ignatzorin/hiring-backend/internal/usecase/auth"
)

// RealtimeHandler открывает подписку на изменения кандидата.
type RealtimeHandler struct {
	hub        *realtime.Hub
	tokens     *auth.TokenManager
	candidates repository.CandidateRepository
	upgrader   websocket.Upgrader
}

func NewRealtimeHandler(hub *realtime.Hub, tokens *auth.TokenManager, candidates repository.CandidateRepository, allowedOrigins []string) *RealtimeHandler {
	return &RealtimeHandler{
		hub:        hub,
		tokens:     tokens,
		candidates: candidates,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
	}
}

// Handle обслуживает GET /api/ws?token=...&candidate_id=...
// Кандидат подписывается только на свою запись, менеджер только на закреплённых
// за ним кандидатов. Остальные сотрудники без candidate_id получают изменения всех.
func (h *RealtimeHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		response.Unauthorized(c, "access токен обязателен")
		return
	}

	userID, role, err := h.tokens.ParseAccess(rawToken)
	if err != nil || userID == uuid.Nil {
		response.Unauthorized(c, "невалидный access токен")
		return
	}
	p := entity.Principal{UserID: userID, Role: entity.Role(role)}

	target, err := h.subscriptionTarget(c, p)
	if err != nil {
		response.Error(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		logger.Log.WithError(err).Warn("realtime: не удалось открыть websocket")
		return
	}

	client := realtime.NewClient(conn, h.hub, target)
	if !h.hub.Register(client) {
		client.Close()
		return
	}

	client.Run(c.Request.Context())
}

func (h *RealtimeHandler) subscriptionTarget(c *gin.Context, p entity.Principal) (uuid.UUID, error) {
	raw := c.Query("candidate_id")

	if p.Role == entity.RoleManager {
		return h.assignedTarget(c, p, raw)
	}
	if p.Role.IsStaff() {
		if raw == "" {
			return realtime.AllCandidates, nil
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, apperror.New(apperror.ErrCodeBadRequest, "некорректный candidate_id")
		}
		return id, nil
	}
	if p.Role != entity.RoleCandidate {
		return uuid.Nil, apperror.ErrForbidden
	}

	own, err := h.candidates.FindByProfileID(c.Request.Context(), p.UserID)
	if err != nil {
		return uuid.Nil, err
	}
	if raw != "" && raw != own.ID.String() {
		return uuid.Nil, apperror.ErrCandidateNotFound
	}
	return own.ID, nil
}

func (h *RealtimeHandler) assignedTarget(c *gin.Context, p entity.Principal, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, apperror.New(apperror.ErrCodeForbidden, "менеджер подписывается на конкретного кандидата")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.New(apperror.ErrCodeBadRequest, "некорректный candidate_id")
	}

	candidate, err := h.candidates.FindByID(c.Request.Context(), id)
	if err != nil {
		return uuid.Nil, err
	}
	if candidate.AssignedManagerID == nil || *candidate.AssignedManagerID != p.UserID {
		return uuid.Nil, apperror.ErrCandidateNotFound
	}
	return candidate.ID, nil
}
