package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/http/middleware"
	"github.com/ignatzorin/hiring-backend/internal/interface/http/response"
)

// currentPrincipal отдаёт пользователя запроса или сам пишет 401.
func currentPrincipal(c *gin.Context) (entity.Principal, bool) {
	p, ok := middleware.Principal(c)
	if !ok {
		response.Unauthorized(c, "требуется авторизация")
		return entity.Principal{}, false
	}
	return p, true
}

// paramUUID разбирает параметр пути, при ошибке пишет 400.
func paramUUID(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, message)
		return uuid.Nil, false
	}
	return id, true
}

func parseUUID(raw string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(raw))
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func parseUUIDQuery(c *gin.Context, key string) (*uuid.UUID, bool) {
	valueStr := c.Query(key)
	if valueStr == "" {
		return nil, true
	}
	id, err := uuid.Parse(valueStr)
	if err != nil {
		return nil, false
	}
	return &id, true
}
