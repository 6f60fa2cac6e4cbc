package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

// Role - роль пользователя в системе найма.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleHR        Role = "hr"
	RoleManager   Role = "manager"
	RoleDirector  Role = "director"
	RoleAdmin     Role = "admin"
)

func NewRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !r.IsValid() {
		return "", apperror.Validation("недопустимая роль")
	}
	return r, nil
}

func (r Role) IsValid() bool {
	switch r {
	case RoleCandidate, RoleHR, RoleManager, RoleDirector, RoleAdmin:
		return true
	}
	return false
}

// IsStaff - все роли, кроме кандидата.
func (r Role) IsStaff() bool {
	return r.IsValid() && r != RoleCandidate
}

// OneOf сообщает, входит ли роль в список.
func (r Role) OneOf(roles ...Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}

// Principal - текущий пользователь запроса. Передаётся явно во все use case.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

// CanViewCandidate: сотрудники видят всех, кандидат только себя.
func (p Principal) CanViewCandidate(c *Candidate) bool {
	if p.Role.IsStaff() {
		return true
	}
	return c != nil && c.ProfileID == p.UserID
}

// Dashboard выбирает представление по роли.
func (p Principal) Dashboard() string {
	switch p.Role {
	case RoleCandidate:
		return "candidate"
	case RoleHR:
		return "hr"
	case RoleManager:
		return "manager"
	case RoleDirector, RoleAdmin:
		return "director"
	default:
		return "unknown"
	}
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewUser(email, passwordHash, fullName string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperror.Validation("email обязателен")
	}
	if passwordHash == "" {
		return nil, apperror.Validation("пароль обязателен")
	}
	if !role.IsValid() {
		return nil, apperror.Validation("недопустимая роль")
	}

	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     strings.TrimSpace(fullName),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Role: u.Role}
}

func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return apperror.Validation("недопустимая роль")
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	return nil
}

func (u *User) ChangeEmail(email string) {
	u.Email = strings.ToLower(strings.TrimSpace(email))
	u.UpdatedAt = time.Now()
}
