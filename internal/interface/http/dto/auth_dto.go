package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/usecase/auth"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// ExpiresIn - срок жизни access токена в секундах.
	ExpiresIn int64 `json:"expires_in"`
}

type AuthResponse struct {
	User      UserResponse       `json:"user"`
	Candidate *CandidateResponse `json:"candidate,omitempty"`
	Tokens    *TokensResponse    `json:"tokens,omitempty"`
}

func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func ToAuthResponse(r *auth.Result) AuthResponse {
	resp := AuthResponse{User: ToUserResponse(r.User)}
	if r.Candidate != nil {
		c := ToCandidateResponse(r.Candidate)
		resp.Candidate = &c
	}
	if r.Tokens != nil {
		resp.Tokens = &TokensResponse{
			AccessToken:  r.Tokens.AccessToken,
			RefreshToken: r.Tokens.RefreshToken,
			ExpiresIn:    int64(r.Tokens.ExpiresIn / time.Second),
		}
	}
	return resp
}
