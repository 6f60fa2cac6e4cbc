package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/logger"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
	"github.com/ignatzorin/hiring-backend/internal/validation"
)

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// Result - итог регистрации или входа.
type Result struct {
	User      *entity.User
	Candidate *entity.Candidate
	Tokens    *TokenPair
}

// RegisterUseCase регистрирует кандидата: пользователь, запись в воронке
// со статусом profile_created и первая запись в ленте.
type RegisterUseCase struct {
	users      repository.UserRepository
	candidates repository.CandidateRepository
	activities repository.ActivityRepository
	tokens     *TokenManager
}

func NewRegisterUseCase(users repository.UserRepository, candidates repository.CandidateRepository, activities repository.ActivityRepository, tokens *TokenManager) *RegisterUseCase {
	return &RegisterUseCase{users: users, candidates: candidates, activities: activities, tokens: tokens}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*Result, error) {
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := validation.ValidateFullName(input.FullName); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := entity.NewUser(input.Email, hash, input.FullName, entity.RoleCandidate)
	if err != nil {
		return nil, err
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	candidate := entity.NewCandidate(user.ID)
	candidate.FullName = user.FullName
	candidate.Email = user.Email
	if err := uc.candidates.Create(ctx, candidate); err != nil {
		return nil, err
	}

	activity := entity.NewActivity(candidate.ID, &user.ID, entity.ActivityProfileCreated, "Profile created")
	if err := uc.activities.Create(ctx, activity); err != nil {
		logger.WithCandidate(candidate.ID).WithError(err).Warn("auth: не удалось записать активность регистрации")
	}

	tokens, err := uc.tokens.GeneratePair(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}

	return &Result{User: user, Candidate: candidate, Tokens: tokens}, nil
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginUseCase struct {
	users  repository.UserRepository
	tokens *TokenManager
}

func NewLoginUseCase(users repository.UserRepository, tokens *TokenManager) *LoginUseCase {
	return &LoginUseCase{users: users, tokens: tokens}
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*Result, error) {
	user, err := uc.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperror.New(apperror.ErrCodeForbidden, "аккаунт заблокирован")
	}

	if err := uc.users.UpdateLastLoginAt(ctx, user.ID); err != nil {
		// вход не прерываем
		logger.Log.WithField("user_id", user.ID).WithError(err).Warn("auth: не удалось обновить last_login_at")
	}

	tokens, err := uc.tokens.GeneratePair(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}
	return &Result{User: user, Tokens: tokens}, nil
}

type RefreshUseCase struct {
	users  repository.UserRepository
	tokens *TokenManager
}

func NewRefreshUseCase(users repository.UserRepository, tokens *TokenManager) *RefreshUseCase {
	return &RefreshUseCase{users: users, tokens: tokens}
}

// Execute выпускает новую пару по refresh токену. Роль берётся из базы,
// поэтому смена роли вступает в силу при следующем обновлении.
func (uc *RefreshUseCase) Execute(ctx context.Context, refreshToken string) (*Result, error) {
	userID, err := uc.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.ErrUnauthorized
	}

	tokens, err := uc.tokens.GeneratePair(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}
	return &Result{User: user, Tokens: tokens}, nil
}

// MeUseCase возвращает текущего пользователя и, для кандидата, его запись в воронке.
type MeUseCase struct {
	users      repository.UserRepository
	candidates repository.CandidateRepository
}

func NewMeUseCase(users repository.UserRepository, candidates repository.CandidateRepository) *MeUseCase {
	return &MeUseCase{users: users, candidates: candidates}
}

func (uc *MeUseCase) Execute(ctx context.Context, userID uuid.UUID) (*Result, error) {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &Result{User: user}
	if user.Role == entity.RoleCandidate {
		candidate, err := uc.candidates.FindByProfileID(ctx, user.ID)
		if err != nil && !apperror.IsNotFound(err) {
			return nil, err
		}
		result.Candidate = candidate
	}
	return result, nil
}

// HashPassword - bcrypt-хеш пароля. Используется при регистрации, заведении сотрудников и в сиде.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}
	return string(hash), nil
}
