package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeRemote        ErrorCode = "REMOTE_ERROR"
	ErrCodeTooLarge      ErrorCode = "PAYLOAD_TOO_LARGE"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду и сообщению, чтобы errors.Is работал
// для предопределённых ошибок после Wrap.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Validation - короткая запись для ошибки валидации.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// Remote оборачивает сбой удалённой функции. Повторов нет: ошибка отдаётся клиенту.
func Remote(err error, message string) *AppError {
	return Wrap(err, ErrCodeRemote, message)
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeRemote:
		return http.StatusBadGateway
	case ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func codeOf(err error) (ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

func IsNotFound(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeForbidden
}

func IsValidation(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeValidation
}

func IsConflict(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeConflict
}

func IsRemote(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeRemote
}

var (
	ErrCandidateNotFound  = New(ErrCodeNotFound, "кандидат не найден")
	ErrJobNotFound        = New(ErrCodeNotFound, "вакансия не найдена")
	ErrAssessmentNotFound = New(ErrCodeNotFound, "тест не найден")
	ErrResultNotFound     = New(ErrCodeNotFound, "результат теста не найден")
	ErrModuleNotFound     = New(ErrCodeNotFound, "учебный модуль не найден")
	ErrUserNotFound       = New(ErrCodeNotFound, "пользователь не найден")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden          = New(ErrCodeForbidden, "недостаточно прав")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "неверные учетные данные")
	ErrEmailTaken         = New(ErrCodeConflict, "email уже зарегистрирован")
	ErrTrainingLocked     = New(ErrCodeForbidden, "обучение пока недоступно")
	ErrCandidateClosed    = New(ErrCodeConflict, "кандидат уже завершил воронку")
	ErrStepRegression     = New(ErrCodeConflict, "статус ниже текущего шага кандидата")
)
