// Package pipeline содержит единственный источник правды о стадиях кандидата:
// статусы, шаги воронки, бейджи и проверки доступа.
//
// Все функции пакета чистые и никогда не паникуют: неизвестный ввод
// трактуется как "неизвестно", а не как ошибка.
package pipeline

import "strings"

// Status - сохраняемый статус кандидата. Значения хранятся в БД как есть.
type Status string

const (
	StatusProfileCreated   Status = "profile_created"
	StatusApplied          Status = "applied"
	StatusScreening        Status = "screening"
	StatusHRReview         Status = "hr_review"
	StatusHRApproved       Status = "hr_approved"
	StatusTraining         Status = "training"
	StatusManagerInterview Status = "manager_interview"
	StatusPaidProject      Status = "paid_project"
	StatusSalesTask        Status = "sales_task"
	StatusHired            Status = "hired"
	StatusRejected         Status = "rejected"
	StatusArchived         Status = "archived"
)

// appliedToJobPrefix - префикс отображаемого варианта "applied to job: <title>".
const appliedToJobPrefix = "applied to job:"

// AllStatuses перечисляет статусы в порядке воронки.
var AllStatuses = []Status{
	StatusProfileCreated,
	StatusApplied,
	StatusScreening,
	StatusHRReview,
	StatusHRApproved,
	StatusTraining,
	StatusManagerInterview,
	StatusPaidProject,
	StatusSalesTask,
	StatusHired,
	StatusRejected,
	StatusArchived,
}

func (s Status) String() string {
	return string(s)
}

// IsValid сообщает, входит ли статус в закрытый набор.
func (s Status) IsValid() bool {
	_, ok := stepByStatus[s]
	return ok
}

// ParseStatus приводит произвольную строку к каноническому статусу.
// Сравнение регистронезависимое; "Applied to job: X" распознаётся как applied.
func ParseStatus(raw string) (Status, bool) {
	normalized := normalize(raw)
	if hasAppliedToJobPrefix(normalized) {
		return StatusApplied, true
	}

	s := Status(normalized)
	if !s.IsValid() {
		return "", false
	}
	return s, true
}

// AppliedToJob - отображаемый вариант статуса applied с названием вакансии.
// Это не отдельное состояние воронки: он появляется только в журнале активности.
type AppliedToJob struct {
	JobTitle string
}

// ParseAppliedToJob извлекает название вакансии из строки "Applied to job: X".
func ParseAppliedToJob(raw string) (AppliedToJob, bool) {
	trimmed := strings.TrimSpace(raw)
	if !hasAppliedToJobPrefix(trimmed) {
		return AppliedToJob{}, false
	}
	return AppliedToJob{JobTitle: strings.TrimSpace(trimmed[len(appliedToJobPrefix):])}, true
}

// Label возвращает строку для журнала активности.
func (a AppliedToJob) Label() string {
	return AppliedToJobLabel(a.JobTitle)
}

// AppliedToJobLabel строит текст активности для отклика на вакансию.
func AppliedToJobLabel(jobTitle string) string {
	return "Applied to job: " + strings.TrimSpace(jobTitle)
}

// Status всегда applied.
func (a AppliedToJob) Status() Status {
	return StatusApplied
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func hasAppliedToJobPrefix(s string) bool {
	return len(s) >= len(appliedToJobPrefix) && strings.EqualFold(s[:len(appliedToJobPrefix)], appliedToJobPrefix)
}
