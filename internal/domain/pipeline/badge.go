package pipeline

import "strings"

// Badge - подпись и CSS-класс для отображения статуса.
type Badge struct {
	Label      string `json:"label"`
	ColorClass string `json:"color_class"`
}

const (
	colorNeutral      = "bg-gray-100 text-gray-800"
	colorAppliedToJob = "bg-blue-100 text-blue-800"
)

var badges = map[Status]Badge{
	StatusProfileCreated:   {"Profile Created", colorNeutral},
	StatusApplied:          {"Applied", "bg-blue-100 text-blue-800"},
	StatusScreening:        {"Screening", "bg-indigo-100 text-indigo-800"},
	StatusHRReview:         {"HR Review", "bg-yellow-100 text-yellow-800"},
	StatusHRApproved:       {"HR Approved", "bg-green-100 text-green-800"},
	StatusTraining:         {"Training", "bg-purple-100 text-purple-800"},
	StatusManagerInterview: {"Manager Interview", "bg-orange-100 text-orange-800"},
	StatusPaidProject:      {"Paid Project", "bg-teal-100 text-teal-800"},
	StatusSalesTask:        {"Sales Task", "bg-cyan-100 text-cyan-800"},
	StatusHired:            {"Hired", "bg-emerald-100 text-emerald-800"},
	StatusRejected:         {"Rejected", "bg-red-100 text-red-800"},
	StatusArchived:         {"Archived", "bg-slate-100 text-slate-600"},
}

// BadgeFor возвращает бейдж для любой строки статуса.
// "Applied to job: X" выводится как есть; неизвестный статус получает нейтральный бейдж.
func BadgeFor(raw string) Badge {
	trimmed := strings.TrimSpace(raw)
	if hasAppliedToJobPrefix(trimmed) {
		return Badge{Label: trimmed, ColorClass: colorAppliedToJob}
	}

	if b, ok := badges[Status(normalize(trimmed))]; ok {
		return b
	}

	if trimmed == "" {
		trimmed = "Unknown"
	}
	return Badge{Label: trimmed, ColorClass: colorNeutral}
}
