package pipeline

// Step - шаг воронки от 0 до 7.
type Step int

const (
	StepProfileCreated   Step = 0
	StepApplication      Step = 1
	StepHRReview         Step = 2
	StepTraining         Step = 3
	StepManagerInterview Step = 4
	StepPaidProject      Step = 5
	StepHired            Step = 6
	StepClosed           Step = 7
)

// StepUnknown возвращается DeriveStep вместе с ok=false.
const StepUnknown = StepProfileCreated

// Таблица совместима с уже сохранёнными данными, менять нельзя.
var stepByStatus = map[Status]Step{
	StatusProfileCreated:   StepProfileCreated,
	StatusApplied:          StepApplication,
	StatusScreening:        StepHRReview,
	StatusHRReview:         StepHRReview,
	StatusHRApproved:       StepTraining,
	StatusTraining:         StepTraining,
	StatusManagerInterview: StepManagerInterview,
	StatusPaidProject:      StepPaidProject,
	StatusSalesTask:        StepPaidProject,
	StatusHired:            StepHired,
	StatusRejected:         StepClosed,
	StatusArchived:         StepClosed,
}

// IsValid проверяет диапазон 0..7.
func (s Step) IsValid() bool {
	return s >= StepProfileCreated && s <= StepClosed
}

// IsTerminal - нанят или закрыт.
func (s Step) IsTerminal() bool {
	return s == StepHired || s == StepClosed
}

// Clamp приводит шаг к допустимому диапазону.
func (s Step) Clamp() Step {
	if s < StepProfileCreated {
		return StepProfileCreated
	}
	if s > StepClosed {
		return StepClosed
	}
	return s
}

// DeriveStep вычисляет шаг по строке статуса. Для неизвестной строки
// возвращает (StepUnknown, false): вызывающий код должен сохранить
// последний известный current_step, а не перезаписывать его нулём.
func DeriveStep(raw string) (Step, bool) {
	status, ok := ParseStatus(raw)
	if !ok {
		return StepUnknown, false
	}
	return stepByStatus[status], true
}

// ResolveStep возвращает шаг по статусу либо сохранённый шаг, если статус неизвестен.
// Шаг ниже сохранённого не возвращается, кроме закрытия и возврата из закрытия.
func ResolveStep(raw string, stored Step) Step {
	stored = stored.Clamp()
	step, ok := DeriveStep(raw)
	if !ok {
		return stored
	}
	if step == StepClosed || stored == StepClosed || step > stored {
		return step
	}
	return stored
}

// AllowsStatusChange сообщает, можно ли записать статус при текущем шаге.
// Статус ниже шага запрещён: иначе статус и current_step разойдутся.
func AllowsStatusChange(current Step, raw string) bool {
	current = current.Clamp()
	derived, ok := DeriveStep(raw)
	if !ok {
		return false
	}
	if derived == StepClosed || current == StepClosed {
		return true
	}
	return derived >= current
}

// NextStepForStatusChange пересчитывает шаг при смене статуса.
// Шаг никогда не уменьшается, кроме явного отказа или архивации (шаг 7).
// Из закрытого состояния кандидата можно вернуть в воронку: это явное действие сотрудника.
func NextStepForStatusChange(current Step, raw string) Step {
	current = current.Clamp()

	derived, ok := DeriveStep(raw)
	if !ok {
		return current
	}
	if derived == StepClosed || current == StepClosed {
		return derived
	}
	if derived > current {
		return derived
	}
	return current
}

// AdvanceStep поднимает шаг до next, но не опускает его и не выводит из терминальных шагов.
func AdvanceStep(current, next Step) Step {
	current = current.Clamp()
	if current.IsTerminal() || !next.IsValid() || next.IsTerminal() {
		return current
	}
	if next > current {
		return next
	}
	return current
}

// canonicalStatusByStep - статус, который записывается при продвижении шага без явной смены статуса.
var canonicalStatusByStep = map[Step]Status{
	StepProfileCreated:   StatusProfileCreated,
	StepApplication:      StatusApplied,
	StepHRReview:         StatusHRReview,
	StepTraining:         StatusTraining,
	StepManagerInterview: StatusManagerInterview,
	StepPaidProject:      StatusPaidProject,
	StepHired:            StatusHired,
	StepClosed:           StatusRejected,
}

// StatusForStep возвращает канонический статус шага.
func StatusForStep(step Step) (Status, bool) {
	s, ok := canonicalStatusByStep[step]
	return s, ok
}
