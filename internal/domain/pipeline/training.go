package pipeline

import "math"

// ModuleStatus - состояние учебного модуля для кандидата.
type ModuleStatus string

const (
	ModuleLocked     ModuleStatus = "locked"
	ModuleActive     ModuleStatus = "active"
	ModuleInProgress ModuleStatus = "in_progress"
	ModuleCompleted  ModuleStatus = "completed"
)

// ModuleInput - прогресс кандидата по одному модулю.
type ModuleInput struct {
	TotalVideos   int
	WatchedVideos int
	QuizCompleted bool
}

// ModuleState - вычисленный статус модуля.
type ModuleState struct {
	Progress int          `json:"progress"`
	Status   ModuleStatus `json:"status"`
	Locked   bool         `json:"locked"`
}

const (
	videoWeight = 80
	quizWeight  = 20
)

// ModuleProgress считает прогресс 0..100: 80% за просмотренные видео и 20% за тест.
func ModuleProgress(in ModuleInput) int {
	if in.TotalVideos <= 0 {
		if in.QuizCompleted {
			return 100
		}
		return 0
	}

	watched := in.WatchedVideos
	if watched < 0 {
		watched = 0
	}
	if watched > in.TotalVideos {
		watched = in.TotalVideos
	}

	progress := videoWeight * float64(watched) / float64(in.TotalVideos)
	if in.QuizCompleted {
		progress += quizWeight
	}
	return int(math.Round(progress))
}

// ResolveTrainingModuleStatus проходит модули по порядку и строит цепочку разблокировки:
// модуль N+1 закрыт, пока все предыдущие модули не завершены на 100%.
func ResolveTrainingModuleStatus(modules []ModuleInput) []ModuleState {
	states := make([]ModuleState, 0, len(modules))
	prevComplete := true

	for _, m := range modules {
		progress := ModuleProgress(m)
		locked := !prevComplete

		var status ModuleStatus
		switch {
		case locked:
			status = ModuleLocked
		case progress == 100:
			status = ModuleCompleted
		case progress > 0:
			status = ModuleInProgress
		default:
			status = ModuleActive
		}

		states = append(states, ModuleState{Progress: progress, Status: status, Locked: locked})
		prevComplete = prevComplete && progress == 100
	}

	return states
}
