package pipeline

// IsApplicationSubmitted - заявка считается поданной только при наличии
// резюме и обоих видео. Флаг нигде не хранится и всегда вычисляется заново.
func IsApplicationSubmitted(resume, aboutMeVideo, salesPitchVideo bool) bool {
	return resume && aboutMeVideo && salesPitchVideo
}

// CanAccessTraining открывает обучение поданной заявке начиная с шага HR approved.
// Закрытые кандидаты доступа не имеют.
func CanAccessTraining(raw string, stored Step, submitted bool) bool {
	if !submitted {
		return false
	}
	step := ResolveStep(raw, stored)
	return step >= StepTraining && step != StepClosed
}
