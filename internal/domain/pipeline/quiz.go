package pipeline

import "math"

// PassingScore - порог прохождения теста в процентах.
const PassingScore = 70

// Question - вопрос теста с индексом правильного ответа.
type Question struct {
	ID                 string
	CorrectAnswerIndex int
}

// ScoreQuiz возвращает процент правильных ответов, округлённый до целого.
// Для пустого теста результат 0.
func ScoreQuiz(questions []Question, answers map[string]int) int {
	if len(questions) == 0 {
		return 0
	}

	matches := 0
	for _, q := range questions {
		if selected, ok := answers[q.ID]; ok && selected == q.CorrectAnswerIndex {
			matches++
		}
	}
	return int(math.Round(100 * float64(matches) / float64(len(questions))))
}

// IsPassing - результат 70 проходит, 69 нет.
func IsPassing(score int) bool {
	return score >= PassingScore
}
