package assessment

import (
	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// Score превращает накопленные выборы в итоговый результат теста.
// Чистая функция: обходит вопросы в порядке каталога, для каждого берёт
// выбор пользователя (-1, если его нет) и отмечает правильность.
// Выбор по коду, которого нет в каталоге, просто не читается.
//
// Без ответа — отдельная категория: WrongCount считает только отвеченные
// неверно, и CorrectCount + WrongCount + UnansweredCount == TotalQuestions.
func Score(subject entity.Subject, questions []entity.Question, selection map[string]int, elapsedSeconds int) *entity.TestResult {
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}

	answers := make(entity.AnswerList, 0, len(questions))
	correct := 0
	unanswered := 0

	for i := range questions {
		q := &questions[i]

		selected, ok := selection[q.Code]
		if !ok {
			selected = entity.UnansweredOption
		}

		isCorrect := q.IsCorrect(selected)
		if isCorrect {
			correct++
		}
		if selected == entity.UnansweredOption {
			unanswered++
		}

		answers = append(answers, entity.AnswerRecord{
			QuestionCode:   q.Code,
			SelectedOption: selected,
			IsCorrect:      isCorrect,
		})
	}

	return &entity.TestResult{
		Subject:         subject,
		TotalQuestions:  len(questions),
		CorrectCount:    correct,
		WrongCount:      len(questions) - correct - unanswered,
		UnansweredCount: unanswered,
		ElapsedSeconds:  elapsedSeconds,
		Answers:         answers,
	}
}
