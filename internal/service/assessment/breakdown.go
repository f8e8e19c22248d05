package assessment

import (
	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// TierCount — счётчики одного уровня сложности
type TierCount struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// Breakdown — разбивка результата по уровням сложности.
// Все три уровня присутствуют всегда, даже с нулевыми счётчиками.
// Не персистентна: пересчитывается по требованию из результата и каталога.
type Breakdown map[entity.Difficulty]TierCount

// ComputeBreakdown строит разбивку по сложности для результата.
// questions — та же упорядоченная последовательность каталога, по которой
// строились answers; сопоставление позиционное с проверкой кода вопроса.
func ComputeBreakdown(questions []entity.Question, answers entity.AnswerList) Breakdown {
	b := Breakdown{}
	for _, tier := range entity.AllDifficulties() {
		b[tier] = TierCount{}
	}

	for i := range questions {
		q := &questions[i]

		tier := b[q.Difficulty]
		tier.Total++

		if i < len(answers) && answers[i].QuestionCode == q.Code && answers[i].IsCorrect {
			tier.Correct++
		}

		b[q.Difficulty] = tier
	}

	return b
}

// Accuracy возвращает точность уровня в процентах.
// Уровень без вопросов по соглашению даёт 100%: отсутствие уровня
// не должно штрафоваться правилами рекомендаций (и не делим на ноль).
func (b Breakdown) Accuracy(tier entity.Difficulty) float64 {
	tc := b[tier]
	if tc.Total == 0 {
		return 100
	}
	return float64(tc.Correct) / float64(tc.Total) * 100
}
