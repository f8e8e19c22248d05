package assessment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// makeQuestions строит каталог из n вопросов с правильным вариантом 1
func makeQuestions(subject entity.Subject, difficulties ...entity.Difficulty) []entity.Question {
	questions := make([]entity.Question, len(difficulties))
	for i, d := range difficulties {
		questions[i] = entity.Question{
			ID:            uint(i + 1),
			Code:          questionCode(subject, i),
			Options:       entity.StringArray{"A", "B", "C", "D"},
			CorrectOption: 1,
			Subject:       subject,
			Difficulty:    d,
			Position:      i + 1,
		}
	}
	return questions
}

func questionCode(subject entity.Subject, i int) string {
	prefix := "apt"
	if subject == entity.SubjectTechnical {
		prefix = "tech"
	}
	return fmt.Sprintf("%s-%d", prefix, i+1)
}

// ============================================================================
// Тесты Score
// ============================================================================

func TestScore_AllCorrect(t *testing.T) {
	questions := makeQuestions(entity.SubjectAptitude,
		entity.DifficultyEasy, entity.DifficultyEasy, entity.DifficultyMedium)

	selection := map[string]int{}
	for _, q := range questions {
		selection[q.Code] = 1
	}

	result := Score(entity.SubjectAptitude, questions, selection, 120)

	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, 3, result.CorrectCount)
	assert.Equal(t, 0, result.WrongCount)
	assert.Equal(t, 0, result.UnansweredCount)
	assert.Equal(t, 120, result.ElapsedSeconds)
	require.Len(t, result.Answers, 3)
	for _, a := range result.Answers {
		assert.True(t, a.IsCorrect)
	}
}

func TestScore_AllUnanswered(t *testing.T) {
	// Пустой лист ответов: каждый вопрос получает -1 и не засчитывается
	questions := makeQuestions(entity.SubjectAptitude,
		entity.DifficultyEasy, entity.DifficultyMedium, entity.DifficultyHard)

	result := Score(entity.SubjectAptitude, questions, map[string]int{}, 0)

	assert.Equal(t, 0, result.CorrectCount)
	assert.Equal(t, 0, result.WrongCount, "Вопросы без ответа не должны попадать в WrongCount")
	assert.Equal(t, 3, result.UnansweredCount)
	require.Len(t, result.Answers, 3)
	for _, a := range result.Answers {
		assert.Equal(t, entity.UnansweredOption, a.SelectedOption)
		assert.False(t, a.IsCorrect, "Без ответа никогда не может быть правильно")
	}
}

func TestScore_Mixed(t *testing.T) {
	questions := makeQuestions(entity.SubjectTechnical,
		entity.DifficultyEasy, entity.DifficultyEasy, entity.DifficultyMedium, entity.DifficultyHard)

	selection := map[string]int{
		questions[0].Code: 1, // верно
		questions[1].Code: 0, // неверно
		// questions[2] — без ответа
		questions[3].Code: 3, // неверно
	}

	result := Score(entity.SubjectTechnical, questions, selection, 400)

	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 2, result.WrongCount)
	assert.Equal(t, 1, result.UnansweredCount)

	// Инвариант: три категории покрывают все вопросы без пересечений
	assert.Equal(t, result.TotalQuestions,
		result.CorrectCount+result.WrongCount+result.UnansweredCount)
}

func TestScore_OrphanSelectionIgnored(t *testing.T) {
	// Выбор по коду, которого нет в каталоге, не влияет на результат
	questions := makeQuestions(entity.SubjectAptitude, entity.DifficultyEasy)

	selection := map[string]int{
		questions[0].Code: 1,
		"ghost-99":        1,
	}

	result := Score(entity.SubjectAptitude, questions, selection, 10)

	assert.Equal(t, 1, result.TotalQuestions)
	assert.Equal(t, 1, result.CorrectCount)
	require.Len(t, result.Answers, 1)
}

func TestScore_AnswersFollowCatalogOrder(t *testing.T) {
	questions := makeQuestions(entity.SubjectAptitude,
		entity.DifficultyEasy, entity.DifficultyMedium, entity.DifficultyHard)

	result := Score(entity.SubjectAptitude, questions, map[string]int{}, 5)

	require.Len(t, result.Answers, len(questions))
	for i, q := range questions {
		assert.Equal(t, q.Code, result.Answers[i].QuestionCode,
			"Ответы должны идти в порядке каталога")
	}
}

func TestScore_NegativeElapsedClamped(t *testing.T) {
	questions := makeQuestions(entity.SubjectAptitude, entity.DifficultyEasy)

	result := Score(entity.SubjectAptitude, questions, nil, -5)

	assert.Equal(t, 0, result.ElapsedSeconds)
}

func TestScore_Deterministic(t *testing.T) {
	questions := makeQuestions(entity.SubjectTechnical,
		entity.DifficultyEasy, entity.DifficultyMedium)
	selection := map[string]int{questions[0].Code: 2}

	first := Score(entity.SubjectTechnical, questions, selection, 77)
	second := Score(entity.SubjectTechnical, questions, selection, 77)

	assert.Equal(t, first, second, "Одинаковый вход должен давать одинаковый результат")
}

// ============================================================================
// Тесты AnswerSheet
// ============================================================================

func TestAnswerSheet_SelectAndOverwrite(t *testing.T) {
	sheet := NewAnswerSheet()

	sheet.Select("apt-1", 2, 4)
	assert.Equal(t, 2, sheet.Selected("apt-1"))

	// Повторный выбор перезаписывает предыдущий
	sheet.Select("apt-1", 0, 4)
	assert.Equal(t, 0, sheet.Selected("apt-1"))
	assert.Equal(t, 1, sheet.AnsweredCount())
}

func TestAnswerSheet_UnansweredCount(t *testing.T) {
	sheet := NewAnswerSheet()
	sheet.Select("apt-1", 1, 4)
	sheet.Select("apt-3", 3, 4)

	assert.Equal(t, 8, sheet.UnansweredCount(10))
	assert.Equal(t, -1, sheet.Selected("apt-2"), "Вопрос без выбора должен давать -1")

	// Снятие выбора возвращает вопрос в неотвеченные
	sheet.Clear("apt-3")
	assert.Equal(t, 9, sheet.UnansweredCount(10))
	assert.Equal(t, -1, sheet.Selected("apt-3"))
}

func TestAnswerSheet_OutOfRangePanics(t *testing.T) {
	// Индекс вне диапазона — дефект вызывающего кода, а не пользовательская ошибка
	sheet := NewAnswerSheet()

	assert.Panics(t, func() { sheet.Select("apt-1", 4, 4) })
	assert.Panics(t, func() { sheet.Select("apt-1", -1, 4) })
}

func TestAnswerSheet_SelectionReturnsCopy(t *testing.T) {
	sheet := NewAnswerSheetFrom(map[string]int{"apt-1": 1})

	copied := sheet.Selection()
	copied["apt-1"] = 3

	assert.Equal(t, 1, sheet.Selected("apt-1"), "Мутация копии не должна менять лист")
}
