package assessment

import "fmt"

// AnswerSheet накапливает выборы пользователя по ходу попытки.
// Повторный выбор по тому же вопросу перезаписывает предыдущий.
// Никакой персистентности: durable-копия незавершённой попытки
// живёт в Redis и обновляется сервисом попыток.
type AnswerSheet struct {
	selection map[string]int
}

// NewAnswerSheet создаёт пустой лист ответов
func NewAnswerSheet() *AnswerSheet {
	return &AnswerSheet{selection: make(map[string]int)}
}

// NewAnswerSheetFrom создаёт лист ответов из уже накопленных выборов
func NewAnswerSheetFrom(selection map[string]int) *AnswerSheet {
	sheet := NewAnswerSheet()
	for code, option := range selection {
		sheet.selection[code] = option
	}
	return sheet
}

// Select записывает (или перезаписывает) выбор варианта для вопроса.
// Индекс вне диапазона [0, optionsCount) — дефект вызывающего кода
// (сломанный каталог или баг UI), а не пользовательская ошибка: паника.
func (s *AnswerSheet) Select(questionCode string, optionIndex, optionsCount int) {
	if optionIndex < 0 || optionIndex >= optionsCount {
		panic(fmt.Sprintf("assessment: option index %d out of range [0,%d) for question %q",
			optionIndex, optionsCount, questionCode))
	}
	s.selection[questionCode] = optionIndex
}

// Clear снимает выбор с вопроса. Вопрос без выбора — no-op.
func (s *AnswerSheet) Clear(questionCode string) {
	delete(s.selection, questionCode)
}

// Selected возвращает выбранный вариант для вопроса (-1 если ответа нет)
func (s *AnswerSheet) Selected(questionCode string) int {
	if option, ok := s.selection[questionCode]; ok {
		return option
	}
	return -1
}

// AnsweredCount возвращает число вопросов с выбранным вариантом
func (s *AnswerSheet) AnsweredCount() int {
	return len(s.selection)
}

// UnansweredCount возвращает число вопросов без выбора при общем числе total
func (s *AnswerSheet) UnansweredCount(total int) int {
	return total - len(s.selection)
}

// Selection возвращает копию накопленных выборов
func (s *AnswerSheet) Selection() map[string]int {
	out := make(map[string]int, len(s.selection))
	for code, option := range s.selection {
		out[code] = option
	}
	return out
}
