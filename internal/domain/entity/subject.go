package entity

// Subject — категория теста. Закрытое перечисление:
// добавление новой категории — это видимое на этапе компиляции изменение
// в логике breakdown и рекомендаций, а не новая строка в данных.
type Subject string

const (
	SubjectAptitude  Subject = "aptitude"
	SubjectTechnical Subject = "technical"
)

// Valid проверяет, что значение входит в перечисление
func (s Subject) Valid() bool {
	return s == SubjectAptitude || s == SubjectTechnical
}

// Difficulty — уровень сложности вопроса
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid проверяет, что значение входит в перечисление
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// AllDifficulties возвращает уровни сложности в фиксированном порядке (для breakdown и экспорта)
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}
