package entity

import "time"

// Test представляет доступный тест (набор вопросов одной категории)
type Test struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Code          string    `gorm:"size:50;not null;uniqueIndex" json:"code"` // "aptitude-test", "technical-test"
	Title         string    `gorm:"size:100;not null" json:"title"`
	Description   string    `gorm:"size:500;not null;default:''" json:"description"`
	Subject       Subject   `gorm:"size:20;not null" json:"subject"`
	DurationMin   int       `gorm:"not null" json:"duration_min"` // Лимит времени на попытку в минутах
	QuestionCount int       `gorm:"not null;default:0" json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Test) TableName() string {
	return "tests"
}

// DurationSeconds возвращает лимит времени попытки в секундах
func (t *Test) DurationSeconds() int {
	return t.DurationMin * 60
}
