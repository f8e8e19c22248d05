package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// UnansweredOption — сентинел для вопроса без выбранного варианта
const UnansweredOption = -1

// AnswerRecord представляет ответ пользователя на один вопрос.
// Фиксируется при отправке теста, после чего неизменяем.
type AnswerRecord struct {
	QuestionCode   string `json:"question_code"`
	SelectedOption int    `json:"selected_option"` // -1 = нет ответа
	IsCorrect      bool   `json:"is_correct"`
}

// IsAnswered сообщает, был ли выбран какой-либо вариант
func (a AnswerRecord) IsAnswered() bool {
	return a.SelectedOption != UnansweredOption
}

// AnswerList - пользовательский тип для хранения ответов в JSONB.
// Ответы хранятся вместе с результатом: порядок совпадает с порядком
// вопросов каталога, длина равна TotalQuestions.
type AnswerList []AnswerRecord

// Scan реализует интерфейс sql.Scanner для AnswerList
func (a *AnswerList) Scan(value interface{}) error {
	if value == nil {
		*a = AnswerList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*a = AnswerList{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Value реализует интерфейс driver.Valuer для AnswerList
func (a AnswerList) Value() (driver.Value, error) {
	if len(a) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// TestResult представляет итог одной завершённой попытки теста.
// Создаётся ровно один раз при отправке (ручной или по таймауту), далее неизменяем.
//
// Без ответа — отдельная категория, не сливается с неверными:
// CorrectCount + WrongCount + UnansweredCount == TotalQuestions.
type TestResult struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	AttemptID       string     `gorm:"size:36;not null;uniqueIndex" json:"attempt_id"` // UUID попытки: защита от повторной отправки
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	Subject         Subject    `gorm:"size:20;not null" json:"subject"`
	TotalQuestions  int        `gorm:"not null;default:0" json:"total_questions"`
	CorrectCount    int        `gorm:"not null;default:0" json:"correct_count"`
	WrongCount      int        `gorm:"not null;default:0" json:"wrong_count"`
	UnansweredCount int        `gorm:"not null;default:0" json:"unanswered_count"`
	ElapsedSeconds  int        `gorm:"not null;default:0" json:"elapsed_seconds"`
	Answers         AnswerList `gorm:"type:jsonb;not null" json:"answers"`
	CompletedAt     time.Time  `gorm:"not null" json:"completed_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (TestResult) TableName() string {
	return "test_results"
}

// Percentage возвращает общий процент правильных ответов (0.0 при пустом тесте)
func (r *TestResult) Percentage() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return float64(r.CorrectCount) / float64(r.TotalQuestions) * 100
}
