package repository

import (
	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// TestRepository определяет методы для работы с каталогом тестов
type TestRepository interface {
	GetAll() ([]entity.Test, error)
	GetByCode(code string) (*entity.Test, error)
}

// QuestionRepository определяет методы для работы с каталогом вопросов
type QuestionRepository interface {
	// GetByTestID возвращает вопросы теста в порядке каталога (position)
	GetByTestID(testID uint) ([]entity.Question, error)
	GetByCode(code string) (*entity.Question, error)
	// GetByCodes возвращает вопросы по списку кодов в порядке каталога
	GetByCodes(codes []string) ([]entity.Question, error)
}
