package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// ResultRepository определяет методы для работы с результатами тестов
type ResultRepository interface {
	// SaveResult сохраняет итоговый результат в рамках переданной транзакции
	SaveResult(tx *gorm.DB, result *entity.TestResult) error
	GetByID(id uint) (*entity.TestResult, error)
	GetUserResult(userID, resultID uint) (*entity.TestResult, error)
	GetUserResults(userID uint, limit, offset int) ([]entity.TestResult, int64, error)
	// GetAllUserResults возвращает всю историю пользователя в порядке прохождения
	GetAllUserResults(userID uint) ([]entity.TestResult, error)
}
