package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	// UpdateLifetimeStats обновляет счётчик тестов и средний балл
	// в рамках переданной транзакции
	UpdateLifetimeStats(tx *gorm.DB, userID uint, testsCompleted, averageScore int) error
}
