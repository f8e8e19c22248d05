package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
)

// TestRepo реализует repository.TestRepository
type TestRepo struct {
	db *gorm.DB
}

// NewTestRepo создает новый репозиторий тестов
func NewTestRepo(db *gorm.DB) *TestRepo {
	return &TestRepo{db: db}
}

// GetAll возвращает все доступные тесты в порядке добавления
func (r *TestRepo) GetAll() ([]entity.Test, error) {
	var tests []entity.Test
	err := r.db.Order("id").Find(&tests).Error
	// Пустой слайс - валидный результат, ErrRecordNotFound здесь не возникает
	return tests, err
}

// GetByCode возвращает тест по строковому коду
func (r *TestRepo) GetByCode(code string) (*entity.Test, error) {
	var test entity.Test
	err := r.db.Where("code = ?", code).First(&test).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &test, nil
}
