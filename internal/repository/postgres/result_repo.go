package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
)

// ResultRepo реализует repository.ResultRepository
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий результатов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// SaveResult сохраняет итоговый результат в рамках переданной транзакции.
// Уникальный индекс по attempt_id защищает от повторной отправки попытки:
// 23505 (unique violation) → ErrConflict.
func (r *ResultRepo) SaveResult(tx *gorm.DB, result *entity.TestResult) error {
	if err := tx.Create(result).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: attempt %s already submitted", apperrors.ErrConflict, result.AttemptID)
		}
		return err
	}
	return nil
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

// GetByID возвращает результат по ID
func (r *ResultRepo) GetByID(id uint) (*entity.TestResult, error) {
	var result entity.TestResult
	err := r.db.First(&result, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// GetUserResult возвращает результат, если он принадлежит пользователю
func (r *ResultRepo) GetUserResult(userID uint, resultID uint) (*entity.TestResult, error) {
	var result entity.TestResult
	err := r.db.Where("id = ? AND user_id = ?", resultID, userID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// GetUserResults возвращает результаты пользователя с пагинацией и общим количеством
func (r *ResultRepo) GetUserResults(userID uint, limit, offset int) ([]entity.TestResult, int64, error) {
	var results []entity.TestResult
	var total int64

	// Используем транзакцию для согласованности чтения данных и общего количества
	tx := r.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	err := tx.Model(&entity.TestResult{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	err = tx.Where("user_id = ?", userID).
		Order("completed_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error
	if err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// GetAllUserResults возвращает ВСЕ результаты пользователя в хронологическом порядке.
// Используется для расчёта агрегированной статистики и выгрузки отчётов.
func (r *ResultRepo) GetAllUserResults(userID uint) ([]entity.TestResult, error) {
	var results []entity.TestResult
	err := r.db.Where("user_id = ?", userID).
		Order("completed_at ASC, id ASC").
		Find(&results).Error
	// Пустой слайс - валидный результат
	return results, err
}
