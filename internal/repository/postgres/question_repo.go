package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// GetByTestID возвращает вопросы теста в каноническом порядке
func (r *QuestionRepo) GetByTestID(testID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Where("test_id = ?", testID).
		Order("position ASC").
		Find(&questions).Error
	return questions, err
}

// GetByCodes возвращает вопросы по списку кодов в порядке каталога
func (r *QuestionRepo) GetByCodes(codes []string) ([]entity.Question, error) {
	if len(codes) == 0 {
		return []entity.Question{}, nil
	}
	var questions []entity.Question
	err := r.db.Where("code IN ?", codes).
		Order("position ASC").
		Find(&questions).Error
	return questions, err
}

// GetByCode возвращает вопрос по строковому коду
func (r *QuestionRepo) GetByCode(code string) (*entity.Question, error) {
	var question entity.Question
	err := r.db.Where("code = ?", code).First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}
