package service

import (
	"fmt"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	"github.com/yourusername/assessment-api/internal/domain/repository"
)

// TestService предоставляет методы для чтения каталога тестов
type TestService struct {
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
}

// NewTestService создает новый сервис каталога тестов
func NewTestService(testRepo repository.TestRepository, questionRepo repository.QuestionRepository) (*TestService, error) {
	if testRepo == nil {
		return nil, fmt.Errorf("TestRepository is required for TestService")
	}
	if questionRepo == nil {
		return nil, fmt.Errorf("QuestionRepository is required for TestService")
	}
	return &TestService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
	}, nil
}

// ListTests возвращает все доступные тесты
func (s *TestService) ListTests() ([]entity.Test, error) {
	return s.testRepo.GetAll()
}

// GetTestWithQuestions возвращает тест и его вопросы в порядке каталога.
// Правильные ответы скрыты на уровне сериализации (CorrectOption имеет json:"-").
func (s *TestService) GetTestWithQuestions(code string) (*entity.Test, []entity.Question, error) {
	test, err := s.testRepo.GetByCode(code)
	if err != nil {
		return nil, nil, err
	}

	questions, err := s.questionRepo.GetByTestID(test.ID)
	if err != nil {
		return nil, nil, err
	}

	return test, questions, nil
}
