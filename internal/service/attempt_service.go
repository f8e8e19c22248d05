package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	"github.com/yourusername/assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
	"github.com/yourusername/assessment-api/internal/service/assessment"
)

// AttemptService управляет жизненным циклом попытки: старт, выбор ответов,
// отправка. Незавершённые попытки живут в Redis, итоговый результат
// записывается в PostgreSQL одной транзакцией вместе со статистикой студента.
type AttemptService struct {
	db           *gorm.DB
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	resultRepo   repository.ResultRepository
	userRepo     repository.UserRepository

	// grace — запас сверх лимита теста, в течение которого попытка
	// ещё хранится и может быть отправлена (время при этом фиксируется
	// на дедлайне)
	grace time.Duration
}

// NewAttemptService создает новый сервис попыток и возвращает ошибку при проблемах
func NewAttemptService(
	db *gorm.DB,
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	resultRepo repository.ResultRepository,
	userRepo repository.UserRepository,
	grace time.Duration,
) (*AttemptService, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm.DB is required for AttemptService")
	}
	if testRepo == nil {
		return nil, fmt.Errorf("TestRepository is required for AttemptService")
	}
	if questionRepo == nil {
		return nil, fmt.Errorf("QuestionRepository is required for AttemptService")
	}
	if attemptRepo == nil {
		return nil, fmt.Errorf("AttemptRepository is required for AttemptService")
	}
	if resultRepo == nil {
		return nil, fmt.Errorf("ResultRepository is required for AttemptService")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AttemptService")
	}
	if grace <= 0 {
		grace = 5 * time.Minute
	}
	return &AttemptService{
		db:           db,
		testRepo:     testRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		resultRepo:   resultRepo,
		userRepo:     userRepo,
		grace:        grace,
	}, nil
}

// StartAttempt начинает новую попытку теста.
// Дедлайн фиксируется на сервере в момент старта; клиентские часы
// на него не влияют.
func (s *AttemptService) StartAttempt(ctx context.Context, userID uint, testCode string) (*entity.Attempt, *entity.Test, []entity.Question, error) {
	test, err := s.testRepo.GetByCode(testCode)
	if err != nil {
		return nil, nil, nil, err
	}

	questions, err := s.questionRepo.GetByTestID(test.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(questions) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: test %q has no questions", apperrors.ErrConflict, testCode)
	}

	now := time.Now()
	attempt := &entity.Attempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		TestCode:  test.Code,
		Subject:   test.Subject,
		Selection: make(map[string]int),
		StartedAt: now,
		Deadline:  now.Add(time.Duration(test.DurationSeconds()) * time.Second),
	}

	ttl := time.Until(attempt.Deadline) + s.grace
	if err := s.attemptRepo.Save(ctx, attempt, ttl); err != nil {
		return nil, nil, nil, err
	}

	log.Printf("[AttemptService] Начата попытка %s: userID=%d, test=%s, deadline=%s",
		attempt.ID, userID, test.Code, attempt.Deadline.Format(time.RFC3339))
	return attempt, test, questions, nil
}

// SelectAnswer записывает (или перезаписывает) выбор варианта для вопроса.
// optionIndex = -1 снимает выбор. После дедлайна выбор больше не принимается.
func (s *AttemptService) SelectAnswer(ctx context.Context, userID uint, attemptID, questionCode string, optionIndex int) (*entity.Attempt, error) {
	attempt, err := s.getOwnedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if attempt.Expired(now) {
		return nil, apperrors.ErrAttemptExpired
	}

	question, err := s.questionRepo.GetByCode(questionCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown question %q", apperrors.ErrValidation, questionCode)
		}
		return nil, err
	}

	test, err := s.testRepo.GetByCode(attempt.TestCode)
	if err != nil {
		return nil, err
	}
	if question.TestID != test.ID {
		return nil, fmt.Errorf("%w: question %q does not belong to test %q", apperrors.ErrValidation, questionCode, attempt.TestCode)
	}

	sheet := assessment.NewAnswerSheetFrom(attempt.Selection)
	if optionIndex == entity.UnansweredOption {
		sheet.Clear(questionCode)
	} else {
		if !question.IsValidOption(optionIndex) {
			return nil, fmt.Errorf("%w: option index %d out of range for question %q", apperrors.ErrValidation, optionIndex, questionCode)
		}
		sheet.Select(questionCode, optionIndex, len(question.Options))
	}
	attempt.Selection = sheet.Selection()

	// TTL пересчитывается от оставшегося времени, чтобы не продлевать попытку
	ttl := time.Until(attempt.Deadline) + s.grace
	if err := s.attemptRepo.Save(ctx, attempt, ttl); err != nil {
		return nil, err
	}
	return attempt, nil
}

// GetAttempt возвращает незавершённую попытку пользователя
func (s *AttemptService) GetAttempt(ctx context.Context, userID uint, attemptID string) (*entity.Attempt, error) {
	return s.getOwnedAttempt(ctx, userID, attemptID)
}

// SubmitAttempt завершает попытку: фиксирует ответы, считает результат
// и атомарно записывает его вместе с обновлённой статистикой студента.
// Попытка после дедлайна всё ещё принимается (в пределах запаса grace),
// но её время фиксируется на лимите теста.
func (s *AttemptService) SubmitAttempt(ctx context.Context, userID uint, attemptID string) (*entity.TestResult, error) {
	attempt, err := s.getOwnedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}

	test, err := s.testRepo.GetByCode(attempt.TestCode)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.GetByTestID(test.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := assessment.Score(attempt.Subject, questions, attempt.Selection, attempt.ElapsedSeconds(now))
	result.AttemptID = attempt.ID
	result.UserID = userID
	result.CompletedAt = now

	// Статистику считаем по истории ДО вставки нового результата:
	// внутри транзакции свежая строка через репозиторий ещё не видна
	prior, err := s.resultRepo.GetAllUserResults(userID)
	if err != nil {
		return nil, err
	}
	testsCompleted := len(prior) + 1
	averageScore := lifetimeAverage(prior, result)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.resultRepo.SaveResult(tx, result); err != nil {
			return err
		}
		return s.userRepo.UpdateLifetimeStats(tx, userID, testsCompleted, averageScore)
	})
	if err != nil {
		return nil, err
	}

	// Попытка больше не нужна; ошибка удаления не критична, TTL доберёт
	if err := s.attemptRepo.Delete(ctx, attempt.ID); err != nil {
		log.Printf("[AttemptService] Не удалось удалить попытку %s после отправки: %v", attempt.ID, err)
	}

	log.Printf("[AttemptService] Попытка %s завершена: userID=%d, %d/%d верных, %d без ответа, %d сек",
		attempt.ID, userID, result.CorrectCount, result.TotalQuestions, result.UnansweredCount, result.ElapsedSeconds)
	return result, nil
}

// getOwnedAttempt возвращает попытку, проверяя владельца.
// Чужая попытка неотличима от несуществующей.
func (s *AttemptService) getOwnedAttempt(ctx context.Context, userID uint, attemptID string) (*entity.Attempt, error) {
	attempt, err := s.attemptRepo.Get(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return attempt, nil
}

// lifetimeAverage считает средний балл студента: среднее по процентам
// всех тестов, включая новый, округлённое до целого. Тесты с разным
// количеством вопросов весят одинаково.
func lifetimeAverage(prior []entity.TestResult, latest *entity.TestResult) int {
	sum := latest.Percentage()
	for i := range prior {
		sum += prior[i].Percentage()
	}
	return int(math.Round(sum / float64(len(prior)+1)))
}
