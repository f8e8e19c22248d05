package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
)

// ============================================================================
// Тесты для AttemptService
// ============================================================================

// createTestAttemptService создаёт AttemptService для unit-тестов без БД.
// db оставляем nil: транзакционный путь SubmitAttempt здесь не проверяется.
func createTestAttemptService(
	testRepo *MockTestRepository,
	questionRepo *MockQuestionRepository,
	attemptRepo *MockAttemptRepository,
) *AttemptService {
	return &AttemptService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		grace:        5 * time.Minute,
	}
}

func aptitudeTestFixture() *entity.Test {
	return &entity.Test{
		ID:            1,
		Code:          "aptitude-test",
		Title:         "Aptitude Assessment",
		Subject:       entity.SubjectAptitude,
		DurationMin:   15,
		QuestionCount: 2,
	}
}

func aptitudeQuestionsFixture() []entity.Question {
	return []entity.Question{
		{
			ID: 1, Code: "apt-1", TestID: 1,
			Text:          "What is 15% of 200?",
			Options:       entity.StringArray{"25", "30", "35", "40"},
			CorrectOption: 1,
			Subject:       entity.SubjectAptitude,
			Difficulty:    entity.DifficultyEasy,
			Position:      1,
		},
		{
			ID: 2, Code: "apt-2", TestID: 1,
			Text:          "If 5 machines take 5 minutes...",
			Options:       entity.StringArray{"5", "100", "20", "500"},
			CorrectOption: 0,
			Subject:       entity.SubjectAptitude,
			Difficulty:    entity.DifficultyHard,
			Position:      2,
		},
	}
}

func TestAttemptService_StartAttempt_Success(t *testing.T) {
	// Arrange
	mockTestRepo := new(MockTestRepository)
	mockQuestionRepo := new(MockQuestionRepository)
	mockAttemptRepo := new(MockAttemptRepository)

	test := aptitudeTestFixture()
	mockTestRepo.On("GetByCode", "aptitude-test").Return(test, nil)
	mockQuestionRepo.On("GetByTestID", uint(1)).Return(aptitudeQuestionsFixture(), nil)
	mockAttemptRepo.On("Save", mock.Anything, mock.AnythingOfType("*entity.Attempt"), mock.AnythingOfType("time.Duration")).Return(nil)

	svc := createTestAttemptService(mockTestRepo, mockQuestionRepo, mockAttemptRepo)

	// Act
	attempt, gotTest, questions, err := svc.StartAttempt(context.Background(), 42, "aptitude-test")

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, attempt.ID, "Попытка должна получить UUID")
	assert.Equal(t, uint(42), attempt.UserID)
	assert.Equal(t, "aptitude-test", attempt.TestCode)
	assert.Equal(t, entity.SubjectAptitude, attempt.Subject)
	assert.Empty(t, attempt.Selection, "Новая попытка начинается без выбранных ответов")
	assert.Equal(t, test.Code, gotTest.Code)
	assert.Len(t, questions, 2)

	// Дедлайн — старт плюс лимит теста
	wantDeadline := attempt.StartedAt.Add(15 * time.Minute)
	assert.True(t, attempt.Deadline.Equal(wantDeadline),
		"Дедлайн должен быть ровно StartedAt + длительность теста")
	mockAttemptRepo.AssertExpectations(t)
}

func TestAttemptService_StartAttempt_UnknownTest(t *testing.T) {
	// Arrange
	mockTestRepo := new(MockTestRepository)
	mockTestRepo.On("GetByCode", "no-such-test").Return(nil, apperrors.ErrNotFound)

	svc := createTestAttemptService(mockTestRepo, new(MockQuestionRepository), new(MockAttemptRepository))

	// Act
	_, _, _, err := svc.StartAttempt(context.Background(), 42, "no-such-test")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAttemptService_SelectAnswer_Success(t *testing.T) {
	// Arrange
	now := time.Now()
	attempt := &entity.Attempt{
		ID:        "attempt-1",
		UserID:    42,
		TestCode:  "aptitude-test",
		Subject:   entity.SubjectAptitude,
		Selection: map[string]int{},
		StartedAt: now.Add(-1 * time.Minute),
		Deadline:  now.Add(14 * time.Minute),
	}

	questions := aptitudeQuestionsFixture()
	mockTestRepo := new(MockTestRepository)
	mockQuestionRepo := new(MockQuestionRepository)
	mockAttemptRepo := new(MockAttemptRepository)

	mockAttemptRepo.On("Get", mock.Anything, "attempt-1").Return(attempt, nil)
	mockQuestionRepo.On("GetByCode", "apt-1").Return(&questions[0], nil)
	mockTestRepo.On("GetByCode", "aptitude-test").Return(aptitudeTestFixture(), nil)
	mockAttemptRepo.On("Save", mock.Anything, mock.AnythingOfType("*entity.Attempt"), mock.AnythingOfType("time.Duration")).Return(nil)

	svc := createTestAttemptService(mockTestRepo, mockQuestionRepo, mockAttemptRepo)

	// Act
	updated, err := svc.SelectAnswer(context.Background(), 42, "attempt-1", "apt-1", 2)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Selection["apt-1"], "Выбор должен быть записан")
	mockAttemptRepo.AssertExpectations(t)
}

func TestAttemptService_SelectAnswer_ClearSelection(t *testing.T) {
	// Arrange
	now := time.Now()
	attempt := &entity.Attempt{
		ID:        "attempt-1",
		UserID:    42,
		TestCode:  "aptitude-test",
		Selection: map[string]int{"apt-1": 2},
		StartedAt: now.Add(-1 * time.Minute),
		Deadline:  now.Add(14 * time.Minute),
	}

	questions := aptitudeQuestionsFixture()
	mockTestRepo := new(MockTestRepository)
	mockQuestionRepo := new(MockQuestionRepository)
	mockAttemptRepo := new(MockAttemptRepository)

	mockAttemptRepo.On("Get", mock.Anything, "attempt-1").Return(attempt, nil)
	mockQuestionRepo.On("GetByCode", "apt-1").Return(&questions[0], nil)
	mockTestRepo.On("GetByCode", "aptitude-test").Return(aptitudeTestFixture(), nil)
	mockAttemptRepo.On("Save", mock.Anything, mock.AnythingOfType("*entity.Attempt"), mock.AnythingOfType("time.Duration")).Return(nil)

	svc := createTestAttemptService(mockTestRepo, mockQuestionRepo, mockAttemptRepo)

	// Act
	updated, err := svc.SelectAnswer(context.Background(), 42, "attempt-1", "apt-1", entity.UnansweredOption)

	// Assert
	require.NoError(t, err)
	_, selected := updated.Selection["apt-1"]
	assert.False(t, selected, "Выбор -1 должен снимать ответ")
}

func TestAttemptService_SelectAnswer_OptionOutOfRange(t *testing.T) {
	// Arrange
	now := time.Now()
	attempt := &entity.Attempt{
		ID:        "attempt-1",
		UserID:    42,
		TestCode:  "aptitude-test",
		Selection: map[string]int{},
		StartedAt: now.Add(-1 * time.Minute),
		Deadline:  now.Add(14 * time.Minute),
	}

	questions := aptitudeQuestionsFixture()
	mockTestRepo := new(MockTestRepository)
	mockQuestionRepo := new(MockQuestionRepository)
	mockAttemptRepo := new(MockAttemptRepository)

	mockAttemptRepo.On("Get", mock.Anything, "attempt-1").Return(attempt, nil)
	mockQuestionRepo.On("GetByCode", "apt-1").Return(&questions[0], nil)
	mockTestRepo.On("GetByCode", "aptitude-test").Return(aptitudeTestFixture(), nil)

	svc := createTestAttemptService(mockTestRepo, mockQuestionRepo, mockAttemptRepo)

	// Act
	_, err := svc.SelectAnswer(context.Background(), 42, "attempt-1", "apt-1", 4)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Индекс вне диапазона вариантов должен отклоняться")
}

func TestAttemptService_SelectAnswer_AfterDeadline(t *testing.T) {
	// Arrange
	now := time.Now()
	attempt := &entity.Attempt{
		ID:        "attempt-1",
		UserID:    42,
		TestCode:  "aptitude-test",
		Selection: map[string]int{},
		StartedAt: now.Add(-20 * time.Minute),
		Deadline:  now.Add(-5 * time.Minute),
	}

	mockAttemptRepo := new(MockAttemptRepository)
	mockAttemptRepo.On("Get", mock.Anything, "attempt-1").Return(attempt, nil)

	svc := createTestAttemptService(new(MockTestRepository), new(MockQuestionRepository), mockAttemptRepo)

	// Act
	_, err := svc.SelectAnswer(context.Background(), 42, "attempt-1", "apt-1", 0)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrAttemptExpired)
}

func TestAttemptService_GetAttempt_ForeignAttemptHidden(t *testing.T) {
	// Arrange
	attempt := &entity.Attempt{ID: "attempt-1", UserID: 42}
	mockAttemptRepo := new(MockAttemptRepository)
	mockAttemptRepo.On("Get", mock.Anything, "attempt-1").Return(attempt, nil)

	svc := createTestAttemptService(new(MockTestRepository), new(MockQuestionRepository), mockAttemptRepo)

	// Act: пользователь 99 запрашивает чужую попытку
	_, err := svc.GetAttempt(context.Background(), 99, "attempt-1")

	// Assert
	// Чужая попытка неотличима от несуществующей
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLifetimeAverage(t *testing.T) {
	// Средний балл — среднее по процентам тестов, а не по пулу ответов:
	// 10/10 (100%) и 1/4 (25%) дают (100+25)/2 = 63 после округления
	prior := []entity.TestResult{
		{TotalQuestions: 10, CorrectCount: 10},
	}
	latest := &entity.TestResult{TotalQuestions: 4, CorrectCount: 1}

	assert.Equal(t, 63, lifetimeAverage(prior, latest))
}

func TestLifetimeAverage_FirstTest(t *testing.T) {
	latest := &entity.TestResult{TotalQuestions: 10, CorrectCount: 7}
	assert.Equal(t, 70, lifetimeAverage(nil, latest))
}
