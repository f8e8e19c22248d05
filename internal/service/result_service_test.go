package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
	"github.com/yourusername/assessment-api/internal/service/assessment"
)

// ============================================================================
// Тесты для ResultService
// ============================================================================

func TestResultService_GetResultReport_Success(t *testing.T) {
	// Arrange
	questions := aptitudeQuestionsFixture()
	result := &entity.TestResult{
		ID:             5,
		AttemptID:      "attempt-1",
		UserID:         42,
		Subject:        entity.SubjectAptitude,
		TotalQuestions: 2,
		CorrectCount:   1,
		WrongCount:     1,
		ElapsedSeconds: 600,
		Answers: entity.AnswerList{
			{QuestionCode: "apt-1", SelectedOption: 1, IsCorrect: true},
			{QuestionCode: "apt-2", SelectedOption: 3, IsCorrect: false},
		},
		CompletedAt: time.Now(),
	}

	mockResultRepo := new(MockResultRepository)
	mockQuestionRepo := new(MockQuestionRepository)
	mockResultRepo.On("GetUserResult", uint(42), uint(5)).Return(result, nil)
	mockQuestionRepo.On("GetByCodes", []string{"apt-1", "apt-2"}).Return(questions, nil)

	svc, err := NewResultService(mockResultRepo, mockQuestionRepo, assessment.DefaultConfig())
	require.NoError(t, err)

	// Act
	report, err := svc.GetResultReport(42, 5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, result, report.Result)

	// apt-1 easy верный, apt-2 hard неверный
	assert.Equal(t, assessment.TierCount{Total: 1, Correct: 1}, report.Breakdown[entity.DifficultyEasy])
	assert.Equal(t, assessment.TierCount{Total: 0, Correct: 0}, report.Breakdown[entity.DifficultyMedium])
	assert.Equal(t, assessment.TierCount{Total: 1, Correct: 0}, report.Breakdown[entity.DifficultyHard])

	assert.NotEmpty(t, report.Recommendations, "Слабый результат должен давать рекомендации")
	assert.LessOrEqual(t, len(report.Recommendations), 4)
}

func TestResultService_GetResultReport_ForeignResultHidden(t *testing.T) {
	// Arrange
	mockResultRepo := new(MockResultRepository)
	mockResultRepo.On("GetUserResult", uint(99), uint(5)).Return(nil, apperrors.ErrNotFound)

	svc, err := NewResultService(mockResultRepo, new(MockQuestionRepository), nil)
	require.NoError(t, err)

	// Act
	_, err = svc.GetResultReport(99, 5)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResultService_GetUserResults_LimitNormalized(t *testing.T) {
	// Arrange
	mockResultRepo := new(MockResultRepository)
	mockResultRepo.On("GetUserResults", uint(42), 20, 0).Return([]entity.TestResult{}, int64(0), nil)

	svc, err := NewResultService(mockResultRepo, new(MockQuestionRepository), nil)
	require.NoError(t, err)

	// Act: некорректные limit/offset приводятся к значениям по умолчанию
	_, _, err = svc.GetUserResults(42, -5, -1)

	// Assert
	require.NoError(t, err)
	mockResultRepo.AssertExpectations(t)
}

func TestResultService_BuildExportRows(t *testing.T) {
	// Arrange
	history := []entity.TestResult{
		{
			Subject:         entity.SubjectAptitude,
			TotalQuestions:  10,
			CorrectCount:    7,
			WrongCount:      2,
			UnansweredCount: 1,
			ElapsedSeconds:  480,
			CompletedAt:     time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		},
	}

	mockResultRepo := new(MockResultRepository)
	mockResultRepo.On("GetAllUserResults", uint(42)).Return(history, nil)

	svc, err := NewResultService(mockResultRepo, new(MockQuestionRepository), nil)
	require.NoError(t, err)

	// Act
	rows, err := svc.BuildExportRows(42)

	// Assert
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.SubjectAptitude, rows[0].Subject)
	assert.Equal(t, "2026-03-14 10:30", rows[0].CompletedAt)
	assert.Equal(t, 70, rows[0].Percent)
	assert.Equal(t, 1, rows[0].UnansweredCount)
}

func TestResultService_BuildReportExportRows(t *testing.T) {
	// Arrange
	questions := aptitudeQuestionsFixture()
	result := &entity.TestResult{
		ID:              5,
		UserID:          42,
		Subject:         entity.SubjectAptitude,
		TotalQuestions:  2,
		CorrectCount:    1,
		UnansweredCount: 1,
		CompletedAt:     time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Answers: entity.AnswerList{
			{QuestionCode: "apt-1", SelectedOption: 1, IsCorrect: true},
			{QuestionCode: "apt-2", SelectedOption: entity.UnansweredOption, IsCorrect: false},
		},
	}

	mockResultRepo := new(MockResultRepository)
	mockQuestionRepo := new(MockQuestionRepository)
	mockResultRepo.On("GetUserResult", uint(42), uint(5)).Return(result, nil)
	mockQuestionRepo.On("GetByCodes", []string{"apt-1", "apt-2"}).Return(questions, nil)

	svc, err := NewResultService(mockResultRepo, mockQuestionRepo, nil)
	require.NoError(t, err)

	// Act
	got, rows, err := svc.BuildReportExportRows(42, 5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, result, got)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, "30", rows[0].SelectedAnswer)
	assert.Equal(t, "30", rows[0].CorrectAnswer)
	assert.Equal(t, "Correct", rows[0].Status)

	assert.Equal(t, "Not answered", rows[1].SelectedAnswer)
	assert.Equal(t, "5", rows[1].CorrectAnswer)
	assert.Equal(t, "Unanswered", rows[1].Status)
	assert.Equal(t, entity.DifficultyHard, rows[1].Difficulty)
}

func TestResultService_GetHistoryStats(t *testing.T) {
	// Arrange
	history := []entity.TestResult{
		{Subject: entity.SubjectAptitude, TotalQuestions: 10, CorrectCount: 8},
		{Subject: entity.SubjectTechnical, TotalQuestions: 10, CorrectCount: 4},
	}

	mockResultRepo := new(MockResultRepository)
	mockResultRepo.On("GetAllUserResults", uint(42)).Return(history, nil)

	svc, err := NewResultService(mockResultRepo, new(MockQuestionRepository), nil)
	require.NoError(t, err)

	// Act
	stats, err := svc.GetHistoryStats(42)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TestCount)
	assert.Equal(t, 60, stats.AveragePct)
	assert.Equal(t, 80, stats.AptitudePct)
	assert.Equal(t, 40, stats.TechnicalPct)
}
