package service

import (
	"fmt"
	"math"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	"github.com/yourusername/assessment-api/internal/domain/repository"
	"github.com/yourusername/assessment-api/internal/service/assessment"
)

// ResultReport — результат теста вместе с производными данными:
// разбивкой по сложности и рекомендациями. Производные не хранятся,
// а пересчитываются из результата и каталога при каждом запросе.
type ResultReport struct {
	Result          *entity.TestResult
	Breakdown       assessment.Breakdown
	Recommendations []assessment.Recommendation
}

// ResultService предоставляет доступ к истории результатов и отчётам
type ResultService struct {
	resultRepo   repository.ResultRepository
	questionRepo repository.QuestionRepository
	cfg          *assessment.Config
}

// NewResultService создает новый сервис результатов
func NewResultService(
	resultRepo repository.ResultRepository,
	questionRepo repository.QuestionRepository,
	cfg *assessment.Config,
) (*ResultService, error) {
	if resultRepo == nil {
		return nil, fmt.Errorf("ResultRepository is required for ResultService")
	}
	if questionRepo == nil {
		return nil, fmt.Errorf("QuestionRepository is required for ResultService")
	}
	if cfg == nil {
		cfg = assessment.DefaultConfig()
	}
	return &ResultService{
		resultRepo:   resultRepo,
		questionRepo: questionRepo,
		cfg:          cfg,
	}, nil
}

// GetUserResults возвращает историю результатов пользователя с пагинацией
func (s *ResultService) GetUserResults(userID uint, limit, offset int) ([]entity.TestResult, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.resultRepo.GetUserResults(userID, limit, offset)
}

// GetResultReport возвращает полный отчёт по результату: сам результат,
// разбивку по сложности и рекомендации. Чужой результат неотличим
// от несуществующего.
func (s *ResultService) GetResultReport(userID, resultID uint) (*ResultReport, error) {
	result, err := s.resultRepo.GetUserResult(userID, resultID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionsForResult(result)
	if err != nil {
		return nil, err
	}

	breakdown := assessment.ComputeBreakdown(questions, result.Answers)
	recommendations := assessment.Recommend(
		s.cfg,
		result.Subject,
		breakdown,
		result.Percentage(),
		result.ElapsedSeconds,
		result.TotalQuestions,
	)

	return &ResultReport{
		Result:          result,
		Breakdown:       breakdown,
		Recommendations: recommendations,
	}, nil
}

// GetHistoryStats возвращает агрегированную статистику по всей истории пользователя
func (s *ResultService) GetHistoryStats(userID uint) (assessment.HistoryStats, error) {
	history, err := s.resultRepo.GetAllUserResults(userID)
	if err != nil {
		return assessment.HistoryStats{}, err
	}
	return assessment.ComputeHistoryStats(history), nil
}

// ExportRow — одна строка экспортируемого отчёта по истории результатов
type ExportRow struct {
	Subject         entity.Subject
	CompletedAt     string
	TotalQuestions  int
	CorrectCount    int
	WrongCount      int
	UnansweredCount int
	Percent         int
	ElapsedSeconds  int
}

// BuildExportRows собирает строки отчёта по всей истории пользователя.
// Формат (CSV или XLSX) выбирает обработчик, данные у обоих одни и те же.
func (s *ResultService) BuildExportRows(userID uint) ([]ExportRow, error) {
	history, err := s.resultRepo.GetAllUserResults(userID)
	if err != nil {
		return nil, err
	}

	rows := make([]ExportRow, 0, len(history))
	for i := range history {
		r := &history[i]
		rows = append(rows, ExportRow{
			Subject:         r.Subject,
			CompletedAt:     r.CompletedAt.Format("2006-01-02 15:04"),
			TotalQuestions:  r.TotalQuestions,
			CorrectCount:    r.CorrectCount,
			WrongCount:      r.WrongCount,
			UnansweredCount: r.UnansweredCount,
			Percent:         int(math.Round(r.Percentage())),
			ElapsedSeconds:  r.ElapsedSeconds,
		})
	}
	return rows, nil
}

// ReportExportRow — одна строка экспортируемого разбора результата по вопросам
type ReportExportRow struct {
	Position       int
	QuestionText   string
	Difficulty     entity.Difficulty
	SelectedAnswer string
	CorrectAnswer  string
	Status         string
}

// BuildReportExportRows собирает строки разбора по каждому вопросу для одного
// результату. Чужой результат неотличим от несуществующего.
func (s *ResultService) BuildReportExportRows(userID, resultID uint) (*entity.TestResult, []ReportExportRow, error) {
	result, err := s.resultRepo.GetUserResult(userID, resultID)
	if err != nil {
		return nil, nil, err
	}

	questions, err := s.questionsForResult(result)
	if err != nil {
		return nil, nil, err
	}

	byCode := make(map[string]*entity.Question, len(questions))
	for i := range questions {
		byCode[questions[i].Code] = &questions[i]
	}

	rows := make([]ReportExportRow, 0, len(result.Answers))
	for i := range result.Answers {
		a := &result.Answers[i]
		q, ok := byCode[a.QuestionCode]
		if !ok {
			// Вопрос выведен из каталога; счёт в результате уже зафиксирован
			continue
		}

		selected := "Not answered"
		if q.IsValidOption(a.SelectedOption) {
			selected = q.Options[a.SelectedOption]
		}

		status := "Wrong"
		switch {
		case a.IsCorrect:
			status = "Correct"
		case a.SelectedOption == entity.UnansweredOption:
			status = "Unanswered"
		}

		rows = append(rows, ReportExportRow{
			Position:       i + 1,
			QuestionText:   q.Text,
			Difficulty:     q.Difficulty,
			SelectedAnswer: selected,
			CorrectAnswer:  q.Options[q.CorrectOption],
			Status:         status,
		})
	}
	return result, rows, nil
}

// questionsForResult восстанавливает упорядоченный срез вопросов,
// по которому строился результат
func (s *ResultService) questionsForResult(result *entity.TestResult) ([]entity.Question, error) {
	codes := make([]string, 0, len(result.Answers))
	for _, a := range result.Answers {
		codes = append(codes, a.QuestionCode)
	}
	return s.questionRepo.GetByCodes(codes)
}
