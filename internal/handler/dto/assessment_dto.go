package dto

import (
	"math"
	"time"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	"github.com/yourusername/assessment-api/internal/service"
	"github.com/yourusername/assessment-api/internal/service/assessment"
)

// QuestionResponse представляет вопрос в формате для ответа клиенту.
// Правильный вариант не включается никогда.
type QuestionResponse struct {
	Code       string   `json:"code"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
	Position   int      `json:"position"`
}

// TestResponse представляет тест в формате для ответа клиенту
type TestResponse struct {
	Code          string             `json:"code"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	Subject       string             `json:"subject"`
	DurationMin   int                `json:"duration_min"`
	QuestionCount int                `json:"question_count"`
	Questions     []QuestionResponse `json:"questions,omitempty"`
}

// AttemptResponse представляет незавершённую попытку
type AttemptResponse struct {
	ID               string         `json:"id"`
	TestCode         string         `json:"test_code"`
	Subject          string         `json:"subject"`
	Selection        map[string]int `json:"selection"`
	StartedAt        time.Time      `json:"started_at"`
	Deadline         time.Time      `json:"deadline"`
	RemainingSeconds int            `json:"remaining_seconds"`
}

// ResultResponse представляет итог завершённой попытки
type ResultResponse struct {
	ID              uint      `json:"id"`
	Subject         string    `json:"subject"`
	TotalQuestions  int       `json:"total_questions"`
	CorrectCount    int       `json:"correct_count"`
	WrongCount      int       `json:"wrong_count"`
	UnansweredCount int       `json:"unanswered_count"`
	Percent         int       `json:"percent"`
	ElapsedSeconds  int       `json:"elapsed_seconds"`
	CompletedAt     time.Time `json:"completed_at"`
}

// TierResponse — счётчики одного уровня сложности с точностью
type TierResponse struct {
	Total       int     `json:"total"`
	Correct     int     `json:"correct"`
	AccuracyPct float64 `json:"accuracy_pct"`
}

// ResultReportResponse — полный отчёт: результат, разбивка, рекомендации
type ResultReportResponse struct {
	Result          ResultResponse              `json:"result"`
	Answers         entity.AnswerList           `json:"answers"`
	Breakdown       map[string]TierResponse     `json:"breakdown"`
	Recommendations []assessment.Recommendation `json:"recommendations"`
}

// PaginatedResultsResponse представляет пагинированный список результатов
type PaginatedResultsResponse struct {
	Results []ResultResponse `json:"results"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

// NewQuestionResponse создает DTO для вопроса
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	return QuestionResponse{
		Code:       q.Code,
		Text:       q.Text,
		Options:    []string(q.Options),
		Difficulty: string(q.Difficulty),
		Position:   q.Position,
	}
}

// NewTestResponse создает DTO для теста, опционально с вопросами
func NewTestResponse(test *entity.Test, questions []entity.Question) *TestResponse {
	resp := &TestResponse{
		Code:          test.Code,
		Title:         test.Title,
		Description:   test.Description,
		Subject:       string(test.Subject),
		DurationMin:   test.DurationMin,
		QuestionCount: test.QuestionCount,
	}
	for i := range questions {
		resp.Questions = append(resp.Questions, NewQuestionResponse(&questions[i]))
	}
	return resp
}

// NewAttemptResponse создает DTO для попытки.
// RemainingSeconds считается от текущего момента и не бывает отрицательным.
func NewAttemptResponse(attempt *entity.Attempt) *AttemptResponse {
	remaining := int(time.Until(attempt.Deadline).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	selection := attempt.Selection
	if selection == nil {
		selection = map[string]int{}
	}
	return &AttemptResponse{
		ID:               attempt.ID,
		TestCode:         attempt.TestCode,
		Subject:          string(attempt.Subject),
		Selection:        selection,
		StartedAt:        attempt.StartedAt,
		Deadline:         attempt.Deadline,
		RemainingSeconds: remaining,
	}
}

// NewResultResponse создает DTO для результата
func NewResultResponse(r *entity.TestResult) ResultResponse {
	return ResultResponse{
		ID:              r.ID,
		Subject:         string(r.Subject),
		TotalQuestions:  r.TotalQuestions,
		CorrectCount:    r.CorrectCount,
		WrongCount:      r.WrongCount,
		UnansweredCount: r.UnansweredCount,
		Percent:         int(math.Round(r.Percentage())),
		ElapsedSeconds:  r.ElapsedSeconds,
		CompletedAt:     r.CompletedAt,
	}
}

// NewResultReportResponse создает DTO полного отчёта
func NewResultReportResponse(report *service.ResultReport) *ResultReportResponse {
	breakdown := make(map[string]TierResponse, len(report.Breakdown))
	for _, tier := range entity.AllDifficulties() {
		tc := report.Breakdown[tier]
		breakdown[string(tier)] = TierResponse{
			Total:       tc.Total,
			Correct:     tc.Correct,
			AccuracyPct: report.Breakdown.Accuracy(tier),
		}
	}

	recs := report.Recommendations
	if recs == nil {
		recs = []assessment.Recommendation{}
	}

	return &ResultReportResponse{
		Result:          NewResultResponse(report.Result),
		Answers:         report.Result.Answers,
		Breakdown:       breakdown,
		Recommendations: recs,
	}
}

// NewPaginatedResultsResponse создает пагинированный ответ со списком результатов
func NewPaginatedResultsResponse(results []entity.TestResult, total int64, page, perPage int) *PaginatedResultsResponse {
	items := make([]ResultResponse, 0, len(results))
	for i := range results {
		items = append(items, NewResultResponse(&results[i]))
	}
	return &PaginatedResultsResponse{
		Results: items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
