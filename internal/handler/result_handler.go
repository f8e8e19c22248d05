package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/assessment-api/internal/handler/dto"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
	"github.com/yourusername/assessment-api/internal/service"
)

// ResultHandler обрабатывает запросы к истории результатов и отчётам
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler создает новый обработчик результатов
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// GetMyResults возвращает историю результатов текущего пользователя с пагинацией
// GET /api/results?page=1&per_page=20
func (h *ResultHandler) GetMyResults(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	results, total, err := h.resultService.GetUserResults(userID, perPage, (page-1)*perPage)
	if err != nil {
		h.handleResultError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResultsResponse(results, total, page, perPage))
}

// GetResultReport возвращает полный отчёт по результату:
// счёт, разбивку по сложности и рекомендации
// GET /api/results/:resultID
func (h *ResultHandler) GetResultReport(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	resultID := c.MustGet("resultID").(uint)

	report, err := h.resultService.GetResultReport(userID, resultID)
	if err != nil {
		h.handleResultError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResultReportResponse(report))
}

// GetMyStats возвращает агрегированную статистику по истории пользователя
// GET /api/results/stats
func (h *ResultHandler) GetMyStats(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	stats, err := h.resultService.GetHistoryStats(userID)
	if err != nil {
		h.handleResultError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"test_count":    stats.TestCount,
		"average_pct":   stats.AveragePct,
		"aptitude_pct":  stats.AptitudePct,
		"technical_pct": stats.TechnicalPct,
		"has_aptitude":  stats.HasAptitude,
		"has_technical": stats.HasTechnical,
	})
}

// ExportMyResults экспортирует историю результатов в CSV или Excel формате
// GET /api/results/export?format=csv|xlsx
func (h *ResultHandler) ExportMyResults(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	format := c.DefaultQuery("format", "csv")

	rows, err := h.resultService.BuildExportRows(userID)
	if err != nil {
		h.handleResultError(c, err)
		return
	}

	filename := fmt.Sprintf("assessment_results_%s", time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, rows, filename)
	default:
		h.exportCSV(c, rows, filename)
	}
}

// ExportResultReport экспортирует разбор результата по каждому вопросу
// GET /api/results/:id/export?format=csv|xlsx
func (h *ResultHandler) ExportResultReport(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	resultID := c.MustGet("resultID").(uint)
	format := c.DefaultQuery("format", "csv")

	result, rows, err := h.resultService.BuildReportExportRows(userID, resultID)
	if err != nil {
		h.handleResultError(c, err)
		return
	}

	filename := fmt.Sprintf("%s_report_%s", result.Subject, result.CompletedAt.Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportReportXLSX(c, rows, filename)
	default:
		h.exportReportCSV(c, rows, filename)
	}
}

var exportHeaders = []string{"Subject", "Completed At", "Questions", "Correct", "Wrong", "Unanswered", "Score %", "Time (sec)"}

var reportExportHeaders = []string{"#", "Question", "Difficulty", "Your Answer", "Correct Answer", "Status"}

func reportRowCells(r service.ReportExportRow) []string {
	return []string{
		strconv.Itoa(r.Position),
		sanitizeForExcel(r.QuestionText),
		string(r.Difficulty),
		sanitizeForExcel(r.SelectedAnswer),
		sanitizeForExcel(r.CorrectAnswer),
		r.Status,
	}
}

// exportReportCSV пишет разбор по вопросам в CSV
func (h *ResultHandler) exportReportCSV(c *gin.Context, rows []service.ReportExportRow, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(reportExportHeaders)
	for _, r := range rows {
		writer.Write(reportRowCells(r))
	}
}

// exportReportXLSX пишет разбор по вопросам в Excel через StreamWriter
func (h *ResultHandler) exportReportXLSX(c *gin.Context, rows []service.ReportExportRow, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Report"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ResultHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(reportExportHeaders))
	for i, title := range reportExportHeaders {
		headers[i] = title
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ResultHandler] Ошибка записи заголовков: %v", err)
	}

	for i, r := range rows {
		cells := reportRowCells(r)
		row := make([]interface{}, len(cells))
		for j, v := range cells {
			row[j] = v
		}
		if err := sw.SetRow(fmt.Sprintf("A%d", i+2), row); err != nil {
			log.Printf("[ResultHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ResultHandler] Ошибка при Flush: %v", err)
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ResultHandler] Ошибка записи Excel в response: %v", err)
	}
}

// exportCSV экспортирует строки отчёта в CSV с правильным экранированием спецсимволов
func (h *ResultHandler) exportCSV(c *gin.Context, rows []service.ExportRow, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)

	for _, r := range rows {
		writer.Write([]string{
			sanitizeForExcel(string(r.Subject)),
			r.CompletedAt,
			strconv.Itoa(r.TotalQuestions),
			strconv.Itoa(r.CorrectCount),
			strconv.Itoa(r.WrongCount),
			strconv.Itoa(r.UnansweredCount),
			strconv.Itoa(r.Percent),
			strconv.Itoa(r.ElapsedSeconds),
		})
	}
}

// exportXLSX экспортирует строки отчёта в Excel с использованием StreamWriter
func (h *ResultHandler) exportXLSX(c *gin.Context, rows []service.ExportRow, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Results"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ResultHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, title := range exportHeaders {
		headers[i] = title
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ResultHandler] Ошибка записи заголовков: %v", err)
	}

	for i, r := range rows {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)
		row := []interface{}{
			sanitizeForExcel(string(r.Subject)),
			r.CompletedAt,
			r.TotalQuestions,
			r.CorrectCount,
			r.WrongCount,
			r.UnansweredCount,
			r.Percent,
			r.ElapsedSeconds,
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ResultHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ResultHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ResultHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// handleResultError преобразует ошибки сервиса в HTTP-ответы
func (h *ResultHandler) handleResultError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in ResultHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
