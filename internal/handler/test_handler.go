package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/assessment-api/internal/handler/dto"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
	"github.com/yourusername/assessment-api/internal/service"
)

// TestHandler обрабатывает запросы каталога тестов
type TestHandler struct {
	testService *service.TestService
}

// NewTestHandler создает новый обработчик каталога тестов
func NewTestHandler(testService *service.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

// ListTests возвращает все доступные тесты (без вопросов)
// GET /api/tests
func (h *TestHandler) ListTests(c *gin.Context) {
	tests, err := h.testService.ListTests()
	if err != nil {
		log.Printf("ERROR: Internal server error in TestHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	items := make([]*dto.TestResponse, 0, len(tests))
	for i := range tests {
		items = append(items, dto.NewTestResponse(&tests[i], nil))
	}
	c.JSON(http.StatusOK, gin.H{"tests": items})
}

// GetTest возвращает тест вместе с вопросами (без правильных ответов)
// GET /api/tests/:code
func (h *TestHandler) GetTest(c *gin.Context) {
	code := c.Param("code")

	test, questions, err := h.testService.GetTestWithQuestions(code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("ERROR: Internal server error in TestHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.NewTestResponse(test, questions))
}
