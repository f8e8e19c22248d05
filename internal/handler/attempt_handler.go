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

// AttemptHandler обрабатывает жизненный цикл попытки теста
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler создает новый обработчик попыток
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// StartAttemptRequest представляет запрос на старт попытки
type StartAttemptRequest struct {
	TestCode string `json:"test_code" binding:"required"`
}

// SelectAnswerRequest представляет выбор варианта для вопроса.
// OptionIndex = -1 снимает выбор.
type SelectAnswerRequest struct {
	QuestionCode string `json:"question_code" binding:"required"`
	OptionIndex  *int   `json:"option_index" binding:"required"`
}

// StartAttempt начинает новую попытку теста
// POST /api/attempts
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req StartAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, test, questions, err := h.attemptService.StartAttempt(c.Request.Context(), userID, req.TestCode)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"attempt": dto.NewAttemptResponse(attempt),
		"test":    dto.NewTestResponse(test, questions),
	})
}

// GetAttempt возвращает текущее состояние попытки
// GET /api/attempts/:id
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	attemptID := c.Param("id")

	attempt, err := h.attemptService.GetAttempt(c.Request.Context(), userID, attemptID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempt": dto.NewAttemptResponse(attempt)})
}

// SelectAnswer записывает выбор варианта для вопроса попытки
// PUT /api/attempts/:id/answers
func (h *AttemptHandler) SelectAnswer(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	attemptID := c.Param("id")

	var req SelectAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, err := h.attemptService.SelectAnswer(c.Request.Context(), userID, attemptID, req.QuestionCode, *req.OptionIndex)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempt": dto.NewAttemptResponse(attempt)})
}

// SubmitAttempt завершает попытку и возвращает результат
// POST /api/attempts/:id/submit
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	attemptID := c.Param("id")

	result, err := h.attemptService.SubmitAttempt(c.Request.Context(), userID, attemptID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": dto.NewResultResponse(result)})
}

// handleAttemptError преобразует ошибки сервиса в HTTP-ответы
func (h *AttemptHandler) handleAttemptError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrAttemptExpired) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "attempt_expired"})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in AttemptHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
