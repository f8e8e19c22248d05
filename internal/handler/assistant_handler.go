package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
	"github.com/yourusername/assessment-api/internal/service"
	"github.com/yourusername/assessment-api/pkg/auth"
)

// AssistantHandler обрабатывает диалог с учебным ассистентом:
// одиночные сообщения через POST и интерактивный чат через WebSocket
type AssistantHandler struct {
	assistantService *service.AssistantService
	jwtService       *auth.JWTService

	// replyDelay — искусственная пауза перед ответом (имитация набора текста).
	// Применяется только в WebSocket-чате.
	replyDelay time.Duration
}

// NewAssistantHandler создает новый обработчик ассистента
func NewAssistantHandler(assistantService *service.AssistantService, jwtService *auth.JWTService, replyDelay time.Duration) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
		jwtService:       jwtService,
		replyDelay:       replyDelay,
	}
}

// MessageRequest представляет одно сообщение пользователя ассистенту
type MessageRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// Message обрабатывает одно сообщение и сразу возвращает ответ
// POST /api/assistant/message
func (h *AssistantHandler) Message(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.assistantService.Reply(userID, req.Message)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		log.Printf("ERROR: Internal server error in AssistantHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

var assistantUpgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Пустой Origin - не браузерный клиент (мобильное приложение, curl и т.д.)
		if origin == "" {
			return true
		}

		// Список разрешенных origin (синхронизирован с CORS в main.go)
		allowedOrigins := []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}
		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}

		log.Printf("WebSocket: rejected unauthorized origin: %s", origin)
		return false
	},
}

// wsChatMessage — кадр чата в обе стороны
type wsChatMessage struct {
	Sender string `json:"sender"` // "user" | "assistant"
	Text   string `json:"text"`
}

// HandleChat обрабатывает интерактивный чат с ассистентом.
// Токен передаётся query-параметром, т.к. браузерный WebSocket API
// не позволяет выставить заголовок Authorization.
// GET /ws/assistant?token=...
func (h *AssistantHandler) HandleChat(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication token parameter"})
		return
	}

	claims, err := h.jwtService.ParseToken(token)
	if err != nil {
		log.Printf("WebSocket: Invalid or expired token - %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := assistantUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Error upgrading connection: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("WebSocket: Assistant chat opened for UserID: %d", claims.UserID)

	for {
		var msg wsChatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if gorillaws.IsUnexpectedCloseError(err, gorillaws.CloseGoingAway, gorillaws.CloseNormalClosure) {
				log.Printf("WebSocket: unexpected close for UserID %d: %v", claims.UserID, err)
			}
			return
		}

		reply, err := h.assistantService.Reply(claims.UserID, msg.Text)
		if err != nil {
			if errors.Is(err, apperrors.ErrValidation) {
				continue // пустое сообщение молча пропускаем
			}
			log.Printf("WebSocket: assistant error for UserID %d: %v", claims.UserID, err)
			return
		}

		if h.replyDelay > 0 {
			time.Sleep(h.replyDelay)
		}

		if err := conn.WriteJSON(wsChatMessage{Sender: "assistant", Text: reply}); err != nil {
			return
		}
	}
}
