package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	"github.com/yourusername/assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
	"github.com/yourusername/assessment-api/internal/service/assessment"
)

// AssistantService отвечает на свободные вопросы студента, опираясь
// на его историю результатов. Диалог stateless: каждый запрос
// обрабатывается независимо.
type AssistantService struct {
	userRepo   repository.UserRepository
	resultRepo repository.ResultRepository
}

// NewAssistantService создает новый сервис ассистента
func NewAssistantService(userRepo repository.UserRepository, resultRepo repository.ResultRepository) (*AssistantService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AssistantService")
	}
	if resultRepo == nil {
		return nil, fmt.Errorf("ResultRepository is required for AssistantService")
	}
	return &AssistantService{
		userRepo:   userRepo,
		resultRepo: resultRepo,
	}, nil
}

// Reply строит ответ ассистента на сообщение пользователя
func (s *AssistantService) Reply(userID uint, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: message is empty", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", err
	}

	history, err := s.resultRepo.GetAllUserResults(userID)
	if err != nil {
		return "", err
	}

	return assessment.Respond(message, history, firstName(user)), nil
}

// firstName возвращает имя без фамилии для обращения в ответах
func firstName(user *entity.User) string {
	name := strings.TrimSpace(user.Name)
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}
