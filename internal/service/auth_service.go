package service

import (
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	"github.com/yourusername/assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
	"github.com/yourusername/assessment-api/pkg/auth"
)

// AuthService предоставляет методы для регистрации и аутентификации студентов
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}, nil
}

// RegisterInput содержит все данные для регистрации
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Course   string
}

// RegisterUser регистрирует нового студента и возвращает его вместе с токеном доступа
func (s *AuthService) RegisterUser(input RegisterInput) (*entity.User, string, error) {
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	input.Course = strings.TrimSpace(input.Course)

	if input.Name == "" {
		return nil, "", fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, "", fmt.Errorf("%w: invalid email address", apperrors.ErrValidation)
	}
	if len(input.Password) < 6 {
		return nil, "", fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}

	// Проверяем, что email свободен
	existing, err := s.userRepo.GetByEmail(input.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", fmt.Errorf("%w: email is already registered", apperrors.ErrConflict)
	}

	user := &entity.User{
		Name:       input.Name,
		Email:      input.Email,
		Password:   input.Password, // хешируется в BeforeSave
		Course:     input.Course,
		EnrolledAt: time.Now(),
	}

	if err := s.userRepo.Create(user); err != nil {
		// Гонка с параллельной регистрацией на тот же email
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, "", fmt.Errorf("%w: email is already registered", apperrors.ErrConflict)
		}
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	log.Printf("[AuthService] Зарегистрирован новый студент ID=%d, Email=%s", user.ID, user.Email)
	return user, token, nil
}

// LoginUser проверяет учетные данные и возвращает пользователя вместе с токеном.
// При неверном email и неверном пароле возвращается одна и та же ошибка,
// чтобы не раскрывать, какие адреса зарегистрированы.
func (s *AuthService) LoginUser(email, password string) (*entity.User, string, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, "", err
	}

	if !user.CheckPassword(password) {
		return nil, "", fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetProfile возвращает профиль пользователя по ID
func (s *AuthService) GetProfile(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// normalizeEmail приводит email к каноническому виду
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
