package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
	"github.com/yourusername/assessment-api/pkg/auth"
)

// ============================================================================
// Тесты для AuthService
// ============================================================================

func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret", 1)
	require.NoError(t, err)
	return jwtService
}

func TestAuthService_RegisterUser_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)

	// Пользователь не существует
	mockUserRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.User).ID = 1
		}).
		Return(nil)

	authService, err := NewAuthService(mockUserRepo, newTestJWTService(t))
	require.NoError(t, err)

	// Act
	user, token, err := authService.RegisterUser(RegisterInput{
		Name:     "Rahul Sharma",
		Email:    "New@Example.com",
		Password: "password123",
		Course:   "BTech CSE",
	})

	// Assert
	require.NoError(t, err, "Регистрация должна быть успешной")
	assert.NotNil(t, user, "Пользователь должен быть создан")
	assert.Equal(t, "Rahul Sharma", user.Name)
	assert.Equal(t, "new@example.com", user.Email, "Email должен быть нормализован")
	assert.NotEmpty(t, token, "Токен должен быть выдан сразу после регистрации")
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_DuplicateEmail(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	existingUser := &entity.User{ID: 1, Name: "Existing", Email: "existing@example.com"}
	mockUserRepo.On("GetByEmail", "existing@example.com").Return(existingUser, nil)

	authService, err := NewAuthService(mockUserRepo, newTestJWTService(t))
	require.NoError(t, err)

	// Act
	user, token, err := authService.RegisterUser(RegisterInput{
		Name:     "Another",
		Email:    "existing@example.com",
		Password: "password123",
	})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "Повторный email должен давать конфликт")
	assert.Nil(t, user)
	assert.Empty(t, token)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_Validation(t *testing.T) {
	authService, err := NewAuthService(new(MockUserRepository), newTestJWTService(t))
	require.NoError(t, err)

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"пустое имя", RegisterInput{Name: "  ", Email: "a@b.com", Password: "password123"}},
		{"некорректный email", RegisterInput{Name: "A", Email: "not-an-email", Password: "password123"}},
		{"короткий пароль", RegisterInput{Name: "A", Email: "a@b.com", Password: "123"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := authService.RegisterUser(tc.input)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestAuthService_LoginUser_Success(t *testing.T) {
	// Arrange
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", "student@example.com").Return(&entity.User{
		ID:       7,
		Name:     "Student",
		Email:    "student@example.com",
		Password: string(hashed),
	}, nil)

	authService, err := NewAuthService(mockUserRepo, newTestJWTService(t))
	require.NoError(t, err)

	// Act
	user, token, err := authService.LoginUser("Student@Example.com", "password123")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.NotEmpty(t, token)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser_WrongPassword(t *testing.T) {
	// Arrange
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", "student@example.com").Return(&entity.User{
		ID:       7,
		Email:    "student@example.com",
		Password: string(hashed),
	}, nil)

	authService, err := NewAuthService(mockUserRepo, newTestJWTService(t))
	require.NoError(t, err)

	// Act
	_, _, err = authService.LoginUser("student@example.com", "wrong-password")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_LoginUser_UnknownEmail(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	authService, err := NewAuthService(mockUserRepo, newTestJWTService(t))
	require.NoError(t, err)

	// Act
	_, _, err = authService.LoginUser("ghost@example.com", "password123")

	// Assert
	// Неизвестный email и неверный пароль дают одну и ту же ошибку
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
