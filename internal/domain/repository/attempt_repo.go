package repository

import (
	"context"
	"time"

	"github.com/yourusername/assessment-api/internal/domain/entity"
)

// AttemptRepository определяет методы для хранения незавершённых попыток
type AttemptRepository interface {
	// Save сохраняет попытку с TTL; истекший TTL означает,
	// что попытка брошена и может быть удалена хранилищем
	Save(ctx context.Context, attempt *entity.Attempt, ttl time.Duration) error
	Get(ctx context.Context, id string) (*entity.Attempt, error)
	Delete(ctx context.Context, id string) error
}
