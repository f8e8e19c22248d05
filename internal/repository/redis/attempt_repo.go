package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yourusername/assessment-api/internal/domain/entity"
	apperrors "github.com/yourusername/assessment-api/internal/pkg/errors"
)

// AttemptRepo реализует repository.AttemptRepository поверх Redis.
// Незавершённые попытки хранятся как JSON с TTL: брошенная попытка
// исчезает сама, без фоновой чистки.
type AttemptRepo struct {
	client redis.UniversalClient
}

// NewAttemptRepo создает новый репозиторий попыток
func NewAttemptRepo(client redis.UniversalClient) (*AttemptRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for AttemptRepo")
	}
	return &AttemptRepo{client: client}, nil
}

func attemptKey(id string) string {
	return "attempt:" + id
}

// Save сохраняет попытку с TTL
func (r *AttemptRepo) Save(ctx context.Context, attempt *entity.Attempt, ttl time.Duration) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, attemptKey(attempt.ID), data, ttl).Err()
}

// Get возвращает попытку по идентификатору
func (r *AttemptRepo) Get(ctx context.Context, id string) (*entity.Attempt, error) {
	data, err := r.client.Get(ctx, attemptKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	var attempt entity.Attempt
	if err := json.Unmarshal(data, &attempt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

// Delete удаляет попытку
func (r *AttemptRepo) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, attemptKey(id)).Err()
}
