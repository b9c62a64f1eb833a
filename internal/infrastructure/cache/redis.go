// Package cache adaptadores Redis: caché de códigos de organizador y límite de intentos de verificación.
// Con cliente nil todas las operaciones degradan a "sin caché" y "sin límite".
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/talent-invoice/internal/application/account"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/pkg/config"
)

const (
	organizerKeyFmt = "orgcode:%s"
	attemptsKeyFmt  = "orgcode:attempts:%s"

	DefaultOrganizerTTL  = 10 * time.Minute
	DefaultMaxAttempts   = 10
	DefaultAttemptWindow = 15 * time.Minute
)

var (
	_ account.CodeCache      = (*OrganizerCodeCache)(nil)
	_ account.AttemptLimiter = (*AttemptLimiter)(nil)
)

// NewClient conecta a Redis. Si el ping falla cierra el cliente y devuelve error;
// el llamador sigue sin caché.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

type cachedOrganizer struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	OrganizerCode string    `json:"organizer_code"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrganizerCodeCache guarda el organizador resuelto por código normalizado.
type OrganizerCodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOrganizerCodeCache ttl <= 0 usa DefaultOrganizerTTL.
func NewOrganizerCodeCache(client *redis.Client, ttl time.Duration) *OrganizerCodeCache {
	if ttl <= 0 {
		ttl = DefaultOrganizerTTL
	}
	return &OrganizerCodeCache{client: client, ttl: ttl}
}

// GetOrganizer devuelve (nil, nil) si la clave no existe.
func (c *OrganizerCodeCache) GetOrganizer(ctx context.Context, code string) (*entity.Organizer, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, fmt.Sprintf(organizerKeyFmt, code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var co cachedOrganizer
	if err := json.Unmarshal(data, &co); err != nil {
		return nil, fmt.Errorf("decodificar organizador en caché: %w", err)
	}
	return &entity.Organizer{
		ID:            co.ID,
		UserID:        co.UserID,
		Name:          co.Name,
		Email:         co.Email,
		OrganizerCode: co.OrganizerCode,
		CreatedAt:     co.CreatedAt,
	}, nil
}

func (c *OrganizerCodeCache) SetOrganizer(ctx context.Context, org *entity.Organizer) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(cachedOrganizer{
		ID:            org.ID,
		UserID:        org.UserID,
		Name:          org.Name,
		Email:         org.Email,
		OrganizerCode: org.OrganizerCode,
		CreatedAt:     org.CreatedAt,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fmt.Sprintf(organizerKeyFmt, org.OrganizerCode), data, c.ttl).Err()
}

func (c *OrganizerCodeCache) DeleteOrganizer(ctx context.Context, code string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, fmt.Sprintf(organizerKeyFmt, code)).Err()
}

// AttemptLimiter ventana fija por actor: INCR + EXPIRE en el primer fallo.
type AttemptLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewAttemptLimiter maxAttempts <= 0 y window <= 0 usan los valores por defecto.
func NewAttemptLimiter(client *redis.Client, maxAttempts int, window time.Duration) *AttemptLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultAttemptWindow
	}
	return &AttemptLimiter{client: client, max: maxAttempts, window: window}
}

// Blocked informa si el actor agotó sus intentos en la ventana actual.
func (l *AttemptLimiter) Blocked(ctx context.Context, actorID string) (bool, error) {
	if l == nil || l.client == nil {
		return false, nil
	}
	n, err := l.client.Get(ctx, fmt.Sprintf(attemptsKeyFmt, actorID)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= l.max, nil
}

func (l *AttemptLimiter) RecordFailure(ctx context.Context, actorID string) error {
	if l == nil || l.client == nil {
		return nil
	}
	key := fmt.Sprintf(attemptsKeyFmt, actorID)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return l.client.Expire(ctx, key, l.window).Err()
	}
	return nil
}
