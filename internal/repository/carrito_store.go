package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/pos"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const carritoKeyPrefix = "carrito:"

// CarritoStore keeps open carts between requests of a POS session.
type CarritoStore interface {
	Guardar(ctx context.Context, c *pos.Carrito) error
	Obtener(ctx context.Context, id uuid.UUID) (*pos.Carrito, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type redisCarritoStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCarritoStore stores carts as JSON strings; every save refreshes the TTL.
func NewCarritoStore(rdb *redis.Client, ttl time.Duration) CarritoStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &redisCarritoStore{rdb: rdb, ttl: ttl}
}

func carritoKey(id uuid.UUID) string { return carritoKeyPrefix + id.String() }

func (s *redisCarritoStore) Guardar(ctx context.Context, c *pos.Carrito) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("carrito: marshal: %w", err)
	}
	return s.rdb.Set(ctx, carritoKey(c.ID), data, s.ttl).Err()
}

func (s *redisCarritoStore) Obtener(ctx context.Context, id uuid.UUID) (*pos.Carrito, error) {
	data, err := s.rdb.Get(ctx, carritoKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var c pos.Carrito
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("carrito: unmarshal: %w", err)
	}
	if c.Items == nil {
		c.Items = []pos.Item{}
	}
	return &c, nil
}

func (s *redisCarritoStore) Eliminar(ctx context.Context, id uuid.UUID) error {
	return s.rdb.Del(ctx, carritoKey(id)).Err()
}
