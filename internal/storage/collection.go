package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Collection persists a named list as a JSON array under one key.
type Collection[T any] struct {
	store Store
	key   string
	log   *zap.Logger
}

func NewCollection[T any](store Store, key string, log *zap.Logger) *Collection[T] {
	return &Collection[T]{store: store, key: key, log: log}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load never fails: a missing key, an unreadable store or malformed JSON all yield an
// empty list, the last two with a warning.
func (c *Collection[T]) Load(ctx context.Context) []T {
	data, err := c.store.Get(ctx, c.key)
	if errors.Is(err, ErrNotFound) {
		return []T{}
	}
	if err != nil {
		c.log.Warn("could not load collection from storage", zap.String("key", c.key), zap.Error(err))
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.log.Warn("malformed collection in storage, starting empty", zap.String("key", c.key), zap.Error(err))
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", c.key, err)
	}
	return c.store.Set(ctx, c.key, data)
}

// Value persists a single JSON-encoded value under one key.
type Value[T any] struct {
	store Store
	key   string
	log   *zap.Logger
}

func NewValue[T any](store Store, key string, log *zap.Logger) *Value[T] {
	return &Value[T]{store: store, key: key, log: log}
}

// Load reports false when the key is absent or its content cannot be decoded.
func (v *Value[T]) Load(ctx context.Context) (T, bool) {
	var out T
	data, err := v.store.Get(ctx, v.key)
	if errors.Is(err, ErrNotFound) {
		return out, false
	}
	if err != nil {
		v.log.Warn("could not load value from storage", zap.String("key", v.key), zap.Error(err))
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		v.log.Warn("malformed value in storage, ignoring", zap.String("key", v.key), zap.Error(err))
		var zero T
		return zero, false
	}
	return out, true
}

func (v *Value[T]) Save(ctx context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", v.key, err)
	}
	return v.store.Set(ctx, v.key, data)
}

func (v *Value[T]) Remove(ctx context.Context) error {
	return v.store.Delete(ctx, v.key)
}
