package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"proximart/webclient/internal/model"
)

// RedisDraftStore keeps each draft as a hash of item name to quantity.
type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{client: client, ttl: ttl}
}

func (s *RedisDraftStore) SetQuantities(ctx context.Context, key model.DraftKey, edits []model.DraftEdit) error {
	k := redisDraftKey(key)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, edit := range edits {
			pipe.HSet(ctx, k, edit.Item, edit.Quantity)
		}
		pipe.Expire(ctx, k, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("repository/redis: set draft: %w", err)
	}
	return nil
}

func (s *RedisDraftStore) Load(ctx context.Context, key model.DraftKey) (model.DraftSelection, error) {
	fields, err := s.client.HGetAll(ctx, redisDraftKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("repository/redis: load draft: %w", err)
	}

	draft := make(model.DraftSelection, len(fields))
	for name, raw := range fields {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("repository/redis: draft line %q: %w", name, err)
		}
		draft[name] = qty
	}
	return draft, nil
}

func (s *RedisDraftStore) Clear(ctx context.Context, key model.DraftKey) error {
	if err := s.client.Del(ctx, redisDraftKey(key)).Err(); err != nil {
		return fmt.Errorf("repository/redis: clear draft: %w", err)
	}
	return nil
}

func redisDraftKey(key model.DraftKey) string {
	return "draft:" + key.SessionID + ":" + key.SupplierID
}
