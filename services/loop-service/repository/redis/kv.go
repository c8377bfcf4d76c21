// Package redis stores documents as plain Redis string keys
package redis

import (
	"context"
	"fmt"

	"loop/pkg/logger"
	"loop/pkg/redis"
	"loop/services/loop-service/domain/repository"
)

type keyValueRepository struct {
	client redis.RedisClient
	prefix string
	logger logger.LoggerInterface
}

// NewKeyValueRepository namespaces every key with prefix, for example "loop:".
func NewKeyValueRepository(client redis.RedisClient, prefix string, logger logger.LoggerInterface) repository.KeyValue {
	return &keyValueRepository{client: client, prefix: prefix, logger: logger}
}

func (r *keyValueRepository) Get(ctx context.Context, key string) (string, bool, error) {
	value, found, err := r.client.Lookup(ctx, r.prefix+key)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to read key", "key", r.prefix+key, "error", err)
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, found, nil
}

func (r *keyValueRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0); err != nil {
		r.logger.ErrorContext(ctx, "Failed to write key", "key", r.prefix+key, "error", err)
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (r *keyValueRepository) SetIfAbsent(ctx context.Context, key, value string) (bool, error) {
	set, err := r.client.SetNX(ctx, r.prefix+key, value, 0)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to claim key", "key", r.prefix+key, "error", err)
		return false, fmt.Errorf("failed to claim key %q: %w", key, err)
	}
	return set, nil
}

func (r *keyValueRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}
