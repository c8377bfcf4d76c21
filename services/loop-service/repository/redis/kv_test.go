package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loop/pkg/logger"
	"loop/pkg/redis"
	"loop/services/loop-service/domain/repository"
)

func setupRepository(t *testing.T) (repository.KeyValue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := redis.New(redis.WithAddrs(mr.Addr()))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewKeyValueRepository(client, "loop:", logger.NoOpLogger()), mr
}

func TestKeyValue_SetGetDelete(t *testing.T) {
	repo, mr := setupRepository(t)
	ctx := context.Background()

	_, found, err := repo.Get(ctx, "users")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Set(ctx, "users", `[{"id":1}]`))

	raw, err := mr.Get("loop:users")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, raw)
	assert.Zero(t, mr.TTL("loop:users"), "documents never expire")

	value, found, err := repo.Get(ctx, "users")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":1}]`, value)

	require.NoError(t, repo.Delete(ctx, "users"))
	assert.False(t, mr.Exists("loop:users"))
}

func TestKeyValue_ServerDown(t *testing.T) {
	repo, mr := setupRepository(t)
	mr.Close()

	_, _, err := repo.Get(context.Background(), "users")
	assert.Error(t, err)

	err = repo.Set(context.Background(), "users", "[]")
	assert.Error(t, err)
}

func TestKeyValue_SetIfAbsent(t *testing.T) {
	repo, mr := setupRepository(t)
	ctx := context.Background()

	claimed, err := repo.SetIfAbsent(ctx, "seed_lock", "first")
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.SetIfAbsent(ctx, "seed_lock", "second")
	require.NoError(t, err)
	assert.False(t, claimed)

	raw, err := mr.Get("loop:seed_lock")
	require.NoError(t, err)
	assert.Equal(t, "first", raw)
	assert.Zero(t, mr.TTL("loop:seed_lock"))

	mr.Close()
	_, err = repo.SetIfAbsent(ctx, "seed_lock", "third")
	assert.Error(t, err)
}
