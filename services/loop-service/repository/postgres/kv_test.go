package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"loop/pkg/logger"
	"loop/services/loop-service/domain/repository"
)

func setupRepository(t *testing.T) (repository.KeyValue, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	return NewKeyValueRepository(db, logger.NoOpLogger()), mock
}

func TestKeyValue_Get(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "kv_entries" WHERE key = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}).
			AddRow("users", `[{"id":1}]`, time.Now()))

	value, found, err := repo.Get(context.Background(), "users")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":1}]`, value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyValue_Get_Missing(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "kv_entries" WHERE key = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}))

	value, found, err := repo.Get(context.Background(), "plans")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyValue_Get_Error(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "kv_entries"`).
		WillReturnError(errors.New("connection reset"))

	_, found, err := repo.Get(context.Background(), "sales")
	require.Error(t, err)
	assert.False(t, found)
	assert.Contains(t, err.Error(), `failed to read entry "sales"`)
}

func TestKeyValue_Set_Upserts(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectExec(`INSERT INTO "kv_entries" .* ON CONFLICT \("key"\) DO UPDATE SET "value"="excluded"."value","updated_at"="excluded"."updated_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Set(context.Background(), "contract_template", "Contrato {{CLIENTE}}"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyValue_Set_Error(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectExec(`INSERT INTO "kv_entries"`).WillReturnError(errors.New("disk full"))

	err := repo.Set(context.Background(), "users", "[]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestKeyValue_Delete(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectExec(`DELETE FROM "kv_entries" WHERE key = \$1`).
		WithArgs("seeded_v4").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "seeded_v4"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyValue_SetIfAbsent(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectExec(`INSERT INTO "kv_entries" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "kv_entries" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := repo.SetIfAbsent(context.Background(), "seed_lock", "first")
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.SetIfAbsent(context.Background(), "seed_lock", "second")
	require.NoError(t, err)
	assert.False(t, claimed, "an existing row is left alone")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyValue_SetIfAbsent_Error(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectExec(`INSERT INTO "kv_entries"`).WillReturnError(errors.New("connection reset"))

	claimed, err := repo.SetIfAbsent(context.Background(), "seed_lock", "first")
	require.Error(t, err)
	assert.False(t, claimed)
	assert.Contains(t, err.Error(), `failed to claim entry "seed_lock"`)
}
