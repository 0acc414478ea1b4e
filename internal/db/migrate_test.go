package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateRunsSchemaFile(t *testing.T) {
	mock, d := newMock(t)

	path := filepath.Join(t.TempDir(), "schema.sql")
	require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE IF NOT EXISTS t (id int);"), 0o644))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS t").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), d, path))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateMissingFile(t *testing.T) {
	mock, d := newMock(t)

	err := Migrate(context.Background(), d, filepath.Join(t.TempDir(), "nope.sql"))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySchemaParses(t *testing.T) {
	// the schema shipped at the repository root must at least be readable
	b, err := os.ReadFile(filepath.Join("..", "..", "schema.sql"))
	require.NoError(t, err)
	for _, table := range []string{"users", "forums", "posts", "replies", "attachments", "sessions"} {
		assert.Contains(t, string(b), "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}

func newMock(t *testing.T) (sqlmock.Sqlmock, *sqlx.DB) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return mock, sqlx.NewDb(raw, "pgx")
}
