package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/logger"
)

func init() {
	logger.Init("test")
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := NewConfig(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	m, err := NewManager(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestNewConfig(t *testing.T) {
	t.Run("sqlite by default", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "")
		cfg, err := NewConfig("/var/lib/finance")
		require.NoError(t, err)
		assert.Equal(t, DriverSQLite, cfg.Driver)
		assert.Equal(t, "/var/lib/finance/finance.db", cfg.SQLitePath())
		assert.Equal(t, "/var/lib/finance/finance.db?_foreign_keys=on", cfg.DSN())
		assert.Equal(t, "sqlite3:///var/lib/finance/finance.db", cfg.MigrationURL())
	})

	t.Run("postgres", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "postgres")
		t.Setenv("DB_HOST", "db")
		t.Setenv("DB_USER", "ledger")
		t.Setenv("DB_PASSWORD", "pw")
		t.Setenv("DB_NAME", "ledger")
		cfg, err := NewConfig("")
		require.NoError(t, err)
		assert.Equal(t, "host=db port=5432 user=ledger password=pw dbname=ledger sslmode=disable", cfg.DSN())
		assert.Equal(t, "postgres://ledger:pw@db:5432/ledger?sslmode=disable", cfg.MigrationURL())
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		_, err := NewConfig("")
		assert.Error(t, err)
	})
}

func TestMigrations(t *testing.T) {
	m := newTestManager(t)

	version, dirty, err := m.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)

	require.NoError(t, m.RunMigrations())
	require.NoError(t, m.RunMigrations(), "re-running is a no-op")

	version, dirty, err = m.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	for _, table := range []string{"categories", "expenses", "budgets", "audit_logs"} {
		assert.True(t, m.DB().Migrator().HasTable(table), table)
	}
	_, err = os.Stat(m.Config().SQLitePath())
	assert.NoError(t, err)

	require.NoError(t, m.RollbackMigrations(1))
	assert.False(t, m.DB().Migrator().HasTable("expenses"))

	version, _, err = m.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
}
