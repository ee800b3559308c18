package database

import (
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-menu-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      DatabaseConfig
		expected string
	}{
		{
			name:     "sqlite defaults to memory",
			cfg:      DatabaseConfig{Driver: "sqlite"},
			expected: ":memory:?_foreign_keys=on",
		},
		{
			name:     "sqlite file",
			cfg:      DatabaseConfig{Driver: "sqlite", Path: "menu.sqlite"},
			expected: "menu.sqlite?_foreign_keys=on",
		},
		{
			name:     "sqlite path with query",
			cfg:      DatabaseConfig{Path: "menu.sqlite?cache=shared"},
			expected: "menu.sqlite?cache=shared&_foreign_keys=on",
		},
		{
			name:     "sqlite path already enabling foreign keys",
			cfg:      DatabaseConfig{Path: "menu.sqlite?_foreign_keys=1"},
			expected: "menu.sqlite?_foreign_keys=1",
		},
		{
			name:     "postgres url wins",
			cfg:      DatabaseConfig{Driver: "postgres", URL: "postgres://menu@db/menu", Host: "ignored"},
			expected: "postgres://menu@db/menu",
		},
		{
			name: "postgres fields",
			cfg: DatabaseConfig{
				Driver: "PostgreSQL", Host: "db", User: "menu", Password: "secret",
				Name: "menu", Port: "5432", SSLMode: "disable",
			},
			expected: "host=db user=menu password=secret dbname=menu port=5432 sslmode=disable",
		},
		{
			name:     "unknown driver",
			cfg:      DatabaseConfig{Driver: "mysql"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.DSN())
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(&config.Config{DBDriver: "postgres", DatabaseURL: "postgres://x", DBHost: "db", DBPassword: "secret", DBPath: "menu.sqlite"})
	assert.Equal(t, "postgres", cfg.Driver)
	assert.Equal(t, "postgres://x", cfg.URL)
	assert.Equal(t, "db", cfg.Host)
	assert.Equal(t, "menu.sqlite", cfg.Path)
	assert.NotContains(t, cfg.String(), "secret")
}

func TestInitDatabase(t *testing.T) {
	original := retryDelays
	retryDelays = []time.Duration{time.Millisecond}
	t.Cleanup(func() { retryDelays = original })

	t.Run("sqlite in memory", func(t *testing.T) {
		db, err := InitDatabase(DatabaseConfig{Driver: "sqlite"})
		require.NoError(t, err)
		require.NoError(t, Migrate(db))

		for _, model := range Models() {
			assert.True(t, db.Migrator().HasTable(model), "%T", model)
		}

		var enabled int
		require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
		assert.Equal(t, 1, enabled)
	})

	t.Run("unsupported driver", func(t *testing.T) {
		_, err := InitDatabase(DatabaseConfig{Driver: "mysql"})
		assert.ErrorContains(t, err, "unsupported database driver")
	})
}
