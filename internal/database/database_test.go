package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmint/inkwell/internal/config"
)

func TestOpen(t *testing.T) {
	t.Run("sqlite driver is registered", func(t *testing.T) {
		db, err := open(config.Database{Driver: "sqlite"}, "file::memory:?cache=shared")
		require.NoError(t, err)
		require.NotNil(t, db)
		assert.NoError(t, db.Close())
	})

	t.Run("postgres opens lazily", func(t *testing.T) {
		db, err := open(config.Database{Driver: "postgres"}, "postgres://localhost:5432/inkwell")
		require.NoError(t, err)
		require.NotNil(t, db)
		assert.NoError(t, db.Close())
	})

	t.Run("unsupported driver", func(t *testing.T) {
		_, err := open(config.Database{Driver: "oracle"}, "oracle://x")
		require.Error(t, err)
	})

	t.Run("empty dsn", func(t *testing.T) {
		_, err := open(config.Database{Driver: "postgres"}, "")
		require.Error(t, err)
	})
}
