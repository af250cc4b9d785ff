package bookshelf_test

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-bookshelf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecret(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("explicit DSN wins", func(t *testing.T) {
		t.Setenv(bookshelf.EnvSigningKeyFile, writeSecret(t, "key", "secret"))
		t.Setenv(bookshelf.EnvDatabaseDSN, "postgres://app@db:5432/bookshelf")

		cfg, err := bookshelf.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "postgres://app@db:5432/bookshelf", cfg.GetDSN())
	})

	t.Run("password with reserved characters survives the DSN", func(t *testing.T) {
		t.Setenv(bookshelf.EnvSigningKeyFile, writeSecret(t, "key", "secret"))
		t.Setenv(bookshelf.EnvDatabaseDSN, "")
		t.Setenv(bookshelf.EnvDatabasePass, writeSecret(t, "pass", "p@ss:w/rd?&\n"))
		t.Setenv(bookshelf.EnvDatabaseHost, "db.internal:5432")

		cfg, err := bookshelf.LoadConfig()
		require.NoError(t, err)

		parsed, err := url.Parse(cfg.GetDSN())
		require.NoError(t, err)

		password, ok := parsed.User.Password()
		require.True(t, ok)
		assert.Equal(t, "p@ss:w/rd?&", password)
		assert.Equal(t, "postgres", parsed.User.Username())
		assert.Equal(t, "db.internal:5432", parsed.Host)
		assert.Equal(t, "/bookshelf", parsed.Path)
	})

	t.Run("missing signing key is fatal", func(t *testing.T) {
		t.Setenv(bookshelf.EnvSigningKeyFile, "")

		_, err := bookshelf.LoadConfig()
		assert.Error(t, err)
	})
}
