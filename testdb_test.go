package bookshelf_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-bookshelf"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

var dbSeq atomic.Int64

// setupDB opens a private in-memory SQLite database and creates the
// schema. A single pooled connection keeps the database alive for the
// test's lifetime, and foreign keys are enforced so deletes exercise
// the cascades the schema declares.
func setupDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:bookshelf_test_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)",
		dbSeq.Add(1),
	)
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, bookshelf.CreateSchema(context.Background(), db))

	t.Cleanup(func() { db.Close() })

	return db
}

type testConfig struct {
	key []byte
	ttl time.Duration
}

func newTestConfig() testConfig {
	return testConfig{
		key: []byte("test-signing-key"),
		ttl: 30 * time.Minute,
	}
}

func (c testConfig) GetSigningKey() []byte      { return c.key }
func (c testConfig) GetTokenTTL() time.Duration { return c.ttl }
func (c testConfig) GetIssuer() string          { return "go-bookshelf" }
func (c testConfig) GetAudience() []string      { return []string{"bookshelf-clients"} }
func (c testConfig) GetAuthScheme() string      { return "Bearer" }
func (c testConfig) GetContextKey() string      { return "session_user" }
func (c testConfig) GetDSN() string             { return "" }
func (c testConfig) GetListenAddr() string      { return ":0" }

// seedUser registers an account with a hashed password directly through
// the user repository.
func seedUser(t *testing.T, repos bookshelf.RepositoryManager, username, password string) *bookshelf.User {
	t.Helper()

	hash, err := bookshelf.HashPassword(password)
	require.NoError(t, err)

	user, err := repos.Users().Create(context.Background(), &bookshelf.User{
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: hash,
	})
	require.NoError(t, err)

	return user
}

func seedAuthor(t *testing.T, repos bookshelf.RepositoryManager, first, last string) *bookshelf.Author {
	t.Helper()

	author, err := repos.Authors().Create(context.Background(), &bookshelf.Author{
		FirstName: first,
		LastName:  last,
	})
	require.NoError(t, err)

	return author
}

func seedGenre(t *testing.T, repos bookshelf.RepositoryManager, name string) *bookshelf.Genre {
	t.Helper()

	genre, err := repos.Genres().Create(context.Background(), &bookshelf.Genre{Name: name})
	require.NoError(t, err)

	return genre
}

func seedGroup(t *testing.T, repos bookshelf.RepositoryManager, username, name string) *bookshelf.Group {
	t.Helper()

	group, err := repos.Groups().Create(context.Background(), &bookshelf.Group{
		ParentUsername: username,
		Name:           name,
	})
	require.NoError(t, err)

	return group
}
