package bookshelf_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-bookshelf"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenServiceRequiresKey(t *testing.T) {
	sessions := bookshelf.NewMemorySessionStore()

	_, err := bookshelf.NewTokenService(testConfig{ttl: time.Minute}, sessions)
	require.Error(t, err)
	assert.ErrorIs(t, err, bookshelf.ErrSigningKeyMissing)
}

func TestTokenServiceIssue(t *testing.T) {
	sessions := bookshelf.NewMemorySessionStore()
	svc, err := bookshelf.NewTokenService(newTestConfig(), sessions)
	require.NoError(t, err)

	token, err := svc.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	t.Run("token is registered in the session store", func(t *testing.T) {
		username, ok := sessions.Get(token)
		assert.True(t, ok)
		assert.Equal(t, "alice", username)
	})

	t.Run("issued token validates", func(t *testing.T) {
		assert.NoError(t, svc.Validate(token))
	})

	t.Run("consecutive issues produce distinct tokens", func(t *testing.T) {
		second, err := svc.Issue("alice")
		require.NoError(t, err)
		assert.NotEqual(t, token, second)

		// both stay valid; signing in again does not revoke older tokens
		assert.NoError(t, svc.Validate(token))
		assert.NoError(t, svc.Validate(second))
	})
}

func TestTokenServiceValidate(t *testing.T) {
	sessions := bookshelf.NewMemorySessionStore()
	svc, err := bookshelf.NewTokenService(newTestConfig(), sessions)
	require.NoError(t, err)

	t.Run("tampered token is rejected", func(t *testing.T) {
		token, err := svc.Issue("alice")
		require.NoError(t, err)

		tampered := token[:len(token)-2] + "xx"
		err = svc.Validate(tampered)
		require.Error(t, err)

		var richErr *goerrors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, bookshelf.TextCodeTokenMalformed, richErr.TextCode)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		err := svc.Validate("not-a-jwt")
		require.Error(t, err)
		assert.True(t, bookshelf.IsMalformedError(err) || strings.Contains(err.Error(), "malformed"))
	})

	t.Run("token signed with a different key is rejected", func(t *testing.T) {
		other, err := bookshelf.NewTokenService(testConfig{
			key: []byte("some-other-key"),
			ttl: time.Minute,
		}, bookshelf.NewMemorySessionStore())
		require.NoError(t, err)

		token, err := other.Issue("alice")
		require.NoError(t, err)

		assert.Error(t, svc.Validate(token))
	})
}

func TestTokenServiceExpiry(t *testing.T) {
	current := time.Now()
	var mu sync.Mutex

	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(d)
	}

	sessions := bookshelf.NewMemorySessionStore(bookshelf.WithSessionClock(now))
	svc, err := bookshelf.NewTokenService(newTestConfig(), sessions,
		bookshelf.WithTokenClock(now),
	)
	require.NoError(t, err)

	token, err := svc.Issue("alice")
	require.NoError(t, err)
	require.NoError(t, svc.Validate(token))

	advance(31 * time.Minute)

	err = svc.Validate(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, bookshelf.ErrTokenExpired)

	// the session mirrors the token lifetime
	_, ok := sessions.Get(token)
	assert.False(t, ok)
}
