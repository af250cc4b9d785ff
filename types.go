package bookshelf

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// SessionStore maps issued tokens to usernames. Implementations must be
// safe for concurrent use; entries expire and are treated as absent after
// their deadline.
type SessionStore interface {
	Put(token, username string, expiresAt time.Time)
	Get(token string) (string, bool)
	Delete(token string)
	DeleteUser(username string) int
	Len() int
}

// TokenService issues and validates signed bearer tokens.
type TokenService interface {
	Issue(username string) (string, error)
	Validate(raw string) error
}

// Authenticator holds the account-facing authentication operations.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Register(ctx context.Context, req CreateAccountRequest) (*LoginResult, error)
	AuthenticateRequest(authHeader, claimedUsername string) error
	Logout(authHeader, claimedUsername string) error
}

// LoginResult is returned from Login and Register.
type LoginResult struct {
	User  *User
	Token string
}

// Config holds runtime options for the service.
type Config interface {
	GetSigningKey() []byte
	GetTokenTTL() time.Duration
	GetIssuer() string
	GetAudience() []string
	GetAuthScheme() string
	GetContextKey() string
	GetDSN() string
	GetListenAddr() string
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] BOOKSHELF "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] BOOKSHELF "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] BOOKSHELF "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] BOOKSHELF "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
