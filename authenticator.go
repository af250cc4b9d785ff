package bookshelf

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
)

const bearerScheme = "Bearer"

var _ Authenticator = (*Auther)(nil)

type Auther struct {
	users    Users
	sessions SessionStore
	tokens   TokenService
	logger   Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(users Users, sessions SessionStore, tokens TokenService) *Auther {
	return &Auther{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Login verifies credentials and issues a fresh token. An unknown user is
// reported as not found, a bad password as unauthorized; the two are
// distinct statuses at the boundary.
func (s *Auther) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("Login user lookup failed", "username", username, "error", err)
		return nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Warn("Login password mismatch", "username", username)
		return nil, ErrBadCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		s.logger.Error("Login token issue failed", "error", err)
		return nil, err
	}

	return &LoginResult{User: user, Token: token}, nil
}

// Register creates a new account and signs it in. A duplicate username is
// a conflict.
func (s *Auther) Register(ctx context.Context, req CreateAccountRequest) (*LoginResult, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		s.logger.Warn("Register create failed", "username", req.Username, "error", err)
		return nil, err
	}

	token, err := s.tokens.Issue(created.Username)
	if err != nil {
		s.logger.Error("Register token issue failed", "error", err)
		return nil, err
	}

	return &LoginResult{User: created, Token: token}, nil
}

// AuthenticateRequest confirms the bearer token in the Authorization
// header maps to the claimed username. A missing or malformed header and
// an unknown token are unauthorized; a session held by a different user
// is forbidden. Callers must stop processing on a non-nil return.
func (s *Auther) AuthenticateRequest(authHeader, claimedUsername string) error {
	token := ExtractBearerToken(authHeader)
	if token == "" {
		return ErrNoBearerToken
	}

	username, ok := s.sessions.Get(token)
	if !ok {
		return ErrSessionNotFound
	}

	if username != claimedUsername {
		return ErrUserMismatch
	}

	return nil
}

// SessionUser resolves the Authorization header to the session's
// username. When claimedUsername is non-empty the session must belong to
// that user.
func (s *Auther) SessionUser(authHeader, claimedUsername string) (string, error) {
	token := ExtractBearerToken(authHeader)
	if token == "" {
		return "", ErrNoBearerToken
	}

	username, ok := s.sessions.Get(token)
	if !ok {
		return "", ErrSessionNotFound
	}

	if claimedUsername != "" && username != claimedUsername {
		return "", ErrUserMismatch
	}

	return username, nil
}

// Logout drops the presented token from the session store. The token must
// belong to the user signing out.
func (s *Auther) Logout(authHeader, claimedUsername string) error {
	if err := s.AuthenticateRequest(authHeader, claimedUsername); err != nil {
		return err
	}

	s.sessions.Delete(ExtractBearerToken(authHeader))
	return nil
}

// RevokeUserSessions purges every active session for a username, used
// when an account is removed.
func (s *Auther) RevokeUserSessions(username string) int {
	return s.sessions.DeleteUser(username)
}

// ExtractBearerToken pulls the token out of an Authorization header
// value. The scheme match is case-insensitive and surrounding whitespace
// is trimmed; anything else yields the empty string.
func ExtractBearerToken(authHeader string) string {
	if authHeader == "" {
		return ""
	}

	prefix := bearerScheme + " "
	if len(authHeader) <= len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(authHeader[len(prefix):])
}

// IsAuthError reports whether err maps to an unauthorized or forbidden
// status.
func IsAuthError(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryAuth || richErr.Category == errors.CategoryAuthz
}
