package bookshelf

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// newTokenID gives every token a unique jti so two tokens issued within
// the same second still differ.
func newTokenID() string {
	return uuid.NewString()
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	sessions   SessionStore
	logger     Logger
	now        func() time.Time
}

type TokenServiceOption func(*TokenServiceImpl)

// WithTokenClock overrides the clock, used by tests to step time.
func WithTokenClock(now func() time.Time) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if now != nil {
			ts.now = now
		}
	}
}

func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// NewTokenService creates a new TokenService instance. The signing key
// must be non-empty; its absence is a startup failure, not a per-request
// condition.
func NewTokenService(cfg Config, sessions SessionStore, opts ...TokenServiceOption) (*TokenServiceImpl, error) {
	if len(cfg.GetSigningKey()) == 0 {
		return nil, ErrSigningKeyMissing
	}

	ts := &TokenServiceImpl{
		signingKey: cfg.GetSigningKey(),
		ttl:        cfg.GetTokenTTL(),
		issuer:     cfg.GetIssuer(),
		audience:   jwt.ClaimStrings(cfg.GetAudience()),
		sessions:   sessions,
		logger:     defLogger{},
		now:        time.Now,
	}

	if ts.ttl <= 0 {
		ts.ttl = 30 * time.Minute
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts, nil
}

// Issue builds a signed token carrying issuer, audience, and expiry only.
// No user claims are embedded; the token to user binding lives in the
// session store, which Issue updates as a side effect.
func (ts *TokenServiceImpl) Issue(username string) (string, error) {
	now := ts.now()
	expiresAt := now.Add(ts.ttl)

	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	claims := &jwt.RegisteredClaims{
		Issuer:    ts.issuer,
		Audience:  aud,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        newTokenID(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	ts.sessions.Put(signed, username, expiresAt)

	return signed, nil
}

// Validate parses a raw token and verifies signature, expiry, issuer, and
// audience.
func (ts *TokenServiceImpl) Validate(raw string) error {
	parserOptions := make([]jwt.ParserOption, 0, 3)
	parserOptions = append(parserOptions, jwt.WithTimeFunc(ts.now))
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("Validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode).
			WithCode(ErrTokenMalformed.Code)
	}

	if !token.Valid {
		return ErrTokenMalformed
	}

	return nil
}
