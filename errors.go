package bookshelf

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeUserNotFound       = "bookshelf_user_not_found"
	TextCodeRecordNotFound     = "bookshelf_record_not_found"
	TextCodeBadCredentials     = "bookshelf_bad_credentials"
	TextCodeNoBearerToken      = "bookshelf_no_bearer_token"
	TextCodeSessionNotFound    = "bookshelf_session_not_found"
	TextCodeUserMismatch       = "bookshelf_user_mismatch"
	TextCodeDuplicateRecord    = "bookshelf_duplicate_record"
	TextCodeUnresolvedRef      = "bookshelf_unresolved_reference"
	TextCodeConcurrentUpdate   = "bookshelf_concurrent_update"
	TextCodeSigningKeyMissing  = "bookshelf_signing_key_missing"
	TextCodeTokenExpired       = "bookshelf_token_expired"
	TextCodeTokenMalformed     = "bookshelf_token_malformed"
	TextCodeMalformedRequest   = "bookshelf_malformed_request"
)

// ErrUserNotFound is returned when the named user does not exist.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrRecordNotFound is returned when an edit or lookup targets a record
// that does not exist.
var ErrRecordNotFound = errors.New("record not found", errors.CategoryNotFound).
	WithTextCode(TextCodeRecordNotFound).
	WithCode(errors.CodeNotFound)

// ErrBadCredentials is returned on a password mismatch.
var ErrBadCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrNoBearerToken is returned when the Authorization header is absent or
// carries no bearer token.
var ErrNoBearerToken = errors.New("missing bearer token", errors.CategoryAuth).
	WithTextCode(TextCodeNoBearerToken).
	WithCode(errors.CodeUnauthorized)

// ErrSessionNotFound is returned when a presented token has no active
// session.
var ErrSessionNotFound = errors.New("no active session for token", errors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrUserMismatch is returned when a valid session belongs to a different
// user than the one the request claims.
var ErrUserMismatch = errors.New("token does not match user", errors.CategoryAuthz).
	WithTextCode(TextCodeUserMismatch).
	WithCode(errors.CodeForbidden)

// ErrDuplicateRecord is returned when a create violates a uniqueness
// invariant.
var ErrDuplicateRecord = errors.New("record already exists", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateRecord).
	WithCode(errors.CodeConflict)

// ErrUnresolvedReference is returned when a request names a group, author,
// or genre that does not exist.
var ErrUnresolvedReference = errors.New("referenced record does not exist", errors.CategoryBadInput).
	WithTextCode(TextCodeUnresolvedRef).
	WithCode(errors.CodeNotFound)

// ErrConcurrentUpdate is returned when the target record changed or
// disappeared while an edit was in flight.
var ErrConcurrentUpdate = errors.New("record modified concurrently", errors.CategoryConflict).
	WithTextCode(TextCodeConcurrentUpdate).
	WithCode(errors.CodeConflict)

// ErrSigningKeyMissing is returned when the signing key cannot be loaded.
var ErrSigningKeyMissing = errors.New("signing key unavailable", errors.CategoryInternal).
	WithTextCode(TextCodeSigningKeyMissing).
	WithCode(errors.CodeInternal)

// ErrTokenExpired is returned for tokens past their expiry.
var ErrTokenExpired = errors.New("token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail to parse or verify.
var ErrTokenMalformed = errors.New("token malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrMalformedRequest is returned when a request body cannot be parsed
// into the expected shape.
var ErrMalformedRequest = errors.New("malformed request body", errors.CategoryBadInput).
	WithTextCode(TextCodeMalformedRequest).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is reported when bcrypt comparison fails.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("cannot hash an empty string", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired") ||
		strings.Contains(err.Error(), "token expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
