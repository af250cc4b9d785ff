package bookshelf

import (
	"github.com/goliatone/go-router"
)

// AuthMiddlewareConfig drives the route protection middleware.
type AuthMiddlewareConfig struct {
	Tokens TokenService
	// ParamName is the route parameter carrying the claimed username.
	// Empty means the route carries no identity claim and only the token
	// itself is checked.
	ParamName string
	// ContextKey is where the session username is stored for handlers.
	ContextKey string
	// ErrorHandler renders auth failures. Defaults to writing the mapped
	// status code and error body.
	ErrorHandler func(ctx router.Context, err error) error
}

// Protected returns a middleware that rejects requests lacking a live
// session. The token must carry a valid signature, must not be expired,
// and must map to the username the route claims to act for.
func Protected(auth *Auther, cfg AuthMiddlewareConfig) router.MiddlewareFunc {
	if cfg.ContextKey == "" {
		cfg.ContextKey = "session_user"
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = RenderError
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			header := ctx.GetString("Authorization", "")

			if cfg.Tokens != nil {
				raw := ExtractBearerToken(header)
				if raw == "" {
					return cfg.ErrorHandler(ctx, ErrNoBearerToken)
				}
				if err := cfg.Tokens.Validate(raw); err != nil {
					return cfg.ErrorHandler(ctx, err)
				}
			}

			claimed := ""
			if cfg.ParamName != "" {
				claimed = ctx.Param(cfg.ParamName)
			}

			username, err := auth.SessionUser(header, claimed)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, username)
			return next(ctx)
		}
	}
}
