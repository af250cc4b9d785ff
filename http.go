package bookshelf

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// ErrorStatus maps an error to the HTTP status code the boundary should
// write. Rich errors carry their own code; validation failures are bad
// input; anything unrecognized is an internal error.
func ErrorStatus(err error) int {
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Code > 0 {
		return int(richErr.Code)
	}

	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		return router.StatusBadRequest
	}

	return router.StatusInternalServerError
}

// RenderError writes the error response for a failed request.
func RenderError(ctx router.Context, err error) error {
	status := ErrorStatus(err)

	body := map[string]any{
		"error": err.Error(),
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode != "" {
		body["code"] = richErr.TextCode
	}

	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		body["fields"] = vErrs
	}

	return ctx.JSON(status, body)
}
