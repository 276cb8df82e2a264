package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/result"
)

// Envelope is the body of every API response.
type Envelope struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	Data          any    `json:"data,omitempty"`
	Error         string `json:"error,omitempty"`
}

func respond[T any](c echo.Context, r result.Result[T]) error {
	code := r.Status.HTTPCode()
	env := Envelope{StatusCode: code, StatusMessage: http.StatusText(code)}

	if r.OK() {
		if r.Message != "" {
			env.StatusMessage = r.Message
		}
		if _, empty := any(r.Data).(struct{}); !empty {
			env.Data = r.Data
		}
	} else {
		env.Error = r.Message
	}
	return c.JSON(code, env)
}

// ErrorHandler renders errors returned by handlers and middleware in the
// response envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	} else {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", code, "error", err)
	}

	env := Envelope{StatusCode: code, StatusMessage: http.StatusText(code), Error: msg}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, env)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
