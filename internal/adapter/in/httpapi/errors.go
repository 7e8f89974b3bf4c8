package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"commentboard/internal/service"
	"commentboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

const errorTemplate = "error.html"

// HTTPError carries a response status next to the message shown to the client.
type HTTPError struct {
	Status  int
	Message string
	Err     error

	stack []byte
}

func newHTTPError(status int, message string, err error) *HTTPError {
	return &HTTPError{
		Status:  status,
		Message: message,
		Err:     err,
		stack:   debug.Stack(),
	}
}

func (e *HTTPError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// toHTTPError classifies service errors by status.
func toHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return newHTTPError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, service.ErrNotFound):
		return newHTTPError(http.StatusNotFound, err.Error(), err)
	default:
		return newHTTPError(http.StatusInternalServerError, err.Error(), err)
	}
}

func badRequest(err error) *HTTPError {
	return newHTTPError(http.StatusBadRequest, fmt.Sprintf("%v: %v", service.ErrInvalidRequest, err), err)
}

// abortWithError hands err to the renderer; handlers never write error bodies.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(toHTTPError(err))
	c.Abort()
}

func notFound(c *gin.Context) {
	msg := fmt.Sprintf("%s %s router not found", c.Request.Method, c.Request.URL.RequestURI())
	_ = c.Error(newHTTPError(http.StatusNotFound, msg, nil))
}

type errorDetails struct {
	Status int
	Cause  string
	Stack  string
}

type errorRenderer struct {
	production bool
}

// middleware renders the last error attached to the context once the rest of
// the chain has run.
func (r errorRenderer) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		r.render(c, c.Errors.Last().Err)
	}
}

func (r errorRenderer) recover(c *gin.Context, recovered any) {
	err := fmt.Errorf("panic: %v", recovered)
	r.render(c, newHTTPError(http.StatusInternalServerError, err.Error(), err))
	c.Abort()
}

func (r errorRenderer) render(c *gin.Context, err error) {
	he := toHTTPError(err)

	log := logger.FromContext(c.Request.Context())
	if he.Status >= http.StatusInternalServerError {
		log.Error("request failed", "status", he.Status, "error", he.Error())
	} else {
		log.Debug("request rejected", "status", he.Status, "error", he.Error())
	}

	data := gin.H{"message": he.Message}
	if !r.production {
		details := errorDetails{Status: he.Status, Stack: string(he.stack)}
		if he.Err != nil {
			details.Cause = he.Err.Error()
		}
		data["error"] = details
	}

	c.HTML(he.Status, errorTemplate, data)
}
