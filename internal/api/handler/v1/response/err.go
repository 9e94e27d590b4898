package response

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is rendered as JSON for API clients and as the error page otherwise.
type Err struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string `json:"status"`          // user-level status message
	ErrorText  string `json:"error,omitempty"` // application-level error message
}

func (e *Err) Error() string {
	if e.Err == nil {
		return e.StatusText
	}

	return e.Err.Error()
}

// RenderErr logs e and aborts the request with it. Server errors are logged
// at error level, client errors at debug.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error(e.StatusText, zap.Error(e.Err), zap.String("path", ctx.Request.URL.Path))
	} else {
		zap.L().Debug(e.StatusText, zap.Error(e.Err), zap.String("path", ctx.Request.URL.Path))
	}

	if WantsJSON(ctx) {
		ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
		return
	}

	ctx.HTML(e.HTTPStatusCode, "error.html", gin.H{
		"Status":  e.HTTPStatusCode,
		"Title":   e.StatusText,
		"Message": e.ErrorText,
	})
	ctx.Abort()
}

// WantsJSON is true for /api routes and clients that only accept JSON.
func WantsJSON(ctx *gin.Context) bool {
	if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
		return true
	}

	accept := ctx.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func ErrBadRequest(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Bad request",
		ErrorText:      err.Error(),
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Authentication required",
		ErrorText:      err.Error(),
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusForbidden,
		StatusText:     "Permission denied",
		ErrorText:      err.Error(),
	}
}

func ErrNotFound(entity, field string, value any) *Err {
	err := fmt.Errorf("%s with %s %v not found", entity, field, value)

	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found",
		ErrorText:      err.Error(),
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Wrong credentials",
		ErrorText:      "wrong username or password",
	}
}

// ErrInternalServerError hides err from the client; it is only logged.
func ErrInternalServerError(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error",
	}
}
