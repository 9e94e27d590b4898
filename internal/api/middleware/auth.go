package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scoutcamp/campo/internal/api/handler/v1/response"
	"github.com/scoutcamp/campo/internal/domain"
)

const userKey = "campo.user"

var (
	errLoginRequired = errors.New("login required")
	errRoleTooLow    = errors.New("your role does not allow this action")
)

type SessionService interface {
	Authenticate(ctx context.Context, token string) (domain.User, bool)
}

type Authenticator struct {
	svc        SessionService
	cookieName string
}

func NewAuthenticator(svc SessionService, cookieName string) *Authenticator {
	return &Authenticator{
		svc:        svc,
		cookieName: cookieName,
	}
}

// VerifyJWT resolves the session cookie (or a bearer token) to a user and
// stores it on the context. Requests without a valid session continue
// anonymously; Require decides what they may reach.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, _ := ctx.Cookie(a.cookieName)
		if token == "" {
			if bearer, ok := strings.CutPrefix(ctx.GetHeader("Authorization"), "Bearer "); ok {
				token = strings.TrimSpace(bearer)
			}
		}

		if user, ok := a.svc.Authenticate(ctx.Request.Context(), token); ok {
			ctx.Set(userKey, user)
		}

		ctx.Next()
	}
}

// Require lets the request through only for users whose role is at least min.
// Anonymous browsers are sent to the login page; API clients get 401.
func Require(min domain.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		if !ok {
			if response.WantsJSON(ctx) {
				response.RenderErr(ctx, response.ErrUnauthorized(errLoginRequired))
				return
			}

			ctx.Redirect(http.StatusSeeOther, "/login")
			ctx.Abort()
			return
		}

		if !user.Can(min) {
			response.RenderErr(ctx, response.ErrPermissionDenied(errRoleTooLow))
			return
		}

		ctx.Next()
	}
}

func CurrentUser(ctx *gin.Context) (domain.User, bool) {
	v, ok := ctx.Get(userKey)
	if !ok {
		return domain.User{}, false
	}

	user, ok := v.(domain.User)
	return user, ok
}
