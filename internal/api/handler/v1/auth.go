package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scoutcamp/campo/internal/api/handler/v1/request"
	"github.com/scoutcamp/campo/internal/api/handler/v1/response"
	"github.com/scoutcamp/campo/internal/api/middleware"
	"github.com/scoutcamp/campo/internal/config"
	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (domain.User, error)
	IssueSession(user domain.User) (string, error)
}

type AuthHandler struct {
	conf *config.AuthConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.AuthConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

func (h *AuthHandler) HandleLoginPage(ctx *gin.Context) {
	if _, ok := middleware.CurrentUser(ctx); ok {
		ctx.Redirect(http.StatusSeeOther, "/")
		return
	}

	render(ctx, "login.html", gin.H{"Title": "Accedi"})
}

// HandleLogin verifies the credentials and stores the session token in an
// HTTP-only cookie.
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBind(&req); err != nil {
		redirectErr(ctx, "/login", codeCredentials)
		return
	}

	if err := req.Validate(); err != nil {
		redirectErr(ctx, "/login", codeCredentials)
		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrWrongCredentials) {
			redirectErr(ctx, "/login", codeCredentials)
			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	token, err := h.svc.IssueSession(user)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> h.svc.IssueSession -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	h.setCookie(ctx, token, int(h.conf.SessionTTL.Seconds()))
	ctx.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	h.setCookie(ctx, "", -1)
	ctx.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) setCookie(ctx *gin.Context, value string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(h.conf.CookieName, value, maxAge, "/", "", h.conf.CookieSecure, true)
}
