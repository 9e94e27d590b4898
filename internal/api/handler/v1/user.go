package v1

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/scoutcamp/campo/internal/api/handler/v1/request"
	"github.com/scoutcamp/campo/internal/api/handler/v1/response"
	"github.com/scoutcamp/campo/internal/api/middleware"
	"github.com/scoutcamp/campo/internal/domain"
)

type UserService interface {
	Create(ctx context.Context, username, plain string, role domain.Role, unitID *uint) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ResetPassword(ctx context.Context, id uint, plain string) error
	Delete(ctx context.Context, actor domain.User, id uint) error
}

type UnitLister interface {
	ListUnits(ctx context.Context) ([]domain.Unit, error)
}

type UserHandler struct {
	svc   UserService
	units UnitLister
}

func NewUserHandler(svc UserService, units UnitLister) *UserHandler {
	return &UserHandler{
		svc:   svc,
		units: units,
	}
}

func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	users, err := h.svc.List(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListUsers -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	units, err := h.units.ListUnits(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListUsers -> h.units.ListUnits -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	render(ctx, "admin_users.html", gin.H{
		"Title": "Utenti",
		"Users": users,
		"Units": units,
		"Roles": domain.Roles(),
	})
}

func (h *UserHandler) HandleCreateUser(ctx *gin.Context) {
	const back = "/admin/users"

	var req request.CreateUserRequest
	if err := ctx.ShouldBind(&req); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}
	if err := req.Validate(); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}

	_, err := h.svc.Create(ctx.Request.Context(), req.Username, req.Password, domain.Role(req.Role), req.Unit())
	if err != nil {
		renderMutationErr(ctx, back, "v1.HandleCreateUser -> h.svc.Create", err)
		return
	}

	redirectOK(ctx, back, okSaved)
}

func (h *UserHandler) HandleResetPassword(ctx *gin.Context) {
	const back = "/admin/users"

	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req request.PasswordRequest
	if err := ctx.ShouldBind(&req); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}
	if err := req.Validate(); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}

	if err := h.svc.ResetPassword(ctx.Request.Context(), id, req.Password); err != nil {
		if isNotFound(err) {
			response.RenderErr(ctx, response.ErrNotFound("user", "id", id))
			return
		}

		renderMutationErr(ctx, back, "v1.HandleResetPassword -> h.svc.ResetPassword", err)
		return
	}

	redirectOK(ctx, back, okPassword)
}

func (h *UserHandler) HandleDeleteUser(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	actor, _ := middleware.CurrentUser(ctx)
	if err := h.svc.Delete(ctx.Request.Context(), actor, id); err != nil {
		if isNotFound(err) {
			response.RenderErr(ctx, response.ErrNotFound("user", "id", id))
			return
		}

		renderMutationErr(ctx, "/admin/users", "v1.HandleDeleteUser -> h.svc.Delete", err)
		return
	}

	redirectOK(ctx, "/admin/users", okDeleted)
}
