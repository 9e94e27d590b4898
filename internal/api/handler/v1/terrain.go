package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scoutcamp/campo/internal/api/handler/v1/request"
	"github.com/scoutcamp/campo/internal/api/handler/v1/response"
	"github.com/scoutcamp/campo/internal/api/middleware"
	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/service"
)

const inputTimeLayout = "2006-01-02T15:04"

type TerrainService interface {
	Create(ctx context.Context, terrain domain.Terrain) (domain.Terrain, error)
	Update(ctx context.Context, terrain domain.Terrain) (domain.Terrain, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (domain.Terrain, error)
	List(ctx context.Context) ([]domain.Terrain, error)
}

type ReservationService interface {
	Availability(ctx context.Context, window domain.Window) ([]domain.TerrainAvailability, error)
	Book(ctx context.Context, terrainID, unitID uint, start time.Time, hours int) (domain.Reservation, error)
	Approve(ctx context.Context, id uint) error
	Cancel(ctx context.Context, user domain.User, id uint) error
	ListByUnit(ctx context.Context, unitID uint) ([]domain.Reservation, error)
	ListByTerrain(ctx context.Context, terrainID uint) ([]domain.Reservation, error)
	List(ctx context.Context) ([]domain.Reservation, error)
	ParseTime(value string) (time.Time, error)
	Location() *time.Location
	MaxHours() int
}

type TerrainHandler struct {
	terrains     TerrainService
	reservations ReservationService
	now          func() time.Time
}

func NewTerrainHandler(terrains TerrainService, reservations ReservationService) *TerrainHandler {
	return &TerrainHandler{
		terrains:     terrains,
		reservations: reservations,
		now:          time.Now,
	}
}

// HandleAvailability godoc
// @Summary      Terrain availability over a time window
// @Description  Classifies every terrain as FREE, PARTIAL or BOOKED for [start_date, end_date).
// @Description  Timestamps without an offset are read in the camp time zone.
// @Tags         terreni
// @Produce      json
// @Param        start_date  query     string  true  "window start, RFC 3339 or 2006-01-02T15:04"
// @Param        end_date    query     string  true  "window end, RFC 3339 or 2006-01-02T15:04"
// @Success      200         {array}   domain.TerrainAvailability
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /terreni/availability [get]
// @Security     CookieAuth
func (h *TerrainHandler) HandleAvailability(ctx *gin.Context) {
	var req request.AvailabilityQuery
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	start, err := h.reservations.ParseTime(req.Start)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("start_date: %w", err)))
		return
	}
	end, err := h.reservations.ParseTime(req.End)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("end_date: %w", err)))
		return
	}

	availability, err := h.reservations.Availability(ctx.Request.Context(), domain.NewWindow(start, end))
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleAvailability -> h.reservations.Availability -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, availability)
}

// HandleBookingPage shows the map and the reservations the user can act on:
// its own unit's for unit accounts, all of them for staff.
func (h *TerrainHandler) HandleBookingPage(ctx *gin.Context) {
	user, _ := middleware.CurrentUser(ctx)

	terrains, err := h.terrains.List(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleBookingPage -> h.terrains.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	var reservations []domain.Reservation
	if user.Can(domain.RoleTech) {
		reservations, err = h.reservations.List(ctx.Request.Context())
	} else if user.UnitID != nil {
		reservations, err = h.reservations.ListByUnit(ctx.Request.Context(), *user.UnitID)
	}
	if err != nil {
		err = fmt.Errorf("v1.HandleBookingPage -> h.reservations.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	from := h.now().In(h.reservations.Location()).Truncate(time.Hour).Add(time.Hour)

	render(ctx, "prenotazioni.html", gin.H{
		"Title":        "Prenotazioni",
		"Terrains":     terrains,
		"Reservations": reservations,
		"CanBook":      user.UnitID != nil,
		"MaxHours":     h.reservations.MaxHours(),
		"From":         from.Format(inputTimeLayout),
		"To":           from.Add(2 * time.Hour).Format(inputTimeLayout),
	})
}

// HandleBook creates a pending reservation for the user's unit.
func (h *TerrainHandler) HandleBook(ctx *gin.Context) {
	const back = "/prenotazioni"

	user, _ := middleware.CurrentUser(ctx)
	if user.UnitID == nil {
		response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("only unit accounts can book terrains")))
		return
	}

	var req request.BookingRequest
	if err := ctx.ShouldBind(&req); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}
	if err := req.Validate(); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}

	start, err := h.reservations.ParseTime(req.StartTime)
	if err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}

	_, err = h.reservations.Book(ctx.Request.Context(), req.TerrainID, *user.UnitID, start, req.Duration)
	if err != nil {
		renderMutationErr(ctx, back, "v1.HandleBook -> h.reservations.Book", err)
		return
	}

	redirectOK(ctx, back, okBooked)
}

func (h *TerrainHandler) HandleCancelReservation(ctx *gin.Context) {
	h.cancel(ctx, "/prenotazioni")
}

func (h *TerrainHandler) HandleAdminDeleteReservation(ctx *gin.Context) {
	h.cancel(ctx, localPath(ctx.PostForm("next"), "/admin/terreni"))
}

func (h *TerrainHandler) cancel(ctx *gin.Context, back string) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	user, _ := middleware.CurrentUser(ctx)
	if err := h.reservations.Cancel(ctx.Request.Context(), user, id); err != nil {
		if errors.Is(err, service.ErrReservationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("reservation", "id", id))
			return
		}

		renderMutationErr(ctx, back, "v1.cancel -> h.reservations.Cancel", err)
		return
	}

	redirectOK(ctx, back, okDeleted)
}

func (h *TerrainHandler) HandleApproveReservation(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := h.reservations.Approve(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrReservationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("reservation", "id", id))
			return
		}

		err = fmt.Errorf("v1.HandleApproveReservation -> h.reservations.Approve -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	redirectOK(ctx, localPath(ctx.PostForm("next"), "/admin/terreni"), okSaved)
}

func (h *TerrainHandler) HandleListTerrains(ctx *gin.Context) {
	terrains, err := h.terrains.List(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListTerrains -> h.terrains.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	reservations, err := h.reservations.List(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListTerrains -> h.reservations.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	render(ctx, "admin_terrains.html", gin.H{
		"Title":        "Terreni",
		"Terrains":     terrains,
		"Reservations": reservations,
		"NewTerrain":   domain.Terrain{},
		"Back":         "/admin/terreni",
	})
}

func (h *TerrainHandler) HandleCreateTerrain(ctx *gin.Context) {
	const back = "/admin/terreni"

	var req request.TerrainRequest
	if err := ctx.ShouldBind(&req); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}
	if err := req.Validate(); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}

	if _, err := h.terrains.Create(ctx.Request.Context(), req.Terrain()); err != nil {
		renderMutationErr(ctx, back, "v1.HandleCreateTerrain -> h.terrains.Create", err)
		return
	}

	redirectOK(ctx, back, okSaved)
}

func (h *TerrainHandler) HandleEditTerrainPage(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	terrain, err := h.terrains.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTerrainNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("terrain", "id", id))
			return
		}

		err = fmt.Errorf("v1.HandleEditTerrainPage -> h.terrains.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	reservations, err := h.reservations.ListByTerrain(ctx.Request.Context(), id)
	if err != nil {
		err = fmt.Errorf("v1.HandleEditTerrainPage -> h.reservations.ListByTerrain -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	render(ctx, "admin_terrain_edit.html", gin.H{
		"Title":        terrain.Name,
		"Terrain":      terrain,
		"Reservations": reservations,
		"Back":         fmt.Sprintf("/admin/terreni/%d", id),
	})
}

func (h *TerrainHandler) HandleUpdateTerrain(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	back := fmt.Sprintf("/admin/terreni/%d", id)

	var req request.TerrainRequest
	if err := ctx.ShouldBind(&req); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}
	if err := req.Validate(); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}

	terrain := req.Terrain()
	terrain.ID = id
	if _, err := h.terrains.Update(ctx.Request.Context(), terrain); err != nil {
		if errors.Is(err, service.ErrTerrainNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("terrain", "id", id))
			return
		}

		renderMutationErr(ctx, back, "v1.HandleUpdateTerrain -> h.terrains.Update", err)
		return
	}

	redirectOK(ctx, "/admin/terreni", okSaved)
}

func (h *TerrainHandler) HandleDeleteTerrain(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := h.terrains.Delete(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrTerrainNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("terrain", "id", id))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteTerrain -> h.terrains.Delete -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	redirectOK(ctx, "/admin/terreni", okDeleted)
}
