package v1

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scoutcamp/campo/internal/api/handler/v1/request"
	"github.com/scoutcamp/campo/internal/api/handler/v1/response"
	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/service"
)

const dashboardRecent = 10

type AdminCampService interface {
	Dashboard(ctx context.Context, recent int) (service.Dashboard, error)

	CreateUnit(ctx context.Context, unit domain.Unit) (domain.Unit, error)
	UpdateUnit(ctx context.Context, unit domain.Unit) (domain.Unit, error)
	DeleteUnit(ctx context.Context, id uint) error
	GetUnit(ctx context.Context, id uint) (domain.Unit, error)
	ListUnits(ctx context.Context) ([]domain.Unit, error)

	CreatePatrol(ctx context.Context, patrol domain.Patrol) (domain.Patrol, error)
	UpdatePatrol(ctx context.Context, patrol domain.Patrol) (domain.Patrol, error)
	GetPatrol(ctx context.Context, id uint) (domain.Patrol, error)
	ListPatrols(ctx context.Context) ([]domain.Patrol, error)

	CreateChallenge(ctx context.Context, challenge domain.Challenge) (domain.Challenge, error)
	GetChallenge(ctx context.Context, id uint) (domain.Challenge, error)
	ListChallenges(ctx context.Context) ([]domain.Challenge, error)
	CompletionCount(ctx context.Context, challengeID uint) (int, error)
}

// ScoreService covers the admin mutations that move points.
type ScoreService interface {
	EditChallenge(ctx context.Context, id uint, edit service.ChallengeEdit) (domain.Challenge, error)
	DeleteChallenge(ctx context.Context, id uint) error
	DeletePatrol(ctx context.Context, id uint) error
	Rollback(ctx context.Context, completionID uint) (domain.Completion, error)
}

type AdminHandler struct {
	svc   AdminCampService
	score ScoreService
}

func NewAdminHandler(svc AdminCampService, score ScoreService) *AdminHandler {
	return &AdminHandler{
		svc:   svc,
		score: score,
	}
}

func (h *AdminHandler) HandleDashboard(ctx *gin.Context) {
	d, err := h.svc.Dashboard(ctx.Request.Context(), dashboardRecent)
	if err != nil {
		err = fmt.Errorf("v1.HandleDashboard -> h.svc.Dashboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	render(ctx, "admin.html", gin.H{
		"Title":     "Admin",
		"Dashboard": d,
	})
}

// Units

func (h *AdminHandler) HandleListUnits(ctx *gin.Context) {
	units, err := h.svc.ListUnits(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListUnits -> h.svc.ListUnits -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	render(ctx, "admin_units.html", gin.H{
		"Title": "Unità",
		"Units": units,
	})
}

func (h *AdminHandler) HandleCreateUnit(ctx *gin.Context) {
	const back = "/admin/unita"

	var req request.UnitRequest
	if err := ctx.ShouldBind(&req); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}
	if err := req.Validate(); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}

	_, err := h.svc.CreateUnit(ctx.Request.Context(), domain.Unit{Name: req.Name, SubCamp: req.SubCamp})
	if err != nil {
		renderMutationErr(ctx, back, "v1.HandleCreateUnit -> h.svc.CreateUnit", err)
		return
	}

	redirectOK(ctx, back, okSaved)
}

func (h *AdminHandler) HandleEditUnitPage(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	unit, err := h.svc.GetUnit(ctx.Request.Context(), id)
	if err != nil {
		h.renderLookupErr(ctx, "unit", id, "v1.HandleEditUnitPage -> h.svc.GetUnit", err)
		return
	}

	render(ctx, "admin_unit_edit.html", gin.H{
		"Title": unit.Name,
		"Unit":  unit,
	})
}

func (h *AdminHandler) HandleUpdateUnit(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	back := fmt.Sprintf("/admin/unita/%d", id)

	var req request.UnitRequest
	if err := ctx.ShouldBind(&req); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}
	if err := req.Validate(); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}

	_, err := h.svc.UpdateUnit(ctx.Request.Context(), domain.Unit{ID: id, Name: req.Name, SubCamp: req.SubCamp})
	if err != nil {
		renderMutationErr(ctx, back, "v1.HandleUpdateUnit -> h.svc.UpdateUnit", err)
		return
	}

	redirectOK(ctx, "/admin/unita", okSaved)
}

func (h *AdminHandler) HandleDeleteUnit(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteUnit(ctx.Request.Context(), id); err != nil {
		renderMutationErr(ctx, "/admin/unita", "v1.HandleDeleteUnit -> h.svc.DeleteUnit", err)
		return
	}

	redirectOK(ctx, "/admin/unita", okDeleted)
}

// Patrols

func (h *AdminHandler) HandleListPatrols(ctx *gin.Context) {
	patrols, err := h.svc.ListPatrols(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListPatrols -> h.svc.ListPatrols -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	units, err := h.svc.ListUnits(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListPatrols -> h.svc.ListUnits -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	render(ctx, "admin_patrols.html", gin.H{
		"Title":   "Pattuglie",
		"Patrols": patrols,
		"Units":   units,
	})
}

func (h *AdminHandler) HandleCreatePatrol(ctx *gin.Context) {
	const back = "/admin/pattuglie"

	var req request.PatrolRequest
	if err := ctx.ShouldBind(&req); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}
	if err := req.Validate(); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}

	_, err := h.svc.CreatePatrol(ctx.Request.Context(), domain.Patrol{Name: req.Name, Leader: req.Leader, UnitID: req.UnitID})
	if err != nil {
		renderMutationErr(ctx, back, "v1.HandleCreatePatrol -> h.svc.CreatePatrol", err)
		return
	}

	redirectOK(ctx, back, okSaved)
}

func (h *AdminHandler) HandleEditPatrolPage(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	patrol, err := h.svc.GetPatrol(ctx.Request.Context(), id)
	if err != nil {
		h.renderLookupErr(ctx, "patrol", id, "v1.HandleEditPatrolPage -> h.svc.GetPatrol", err)
		return
	}

	units, err := h.svc.ListUnits(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleEditPatrolPage -> h.svc.ListUnits -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	render(ctx, "admin_patrol_edit.html", gin.H{
		"Title":  patrol.Name,
		"Patrol": patrol,
		"Units":  units,
	})
}

func (h *AdminHandler) HandleUpdatePatrol(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	back := fmt.Sprintf("/admin/pattuglie/%d", id)

	var req request.PatrolRequest
	if err := ctx.ShouldBind(&req); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}
	if err := req.Validate(); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}

	patrol := domain.Patrol{ID: id, Name: req.Name, Leader: req.Leader, UnitID: req.UnitID}
	if _, err := h.svc.UpdatePatrol(ctx.Request.Context(), patrol); err != nil {
		renderMutationErr(ctx, back, "v1.HandleUpdatePatrol -> h.svc.UpdatePatrol", err)
		return
	}

	redirectOK(ctx, "/admin/pattuglie", okSaved)
}

func (h *AdminHandler) HandleDeletePatrol(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := h.score.DeletePatrol(ctx.Request.Context(), id); err != nil {
		renderMutationErr(ctx, "/admin/pattuglie", "v1.HandleDeletePatrol -> h.score.DeletePatrol", err)
		return
	}

	redirectOK(ctx, "/admin/pattuglie", okDeleted)
}

// Challenges

func (h *AdminHandler) HandleListChallenges(ctx *gin.Context) {
	challenges, err := h.svc.ListChallenges(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListChallenges -> h.svc.ListChallenges -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	render(ctx, "admin_challenges.html", gin.H{
		"Title":      "Challenges",
		"Challenges": challenges,
	})
}

func (h *AdminHandler) HandleCreateChallenge(ctx *gin.Context) {
	const back = "/admin/challenges"

	var req request.ChallengeRequest
	if err := ctx.ShouldBind(&req); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}
	if err := req.Validate(); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}

	_, err := h.svc.CreateChallenge(ctx.Request.Context(), domain.Challenge{
		Name:         req.Name,
		Description:  req.Description,
		Points:       req.Points,
		RewardTokens: req.RewardTokens,
		IsFungo:      req.IsFungo,
	})
	if err != nil {
		renderMutationErr(ctx, back, "v1.HandleCreateChallenge -> h.svc.CreateChallenge", err)
		return
	}

	redirectOK(ctx, back, okSaved)
}

// HandleEditChallengePage shows how many completions a retroactive edit
// would touch.
func (h *AdminHandler) HandleEditChallengePage(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	challenge, err := h.svc.GetChallenge(ctx.Request.Context(), id)
	if err != nil {
		h.renderLookupErr(ctx, "challenge", id, "v1.HandleEditChallengePage -> h.svc.GetChallenge", err)
		return
	}

	count, err := h.svc.CompletionCount(ctx.Request.Context(), id)
	if err != nil {
		err = fmt.Errorf("v1.HandleEditChallengePage -> h.svc.CompletionCount -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	render(ctx, "admin_challenge_edit.html", gin.H{
		"Title":       challenge.Name,
		"Challenge":   challenge,
		"Completions": count,
	})
}

func (h *AdminHandler) HandleUpdateChallenge(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	back := fmt.Sprintf("/admin/challenges/%d", id)

	var req request.ChallengeRequest
	if err := ctx.ShouldBind(&req); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}
	if err := req.Validate(); err != nil {
		redirectErr(ctx, back, codeInvalidInput)
		return
	}

	_, err := h.score.EditChallenge(ctx.Request.Context(), id, service.ChallengeEdit{
		Name:         req.Name,
		Description:  req.Description,
		Points:       req.Points,
		RewardTokens: req.RewardTokens,
		IsFungo:      req.IsFungo,
		Retroactive:  req.Retroactive,
	})
	if err != nil {
		if isNotFound(err) {
			response.RenderErr(ctx, response.ErrNotFound("challenge", "id", id))
			return
		}

		renderMutationErr(ctx, back, "v1.HandleUpdateChallenge -> h.score.EditChallenge", err)
		return
	}

	redirectOK(ctx, "/admin/challenges", okSaved)
}

func (h *AdminHandler) HandleDeleteChallenge(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := h.score.DeleteChallenge(ctx.Request.Context(), id); err != nil {
		renderMutationErr(ctx, "/admin/challenges", "v1.HandleDeleteChallenge -> h.score.DeleteChallenge", err)
		return
	}

	redirectOK(ctx, "/admin/challenges", okDeleted)
}

// HandleRollback undoes a completion and its points. The optional "next"
// form field names the local page to return to.
func (h *AdminHandler) HandleRollback(ctx *gin.Context) {
	id, ok := idParam(ctx, "completion_id")
	if !ok {
		return
	}

	if _, err := h.score.Rollback(ctx.Request.Context(), id); err != nil {
		h.renderLookupErr(ctx, "completion", id, "v1.HandleRollback -> h.score.Rollback", err)
		return
	}

	redirectOK(ctx, localPath(ctx.PostForm("next"), "/timeline"), okRolledBack)
}

func (h *AdminHandler) renderLookupErr(ctx *gin.Context, entity string, id uint, op string, err error) {
	if isNotFound(err) {
		response.RenderErr(ctx, response.ErrNotFound(entity, "id", id))
		return
	}

	response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
}

// localPath accepts only same-site absolute paths.
func localPath(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.ContainsAny(next, "?\\") {
		return fallback
	}

	return next
}
