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
	"github.com/scoutcamp/campo/internal/bulk"
	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/service"
)

const rankingFilename = "classifica_scout.csv"

type CampService interface {
	Ranking(ctx context.Context, subCamp string) ([]domain.RankedPatrol, error)
	ListSubCamps(ctx context.Context) ([]string, error)
	Timeline(ctx context.Context, limit int) ([]domain.Completion, error)
	ListPatrols(ctx context.Context) ([]domain.Patrol, error)
	ListChallenges(ctx context.Context) ([]domain.Challenge, error)
}

type CompletionRecorder interface {
	Complete(ctx context.Context, patrolID, challengeID uint, at time.Time) (domain.Completion, error)
}

// CampHandler serves the pages every scout sees plus the tech input form.
type CampHandler struct {
	svc           CampService
	score         CompletionRecorder
	timelineLimit int
}

func NewCampHandler(svc CampService, score CompletionRecorder, timelineLimit int) *CampHandler {
	return &CampHandler{
		svc:           svc,
		score:         score,
		timelineLimit: timelineLimit,
	}
}

func (h *CampHandler) HandleRanking(ctx *gin.Context) {
	selected := ctx.Query("sottocampo_filter")

	ranking, err := h.svc.Ranking(ctx.Request.Context(), selected)
	if err != nil {
		err = fmt.Errorf("v1.HandleRanking -> h.svc.Ranking -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	subCamps, err := h.svc.ListSubCamps(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleRanking -> h.svc.ListSubCamps -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	render(ctx, "ranking.html", gin.H{
		"Title":    "Classifica",
		"Ranking":  ranking,
		"SubCamps": subCamps,
		"Selected": selected,
	})
}

func (h *CampHandler) HandleTimeline(ctx *gin.Context) {
	completions, err := h.svc.Timeline(ctx.Request.Context(), h.timelineLimit)
	if err != nil {
		err = fmt.Errorf("v1.HandleTimeline -> h.svc.Timeline -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	render(ctx, "timeline.html", gin.H{
		"Title":       "Timeline",
		"Completions": completions,
	})
}

func (h *CampHandler) HandleInputPage(ctx *gin.Context) {
	patrols, err := h.svc.ListPatrols(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleInputPage -> h.svc.ListPatrols -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	challenges, err := h.svc.ListChallenges(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleInputPage -> h.svc.ListChallenges -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	render(ctx, "input.html", gin.H{
		"Title":      "Inserisci",
		"Patrols":    patrols,
		"Challenges": challenges,
	})
}

// HandleComplete records a completion from the input form. A patrol that
// already completed the challenge is sent back with ?error=already_completed.
func (h *CampHandler) HandleComplete(ctx *gin.Context) {
	var req request.CompleteRequest
	if err := ctx.ShouldBind(&req); err != nil {
		redirectErr(ctx, "/input", codeInvalidInput)
		return
	}

	if err := req.Validate(); err != nil {
		redirectErr(ctx, "/input", codeInvalidInput)
		return
	}

	_, err := h.score.Complete(ctx.Request.Context(), req.PatrolID, req.ChallengeID, time.Time{})
	if err != nil {
		renderMutationErr(ctx, "/input", "v1.HandleComplete -> h.score.Complete", err)
		return
	}

	redirectOK(ctx, "/input", okCompleted)
}

// HandleExportRanking streams the ranking as CSV.
func (h *CampHandler) HandleExportRanking(ctx *gin.Context) {
	ranking, err := h.svc.Ranking(ctx.Request.Context(), ctx.Query("sottocampo_filter"))
	if err != nil {
		err = fmt.Errorf("v1.HandleExportRanking -> h.svc.Ranking -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Header("Content-Type", "text/csv; charset=utf-8")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rankingFilename))
	ctx.Status(http.StatusOK)

	if err = bulk.WriteRanking(ctx.Writer, ranking); err != nil {
		// headers are gone already, only log
		_ = ctx.Error(fmt.Errorf("v1.HandleExportRanking -> bulk.WriteRanking -> %w", err))
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, service.ErrUnitNotFound) ||
		errors.Is(err, service.ErrPatrolNotFound) ||
		errors.Is(err, service.ErrChallengeNotFound) ||
		errors.Is(err, service.ErrCompletionNotFound) ||
		errors.Is(err, service.ErrTerrainNotFound) ||
		errors.Is(err, service.ErrReservationNotFound) ||
		errors.Is(err, service.ErrUserNotFound)
}
