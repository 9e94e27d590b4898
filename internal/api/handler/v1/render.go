package v1

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"

	"github.com/scoutcamp/campo/internal/api/handler/v1/response"
	"github.com/scoutcamp/campo/internal/api/middleware"
	"github.com/scoutcamp/campo/internal/service"
)

// Flash codes carried in ?error= and ?ok= after a redirect.
const (
	codeAlreadyCompleted = "already_completed"
	codeInvalidInput     = "invalid_input"
	codeNameExists       = "name_exists"
	codeUnitInUse        = "unit_in_use"
	codeConflict         = "conflict"
	codeCredentials      = "credentials"
	codeDeleteSelf       = "delete_self"
	codeNotOwner         = "not_owner"

	okSaved      = "saved"
	okDeleted    = "deleted"
	okCompleted  = "completed"
	okBooked     = "booked"
	okRolledBack = "rolled_back"
	okPassword   = "password"
)

var errorMessages = map[string]string{
	codeAlreadyCompleted: "Questa pattuglia ha già completato la challenge.",
	codeInvalidInput:     "Dati non validi, controlla il modulo.",
	codeNameExists:       "Esiste già un elemento con questo nome.",
	codeUnitInUse:        "L'unità ha ancora pattuglie, utenti o prenotazioni.",
	codeConflict:         "Il terreno è già prenotato in quella fascia oraria.",
	codeCredentials:      "Utente o password errati.",
	codeDeleteSelf:       "Non puoi eliminare l'utente con cui sei connesso.",
	codeNotOwner:         "Puoi annullare solo le prenotazioni in attesa della tua unità.",
}

var successMessages = map[string]string{
	okSaved:      "Modifiche salvate.",
	okDeleted:    "Eliminato.",
	okCompleted:  "Challenge registrata.",
	okBooked:     "Prenotazione inviata, in attesa di approvazione.",
	okRolledBack: "Completamento annullato, punteggio aggiornato.",
	okPassword:   "Password aggiornata.",
}

// render executes a page template with the fields every page expects.
func render(ctx *gin.Context, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	user, _ := middleware.CurrentUser(ctx)
	data["User"] = user
	data["CSRFField"] = csrf.TemplateField(ctx.Request)
	if msg, ok := errorMessages[ctx.Query("error")]; ok {
		data["Error"] = msg
	}
	if msg, ok := successMessages[ctx.Query("ok")]; ok {
		data["Success"] = msg
	}

	ctx.HTML(http.StatusOK, name, data)
}

func redirect(ctx *gin.Context, path, key, code string) {
	if code != "" {
		path += "?" + url.Values{key: {code}}.Encode()
	}

	ctx.Redirect(http.StatusSeeOther, path)
}

func redirectOK(ctx *gin.Context, path, code string) {
	redirect(ctx, path, "ok", code)
}

func redirectErr(ctx *gin.Context, path, code string) {
	redirect(ctx, path, "error", code)
}

// errorCode maps a service error a user can fix to its flash code. Other
// errors return "".
func errorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrAlreadyCompleted):
		return codeAlreadyCompleted
	case errors.Is(err, service.ErrReservationConflict):
		return codeConflict
	case errors.Is(err, service.ErrUnitInUse):
		return codeUnitInUse
	case errors.Is(err, service.ErrDeleteSelf):
		return codeDeleteSelf
	case errors.Is(err, service.ErrNotReservationOwner):
		return codeNotOwner
	case errors.Is(err, service.ErrUnitNameExists),
		errors.Is(err, service.ErrPatrolNameExists),
		errors.Is(err, service.ErrChallengeNameExists),
		errors.Is(err, service.ErrTerrainNameExists),
		errors.Is(err, service.ErrUsernameExists):
		return codeNameExists
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrUnitNotFound),
		errors.Is(err, service.ErrPatrolNotFound),
		errors.Is(err, service.ErrChallengeNotFound),
		errors.Is(err, service.ErrTerrainNotFound):
		return codeInvalidInput
	}

	return ""
}

// renderMutationErr redirects back to path for errors the user can fix and
// renders a 500 otherwise.
func renderMutationErr(ctx *gin.Context, path, op string, err error) {
	if code := errorCode(err); code != "" {
		redirectErr(ctx, path, code)
		return
	}

	response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
}

func idParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %s %q", name, ctx.Param(name))))
		return 0, false
	}

	return uint(id), true
}
