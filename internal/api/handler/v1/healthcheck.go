package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleHealthcheck is the liveness probe. It never touches the database.
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
