package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/persona-lab/persona-backend/internal/logging"
	"github.com/persona-lab/persona-backend/internal/personas/domain"
	"go.uber.org/zap"
)

// writeError maps domain errors onto status codes. fallback is the message
// used for unexpected failures; the underlying error goes into "details".
func writeError(c *gin.Context, err error, fallback string) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.Is(err, domain.ErrPersonaNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Persona not found"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	default:
		logging.FromContext(c.Request.Context()).Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "details": err.Error()})
	}
}
