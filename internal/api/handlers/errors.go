package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kickoffkings/draft-engine/internal/draft"
	"github.com/kickoffkings/draft-engine/pkg/utils"
)

// respondDraftError maps service errors onto the response envelope. Order
// matters: validation problems are the caller's fault, missing sessions get
// their dedicated code, and ingestion failure is the only path to a 503.
func respondDraftError(c *gin.Context, err error) {
	var validationErr *draft.ValidationError
	if errors.As(err, &validationErr) {
		utils.SendValidationError(c, "Invalid draft parameters", validationErr.Error())
		return
	}

	switch {
	case errors.Is(err, utils.ErrSessionNotFound):
		utils.SendSessionNotFound(c, c.Param("id"))
	case errors.Is(err, utils.ErrNotFound):
		utils.SendNotFound(c, "Resource not found")
	case errors.Is(err, utils.ErrUnauthorized):
		utils.SendUnauthorized(c, "Authentication required")
	case errors.Is(err, utils.ErrIngestionFailed):
		utils.SendIngestionError(c, err.Error())
	default:
		utils.SendInternalError(c, "Request failed")
	}
}
