package httpHandler

import (
	"splitmate-server/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError maps a use-case error onto the HTTP status for its category
// and always carries a human-readable message.
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
}
