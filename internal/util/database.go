package util

import (
	"github.com/gin-gonic/gin"
	"github.com/zfogg/trellis/internal/errors"
)

// HandleDBError handles database errors and sends appropriate HTTP responses
// Returns true if the error was handled (and response was sent), false otherwise
func HandleDBError(c *gin.Context, err error, resourceName string) bool {
	if err == nil {
		return false
	}

	RespondWithAPIError(c, errors.FromDB(err, resourceName))
	return true
}
