package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/nafishahmed/blogspace/internal/errors"
	"github.com/nafishahmed/blogspace/internal/logger"
	"github.com/nafishahmed/blogspace/internal/util"
)

// respondServiceError maps service-layer errors onto HTTP responses.
// Domain errors carry their own status; anything else is a 500.
func respondServiceError(c *gin.Context, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		util.RespondWithAPIError(c, apiErr)
		return
	}
	logger.ErrorWithFields("Unexpected service error", err)
	util.RespondInternalError(c)
}
