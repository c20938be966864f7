package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/models"
)

// writeError maps domain errors onto HTTP statuses. Anything unrecognised
// is attached to the context and answered by middleware.ErrorHandler.
func writeError(c *gin.Context, err error) {
	var ve *models.ValidationError
	var se *models.StoreError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, helpers.FieldErrorResponse(ve.Field, ve.Error()))
	case errors.Is(err, models.ErrInvalidTimeRange):
		c.JSON(http.StatusUnprocessableEntity, helpers.FieldErrorResponse("endTime", err.Error()))
	case errors.Is(err, models.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, helpers.ErrorResponse(err.Error()))
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, helpers.ErrorResponse("you are not allowed to perform this action"))
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, helpers.ErrorResponse(err.Error()))
	case errors.Is(err, models.ErrIdentityUnavailable):
		c.JSON(http.StatusServiceUnavailable, helpers.ErrorResponse(err.Error()))
	case errors.As(err, &se):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, helpers.ErrorResponse(se.Error()))
	default:
		_ = c.Error(err)
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid request payload: "+err.Error()))
}

func principal(c *gin.Context) *models.Principal {
	p, _ := helpers.CurrentPrincipal(c)
	return p
}
