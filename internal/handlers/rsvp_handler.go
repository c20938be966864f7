package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
)

// SubmitRSVP creates or replaces the caller's RSVP for an event. It answers
// 201 for a new RSVP and 200 when an existing one was updated.
func SubmitRSVP(r *services.RSVPService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal(c)
		if err := models.Authorize(p, models.CapRSVP); err != nil {
			writeError(c, err)
			return
		}

		var input models.RSVPInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}

		rsvp, created, err := r.SubmitRSVP(c.Request.Context(), p, helpers.StringTrim(c.Param("id")), &input)
		if err != nil {
			writeError(c, err)
			return
		}
		if created {
			c.JSON(http.StatusCreated, helpers.SuccessResponse(rsvp, "RSVP recorded"))
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(rsvp, "RSVP updated"))
	}
}

func ListMyRSVPs(r *services.RSVPService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal(c)
		if p == nil {
			writeError(c, models.ErrUnauthenticated)
			return
		}
		refs, err := r.ListRSVPsForUser(c.Request.Context(), p.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.ListResponse(refs, len(refs)))
	}
}

// MyDashboard lists the events the caller has RSVP'd to.
func MyDashboard(view *services.EventViewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := view.ListUserDashboard(c.Request.Context(), principal(c), view.Now())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(listing, ""))
	}
}
