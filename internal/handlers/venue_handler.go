package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
)

func CreateVenueHandler(v *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal(c)
		if err := models.Authorize(p, models.CapManageCatalog); err != nil {
			writeError(c, err)
			return
		}

		var input models.VenueInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}

		venue, err := v.CreateVenue(c.Request.Context(), p, &input)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(venue, "Venue created successfully"))
	}
}

func ListVenues(v *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		venues, err := v.ListVenues(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		if venues == nil {
			venues = []*models.Venue{}
		}
		c.JSON(http.StatusOK, helpers.ListResponse(venues, len(venues)))
	}
}

func GetVenueByID(v *services.VenuesService) gin.HandlerFunc {
	return func(c *gin.Context) {
		venue, err := v.GetVenue(c.Request.Context(), helpers.StringTrim(c.Param("id")))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(venue, ""))
	}
}

// ListVenueEvents serves the venue detail view: the venue and its upcoming
// events, soonest first.
func ListVenueEvents(v *services.VenuesService, view *services.EventViewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID := helpers.StringTrim(c.Param("id"))
		venue, err := v.GetVenue(c.Request.Context(), venueID)
		if err != nil {
			writeError(c, err)
			return
		}

		events, err := view.ListEventsForVenue(c.Request.Context(), venueID, view.Now())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{
			"venue":  venue,
			"label":  venue.Label(),
			"events": events,
		}, ""))
	}
}
