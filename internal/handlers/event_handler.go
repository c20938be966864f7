package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
)

func CreateEventHandler(e *services.EventsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal(c)
		if err := models.Authorize(p, models.CapManageCatalog); err != nil {
			writeError(c, err)
			return
		}

		var input models.EventInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}

		event, err := e.CreateEvent(c.Request.Context(), p, &input)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(event, "Event created successfully"))
	}
}

// ListEvents returns every event split into upcoming and past.
func ListEvents(view *services.EventViewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := view.ListUpcomingAndPast(c.Request.Context(), view.Now())
		if err != nil {
			writeError(c, err)
			return
		}
		message := ""
		if listing.Partial {
			message = "some details could not be loaded"
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(listing, message))
	}
}

func GetEventByID(view *services.EventViewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := view.GetEventDetail(c.Request.Context(), helpers.StringTrim(c.Param("id")))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(event, ""))
	}
}
