package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthenticateUser signs in with the identity provider and stores the
// session in http-only cookies. Tokens are not returned in the body.
func AuthenticateUser(identity *services.IdentityService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		session, err := identity.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		if session.AccessToken == "" {
			_ = c.Error(models.ErrIdentityUnavailable)
			return
		}

		helpers.SetSessionCookies(c, session, secureCookies)
		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{
			"user_id":    session.User.ID,
			"email":      session.User.Email,
			"expires_in": session.ExpiresIn,
		}, "Signed in successfully"))
	}
}

func Logout(secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		helpers.ClearSessionCookies(c, secureCookies)
		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "Logged out successfully"))
	}
}

// Me returns the caller as seen by the identity middleware.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := helpers.CurrentPrincipal(c)
		if !ok {
			writeError(c, models.ErrUnauthenticated)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{
			"principal":          p,
			"can_manage_catalog": p.CanManageCatalog(),
		}, ""))
	}
}
