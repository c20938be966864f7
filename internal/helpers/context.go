package helpers

import (
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/models"
)

const principalKey = "principal"

func SetPrincipal(c *gin.Context, p *models.Principal) {
	c.Set(principalKey, p)
}

// CurrentPrincipal returns the caller resolved by the identity middleware.
// It reports false for anonymous requests.
func CurrentPrincipal(c *gin.Context) (*models.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*models.Principal)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}
