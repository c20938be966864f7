package helpers

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/rendez/internal/models"
)

// CustomClaims mirrors the access token issued by Supabase auth.
type CustomClaims struct {
	Role        string `json:"role"`
	UserRole    string `json:"user_role,omitempty"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
		Role      string   `json:"role,omitempty"`
		Roles     []string `json:"roles,omitempty"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// AppRole resolves the application role. The top level "role" claim is the
// database role ("authenticated") and is ignored.
func (c *CustomClaims) AppRole() models.Role {
	switch {
	case c.AppMetadata.Role != "":
		return models.ParseRole(c.AppMetadata.Role)
	case c.UserRole != "":
		return models.ParseRole(c.UserRole)
	case len(c.AppMetadata.Roles) > 0:
		return models.ParseRole(c.AppMetadata.Roles[0])
	}
	return models.RoleMember
}

func (c *CustomClaims) metadataString(keys ...string) string {
	for _, k := range keys {
		if v, ok := c.UserMetadata[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Principal converts verified claims into the caller identity.
func (c *CustomClaims) Principal() *models.Principal {
	first := c.metadataString("first_name", "given_name")
	last := c.metadataString("last_name", "family_name")
	if first == "" && last == "" {
		if full := c.metadataString("full_name", "fullname", "name"); full != "" {
			parts := strings.SplitN(full, " ", 2)
			first = parts[0]
			if len(parts) == 2 {
				last = strings.TrimSpace(parts[1])
			}
		}
	}

	phone := c.Phone
	if phone == "" {
		phone = c.metadataString("phone", "phone_number")
	}

	return &models.Principal{
		ID:        c.Subject,
		FirstName: first,
		LastName:  last,
		Email:     c.Email,
		Phone:     phone,
		Role:      c.AppRole(),
	}
}
