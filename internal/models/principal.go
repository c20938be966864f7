package models

import "strings"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleGuest  Role = "guest"
)

// Capability is something a role may be allowed to do.
type Capability string

const (
	CapManageCatalog Capability = "catalog:manage"
	CapRSVP          Capability = "rsvp:submit"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin:  {CapManageCatalog, CapRSVP},
	RoleMember: {CapRSVP},
	RoleGuest:  {CapRSVP},
}

// ParseRole normalises a role claim. A blank claim is a member. Unknown
// values are kept so they can be logged, but they carry no capabilities
// beyond RSVP.
func ParseRole(raw string) Role {
	r := strings.ToLower(strings.TrimSpace(raw))
	if r == "" {
		return RoleMember
	}
	return Role(r)
}

func (r Role) Can(c Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		// any authenticated caller may RSVP
		return c == CapRSVP
	}
	for _, have := range caps {
		if have == c {
			return true
		}
	}
	return false
}

// Principal is the caller as asserted by the identity provider. It is built
// per request and never persisted.
type Principal struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      Role   `json:"role"`
}

func (p *Principal) Can(c Capability) bool {
	if p == nil || p.ID == "" {
		return false
	}
	return p.Role.Can(c)
}

func (p *Principal) CanManageCatalog() bool {
	return p.Can(CapManageCatalog)
}

// Authorize returns ErrUnauthenticated for a missing principal and
// ErrForbidden when the principal lacks the capability.
func Authorize(p *Principal, c Capability) error {
	if p == nil || p.ID == "" {
		return ErrUnauthenticated
	}
	if !p.Can(c) {
		return ErrForbidden
	}
	return nil
}
