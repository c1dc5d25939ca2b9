package access

import (
	"context"
	"strings"
)

// Role is the caller's role. Name is the sole comparison key used by the
// decision engine; Permissions are an advisory concept consumed elsewhere.
type Role struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions,omitempty"`
}

// Principal describes the authenticated caller.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     *Role  `json:"role"`
}

// RoleName returns the role name, or "" when the principal carries no role.
func (p *Principal) RoleName() string {
	if p == nil || p.Role == nil {
		return ""
	}
	return p.Role.Name
}

// NormalizePrincipal adapts whatever the resolver produced into the shape
// the engine needs. A principal without an ID is malformed and treated the
// same as no principal at all.
func NormalizePrincipal(id, username, roleName string, permissions []string) *Principal {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	p := &Principal{ID: id, Username: strings.TrimSpace(username)}
	if name := strings.TrimSpace(roleName); name != "" {
		p.Role = &Role{Name: name, Permissions: permissions}
	}
	return p
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
