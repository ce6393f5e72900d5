package domain

import "context"

// Principal is the authenticated identity attached to a single request.
type Principal struct {
	ID   int64
	Role Role
}

// HasRole reports whether the principal's role is one of roles.
// An empty role set places no restriction.
func (p Principal) HasRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// CanModify reports whether p may change a record owned by ownerID.
func (p Principal) CanModify(ownerID int64) bool {
	return p.Role == RoleAdmin || p.ID == ownerID
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
