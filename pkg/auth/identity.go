package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/kirayahq/kiraya-backend/pkg/enums"
	apperrors "github.com/kirayahq/kiraya-backend/pkg/errors"
)

// Identity is the authenticated caller handed to every service operation.
// Services never read auth state from ambient globals; the transport layer
// resolves the JWT once and passes the result down explicitly.
type Identity struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// IsAdmin reports whether the caller carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == enums.UserRoleAdmin
}

// IsZero reports whether no authenticated caller is present.
func (i Identity) IsZero() bool {
	return i.UserID == uuid.Nil
}

type identityCtxKey struct{}

// WithIdentity stores the caller identity on the request context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFromContext returns the caller identity placed by the auth middleware.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	identity, ok := ctx.Value(identityCtxKey{}).(Identity)
	if !ok || identity.IsZero() {
		return Identity{}, apperrors.New(apperrors.CodeUnauthorized, "authentication required")
	}
	return identity, nil
}
