package auth

import (
	"context"

	"github.com/sunilvk/orderflow/internal/model"
)

type contextKey struct{}

// Actor is the identity attached to a request: a self-asserted display name
// and role from the session.
type Actor struct {
	Name      string
	Role      string
	SessionID int64
}

// IsOwner reports whether the actor holds the Owner role.
func (a Actor) IsOwner() bool {
	return a.Role == model.RoleOwner
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(contextKey{}).(Actor)
	return a, ok
}

func IsOwner(ctx context.Context) bool {
	a, ok := FromContext(ctx)
	return ok && a.IsOwner()
}
