package session

import (
	"context"

	"parc-info/pkg/contextkeys"
	apperrors "parc-info/pkg/errors"
)

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, contextkeys.IdentityKey, identity)
}

// FromContext returns the identity the auth middleware resolved for this
// request. Handlers behind the middleware can rely on it being present.
func FromContext(ctx context.Context) (*Identity, error) {
	identity, ok := ctx.Value(contextkeys.IdentityKey).(*Identity)
	if !ok || identity == nil {
		return nil, apperrors.ErrIdentityNotFoundInContext
	}
	return identity, nil
}
