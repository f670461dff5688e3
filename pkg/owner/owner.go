package owner

import "context"

type contextKey string

const ownerKey contextKey = "owner"

// WithOwner marks the request context as belonging to the installation
// owner. The identity check itself happens in the HTTP middleware, based
// on the header forwarded by the hosting environment.
func WithOwner(ctx context.Context) context.Context {
	return context.WithValue(ctx, ownerKey, true)
}

func IsOwner(ctx context.Context) bool {
	isOwner, ok := ctx.Value(ownerKey).(bool)
	return ok && isOwner
}
