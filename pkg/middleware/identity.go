package middleware

import "context"

type identityKey struct{}

// Identity is the authenticated caller taken from the bearer token.
type Identity struct {
	UserID int64
	Role   string
}

func SetIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
