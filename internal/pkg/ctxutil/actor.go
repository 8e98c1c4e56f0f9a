package ctxutil

import (
	"context"

	"github.com/pactumhq/pactum-backend/internal/types"
)

type actorKey struct{}

// WithActor stores the acting user on the request context. There is no real
// authentication surface; the middleware resolves the seed identity once per
// request and every downstream write attributes to it.
func WithActor(ctx context.Context, u *types.User) context.Context {
	return context.WithValue(ctx, actorKey{}, u)
}

func GetActor(ctx context.Context) *types.User {
	val := ctx.Value(actorKey{})
	u, ok := val.(*types.User)
	if !ok {
		return nil
	}
	return u
}
