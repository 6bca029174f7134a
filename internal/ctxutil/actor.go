// Package ctxutil carries the acting operator through request contexts.
// It has no internal dependencies so any layer may import it.
package ctxutil

import "context"

type actorKey struct{}

// WithActorID returns a context recording actorID as the operator responsible
// for any status change made with it.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// WithDefaultActor records actorID only when ctx carries no operator yet.
func WithDefaultActor(ctx context.Context, actorID string) context.Context {
	if ActorFromContext(ctx) != "" {
		return ctx
	}
	return WithActorID(ctx, actorID)
}

// ActorFromContext returns the operator recorded in ctx, or "" if none.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
