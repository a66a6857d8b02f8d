package auth

import "context"

type contextKey string

const actorKey contextKey = "actor"

// SetActorContext stores the authenticated actor (called by middleware).
func SetActorContext(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext retrieves the actor safely.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}
