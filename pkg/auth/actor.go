// Package auth carries the authenticated caller through a request and
// verifies the bearer tokens that identify it.
package auth

import (
	"context"
	"strings"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Actor is the identity performing a request.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) Valid() bool {
	return strings.TrimSpace(a.ID) != ""
}

func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

type actorKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok && actor.Valid()
}
