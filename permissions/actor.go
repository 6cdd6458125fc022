package permissions

import (
	"context"

	"tablebook/shared/constant"
)

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID string
	Email  string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == constant.RoleAdmin
}

// Username is the value recorded in the audit columns.
func (a Actor) Username() string {
	if a.UserID == constant.Empty {
		return constant.ContextGuest
	}

	return a.UserID
}

// ActorFromContext reads the identity stored by the auth middleware. Missing
// values yield an anonymous actor.
func ActorFromContext(ctx context.Context) Actor {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return Actor{
		UserID: userID,
		Email:  email,
		Role:   role,
	}
}

// WithActor stores actor on ctx under the same keys the auth middleware uses.
func WithActor(ctx context.Context, actor Actor) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, actor.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, actor.Email)

	return context.WithValue(ctx, constant.ContextKeyUserRole, actor.Role)
}

// Policy decides whether an actor may act on a resource owned by ownerID.
type Policy interface {
	CanView(actor Actor, ownerID string) bool
	CanModify(actor Actor, ownerID string) bool
}

type ownerOrAdmin struct{}

// NewPolicy grants access to the owner of a resource and to admins.
func NewPolicy() Policy {
	return ownerOrAdmin{}
}

func (ownerOrAdmin) CanView(actor Actor, ownerID string) bool {
	return actor.IsAdmin() || (actor.UserID != constant.Empty && actor.UserID == ownerID)
}

func (p ownerOrAdmin) CanModify(actor Actor, ownerID string) bool {
	return p.CanView(actor, ownerID)
}
