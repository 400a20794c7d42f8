package models

import (
	"context"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/google/uuid"
)

// User is a console or driver account resolved from a JWT.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsAnonymous() bool {
	return u.Role == types.RoleAnonymous.String()
}

// AnonymousUser is injected into requests carrying no Authorization
// header so downstream checks never see a nil user.
func AnonymousUser() *User {
	return &User{Role: types.RoleAnonymous.String()}
}

type userCtxKeyStruct struct{}

var userCtxKey = &userCtxKeyStruct{}

// WithUser returns a new context carrying the authenticated user.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext returns the user stored by WithUser, or nil.
func UserFromContext(ctx context.Context) *User {
	user, ok := ctx.Value(userCtxKey).(*User)
	if !ok {
		return nil
	}
	return user
}
