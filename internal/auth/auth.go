// Package auth bridges the external identity provider to local sessions and
// holds the authorization rules shared by the HTTP handlers.
package auth

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrNoSession    = errors.New("session not found")
	ErrInvalidToken = errors.New("invalid identity token")
)

type ctxKeyUserID struct{}

func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, ctxKeyUserID{}, uid)
}

func UserIDFrom(ctx context.Context) (string, bool) {
	id, _ := ctx.Value(ctxKeyUserID{}).(string)
	return id, id != ""
}
