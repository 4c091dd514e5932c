package api

import (
	"context"

	"github.com/ATMackay/website-go/models"
)

type keyType string

const userKey keyType = "user"

// ctxWithUser adds the resolved user to the context. A nil user marks the
// request as anonymous.
func ctxWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// ctxUser retrieves the resolved user from the context, or nil for an
// anonymous request.
func ctxUser(ctx context.Context) *models.User {
	if u, ok := ctx.Value(userKey).(*models.User); ok {
		return u
	}
	return nil
}
