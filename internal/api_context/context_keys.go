package api_context

import (
	"context"

	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

type ctxKey string

const (
	IDKey         ctxKey = "id"
	AuthUserIDKey ctxKey = "authUserID"
	AuthRolesKey  ctxKey = "authRoles"
)

func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(IDKey).(uuid.UUID)
	return id, ok
}

// AuthUserIDFromContext returns the subject of the caller's token, if any.
func AuthUserIDFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(AuthUserIDKey).(string)
	return sub, ok && sub != ""
}

func AuthRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(AuthRolesKey).([]string)
	return roles, ok
}
