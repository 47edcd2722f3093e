package auth

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

// Identity is the caller scope supplied by the upstream auth layer. It is
// trusted as-is; this service only filters by it.
type Identity struct {
	TenantID     string
	DepartmentID string
	SiteID       string
	SiteType     model.SiteType
}

func (i Identity) IsFactorySite() bool {
	return i.SiteType == model.SiteTypeFactory
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
