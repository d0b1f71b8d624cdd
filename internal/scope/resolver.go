package scope

import (
	"context"
	"fmt"

	"tourportal/internal/auth"
	"tourportal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resolver computes the business scope for a principal. It must be consulted
// exactly once per request boundary; the resulting scope is threaded into
// every downstream commerce query as a mandatory filter.
type Resolver interface {
	Resolve(ctx context.Context, principal auth.Principal) (BusinessScope, error)
}

type resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) Resolver {
	return &resolver{db: db}
}

// Resolve is pure with respect to application state: a single lookup, no side
// effects. Roles without ownership (content_admin, visitor, anonymous) get the
// empty scope, which consumers must reject as unauthorized rather than
// silently returning zero rows.
func (r *resolver) Resolve(ctx context.Context, principal auth.Principal) (BusinessScope, error) {
	switch principal.Role {
	case auth.RoleSuperAdmin:
		return Unbounded(), nil
	case auth.RoleBusinessOwner:
		var ids []uuid.UUID
		err := r.db.WithContext(ctx).
			Model(&model.Business{}).
			Where("owner_user_id = ?", principal.ID).
			Pluck("id", &ids).Error
		if err != nil {
			return Empty(), fmt.Errorf("failed to resolve owner scope: %w", err)
		}
		return Of(ids...), nil
	default:
		return Empty(), nil
	}
}
