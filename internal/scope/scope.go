package scope

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BusinessScope is the set of business ids a principal may read or mutate.
// A super_admin scope is unbounded and represented as "no filter" rather than
// a materialized id list. The zero value is the empty scope.
type BusinessScope struct {
	unbounded bool
	ids       []uuid.UUID
}

// Unbounded returns the all-businesses scope used by super admins.
func Unbounded() BusinessScope {
	return BusinessScope{unbounded: true}
}

// Of returns a scope restricted to the given business ids.
func Of(ids ...uuid.UUID) BusinessScope {
	return BusinessScope{ids: ids}
}

// Empty returns the scope that matches nothing. Callers must treat it as
// "not authorized", never as "no results".
func Empty() BusinessScope {
	return BusinessScope{}
}

// IsUnbounded reports whether the scope matches every business.
func (s BusinessScope) IsUnbounded() bool {
	return s.unbounded
}

// IsEmpty reports whether the scope matches no business at all.
func (s BusinessScope) IsEmpty() bool {
	return !s.unbounded && len(s.ids) == 0
}

// Contains reports whether the scope covers the given business id.
func (s BusinessScope) Contains(id uuid.UUID) bool {
	if s.unbounded {
		return true
	}
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// IDs returns the materialized id list. Only meaningful for bounded scopes.
func (s BusinessScope) IDs() []uuid.UUID {
	return s.ids
}

// Apply narrows a query to the scope using the given business-id column.
// The filter is mandatory: an empty scope yields a query matching no rows,
// so a missing authorization check can never widen into a data leak.
func (s BusinessScope) Apply(db *gorm.DB, column string) *gorm.DB {
	if s.unbounded {
		return db
	}
	if len(s.ids) == 0 {
		return db.Where("1 = 0")
	}
	return db.Where(column+" IN ?", s.ids)
}
