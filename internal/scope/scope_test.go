package scope

import (
	"context"
	"testing"

	"tourportal/internal/auth"
	"tourportal/internal/database"
	"tourportal/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedOwnerWithBusinesses(t *testing.T, db *gorm.DB, n int) (model.User, []model.Business) {
	t.Helper()
	owner := model.User{
		Username: "owner-" + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@example.com",
		Password: "hashed",
		Role:     auth.RoleBusinessOwner,
	}
	require.NoError(t, db.Create(&owner).Error)

	businesses := make([]model.Business, 0, n)
	for i := 0; i < n; i++ {
		b := model.Business{Name: "biz-" + uuid.NewString()[:8], Status: model.StatusPublished, OwnerUserID: &owner.ID}
		require.NoError(t, db.Create(&b).Error)
		businesses = append(businesses, b)
	}
	return owner, businesses
}

func TestApplyFiltersByScope(t *testing.T) {
	db := newTestDB(t)
	_, mine := seedOwnerWithBusinesses(t, db, 2)
	_, theirs := seedOwnerWithBusinesses(t, db, 3)

	t.Run("bounded scope returns only its ids", func(t *testing.T) {
		sc := Of(mine[0].ID, mine[1].ID)

		var got []model.Business
		require.NoError(t, sc.Apply(db.Model(&model.Business{}), "id").Find(&got).Error)
		require.Len(t, got, 2)
		for _, b := range got {
			assert.True(t, sc.Contains(b.ID))
			for _, other := range theirs {
				assert.NotEqual(t, other.ID, b.ID)
			}
		}
	})

	t.Run("empty scope matches nothing", func(t *testing.T) {
		var got []model.Business
		require.NoError(t, Empty().Apply(db.Model(&model.Business{}), "id").Find(&got).Error)
		assert.Empty(t, got, "empty scope must not leak rows")
	})

	t.Run("unbounded scope passes through", func(t *testing.T) {
		var got []model.Business
		require.NoError(t, Unbounded().Apply(db.Model(&model.Business{}), "id").Find(&got).Error)
		assert.Len(t, got, 5)
	})
}

func TestResolverByRole(t *testing.T) {
	db := newTestDB(t)
	resolver := NewResolver(db)
	ctx := context.Background()

	ownerA, businessesA := seedOwnerWithBusinesses(t, db, 2)
	ownerB, businessesB := seedOwnerWithBusinesses(t, db, 1)

	t.Run("super_admin is unbounded", func(t *testing.T) {
		sc, err := resolver.Resolve(ctx, auth.Principal{ID: uuid.New(), Role: auth.RoleSuperAdmin})
		require.NoError(t, err)
		assert.True(t, sc.IsUnbounded())
		assert.True(t, sc.Contains(businessesB[0].ID))
	})

	t.Run("owner scope is exactly their businesses", func(t *testing.T) {
		sc, err := resolver.Resolve(ctx, auth.Principal{ID: ownerA.ID, Role: auth.RoleBusinessOwner})
		require.NoError(t, err)
		assert.False(t, sc.IsUnbounded())
		assert.False(t, sc.IsEmpty())
		for _, b := range businessesA {
			assert.True(t, sc.Contains(b.ID))
		}
		assert.False(t, sc.Contains(businessesB[0].ID), "owner A must never see owner B's businesses")
	})

	t.Run("owner without businesses resolves empty", func(t *testing.T) {
		orphan := model.User{Username: "orphan", Email: "orphan@example.com", Password: "hashed", Role: auth.RoleBusinessOwner}
		require.NoError(t, db.Create(&orphan).Error)

		sc, err := resolver.Resolve(ctx, auth.Principal{ID: orphan.ID, Role: auth.RoleBusinessOwner})
		require.NoError(t, err)
		assert.True(t, sc.IsEmpty())
	})

	t.Run("content_admin has no ownership scope", func(t *testing.T) {
		sc, err := resolver.Resolve(ctx, auth.Principal{ID: uuid.New(), Role: auth.RoleContentAdmin})
		require.NoError(t, err)
		assert.True(t, sc.IsEmpty())
	})

	t.Run("visitor has no ownership scope", func(t *testing.T) {
		sc, err := resolver.Resolve(ctx, auth.Principal{ID: ownerB.ID, Role: auth.RoleVisitor})
		require.NoError(t, err)
		assert.True(t, sc.IsEmpty())
	})
}
