package service

import (
	"context"
	"testing"

	"tourportal/internal/auth"
	"tourportal/internal/database"
	"tourportal/internal/model"
	"tourportal/internal/repository"
	"tourportal/internal/scope"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires real repositories against an in-memory database so service
// behavior is exercised end to end, transactions included.
type testEnv struct {
	db        *gorm.DB
	resolver  scope.Resolver
	pipeline  *AuditPipeline
	userRepo  repository.UserRepository
	bizRepo   repository.BusinessRepository
	offerRepo repository.OfferRepository
	orderRepo repository.OrderRepository
	feeRepo   repository.FeeRuleRepository
	auditRepo repository.AuditRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	auditRepo := repository.NewAuditRepository(db)
	return &testEnv{
		db:        db,
		resolver:  scope.NewResolver(db),
		pipeline:  NewAuditPipeline(repository.NewTransactionManager(db), auditRepo),
		userRepo:  repository.NewUserRepository(db),
		bizRepo:   repository.NewBusinessRepository(db),
		offerRepo: repository.NewOfferRepository(db),
		orderRepo: repository.NewOrderRepository(db),
		feeRepo:   repository.NewFeeRuleRepository(db),
		auditRepo: auditRepo,
	}
}

func (e *testEnv) seedUser(t *testing.T, role string) model.User {
	t.Helper()
	user := model.User{
		Username: "user-" + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

func (e *testEnv) seedBusiness(t *testing.T, owner *model.User, status string) model.Business {
	t.Helper()
	business := model.Business{
		Name:   "biz-" + uuid.NewString()[:8],
		Status: status,
	}
	if owner != nil {
		business.OwnerUserID = &owner.ID
	}
	require.NoError(t, e.db.Create(&business).Error)
	return business
}

func (e *testEnv) seedOffer(t *testing.T, business model.Business, price string, status string) model.Offer {
	t.Helper()
	offer := model.Offer{
		BusinessID: business.ID,
		Name:       "offer-" + uuid.NewString()[:8],
		Price:      decimal.RequireFromString(price),
		Status:     status,
	}
	require.NoError(t, e.db.Create(&offer).Error)
	return offer
}

func (e *testEnv) principal(user model.User) auth.Principal {
	return auth.Principal{ID: user.ID, Role: user.Role}
}

func (e *testEnv) auditEntries(t *testing.T, module string) []model.AuditLog {
	t.Helper()
	var entries []model.AuditLog
	require.NoError(t, e.db.Where("module = ?", module).Order("created_at asc").Find(&entries).Error)
	return entries
}

func (e *testEnv) ctx() context.Context {
	return context.Background()
}
