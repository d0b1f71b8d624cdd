package service

import (
	"testing"
	"time"

	"tourportal/internal/auth"
	"tourportal/internal/model"
	"tourportal/internal/repository"
	"tourportal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardService(e *testEnv) DashboardService {
	return NewDashboardService(repository.NewDashboardRepository(e.db), e.orderRepo, e.resolver)
}

func TestModerationQueueOrdering(t *testing.T) {
	e := newTestEnv(t)
	svc := newDashboardService(e)
	admin := e.seedUser(t, auth.RoleSuperAdmin)

	base := time.Now().UTC().Add(-time.Hour)

	// Drafts across modules with staggered update times.
	biz := e.seedBusiness(t, nil, model.StatusDraft)
	require.NoError(t, e.db.Model(&biz).Update("updated_at", base.Add(2*time.Minute)).Error)

	attraction := model.Attraction{Name: "Old Lighthouse", Status: model.StatusDraft}
	require.NoError(t, e.db.Create(&attraction).Error)
	require.NoError(t, e.db.Model(&attraction).Update("updated_at", base.Add(5*time.Minute)).Error)

	event := model.Event{Name: "Harbor Festival", Status: model.StatusDraft}
	require.NoError(t, e.db.Create(&event).Error)
	require.NoError(t, e.db.Model(&event).Update("updated_at", base.Add(1*time.Minute)).Error)

	// Published records never enter the queue.
	e.seedBusiness(t, nil, model.StatusPublished)

	queue, err := svc.GetModerationQueue(e.ctx(), e.principal(admin), 10)
	require.NoError(t, err)
	require.Len(t, queue, 3)

	assert.Equal(t, model.ModuleAttraction, queue[0].Module)
	assert.Equal(t, model.ModuleBusiness, queue[1].Module)
	assert.Equal(t, model.ModuleEvent, queue[2].Module)
	for i := 1; i < len(queue); i++ {
		assert.False(t, queue[i].UpdatedAt.After(queue[i-1].UpdatedAt), "queue must be sorted newest first")
	}
}

func TestModerationQueueRequiresStaff(t *testing.T) {
	e := newTestEnv(t)
	svc := newDashboardService(e)
	owner := e.seedUser(t, auth.RoleBusinessOwner)

	_, err := svc.GetModerationQueue(e.ctx(), e.principal(owner), 10)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestOverviewScopesCommerceFigures(t *testing.T) {
	e := newTestEnv(t)
	dashSvc := newDashboardService(e)
	orderSvc := newOrderService(e)

	ownerA := e.seedUser(t, auth.RoleBusinessOwner)
	ownerB := e.seedUser(t, auth.RoleBusinessOwner)
	businessA := e.seedBusiness(t, &ownerA, model.StatusPublished)
	businessB := e.seedBusiness(t, &ownerB, model.StatusPublished)
	offerA := e.seedOffer(t, businessA, "40.00", model.OfferStatusActive)
	offerB := e.seedOffer(t, businessB, "60.00", model.OfferStatusActive)
	visitor := e.seedUser(t, auth.RoleVisitor)

	orderA, err := orderSvc.CreateSelfService(e.ctx(), e.principal(visitor), CreateOrderRequest{
		ProductID: offerA.ID.String(), OrderType: model.OrderTypeProduct, Quantity: 1, CustomerName: "Ana",
	})
	require.NoError(t, err)
	_, err = orderSvc.AdminUpdate(e.ctx(), e.principal(ownerA), orderA.ID, AdminUpdateOrderRequest{Status: model.OrderStatusCompleted})
	require.NoError(t, err)

	_, err = orderSvc.CreateSelfService(e.ctx(), e.principal(visitor), CreateOrderRequest{
		ProductID: offerB.ID.String(), OrderType: model.OrderTypeProduct, Quantity: 1, CustomerName: "Ana",
	})
	require.NoError(t, err)

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)

	overview, err := dashSvc.GetOverview(e.ctx(), e.principal(ownerA), from, to)
	require.NoError(t, err)

	assert.EqualValues(t, 1, overview.Commerce.CompletedOrders)
	assert.Equal(t, "40.00", overview.Commerce.CompletedRevenue)
	assert.EqualValues(t, 1, overview.Commerce.OrdersByStatus[model.OrderStatusCompleted])
	assert.Zero(t, overview.Commerce.OrdersByStatus[model.OrderStatusPending], "other owners' orders stay invisible")
	assert.Empty(t, overview.Modules, "content tallies are staff only")

	adminView, err := dashSvc.GetOverview(e.ctx(), e.principal(e.seedUser(t, auth.RoleSuperAdmin)), from, to)
	require.NoError(t, err)
	assert.EqualValues(t, 2, adminView.Commerce.CompletedOrders+adminView.Commerce.OrdersByStatus[model.OrderStatusPending])
	assert.NotEmpty(t, adminView.Modules)
}
