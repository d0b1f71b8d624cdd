package service

import (
	"testing"
	"time"

	"tourportal/internal/auth"
	"tourportal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPageViewAcceptsAnonymous(t *testing.T) {
	e := newTestEnv(t)
	svc := NewAuditService(e.auditRepo)

	require.NoError(t, svc.RecordPageView(e.ctx(), auth.Anonymous, "/attractions"))

	visitor := e.seedUser(t, auth.RoleVisitor)
	require.NoError(t, svc.RecordPageView(e.ctx(), e.principal(visitor), "/events"))

	entries := e.auditEntries(t, model.ModuleVisitorPage)
	require.Len(t, entries, 2)
	assert.Nil(t, entries[0].ActorID)
	require.NotNil(t, entries[1].ActorID)
	assert.Equal(t, visitor.ID, *entries[1].ActorID)
}

func TestVisitorAnalyticsCountsWithinRange(t *testing.T) {
	e := newTestEnv(t)
	svc := NewAuditService(e.auditRepo)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.RecordPageView(e.ctx(), auth.Anonymous, "/home"))
	}

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)

	analytics, err := svc.GetVisitorAnalytics(e.ctx(), from, to)
	require.NoError(t, err)
	assert.EqualValues(t, 3, analytics.TotalViews)
	require.Len(t, analytics.Daily, 1)
	assert.EqualValues(t, 3, analytics.Daily[0].Count)

	// A range in the past sees nothing.
	empty, err := svc.GetVisitorAnalytics(e.ctx(), from.AddDate(0, -1, 0), to.AddDate(0, -1, 0))
	require.NoError(t, err)
	assert.Zero(t, empty.TotalViews)
	assert.Empty(t, empty.Daily)
}

func TestGetAuditLogsFiltersAndNamesActors(t *testing.T) {
	e := newTestEnv(t)
	svc := NewAuditService(e.auditRepo)
	orderSvc := newOrderService(e)

	owner := e.seedUser(t, auth.RoleBusinessOwner)
	business := e.seedBusiness(t, &owner, model.StatusPublished)
	offer := e.seedOffer(t, business, "10.00", model.OfferStatusActive)
	visitor := e.seedUser(t, auth.RoleVisitor)

	_, err := orderSvc.CreateSelfService(e.ctx(), e.principal(visitor), CreateOrderRequest{
		ProductID: offer.ID.String(), OrderType: model.OrderTypeProduct, Quantity: 1, CustomerName: "Ana",
	})
	require.NoError(t, err)
	require.NoError(t, svc.RecordPageView(e.ctx(), auth.Anonymous, "/home"))

	orders, total, err := svc.GetAuditLogs(e.ctx(), model.ModuleOrder, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, visitor.Username, orders[0].ActorName)

	views, _, err := svc.GetAuditLogs(e.ctx(), model.ModuleVisitorPage, "", 1, 20)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "System", views[0].ActorName)
}
