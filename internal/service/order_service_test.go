package service

import (
	"context"
	"errors"
	"testing"

	"tourportal/internal/auth"
	"tourportal/internal/model"
	"tourportal/internal/repository"
	"tourportal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderService(e *testEnv) OrderService {
	return NewOrderService(e.orderRepo, e.offerRepo, e.resolver, e.pipeline, nil)
}

func TestCreateSelfServiceComputesTotal(t *testing.T) {
	e := newTestEnv(t)
	svc := newOrderService(e)

	owner := e.seedUser(t, auth.RoleBusinessOwner)
	business := e.seedBusiness(t, &owner, model.StatusPublished)
	offer := e.seedOffer(t, business, "150.00", model.OfferStatusActive)
	visitor := e.seedUser(t, auth.RoleVisitor)

	res, err := svc.CreateSelfService(e.ctx(), e.principal(visitor), CreateOrderRequest{
		ProductID:    offer.ID.String(),
		OrderType:    model.OrderTypeProduct,
		Quantity:     3,
		CustomerName: "Ana",
	})
	require.NoError(t, err)

	assert.Equal(t, "450.00", res.TotalAmount)
	assert.Equal(t, "150.00", res.UnitPrice)
	assert.Equal(t, model.OrderStatusPending, res.Status)
	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, res.ReferenceNo)

	entries := e.auditEntries(t, model.ModuleOrder)
	require.Len(t, entries, 1)
	assert.Equal(t, model.AuditActionCreate, entries[0].Action)
	require.NotNil(t, entries[0].ActorID)
	assert.Equal(t, visitor.ID, *entries[0].ActorID)
	assert.Nil(t, entries[0].BeforeJSON)
	require.NotNil(t, entries[0].AfterJSON)
}

func TestCreateSelfServiceRejectsUnavailableProduct(t *testing.T) {
	e := newTestEnv(t)
	svc := newOrderService(e)
	visitor := e.seedUser(t, auth.RoleVisitor)

	owner := e.seedUser(t, auth.RoleBusinessOwner)

	t.Run("inactive offer", func(t *testing.T) {
		business := e.seedBusiness(t, &owner, model.StatusPublished)
		offer := e.seedOffer(t, business, "10.00", model.OfferStatusInactive)

		_, err := svc.CreateSelfService(e.ctx(), e.principal(visitor), CreateOrderRequest{
			ProductID: offer.ID.String(), OrderType: model.OrderTypeProduct, Quantity: 1, CustomerName: "Ana",
		})
		assert.Equal(t, apperror.KindUnprocessable, apperror.KindOf(err))
	})

	t.Run("unpublished business", func(t *testing.T) {
		business := e.seedBusiness(t, &owner, model.StatusDraft)
		offer := e.seedOffer(t, business, "10.00", model.OfferStatusActive)

		_, err := svc.CreateSelfService(e.ctx(), e.principal(visitor), CreateOrderRequest{
			ProductID: offer.ID.String(), OrderType: model.OrderTypeProduct, Quantity: 1, CustomerName: "Ana",
		})
		assert.Equal(t, apperror.KindUnprocessable, apperror.KindOf(err))
	})
}

func TestCancelOwnRules(t *testing.T) {
	e := newTestEnv(t)
	svc := newOrderService(e)

	owner := e.seedUser(t, auth.RoleBusinessOwner)
	business := e.seedBusiness(t, &owner, model.StatusPublished)
	offer := e.seedOffer(t, business, "20.00", model.OfferStatusActive)
	visitor := e.seedUser(t, auth.RoleVisitor)
	stranger := e.seedUser(t, auth.RoleVisitor)

	created, err := svc.CreateSelfService(e.ctx(), e.principal(visitor), CreateOrderRequest{
		ProductID: offer.ID.String(), OrderType: model.OrderTypeProduct, Quantity: 1, CustomerName: "Ana",
	})
	require.NoError(t, err)

	t.Run("another visitor is rejected", func(t *testing.T) {
		_, err := svc.CancelOwn(e.ctx(), e.principal(stranger), created.ID, CancelOrderRequest{Reason: "changed plans"})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("blank reason is rejected", func(t *testing.T) {
		_, err := svc.CancelOwn(e.ctx(), e.principal(visitor), created.ID, CancelOrderRequest{Reason: "   "})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("owner cancels own pending order", func(t *testing.T) {
		res, err := svc.CancelOwn(e.ctx(), e.principal(visitor), created.ID, CancelOrderRequest{Reason: "changed plans"})
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, res.Status)
		require.NotNil(t, res.CancellationReason)
		assert.Equal(t, "changed plans", *res.CancellationReason)
	})

	t.Run("cancelled order cannot be cancelled again", func(t *testing.T) {
		_, err := svc.CancelOwn(e.ctx(), e.principal(visitor), created.ID, CancelOrderRequest{Reason: "again"})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})
}

func TestAdminUpdateScopeAndStatus(t *testing.T) {
	e := newTestEnv(t)
	svc := newOrderService(e)

	ownerA := e.seedUser(t, auth.RoleBusinessOwner)
	ownerB := e.seedUser(t, auth.RoleBusinessOwner)
	businessA := e.seedBusiness(t, &ownerA, model.StatusPublished)
	e.seedBusiness(t, &ownerB, model.StatusPublished)
	offer := e.seedOffer(t, businessA, "30.00", model.OfferStatusActive)
	visitor := e.seedUser(t, auth.RoleVisitor)

	created, err := svc.CreateSelfService(e.ctx(), e.principal(visitor), CreateOrderRequest{
		ProductID: offer.ID.String(), OrderType: model.OrderTypeProduct, Quantity: 2, CustomerName: "Ana",
	})
	require.NoError(t, err)

	t.Run("foreign owner is outside scope", func(t *testing.T) {
		_, err := svc.AdminUpdate(e.ctx(), e.principal(ownerB), created.ID, AdminUpdateOrderRequest{Status: model.OrderStatusConfirmed})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		_, err := svc.AdminUpdate(e.ctx(), e.principal(ownerA), created.ID, AdminUpdateOrderRequest{Status: "shipped"})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("scoped owner moves status freely", func(t *testing.T) {
		res, err := svc.AdminUpdate(e.ctx(), e.principal(ownerA), created.ID, AdminUpdateOrderRequest{Status: model.OrderStatusCompleted})
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCompleted, res.Status)
	})

	t.Run("quantity change recomputes total", func(t *testing.T) {
		res, err := svc.AdminUpdate(e.ctx(), e.principal(ownerA), created.ID, AdminUpdateOrderRequest{Quantity: 5})
		require.NoError(t, err)
		assert.Equal(t, "150.00", res.TotalAmount)
	})

	t.Run("content_admin administers without ownership", func(t *testing.T) {
		admin := e.seedUser(t, auth.RoleContentAdmin)
		res, err := svc.AdminUpdate(e.ctx(), e.principal(admin), created.ID, AdminUpdateOrderRequest{CustomerName: "Corrected"})
		require.NoError(t, err)
		assert.Equal(t, "Corrected", res.CustomerName)
	})
}

func TestVisitorListSeesOnlyOwnOrders(t *testing.T) {
	e := newTestEnv(t)
	svc := newOrderService(e)

	owner := e.seedUser(t, auth.RoleBusinessOwner)
	business := e.seedBusiness(t, &owner, model.StatusPublished)
	offer := e.seedOffer(t, business, "10.00", model.OfferStatusActive)
	visitorA := e.seedUser(t, auth.RoleVisitor)
	visitorB := e.seedUser(t, auth.RoleVisitor)

	for i := 0; i < 2; i++ {
		_, err := svc.CreateSelfService(e.ctx(), e.principal(visitorA), CreateOrderRequest{
			ProductID: offer.ID.String(), OrderType: model.OrderTypeProduct, Quantity: 1, CustomerName: "A",
		})
		require.NoError(t, err)
	}
	_, err := svc.CreateSelfService(e.ctx(), e.principal(visitorB), CreateOrderRequest{
		ProductID: offer.ID.String(), OrderType: model.OrderTypeProduct, Quantity: 1, CustomerName: "B",
	})
	require.NoError(t, err)

	ordersA, totalA, err := svc.List(e.ctx(), e.principal(visitorA), OrderListFilter{}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, totalA)
	assert.Len(t, ordersA, 2)

	orderB, err := svc.GetByID(e.ctx(), e.principal(visitorB), ordersA[0].ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	assert.Empty(t, orderB.ID)
}

// failingAuditRepo simulates an audit sink outage.
type failingAuditRepo struct {
	repository.AuditRepository
}

func (f *failingAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	return errors.New("audit sink unavailable")
}

func TestAuditFailureRollsBackMutation(t *testing.T) {
	e := newTestEnv(t)
	brokenPipeline := NewAuditPipeline(repository.NewTransactionManager(e.db), &failingAuditRepo{AuditRepository: e.auditRepo})
	svc := NewOrderService(e.orderRepo, e.offerRepo, e.resolver, brokenPipeline, nil)

	owner := e.seedUser(t, auth.RoleBusinessOwner)
	business := e.seedBusiness(t, &owner, model.StatusPublished)
	offer := e.seedOffer(t, business, "10.00", model.OfferStatusActive)
	visitor := e.seedUser(t, auth.RoleVisitor)

	_, err := svc.CreateSelfService(e.ctx(), e.principal(visitor), CreateOrderRequest{
		ProductID: offer.ID.String(), OrderType: model.OrderTypeProduct, Quantity: 1, CustomerName: "Ana",
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, e.db.Model(&model.Order{}).Count(&count).Error)
	assert.Zero(t, count, "order must not survive a failed audit write")
}
