package service

import (
	"testing"
	"time"

	"tourportal/internal/auth"
	"tourportal/internal/model"
	"tourportal/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEstimateFee(t *testing.T) {
	minimum := dec("200")

	tests := []struct {
		name     string
		rule     model.FeeRule
		revenue  string
		count    int64
		expected string
	}{
		{
			name:     "percent of revenue above minimum",
			rule:     model.FeeRule{ChargeBasis: model.ChargeBasisPercent, Amount: dec("5"), MinimumAmount: &minimum},
			revenue:  "10000",
			count:    12,
			expected: "500.00",
		},
		{
			name:     "percent floored at minimum",
			rule:     model.FeeRule{ChargeBasis: model.ChargeBasisPercent, Amount: dec("5"), MinimumAmount: &minimum},
			revenue:  "1000",
			count:    2,
			expected: "200.00",
		},
		{
			name:     "fixed scales with completed count",
			rule:     model.FeeRule{ChargeBasis: model.ChargeBasisFixed, Amount: dec("50")},
			revenue:  "9999",
			count:    4,
			expected: "200.00",
		},
		{
			name:     "fixed shown once with zero completed orders",
			rule:     model.FeeRule{ChargeBasis: model.ChargeBasisFixed, Amount: dec("50")},
			revenue:  "0",
			count:    0,
			expected: "50.00",
		},
		{
			name:     "result rounded to cents",
			rule:     model.FeeRule{ChargeBasis: model.ChargeBasisPercent, Amount: dec("3.5")},
			revenue:  "333.33",
			count:    1,
			expected: "11.67",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateFee(tt.rule, dec(tt.revenue), tt.count)
			assert.Equal(t, tt.expected, got.StringFixed(2))
		})
	}
}

func TestEstimateFeeIsIdempotent(t *testing.T) {
	rule := model.FeeRule{ChargeBasis: model.ChargeBasisPercent, Amount: dec("7.25")}
	first := EstimateFee(rule, dec("48211.90"), 31)
	second := EstimateFee(rule, dec("48211.90"), 31)
	assert.True(t, first.Equal(second))
}

func TestOwnerFeeSummary(t *testing.T) {
	e := newTestEnv(t)
	feeSvc := NewFeeService(e.feeRepo, e.orderRepo, e.resolver, e.pipeline)
	orderSvc := newOrderService(e)

	owner := e.seedUser(t, auth.RoleBusinessOwner)
	business := e.seedBusiness(t, &owner, model.StatusPublished)
	offer := e.seedOffer(t, business, "100.00", model.OfferStatusActive)
	visitor := e.seedUser(t, auth.RoleVisitor)

	// Two completed orders worth 100 each, one left pending.
	for i := 0; i < 3; i++ {
		created, err := orderSvc.CreateSelfService(e.ctx(), e.principal(visitor), CreateOrderRequest{
			ProductID: offer.ID.String(), OrderType: model.OrderTypeProduct, Quantity: 1, CustomerName: "Ana",
		})
		require.NoError(t, err)
		if i < 2 {
			_, err = orderSvc.AdminUpdate(e.ctx(), e.principal(owner), created.ID, AdminUpdateOrderRequest{Status: model.OrderStatusCompleted})
			require.NoError(t, err)
		}
	}

	admin := e.seedUser(t, auth.RoleSuperAdmin)
	_, err := feeSvc.CreateFeeRule(e.ctx(), e.principal(admin), CreateFeeRuleRequest{
		FeeType:       model.FeeTypeBusinessCommission,
		ChargeBasis:   model.ChargeBasisPercent,
		Amount:        "10",
		Status:        model.FeeRuleStatusActive,
		EffectiveFrom: "2020-01-01",
	})
	require.NoError(t, err)

	// Draft rules and non-commerce types stay out of the summary.
	_, err = feeSvc.CreateFeeRule(e.ctx(), e.principal(admin), CreateFeeRuleRequest{
		FeeType:       model.FeeTypeAdPromotion,
		ChargeBasis:   model.ChargeBasisFixed,
		Amount:        "500",
		Status:        model.FeeRuleStatusActive,
		EffectiveFrom: "2020-01-01",
	})
	require.NoError(t, err)

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)

	summary, err := feeSvc.OwnerFeeSummary(e.ctx(), e.principal(owner), from, to)
	require.NoError(t, err)

	assert.EqualValues(t, 2, summary.CompletedOrders)
	assert.Equal(t, "200.00", summary.Revenue)
	require.Len(t, summary.Estimates, 1)
	assert.Equal(t, model.FeeTypeBusinessCommission, summary.Estimates[0].FeeType)
	assert.Equal(t, "20.00", summary.Estimates[0].Estimated)
}

func TestOwnerFeeSummaryForbiddenWithoutScope(t *testing.T) {
	e := newTestEnv(t)
	feeSvc := NewFeeService(e.feeRepo, e.orderRepo, e.resolver, e.pipeline)

	ownerless := e.seedUser(t, auth.RoleBusinessOwner)

	_, err := feeSvc.OwnerFeeSummary(e.ctx(), e.principal(ownerless), time.Now().Add(-time.Hour), time.Now())
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestFeeRuleCrudIsAudited(t *testing.T) {
	e := newTestEnv(t)
	feeSvc := NewFeeService(e.feeRepo, e.orderRepo, e.resolver, e.pipeline)
	admin := e.seedUser(t, auth.RoleSuperAdmin)

	rule, err := feeSvc.CreateFeeRule(e.ctx(), e.principal(admin), CreateFeeRuleRequest{
		FeeType:       model.FeeTypeEnvironmental,
		ChargeBasis:   model.ChargeBasisFixed,
		Amount:        "25",
		EffectiveFrom: "2026-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, model.FeeRuleStatusDraft, rule.Status)

	updated, err := feeSvc.UpdateFeeRule(e.ctx(), e.principal(admin), rule.ID, CreateFeeRuleRequest{
		FeeType:       model.FeeTypeEnvironmental,
		ChargeBasis:   model.ChargeBasisFixed,
		Amount:        "30",
		Status:        model.FeeRuleStatusActive,
		EffectiveFrom: "2026-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "30.00", updated.Amount)

	require.NoError(t, feeSvc.DeleteFeeRule(e.ctx(), e.principal(admin), rule.ID))

	entries := e.auditEntries(t, model.ModuleFeeRule)
	require.Len(t, entries, 3)
	assert.Equal(t, model.AuditActionCreate, entries[0].Action)
	assert.Equal(t, model.AuditActionUpdate, entries[1].Action)
	assert.Equal(t, model.AuditActionDelete, entries[2].Action)
	require.NotNil(t, entries[1].BeforeJSON)
	require.NotNil(t, entries[1].AfterJSON)
}
