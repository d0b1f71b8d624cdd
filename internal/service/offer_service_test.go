package service

import (
	"testing"

	"tourportal/internal/auth"
	"tourportal/internal/model"
	"tourportal/internal/sanitize"
	"tourportal/internal/storage"
	"tourportal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOfferService(e *testEnv, t *testing.T) OfferService {
	return NewOfferService(e.offerRepo, e.resolver, e.pipeline, sanitize.NewHTMLStripper(), storage.NewLocalStore(t.TempDir()))
}

func TestListPublishedHidesUnsellableOffers(t *testing.T) {
	e := newTestEnv(t)
	svc := newOfferService(e, t)

	owner := e.seedUser(t, auth.RoleBusinessOwner)
	published := e.seedBusiness(t, &owner, model.StatusPublished)
	draft := e.seedBusiness(t, &owner, model.StatusDraft)

	visible := e.seedOffer(t, published, "10.00", model.OfferStatusActive)
	e.seedOffer(t, published, "10.00", model.OfferStatusInactive)
	e.seedOffer(t, draft, "10.00", model.OfferStatusActive)

	offers, total, err := svc.ListPublished(e.ctx(), 1, 20, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, offers, 1)
	assert.Equal(t, visible.ID.String(), offers[0].ID)
}

func TestOfferCreateEnforcesBusinessScope(t *testing.T) {
	e := newTestEnv(t)
	svc := newOfferService(e, t)

	ownerA := e.seedUser(t, auth.RoleBusinessOwner)
	ownerB := e.seedUser(t, auth.RoleBusinessOwner)
	businessA := e.seedBusiness(t, &ownerA, model.StatusPublished)

	t.Run("owner creates inside own scope", func(t *testing.T) {
		res, err := svc.Create(e.ctx(), e.principal(ownerA), CreateOfferRequest{
			BusinessID: businessA.ID.String(),
			Name:       "Boat tour",
			Price:      "45.50",
		})
		require.NoError(t, err)
		assert.Equal(t, "45.50", res.Price)
		assert.Equal(t, model.OfferStatusDraft, res.Status)
	})

	t.Run("foreign owner is rejected", func(t *testing.T) {
		_, err := svc.Create(e.ctx(), e.principal(ownerB), CreateOfferRequest{
			BusinessID: businessA.ID.String(),
			Name:       "Hijacked offer",
			Price:      "1.00",
		})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		_, err := svc.Create(e.ctx(), e.principal(ownerA), CreateOfferRequest{
			BusinessID: businessA.ID.String(),
			Name:       "Bad price",
			Price:      "-5",
		})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}

func TestListScopedIsolatesOwners(t *testing.T) {
	e := newTestEnv(t)
	svc := newOfferService(e, t)

	ownerA := e.seedUser(t, auth.RoleBusinessOwner)
	ownerB := e.seedUser(t, auth.RoleBusinessOwner)
	businessA := e.seedBusiness(t, &ownerA, model.StatusPublished)
	businessB := e.seedBusiness(t, &ownerB, model.StatusPublished)
	e.seedOffer(t, businessA, "10.00", model.OfferStatusDraft)
	e.seedOffer(t, businessB, "10.00", model.OfferStatusActive)

	offers, total, err := svc.ListScoped(e.ctx(), e.principal(ownerA), 1, 20, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, offers, 1)
	assert.Equal(t, businessA.ID.String(), offers[0].BusinessID)

	// A visitor has no scope at all.
	visitor := e.seedUser(t, auth.RoleVisitor)
	_, _, err = svc.ListScoped(e.ctx(), e.principal(visitor), 1, 20, "")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}
