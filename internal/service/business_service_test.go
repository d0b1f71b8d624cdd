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

func newBusinessService(e *testEnv, t *testing.T) BusinessService {
	return NewBusinessService(e.bizRepo, e.resolver, e.pipeline, sanitize.NewHTMLStripper(), storage.NewLocalStore(t.TempDir()))
}

func TestBusinessCreateAssignsOwner(t *testing.T) {
	e := newTestEnv(t)
	svc := newBusinessService(e, t)

	owner := e.seedUser(t, auth.RoleBusinessOwner)

	res, err := svc.Create(e.ctx(), e.principal(owner), CreateBusinessRequest{
		Name:        "Harbor <script>alert(1)</script>Cafe",
		Description: "<b>Best</b> coffee in town",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusDraft, res.Status)
	require.NotNil(t, res.OwnerUserID)
	assert.Equal(t, owner.ID.String(), *res.OwnerUserID)
	assert.NotContains(t, res.Name, "<script>")
	assert.NotContains(t, res.Description, "<b>")

	entries := e.auditEntries(t, model.ModuleBusiness)
	require.Len(t, entries, 1)
	assert.Equal(t, model.AuditActionCreate, entries[0].Action)
}

func TestBusinessVisitorCannotCreate(t *testing.T) {
	e := newTestEnv(t)
	svc := newBusinessService(e, t)
	visitor := e.seedUser(t, auth.RoleVisitor)

	_, err := svc.Create(e.ctx(), e.principal(visitor), CreateBusinessRequest{Name: "Nope"})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestBusinessUpdateEnforcesScope(t *testing.T) {
	e := newTestEnv(t)
	svc := newBusinessService(e, t)

	ownerA := e.seedUser(t, auth.RoleBusinessOwner)
	ownerB := e.seedUser(t, auth.RoleBusinessOwner)
	businessA := e.seedBusiness(t, &ownerA, model.StatusDraft)

	t.Run("foreign owner is rejected", func(t *testing.T) {
		_, err := svc.Update(e.ctx(), e.principal(ownerB), businessA.ID.String(), UpdateBusinessRequest{Name: "Hostile rename"})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("owner publishes their listing", func(t *testing.T) {
		res, err := svc.Update(e.ctx(), e.principal(ownerA), businessA.ID.String(), UpdateBusinessRequest{Status: model.StatusPublished})
		require.NoError(t, err)
		assert.Equal(t, model.StatusPublished, res.Status)
	})

	t.Run("staff edits without ownership", func(t *testing.T) {
		admin := e.seedUser(t, auth.RoleSuperAdmin)
		res, err := svc.Update(e.ctx(), e.principal(admin), businessA.ID.String(), UpdateBusinessRequest{Name: "Renamed by staff"})
		require.NoError(t, err)
		assert.Equal(t, "Renamed by staff", res.Name)
	})
}

func TestBusinessListMine(t *testing.T) {
	e := newTestEnv(t)
	svc := newBusinessService(e, t)

	ownerA := e.seedUser(t, auth.RoleBusinessOwner)
	ownerB := e.seedUser(t, auth.RoleBusinessOwner)
	e.seedBusiness(t, &ownerA, model.StatusPublished)
	e.seedBusiness(t, &ownerA, model.StatusDraft)
	e.seedBusiness(t, &ownerB, model.StatusPublished)

	mine, err := svc.ListMine(e.ctx(), e.principal(ownerA))
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
