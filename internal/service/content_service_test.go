package service

import (
	"testing"

	"tourportal/internal/auth"
	"tourportal/internal/model"
	"tourportal/internal/repository"
	"tourportal/internal/sanitize"
	"tourportal/internal/storage"
	"tourportal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentService(e *testEnv, t *testing.T) ContentService {
	return NewContentService(
		repository.NewAttractionRepository(e.db),
		repository.NewEventRepository(e.db),
		e.pipeline,
		sanitize.NewHTMLStripper(),
		storage.NewLocalStore(t.TempDir()),
	)
}

func TestAttractionLifecycleIsAudited(t *testing.T) {
	e := newTestEnv(t)
	svc := newContentService(e, t)
	admin := e.seedUser(t, auth.RoleContentAdmin)

	created, err := svc.CreateAttraction(e.ctx(), e.principal(admin), ContentRequest{
		Name:        "Old <i>Lighthouse</i>",
		Description: "Historic landmark",
		Address:     "1 Cliff Road",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, created.Status)
	assert.Equal(t, "Old Lighthouse", created.Name)

	updated, err := svc.UpdateAttraction(e.ctx(), e.principal(admin), created.ID, ContentRequest{
		Name:   created.Name,
		Status: model.StatusPublished,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, updated.Status)

	require.NoError(t, svc.DeleteAttraction(e.ctx(), e.principal(admin), created.ID))

	entries := e.auditEntries(t, model.ModuleAttraction)
	require.Len(t, entries, 3)
	assert.Equal(t, model.AuditActionCreate, entries[0].Action)
	assert.Equal(t, model.AuditActionUpdate, entries[1].Action)
	assert.Equal(t, model.AuditActionDelete, entries[2].Action)
}

func TestEventWindowValidation(t *testing.T) {
	e := newTestEnv(t)
	svc := newContentService(e, t)
	admin := e.seedUser(t, auth.RoleContentAdmin)

	_, err := svc.CreateEvent(e.ctx(), e.principal(admin), ContentRequest{
		Name:     "Backwards Festival",
		StartsAt: "2026-09-10T10:00:00Z",
		EndsAt:   "2026-09-09T10:00:00Z",
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	created, err := svc.CreateEvent(e.ctx(), e.principal(admin), ContentRequest{
		Name:     "Harbor Festival",
		Venue:    "Old Harbor",
		StartsAt: "2026-09-10T10:00:00Z",
		EndsAt:   "2026-09-12T22:00:00Z",
	})
	require.NoError(t, err)
	require.NotNil(t, created.StartsAt)
	require.NotNil(t, created.EndsAt)
	assert.Equal(t, "2026-09-10T10:00:00Z", *created.StartsAt)
}

func TestContentListFilters(t *testing.T) {
	e := newTestEnv(t)
	svc := newContentService(e, t)
	admin := e.seedUser(t, auth.RoleContentAdmin)

	for _, name := range []string{"City Museum", "Cliff Walk", "Botanic Garden"} {
		_, err := svc.CreateAttraction(e.ctx(), e.principal(admin), ContentRequest{Name: name, Status: model.StatusPublished})
		require.NoError(t, err)
	}
	_, err := svc.CreateAttraction(e.ctx(), e.principal(admin), ContentRequest{Name: "Hidden Draft"})
	require.NoError(t, err)

	published, total, err := svc.ListAttractions(e.ctx(), 1, 20, "", model.StatusPublished)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, published, 3)

	matched, total, err := svc.ListAttractions(e.ctx(), 1, 20, "cliff", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, matched, 1)
	assert.Equal(t, "Cliff Walk", matched[0].Name)
}
