package deletion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"leadportal_backend/internal/leads/domain"
	"leadportal_backend/platform/apperr"
	"leadportal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedLead struct {
	name    string
	email   string
	message string
	status  domain.Status
	deleted bool
}

// fakeStore models a row-level policy that may block each path separately.
type fakeStore struct {
	leads map[uuid.UUID]*storedLead

	adminErr    error
	callerErr   error
	functionErr error
	softErr     error

	calls []string
}

func newFakeStore(id uuid.UUID) *fakeStore {
	return &fakeStore{leads: map[uuid.UUID]*storedLead{
		id: {name: "Jo Smith", email: "jo@x.com", message: "Need a quote for a shear", status: domain.StatusQualified},
	}}
}

func (f *fakeStore) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.leads[id]
	return ok, nil
}

func (f *fakeStore) remove(id uuid.UUID, call string, blocked error) error {
	f.calls = append(f.calls, call)
	if blocked != nil {
		return blocked
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeStore) DeleteAsAdmin(_ context.Context, id uuid.UUID) error {
	return f.remove(id, "admin", f.adminErr)
}

func (f *fakeStore) DeleteAsCaller(_ context.Context, id uuid.UUID, _ domain.Caller) error {
	return f.remove(id, "caller", f.callerErr)
}

func (f *fakeStore) DeleteViaFunction(_ context.Context, id uuid.UUID) error {
	return f.remove(id, "function", f.functionErr)
}

func (f *fakeStore) SoftDelete(_ context.Context, id uuid.UUID, tomb domain.Tombstone) error {
	f.calls = append(f.calls, "soft")
	if f.softErr != nil {
		return f.softErr
	}
	lead := f.leads[id]
	lead.name, lead.email, lead.message, lead.deleted = tomb.Name, tomb.Email, tomb.Message, true
	return nil
}

func TestDeleteStopsAtAdminDirect(t *testing.T) {
	id := uuid.New()
	store := newFakeStore(id)
	svc := New(store, logger.Discard(), nil)

	method, err := svc.Delete(context.Background(), id, domain.Caller{})
	require.NoError(t, err)
	assert.Equal(t, domain.DeleteAdminDirect, method)
	assert.Equal(t, []string{"admin"}, store.calls)
	assert.NotContains(t, store.leads, id)
}

func TestDeleteEscalatesInOrder(t *testing.T) {
	id := uuid.New()
	store := newFakeStore(id)
	store.adminErr = errors.New("no rows affected")
	store.callerErr = errors.New("permission denied for table leads")
	svc := New(store, logger.Discard(), nil)

	method, err := svc.Delete(context.Background(), id, domain.Caller{UserID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, domain.DeleteRPCFunction, method)
	assert.Equal(t, []string{"admin", "caller", "function"}, store.calls)
}

func TestDeleteFallsBackToSoftDelete(t *testing.T) {
	id := uuid.New()
	store := newFakeStore(id)
	store.adminErr = errors.New("violates foreign key constraint")
	store.callerErr = errors.New("no rows affected")
	store.functionErr = errors.New("function delete_lead(uuid) does not exist")
	svc := New(store, logger.Discard(), nil)

	method, err := svc.Delete(context.Background(), id, domain.Caller{})
	require.NoError(t, err)
	assert.Equal(t, domain.DeleteSoft, method)

	lead := store.leads[id]
	require.NotNil(t, lead)
	assert.True(t, strings.HasPrefix(lead.name, domain.TombstonePrefix))
	assert.True(t, strings.HasSuffix(lead.email, "@deleted.invalid"))
	assert.Equal(t, domain.TombstoneMessage, lead.message)
	assert.Equal(t, domain.StatusQualified, lead.status, "status is unchanged")
	assert.True(t, lead.deleted)
}

func TestDeleteExhaustedAggregatesEveryFailure(t *testing.T) {
	id := uuid.New()
	store := newFakeStore(id)
	store.adminErr = errors.New("a")
	store.callerErr = errors.New("b")
	store.functionErr = errors.New("c")
	store.softErr = errors.New("d")
	svc := New(store, logger.Discard(), nil)

	_, err := svc.Delete(context.Background(), id, domain.Caller{})

	var exhausted *domain.DeletionExhausted
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, map[string]string{
		"admin_direct":   "a",
		"regular_client": "b",
		"rpc_function":   "c",
		"soft_delete":    "d",
	}, exhausted.Details())
	assert.Equal(t, []string{"admin", "caller", "function", "soft"}, store.calls)
}

func TestDeleteMissingLead(t *testing.T) {
	store := newFakeStore(uuid.New())
	svc := New(store, logger.Discard(), nil)

	_, err := svc.Delete(context.Background(), uuid.New(), domain.Caller{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Empty(t, store.calls)
}
