package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadportal_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, New(mock, "authenticated")
}

func leadRow(id uuid.UUID, name string, status string) []any {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	company := "Acme"
	return []any{
		id, now, now, name, "jo@x.com", &company, nil, "Need a quote for a shear",
		nil, nil, nil, nil, nil, "en", nil, nil,
		nil, nil, "Unknown", "normal", 3, status, []byte(`{"user_agent":"curl/8","origin":"website_form"}`), []string{}, true, false,
	}
}

// insertArgs matches the bound values of Insert, one per column.
func insertArgs() []any {
	args := make([]any, 23)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

var leadColumnNames = []string{
	"id", "created_at", "updated_at", "name", "email", "company", "phone", "message",
	"source", "utm_source", "utm_medium", "utm_campaign", "referrer", "locale", "product_slug", "category",
	"ip_address", "user_agent", "country", "priority", "score", "status", "meta", "tags", "gdpr_consent", "deleted",
}

func TestInsertReturnsStoredRecord(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO leads`).
		WithArgs(insertArgs()...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id, now, now))

	rec := domain.NewLeadRecord(domain.LeadSubmission{
		Name:        "Jo Smith",
		Email:       "jo@x.com",
		Message:     "Need a quote for a shear",
		Locale:      "en",
		GDPRConsent: true,
	}, domain.EnrichedContext{Country: domain.CountryUnknown})

	stored, err := repo.Insert(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, id, stored.ID)
	assert.Equal(t, now, stored.CreatedAt)
	assert.Equal(t, "Jo Smith", stored.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertPropagatesStorageError(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(`INSERT INTO leads`).WithArgs(insertArgs()...).WillReturnError(errors.New("connection reset"))

	_, err := repo.Insert(context.Background(), domain.LeadRecord{Name: "Jo"})
	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDScansRecord(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM leads WHERE id = \$1 AND deleted = false`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(leadColumnNames).AddRow(leadRow(id, "Jo Smith", "contacted")...))

	rec, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusContacted, rec.Status)
	assert.Equal(t, domain.PriorityNormal, rec.Priority)
	assert.Equal(t, "website_form", rec.Meta.Origin)
	require.NotNil(t, rec.Company)
	assert.Equal(t, "Acme", *rec.Company)
	assert.Nil(t, rec.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM leads`).WithArgs(id).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAppliesFiltersAndTotal(t *testing.T) {
	mock, repo := newMock(t)
	a, b := uuid.New(), uuid.New()

	cols := append(append([]string{}, leadColumnNames...), "total")
	mock.ExpectQuery(`FROM leads WHERE deleted = false AND status = \$1 AND \(name ILIKE \$2`).
		WithArgs("new", "%acme%", 10, 10).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(append(leadRow(a, "A", "new"), 12)...).
			AddRow(append(leadRow(b, "B", "new"), 12)...))

	items, total, err := repo.List(context.Background(), ListParams{Status: "new", Search: "acme", Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, items, 2)
	assert.Equal(t, a, items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAsAdmin(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM leads WHERE id = \$1`).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repo.DeleteAsAdmin(context.Background(), id))

	mock.ExpectExec(`DELETE FROM leads WHERE id = \$1`).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, repo.DeleteAsAdmin(context.Background(), id), ErrNoRowsAffected)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAsCallerRunsUnderCallerRole(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`set_config\('role'`).WithArgs("authenticated").WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`set_config\('request.jwt.claims'`).
		WithArgs(`{"role":"authenticated","sub":"` + userID.String() + `"}`).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`DELETE FROM leads WHERE id = \$1`).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := repo.DeleteAsCaller(context.Background(), id, domain.Caller{
		UserID: userID,
		Claims: map[string]interface{}{"role": "authenticated"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAsCallerRollsBackWhenPolicyBlocks(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`set_config\('role'`).WithArgs("authenticated").WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`set_config\('request.jwt.claims'`).WithArgs(pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`DELETE FROM leads`).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := repo.DeleteAsCaller(context.Background(), id, domain.Caller{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrNoRowsAffected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteViaFunction(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT delete_lead\(\$1\)`).WithArgs(id).WillReturnRows(pgxmock.NewRows([]string{"delete_lead"}).AddRow(true))
	require.NoError(t, repo.DeleteViaFunction(context.Background(), id))

	mock.ExpectQuery(`SELECT delete_lead\(\$1\)`).WithArgs(id).WillReturnRows(pgxmock.NewRows([]string{"delete_lead"}).AddRow(false))
	assert.ErrorIs(t, repo.DeleteViaFunction(context.Background(), id), ErrFunctionRefused)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteLeavesStatusAlone(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()
	tomb := domain.NewTombstone(id)

	mock.ExpectExec(`UPDATE leads\s+SET name = \$2, email = \$3, message = \$4, deleted = true, updated_at = now\(\)\s+WHERE id = \$1`).
		WithArgs(id, tomb.Name, tomb.Email, tomb.Message).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SoftDelete(context.Background(), id, tomb))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEscapesSearchWildcards(t *testing.T) {
	mock, repo := newMock(t)

	cols := append(append([]string{}, leadColumnNames...), "total")
	mock.ExpectQuery(`ILIKE \$1 ESCAPE`).
		WithArgs(`%100\%\_off%`, 20, 0).
		WillReturnRows(pgxmock.NewRows(cols))

	items, total, err := repo.List(context.Background(), ListParams{Search: "100%_off"})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
