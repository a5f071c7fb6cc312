package application

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appColumns = []string{
	"id", "email", "full_name", "date_of_birth", "residence_address",
	"date_of_agreement", "signature_image_url", "id_document_url",
	"terms_accepted", "created_at", "updated_at",
}

func newTestRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return NewRepository(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func sampleApp() *Application {
	return &Application{
		Email:             "a@b.com",
		FullName:          "Jane Doe",
		DateOfBirth:       time.Date(2004, 3, 10, 0, 0, 0, 0, time.UTC),
		ResidenceAddress:  "123 Main Street",
		DateOfAgreement:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		SignatureImageURL: "https://x/y.png",
		IDDocumentURL:     "https://x/z.pdf",
		TermsAccepted:     true,
	}
}

func appRow(id int64, email string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(appColumns).AddRow(
		id, email, "Jane Doe",
		time.Date(2004, 3, 10, 0, 0, 0, 0, time.UTC), "123 Main Street",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		"https://x/y.png", "https://x/z.pdf", true, now, now,
	)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newTestRepo(t)
	app := sampleApp()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO internship_applications").
		WithArgs(
			app.Email, app.FullName, app.DateOfBirth, app.ResidenceAddress,
			app.DateOfAgreement, app.SignatureImageURL, app.IDDocumentURL,
			app.TermsAccepted,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(7), now, now))

	require.NoError(t, repo.Create(context.Background(), app))
	assert.Equal(t, int64(7), app.ID)
	assert.False(t, app.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("INSERT INTO internship_applications").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), sampleApp())
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRepository_GetByEmail_NormalizesArgument(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM internship_applications WHERE email").
		WithArgs("a@b.com").
		WillReturnRows(appRow(1, "a@b.com"))

	app, err := repo.GetByEmail(context.Background(), "  A@B.Com ")
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "a@b.com", app.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByEmail_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM internship_applications WHERE email").
		WithArgs("missing@b.com").
		WillReturnError(sql.ErrNoRows)

	app, err := repo.GetByEmail(context.Background(), "missing@b.com")
	require.NoError(t, err)
	assert.Nil(t, app)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM internship_applications WHERE id").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	app, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, app)
}

func TestRepository_List_Pagination(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM internship_applications")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery("ORDER BY created_at DESC").
		WithArgs(10, 10). // page 2, limit 10 -> offset 10
		WillReturnRows(appRow(11, "a@b.com"))

	apps, total, err := repo.List(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, apps, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Search_NoFilters(t *testing.T) {
	repo, mock := newTestRepo(t)

	// Without filters no WHERE clause is emitted; limit/offset bind as $1/$2.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM internship_applications")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).
		WithArgs(10, 0).
		WillReturnRows(appRow(1, "a@b.com"))

	apps, total, err := repo.Search(context.Background(), SearchFilters{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, apps, 1)
}

func TestRepository_Search_ConjunctiveFilters(t *testing.T) {
	repo, mock := newTestRepo(t)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	filters := SearchFilters{Email: "jane", DateFrom: &from}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE email ILIKE $1 AND created_at >= $2")).
		WithArgs("%jane%", from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $3 OFFSET $4")).
		WithArgs("%jane%", from, 10, 0).
		WillReturnRows(appRow(1, "jane@b.com"))

	apps, total, err := repo.Search(context.Background(), filters, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, apps, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdatePartial_EmptyFieldSet(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.UpdatePartial(context.Background(), 1, &UpdateApplicationRequest{})
	assert.ErrorIs(t, err, ErrNoFields)
}

func TestRepository_UpdatePartial_OnlySuppliedFields(t *testing.T) {
	repo, mock := newTestRepo(t)

	email := "New@B.Com"
	name := "Janet Doe"
	req := &UpdateApplicationRequest{Email: &email, FullName: &name}

	mock.ExpectQuery(regexp.QuoteMeta("SET email = $1, full_name = $2, updated_at = NOW()")).
		WithArgs("new@b.com", "Janet Doe", int64(5)).
		WillReturnRows(appRow(5, "new@b.com"))

	app, err := repo.UpdatePartial(context.Background(), 5, req)
	require.NoError(t, err)
	assert.Equal(t, int64(5), app.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdatePartial_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	name := "Janet Doe"
	mock.ExpectQuery("UPDATE internship_applications").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdatePartial(context.Background(), 99, &UpdateApplicationRequest{FullName: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("DELETE FROM internship_applications WHERE id").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), 3))
}

func TestRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("DELETE FROM internship_applications WHERE id").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 404), ErrNotFound)
}

func TestRepository_CreateBatch_CommitsOnce(t *testing.T) {
	repo, mock := newTestRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	for i := 0; i < 2; i++ {
		mock.ExpectQuery("INSERT INTO internship_applications").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(i+1), now, now))
	}
	mock.ExpectCommit()

	a, b := sampleApp(), sampleApp()
	b.Email = "b@b.com"
	require.NoError(t, repo.CreateBatch(context.Background(), []*Application{a, b}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateBatch_RollsBackOnFailure(t *testing.T) {
	repo, mock := newTestRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO internship_applications").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(1), now, now))
	mock.ExpectQuery("INSERT INTO internship_applications").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	a, b := sampleApp(), sampleApp()
	err := repo.CreateBatch(context.Background(), []*Application{a, b})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}
