package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const applicationColumns = `id, email, full_name, date_of_birth, residence_address,
	date_of_agreement, signature_image_url, id_document_url, terms_accepted,
	created_at, updated_at`

const insertQuery = `
	INSERT INTO internship_applications (
		email, full_name, date_of_birth, residence_address,
		date_of_agreement, signature_image_url, id_document_url,
		terms_accepted, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	RETURNING id, created_at, updated_at`

// Repository executes the application SQL. Every statement binds values
// through positional placeholders; no value ever enters the query text.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// fragment accumulates (expression, value) pairs for dynamic SET lists and
// WHERE conditions. expr must contain one %d verb for the placeholder index.
type fragment struct {
	parts []string
	args  []any
}

func (f *fragment) add(expr string, value any) {
	f.args = append(f.args, value)
	f.parts = append(f.parts, fmt.Sprintf(expr, len(f.args)))
}

func (f *fragment) where() string {
	if len(f.parts) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(f.parts, " AND ")
}

// Create inserts a new row and fills in the server-assigned id and
// timestamps. A unique-index violation on the normalized email maps to
// ErrDuplicateEmail; the index is the authoritative duplicate signal.
func (r *Repository) Create(ctx context.Context, app *Application) error {
	err := r.db.QueryRowxContext(
		ctx, insertQuery,
		app.Email, app.FullName, app.DateOfBirth, app.ResidenceAddress,
		app.DateOfAgreement, app.SignatureImageURL, app.IDDocumentURL,
		app.TermsAccepted,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

// CreateBatch inserts every application inside one transaction; either all
// rows land or none do. Used by the seeder and data-migration paths.
func (r *Repository) CreateBatch(ctx context.Context, apps []*Application) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, app := range apps {
		err := tx.QueryRowxContext(
			ctx, insertQuery,
			app.Email, app.FullName, app.DateOfBirth, app.ResidenceAddress,
			app.DateOfAgreement, app.SignatureImageURL, app.IDDocumentURL,
			app.TermsAccepted,
		).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateEmail, app.Email)
		}
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID returns the row or nil when no row matches.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Application, error) {
	var app Application
	query := `SELECT ` + applicationColumns + ` FROM internship_applications WHERE id = $1`
	err := r.db.GetContext(ctx, &app, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetByEmail returns the row or nil when no row matches. Emails are stored
// lowercase, so the lookup normalizes its argument the same way.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Application, error) {
	var app Application
	query := `SELECT ` + applicationColumns + ` FROM internship_applications WHERE email = $1`
	err := r.db.GetContext(ctx, &app, query, normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// List returns one page ordered by creation time descending, plus the total
// row count.
func (r *Repository) List(ctx context.Context, page, limit int) ([]Application, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM internship_applications`); err != nil {
		return nil, 0, err
	}

	apps := []Application{}
	query := `SELECT ` + applicationColumns + `
		FROM internship_applications
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &apps, query, limit, (page-1)*limit); err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// Search applies the supplied filters conjunctively and paginates like List.
// Absent filters impose no condition at all.
func (r *Repository) Search(ctx context.Context, filters SearchFilters, page, limit int) ([]Application, int, error) {
	var cond fragment
	if filters.Email != "" {
		cond.add("email ILIKE $%d", "%"+filters.Email+"%")
	}
	if filters.FullName != "" {
		cond.add("full_name ILIKE $%d", "%"+filters.FullName+"%")
	}
	if filters.DateFrom != nil {
		cond.add("created_at >= $%d", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		cond.add("created_at <= $%d", *filters.DateTo)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM internship_applications ` + cond.where()
	if err := r.db.GetContext(ctx, &total, countQuery, cond.args...); err != nil {
		return nil, 0, err
	}

	args := append(cond.args, limit, (page-1)*limit)
	query := fmt.Sprintf(`SELECT `+applicationColumns+`
		FROM internship_applications %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		cond.where(), len(cond.args)+1, len(cond.args)+2)

	apps := []Application{}
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// UpdatePartial writes only the supplied fields plus updated_at and returns
// the refreshed row. ErrNoFields when the request supplies nothing,
// ErrNotFound when no row matches the id.
func (r *Repository) UpdatePartial(ctx context.Context, id int64, req *UpdateApplicationRequest) (*Application, error) {
	var set fragment
	if req.Email != nil {
		set.add("email = $%d", normalizeEmail(*req.Email))
	}
	if req.FullName != nil {
		set.add("full_name = $%d", *req.FullName)
	}
	if req.DateOfBirth != nil {
		t, err := time.Parse(DateLayout, *req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("parse date_of_birth: %w", err)
		}
		set.add("date_of_birth = $%d", t)
	}
	if req.ResidenceAddress != nil {
		set.add("residence_address = $%d", *req.ResidenceAddress)
	}
	if req.DateOfAgreement != nil {
		t, err := time.Parse(DateLayout, *req.DateOfAgreement)
		if err != nil {
			return nil, fmt.Errorf("parse date_of_agreement: %w", err)
		}
		set.add("date_of_agreement = $%d", t)
	}
	if req.SignatureImageURL != nil {
		set.add("signature_image_url = $%d", *req.SignatureImageURL)
	}
	if req.IDDocumentURL != nil {
		set.add("id_document_url = $%d", *req.IDDocumentURL)
	}
	if req.TermsAccepted != nil {
		set.add("terms_accepted = $%d", *req.TermsAccepted)
	}

	if len(set.parts) == 0 {
		return nil, ErrNoFields
	}

	set.parts = append(set.parts, "updated_at = NOW()")
	set.args = append(set.args, id)

	query := fmt.Sprintf(`UPDATE internship_applications
		SET %s
		WHERE id = $%d
		RETURNING `+applicationColumns,
		strings.Join(set.parts, ", "), len(set.args))

	var app Application
	err := r.db.GetContext(ctx, &app, query, set.args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Delete removes the row. ErrNotFound when no row matched.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM internship_applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of applications.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM internship_applications`)
	return total, err
}

// CountCreatedSince returns how many applications arrived at or after t.
func (r *Repository) CountCreatedSince(ctx context.Context, t time.Time) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM internship_applications WHERE created_at >= $1`, t)
	return total, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// 23505 is the PostgreSQL unique_violation class.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
