package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Service orchestrates validation, the record store and the attachment
// store for the application lifecycle.
type Service struct {
	store RecordStore
	files AttachmentDeleter
	log   zerolog.Logger
}

func NewService(store RecordStore, files AttachmentDeleter, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		files: files,
		log:   log.With().Str("component", "application").Logger(),
	}
}

// Create validates the form, rejects duplicate emails and persists the
// record. The unique index backs up the pre-check under concurrent
// submissions with the same email.
func (s *Service) Create(ctx context.Context, req *CreateApplicationRequest) (*Application, error) {
	if errs := ValidateForm(req); len(errs) > 0 {
		return nil, &ValidationError{Messages: errs}
	}

	existing, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	app, err := toApplication(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// CreateBatch validates every form and inserts them in one transaction.
func (s *Service) CreateBatch(ctx context.Context, reqs []*CreateApplicationRequest) ([]*Application, error) {
	apps := make([]*Application, 0, len(reqs))
	for _, req := range reqs {
		if errs := ValidateForm(req); len(errs) > 0 {
			return nil, fmt.Errorf("validation failed for %s: %s", req.Email, strings.Join(errs, ", "))
		}
		app, err := toApplication(req)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	if err := s.store.CreateBatch(ctx, apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// GetByID returns the record or ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id int64) (*Application, error) {
	app, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrNotFound
	}
	return app, nil
}

// GetByEmail returns the record or ErrNotFound.
func (s *Service) GetByEmail(ctx context.Context, email string) (*Application, error) {
	app, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrNotFound
	}
	return app, nil
}

// EmailExists reports whether an application with the normalized email is
// already stored.
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	app, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return app != nil, nil
}

// List returns one page of applications, newest first.
func (s *Service) List(ctx context.Context, page, limit int) (*ListResponse, error) {
	page, limit = normalizePagination(page, limit)
	apps, total, err := s.store.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return newListResponse(apps, total, page, limit), nil
}

// Search returns one filtered page; with no filters it matches List.
func (s *Service) Search(ctx context.Context, filters SearchFilters, page, limit int) (*ListResponse, error) {
	page, limit = normalizePagination(page, limit)
	apps, total, err := s.store.Search(ctx, filters, page, limit)
	if err != nil {
		return nil, err
	}
	return newListResponse(apps, total, page, limit), nil
}

// Update loads the record, merges the supplied fields over it, validates
// the merged result and writes only the fields the request carried.
func (s *Service) Update(ctx context.Context, id int64, req *UpdateApplicationRequest) (*Application, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if req.IsEmpty() {
		return nil, ErrNoFields
	}

	if errs := ValidateForm(mergeForm(existing, req)); len(errs) > 0 {
		return nil, &ValidationError{Messages: errs}
	}

	return s.store.UpdatePartial(ctx, id, req)
}

// Delete removes the record and its stored attachments. Attachment cleanup
// is best-effort: failures are logged and the row is removed regardless.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	if urls := existing.AttachmentURLs(); len(urls) > 0 {
		if failed, ok := s.files.DeleteMany(ctx, urls); !ok {
			s.log.Warn().
				Int64("application_id", id).
				Strs("failed_urls", failed).
				Msg("some attachments could not be deleted")
		}
	}

	return s.store.Delete(ctx, id)
}

func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func newListResponse(apps []Application, total, page, limit int) *ListResponse {
	return &ListResponse{
		Applications: apps,
		Total:        total,
		Pages:        (total + limit - 1) / limit,
		Page:         page,
		Limit:        limit,
	}
}

// toApplication converts a validated form into the storable record,
// normalizing the email.
func toApplication(req *CreateApplicationRequest) (*Application, error) {
	birth, err := time.Parse(DateLayout, req.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("parse date_of_birth: %w", err)
	}
	agreement, err := time.Parse(DateLayout, req.DateOfAgreement)
	if err != nil {
		return nil, fmt.Errorf("parse date_of_agreement: %w", err)
	}

	return &Application{
		Email:             normalizeEmail(req.Email),
		FullName:          req.FullName,
		DateOfBirth:       birth,
		ResidenceAddress:  req.ResidenceAddress,
		DateOfAgreement:   agreement,
		SignatureImageURL: req.SignatureImageURL,
		IDDocumentURL:     req.IDDocumentURL,
		TermsAccepted:     req.TermsAccepted,
	}, nil
}

// mergeForm lays the supplied update fields over the stored record to
// produce the full candidate form for revalidation.
func mergeForm(app *Application, req *UpdateApplicationRequest) *CreateApplicationRequest {
	form := &CreateApplicationRequest{
		Email:             app.Email,
		FullName:          app.FullName,
		DateOfBirth:       app.DateOfBirth.Format(DateLayout),
		ResidenceAddress:  app.ResidenceAddress,
		DateOfAgreement:   app.DateOfAgreement.Format(DateLayout),
		SignatureImageURL: app.SignatureImageURL,
		IDDocumentURL:     app.IDDocumentURL,
		TermsAccepted:     app.TermsAccepted,
	}

	if req.Email != nil {
		form.Email = *req.Email
	}
	if req.FullName != nil {
		form.FullName = *req.FullName
	}
	if req.DateOfBirth != nil {
		form.DateOfBirth = *req.DateOfBirth
	}
	if req.ResidenceAddress != nil {
		form.ResidenceAddress = *req.ResidenceAddress
	}
	if req.DateOfAgreement != nil {
		form.DateOfAgreement = *req.DateOfAgreement
	}
	if req.SignatureImageURL != nil {
		form.SignatureImageURL = *req.SignatureImageURL
	}
	if req.IDDocumentURL != nil {
		form.IDDocumentURL = *req.IDDocumentURL
	}
	if req.TermsAccepted != nil {
		form.TermsAccepted = *req.TermsAccepted
	}

	return form
}
