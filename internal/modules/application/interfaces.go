package application

import "context"

// RecordStore is the persistence surface the service orchestrates.
// *Repository is the production implementation.
type RecordStore interface {
	Create(ctx context.Context, app *Application) error
	CreateBatch(ctx context.Context, apps []*Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	GetByEmail(ctx context.Context, email string) (*Application, error)
	List(ctx context.Context, page, limit int) ([]Application, int, error)
	Search(ctx context.Context, filters SearchFilters, page, limit int) ([]Application, int, error)
	UpdatePartial(ctx context.Context, id int64, req *UpdateApplicationRequest) (*Application, error)
	Delete(ctx context.Context, id int64) error
}

// AttachmentDeleter removes stored objects by URL. Deletion is best-effort:
// implementations continue past individual failures and report them.
type AttachmentDeleter interface {
	DeleteMany(ctx context.Context, urls []string) (failed []string, ok bool)
}
