package admin

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByEmail returns the account or nil when none matches.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	var a Admin
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) Create(ctx context.Context, a *Admin) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	return r.db.WithContext(ctx).Create(a).Error
}
