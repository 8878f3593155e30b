package conventions

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/calderwood/conreg-backend/pkg/db/models"
)

// Repository exposes persistence operations for the convention registry.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a convention repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindActiveAt returns the convention whose active window covers t.
func (r *Repository) FindActiveAt(ctx context.Context, t time.Time) (*models.Convention, error) {
	var row models.Convention
	err := r.db.WithContext(ctx).
		Where("active_from <= ? AND active_to > ?", t, t).
		Order("active_from DESC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByID loads a convention by its id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Convention, error) {
	var row models.Convention
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
