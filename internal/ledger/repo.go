package ledger

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vortexsales/pos-backend/pkg/db/models"
)

// Repository manages persistence for the sale ledger. The ledger is
// append-only: there is no update or delete surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sale *models.Sale) error
	ListByDate(ctx context.Context, day time.Time) ([]models.Sale, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *repository) ListByDate(ctx context.Context, day time.Time) ([]models.Sale, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var sales []models.Sale
	if err := r.db.WithContext(ctx).
		Where("sold_at >= ? AND sold_at < ?", start, end).
		Order("sold_at ASC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}
