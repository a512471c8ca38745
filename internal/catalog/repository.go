package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vortexsales/pos-backend/pkg/db/models"
)

// Repository manages persistence for catalog products.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads a product by identifier.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByExactCode matches the code field case-insensitively. The caller is
// expected to pass an already-normalized term.
func (r *Repository) FindByExactCode(ctx context.Context, code string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("code IS NOT NULL AND LOWER(code) = ?", code).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByName matches the product name case-insensitively and exactly.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", name).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// SearchByName returns every product whose name contains the term,
// case-insensitively, in insertion order. The term is matched literally,
// LIKE metacharacters included.
func (r *Repository) SearchByName(ctx context.Context, term string) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+escapeLike(term)+"%").
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns every product in insertion order.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Save updates an existing product row.
func (r *Repository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DecrementStock subtracts qty from the product's stock. The guarded UPDATE
// refuses to drive stock negative; it reports whether a row changed so the
// caller can distinguish a stale read from success.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
