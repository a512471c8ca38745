package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry. Name uniqueness is case-insensitive and
// enforced by the catalog service on upsert; stock never goes negative after
// a committed sale.
type Product struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Code      *string         `gorm:"column:code;uniqueIndex"`
	Name      string          `gorm:"column:name;not null;uniqueIndex"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Stock     int             `gorm:"column:stock;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the identifier when the caller did not.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
