package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vortexsales/pos-backend/pkg/enums"
)

// Sale records one completed settlement. Rows are append-only: nothing in
// the codebase updates or deletes them.
type Sale struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	SoldAt        time.Time           `gorm:"column:sold_at;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(10,2);not null"`
	Reference     string              `gorm:"column:reference"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns the identifier when the caller did not.
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
