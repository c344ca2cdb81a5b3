package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente is a customer record. TotalCompras and UltimaCompra are read by the
// badge logic but no flow increments them yet.
type Cliente struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Nombre       string     `gorm:"column:name;not null"`
	Email        *string    `gorm:"column:email"`
	Telefono     *string    `gorm:"column:phone"`
	TotalCompras int        `gorm:"column:total_purchases;not null;default:0"`
	UltimaCompra *time.Time `gorm:"column:last_purchase_at"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Cliente) TableName() string { return "customers" }

func (c *Cliente) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
