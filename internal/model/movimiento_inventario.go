package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipos de movimiento de inventario.
const (
	MovimientoEntrada = "entrada"
	MovimientoSalida  = "salida"
	MovimientoAjuste  = "ajuste"
)

// MovimientoInventario records one manual stock change. Rows are append-only;
// checkout does not create them.
type MovimientoInventario struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProductoID    uuid.UUID  `gorm:"column:product_id;type:uuid;not null;index"`
	Tipo          string     `gorm:"column:movement_type;type:varchar(20);not null"`
	Cantidad      int        `gorm:"column:quantity;not null"` // signed delta
	StockAnterior int        `gorm:"column:previous_stock;not null"`
	StockNuevo    int        `gorm:"column:new_stock;not null"`
	Notas         *string    `gorm:"column:notes"`
	UsuarioID     *uuid.UUID `gorm:"column:user_id;type:uuid"`
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default pluralization.
func (MovimientoInventario) TableName() string { return "inventory_movements" }

func (m *MovimientoInventario) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
