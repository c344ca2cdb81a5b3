package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoriaPorDefecto is used when a product is saved without a category.
const CategoriaPorDefecto = "Sin categoría"

// Producto is a catalog entry. Stock is never negative; SKU uniqueness is
// checked by the service against the loaded catalog, not by the database.
type Producto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Nombre      string          `gorm:"column:name;index;not null"`
	Categoria   string          `gorm:"column:category;not null;default:'Sin categoría'"`
	Precio      decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	SKU         string          `gorm:"column:sku;index;not null"`
	Descripcion *string         `gorm:"column:description"`
	ImagenURL   *string         `gorm:"column:image_url"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Producto) TableName() string { return "products" }

func (p *Producto) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
