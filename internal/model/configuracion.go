package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Configuracion holds one user's business profile and feature toggles.
type Configuracion struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UsuarioID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	NombreNegocio    string    `gorm:"column:business_name;not null"`
	RFC              string    `gorm:"column:rfc"`
	Direccion        string    `gorm:"column:address"`
	Telefono         string    `gorm:"column:phone"`
	Email            string    `gorm:"column:email"`
	ImpresoraActiva  bool      `gorm:"column:printer_enabled;not null"`
	EscanerActivo    bool      `gorm:"column:scanner_enabled;not null"`
	PagoEfectivo     bool      `gorm:"column:payment_cash;not null"`
	PagoTarjeta      bool      `gorm:"column:payment_card;not null"`
	PagoTransfer     bool      `gorm:"column:payment_transfer;not null"`
	AlertasStockBajo bool      `gorm:"column:low_stock_alerts;not null"`
	ReportesDiarios  bool      `gorm:"column:daily_reports;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Configuracion) TableName() string { return "settings" }

func (c *Configuracion) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ConfiguracionPorDefecto returns the values a user sees before saving anything.
func ConfiguracionPorDefecto(usuarioID uuid.UUID) Configuracion {
	return Configuracion{
		UsuarioID:        usuarioID,
		NombreNegocio:    "Mi Negocio",
		PagoEfectivo:     true,
		PagoTarjeta:      true,
		AlertasStockBajo: true,
		ReportesDiarios:  true,
	}
}
