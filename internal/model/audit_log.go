package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AccionAuditoria is the closed set of audited action types.
type AccionAuditoria string

const (
	AccionVentaCreada              AccionAuditoria = "venta_creada"
	AccionVentaCancelada           AccionAuditoria = "venta_cancelada"
	AccionProductoCreado           AccionAuditoria = "producto_creado"
	AccionProductoActualizado      AccionAuditoria = "producto_actualizado"
	AccionProductoEliminado        AccionAuditoria = "producto_eliminado"
	AccionAjusteInventario         AccionAuditoria = "ajuste_inventario"
	AccionUsuarioCreado            AccionAuditoria = "usuario_creado"
	AccionUsuarioActualizado       AccionAuditoria = "usuario_actualizado"
	AccionUsuarioEliminado         AccionAuditoria = "usuario_eliminado"
	AccionConfiguracionActualizada AccionAuditoria = "configuracion_actualizada"
)

// AccionesAuditoria lists every valid action in declaration order.
var AccionesAuditoria = []AccionAuditoria{
	AccionVentaCreada, AccionVentaCancelada,
	AccionProductoCreado, AccionProductoActualizado, AccionProductoEliminado,
	AccionAjusteInventario,
	AccionUsuarioCreado, AccionUsuarioActualizado, AccionUsuarioEliminado,
	AccionConfiguracionActualizada,
}

// Valida reports whether a belongs to the closed set.
func (a AccionAuditoria) Valida() bool {
	for _, v := range AccionesAuditoria {
		if v == a {
			return true
		}
	}
	return false
}

// AuditLog is an immutable event row. Never updated or deleted.
type AuditLog struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UsuarioID   *uuid.UUID        `gorm:"column:user_id;type:uuid;index"`
	Accion      AccionAuditoria   `gorm:"column:action_type;type:varchar(40);not null;index"`
	Tabla       string            `gorm:"column:table_name;not null"`
	RegistroID  *string           `gorm:"column:record_id"`
	Anteriores  datatypes.JSONMap `gorm:"column:old_values"`
	Nuevos      datatypes.JSONMap `gorm:"column:new_values"`
	Descripcion *string           `gorm:"column:description"`
	UserAgent   *string           `gorm:"column:user_agent"`
	IP          *string           `gorm:"column:ip_address"`
	CreatedAt   time.Time         `gorm:"index"`
}

func (AuditLog) TableName() string { return "audit_logs" }

func (a *AuditLog) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
