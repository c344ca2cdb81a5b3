package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles de aplicación (app_role).
const (
	RolAdministrador = "administrador"
	RolVendedor      = "vendedor"
	RolCliente       = "cliente"
)

// Perfil stores a system user. PasswordHash is the local credential used by
// the login endpoint.
type Perfil struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email          string    `gorm:"column:email;uniqueIndex;not null"`
	NombreCompleto *string   `gorm:"column:full_name"`
	PasswordHash   string    `gorm:"column:password_hash;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Roles []UsuarioRol `gorm:"foreignKey:UsuarioID;constraint:OnDelete:CASCADE"`
}

func (Perfil) TableName() string { return "profiles" }

func (p *Perfil) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// RolPrincipal returns the highest-privilege role assigned to the profile.
// Profiles without roles are treated as vendedor.
func (p *Perfil) RolPrincipal() string {
	rol := ""
	for _, r := range p.Roles {
		switch r.Rol {
		case RolAdministrador:
			return RolAdministrador
		case RolVendedor:
			rol = RolVendedor
		case RolCliente:
			if rol == "" {
				rol = RolCliente
			}
		}
	}
	if rol == "" {
		return RolVendedor
	}
	return rol
}

// UsuarioRol assigns an app_role to a profile.
type UsuarioRol struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UsuarioID uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Rol       string    `gorm:"column:role;type:varchar(20);not null"`
	CreatedAt time.Time
}

func (UsuarioRol) TableName() string { return "user_roles" }

func (r *UsuarioRol) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
