package repository

import (
	"context"
	"strings"

	"github.com/xjoule42/quicksale-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PerfilRepository interface {
	// Create inserts the profile and its single role in one transaction.
	Create(ctx context.Context, p *model.Perfil, rol string) error
	FindByEmail(ctx context.Context, email string) (*model.Perfil, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Perfil, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Perfil, error)
	List(ctx context.Context) ([]model.Perfil, error)
	Update(ctx context.Context, p *model.Perfil) error
	// SetRol replaces every role of the profile with rol.
	SetRol(ctx context.Context, id uuid.UUID, rol string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type perfilRepo struct{ db *gorm.DB }

func NewPerfilRepository(db *gorm.DB) PerfilRepository { return &perfilRepo{db: db} }

func (r *perfilRepo) Create(ctx context.Context, p *model.Perfil, rol string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p.Roles = nil
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		ur := model.UsuarioRol{UsuarioID: p.ID, Rol: rol}
		if err := tx.Create(&ur).Error; err != nil {
			return err
		}
		p.Roles = []model.UsuarioRol{ur}
		return nil
	})
}

func (r *perfilRepo) FindByEmail(ctx context.Context, email string) (*model.Perfil, error) {
	var p model.Perfil
	err := r.db.WithContext(ctx).Preload("Roles").
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&p).Error
	return &p, translate(err)
}

func (r *perfilRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Perfil, error) {
	var p model.Perfil
	err := r.db.WithContext(ctx).Preload("Roles").First(&p, "id = ?", id).Error
	return &p, translate(err)
}

func (r *perfilRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Perfil, error) {
	var perfiles []model.Perfil
	if len(ids) == 0 {
		return perfiles, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&perfiles).Error
	return perfiles, err
}

func (r *perfilRepo) List(ctx context.Context) ([]model.Perfil, error) {
	var perfiles []model.Perfil
	err := r.db.WithContext(ctx).Preload("Roles").Order("email ASC").Find(&perfiles).Error
	return perfiles, err
}

func (r *perfilRepo) Update(ctx context.Context, p *model.Perfil) error {
	return r.db.WithContext(ctx).Omit("Roles").Save(p).Error
}

func (r *perfilRepo) SetRol(ctx context.Context, id uuid.UUID, rol string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.UsuarioRol{}).Error; err != nil {
			return err
		}
		return tx.Create(&model.UsuarioRol{UsuarioID: id, Rol: rol}).Error
	})
}

func (r *perfilRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.UsuarioRol{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Perfil{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
