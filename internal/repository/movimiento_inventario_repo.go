package repository

import (
	"context"

	"github.com/xjoule42/quicksale-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoFilter defines filters for listing inventory movements.
type MovimientoFilter struct {
	ProductoID *uuid.UUID
	Tipo       string
	Page       int
	Limit      int
}

type MovimientoInventarioRepository interface {
	Create(ctx context.Context, m *model.MovimientoInventario) error
	CreateTx(tx *gorm.DB, m *model.MovimientoInventario) error
	List(ctx context.Context, filter MovimientoFilter) ([]model.MovimientoInventario, int64, error)
}

type movimientoInventarioRepo struct{ db *gorm.DB }

func NewMovimientoInventarioRepository(db *gorm.DB) MovimientoInventarioRepository {
	return &movimientoInventarioRepo{db: db}
}

func (r *movimientoInventarioRepo) Create(ctx context.Context, m *model.MovimientoInventario) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimientoInventarioRepo) CreateTx(tx *gorm.DB, m *model.MovimientoInventario) error {
	return tx.Create(m).Error
}

func (r *movimientoInventarioRepo) List(ctx context.Context, filter MovimientoFilter) ([]model.MovimientoInventario, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoInventario{})
	if filter.ProductoID != nil {
		q = q.Where("product_id = ?", *filter.ProductoID)
	}
	if filter.Tipo != "" {
		q = q.Where("movement_type = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movimientos []model.MovimientoInventario
	err := q.Preload("Producto").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&movimientos).Error
	return movimientos, total, err
}
