package repository

import (
	"context"
	"strings"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	CreateBatch(ctx context.Context, ps []model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindBySKU(ctx context.Context, sku string) (*model.Producto, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, error)
	ListStockBajo(ctx context.Context, umbral int) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SetStock writes an absolute stock value. There is no read-modify-write:
	// the caller decides the new value.
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
	SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) CreateBatch(ctx context.Context, ps []model.Producto) error {
	if len(ps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&ps, 100).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, translate(err)
}

// FindBySKU matches case-insensitively; the oldest row wins if several share
// the SKU.
func (r *productoRepo) FindBySKU(ctx context.Context, sku string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Where("LOWER(sku) = LOWER(?)", strings.TrimSpace(sku)).
		Order("created_at ASC").
		First(&p).Error
	return &p, translate(err)
}

func (r *productoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	if len(ids) == 0 {
		return productos, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&productos).Error
	return productos, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, error) {
	q := r.db.WithContext(ctx).Model(&model.Producto{})
	if b := strings.TrimSpace(filter.Busqueda); b != "" {
		like := "%" + strings.ToLower(b) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}
	if filter.Categoria != "" {
		q = q.Where("category = ?", filter.Categoria)
	}

	var productos []model.Producto
	err := q.Order("name ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListStockBajo(ctx context.Context, umbral int) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("stock <= ?", umbral).
		Order("stock ASC, name ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete is a hard delete; movements cascade.
func (r *productoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Producto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productoRepo) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	return r.SetStockTx(r.db.WithContext(ctx), id, stock)
}

func (r *productoRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error {
	res := tx.Model(&model.Producto{}).Where("id = ?", id).Update("stock", stock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
