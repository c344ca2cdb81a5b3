package repository

import (
	"context"

	"github.com/xjoule42/quicksale-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConfiguracionRepository has separate read, insert and update calls; callers
// compose the upsert themselves.
type ConfiguracionRepository interface {
	FindByUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.Configuracion, error)
	Create(ctx context.Context, c *model.Configuracion) error
	UpdateByUsuario(ctx context.Context, c *model.Configuracion) error
	// List returns every stored row; users without one run on defaults.
	List(ctx context.Context) ([]model.Configuracion, error)
}

type configuracionRepo struct{ db *gorm.DB }

func NewConfiguracionRepository(db *gorm.DB) ConfiguracionRepository {
	return &configuracionRepo{db: db}
}

func (r *configuracionRepo) FindByUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.Configuracion, error) {
	var c model.Configuracion
	err := r.db.WithContext(ctx).Where("user_id = ?", usuarioID).First(&c).Error
	return &c, translate(err)
}

func (r *configuracionRepo) Create(ctx context.Context, c *model.Configuracion) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// UpdateByUsuario overwrites every editable column of the row owned by
// c.UsuarioID, including false toggles.
func (r *configuracionRepo) UpdateByUsuario(ctx context.Context, c *model.Configuracion) error {
	res := r.db.WithContext(ctx).Model(&model.Configuracion{}).
		Where("user_id = ?", c.UsuarioID).
		Updates(map[string]interface{}{
			"business_name":    c.NombreNegocio,
			"rfc":              c.RFC,
			"address":          c.Direccion,
			"phone":            c.Telefono,
			"email":            c.Email,
			"printer_enabled":  c.ImpresoraActiva,
			"scanner_enabled":  c.EscanerActivo,
			"payment_cash":     c.PagoEfectivo,
			"payment_card":     c.PagoTarjeta,
			"payment_transfer": c.PagoTransfer,
			"low_stock_alerts": c.AlertasStockBajo,
			"daily_reports":    c.ReportesDiarios,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *configuracionRepo) List(ctx context.Context) ([]model.Configuracion, error) {
	var cs []model.Configuracion
	err := r.db.WithContext(ctx).Find(&cs).Error
	return cs, err
}
