package service

import (
	"context"
	"fmt"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/metrics"
	"github.com/xjoule42/quicksale-pos/internal/model"
	"github.com/xjoule42/quicksale-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventarioService defines the contract for stock tracking.
type InventarioService interface {
	Resumen(ctx context.Context) (*dto.ResumenInventarioResponse, error)
	Alertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
	AjustarStock(ctx context.Context, actor Actor, req dto.AjustarStockRequest) (*dto.AjusteStockResponse, error)
	ListarMovimientos(ctx context.Context, filtro dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
}

type inventarioService struct {
	productos   repository.ProductoRepository
	movimientos repository.MovimientoInventarioRepository
	auditoria   AuditoriaService
	umbral      int
}

func NewInventarioService(
	productos repository.ProductoRepository,
	movimientos repository.MovimientoInventarioRepository,
	auditoria AuditoriaService,
	umbral int,
) InventarioService {
	return &inventarioService{productos: productos, movimientos: movimientos, auditoria: auditoria, umbral: umbral}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *inventarioService) Resumen(ctx context.Context) (*dto.ResumenInventarioResponse, error) {
	productos, err := s.productos.List(ctx, dto.ProductoFilter{})
	if err != nil {
		return nil, err
	}
	r := &dto.ResumenInventarioResponse{TotalProductos: len(productos), ValorInventario: decimal.Zero}
	for _, p := range productos {
		r.TotalUnidades += p.Stock
		if p.Stock == 0 {
			r.SinStock++
		}
		if p.Stock <= s.umbral {
			r.StockBajo++
		}
		r.ValorInventario = r.ValorInventario.Add(p.Precio.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return r, nil
}

func (s *inventarioService) Alertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	productos, err := s.productos.ListStockBajo(ctx, s.umbral)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertaStockResponse, len(productos))
	for i, p := range productos {
		out[i] = dto.AlertaStockResponse{
			ProductoID: p.ID.String(),
			Nombre:     p.Nombre,
			SKU:        p.SKU,
			Categoria:  p.Categoria,
			Stock:      p.Stock,
			Umbral:     s.umbral,
		}
	}
	return out, nil
}

// AjustarStock applies a signed delta read against the product's current
// stock. The read and the write are not locked against concurrent checkouts.
func (s *inventarioService) AjustarStock(ctx context.Context, actor Actor, req dto.AjustarStockRequest) (*dto.AjusteStockResponse, error) {
	if req.Delta == 0 {
		return nil, invalido("El ajuste no puede ser cero")
	}
	id, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, invalido("producto_id inválido")
	}
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		return nil, traducirNoEncontrado(err, "Producto no encontrado")
	}
	if req.Delta < 0 && -req.Delta > p.Stock {
		return nil, sinStock("No hay suficiente stock para este ajuste")
	}

	anterior := p.Stock
	nuevo := anterior + req.Delta
	if nuevo < 0 {
		nuevo = 0
	}
	tipo := model.MovimientoAjuste
	if req.Delta > 0 {
		tipo = model.MovimientoEntrada
	}
	mov := &model.MovimientoInventario{
		ProductoID:    p.ID,
		Tipo:          tipo,
		Cantidad:      req.Delta,
		StockAnterior: anterior,
		StockNuevo:    nuevo,
		Notas:         strPtr(req.Notas),
		UsuarioID:     actor.UsuarioID,
	}

	err = runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		if tx == nil {
			if err := s.productos.SetStock(ctx, p.ID, nuevo); err != nil {
				return err
			}
			return s.movimientos.Create(ctx, mov)
		}
		if err := s.productos.SetStockTx(tx, p.ID, nuevo); err != nil {
			return err
		}
		return s.movimientos.CreateTx(tx, mov)
	})
	if err != nil {
		return nil, traducirNoEncontrado(err, "Producto no encontrado")
	}
	p.Stock = nuevo
	metrics.RecordAjusteStock(tipo)

	s.auditoria.Registrar(ctx, actor, EntradaAuditoria{
		Accion:      model.AccionAjusteInventario,
		Tabla:       "products",
		RegistroID:  p.ID.String(),
		Anteriores:  map[string]interface{}{"stock": anterior},
		Nuevos:      map[string]interface{}{"stock": nuevo, "delta": req.Delta, "tipo": tipo},
		Descripcion: fmt.Sprintf("Ajuste de inventario: %s (%+d)", p.Nombre, req.Delta),
	})

	mov.Producto = p
	return &dto.AjusteStockResponse{
		Producto:   productoToResponse(p, s.umbral),
		Movimiento: movimientoToResponse(mov),
	}, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filtro dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	f := repository.MovimientoFilter{Tipo: filtro.Tipo, Page: filtro.Page, Limit: filtro.Limit}
	if filtro.ProductoID != "" {
		id, err := uuid.Parse(filtro.ProductoID)
		if err != nil {
			return nil, invalido("producto_id inválido")
		}
		f.ProductoID = &id
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 500 {
		f.Limit = 100
	}
	movs, total, err := s.movimientos.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoResponse, len(movs))
	for i := range movs {
		data[i] = movimientoToResponse(&movs[i])
	}
	return &dto.MovimientoListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit}, nil
}
