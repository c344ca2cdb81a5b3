package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AjustarStockRequest: Delta is signed; zero is rejected.
type AjustarStockRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Delta      int    `json:"delta"       validate:"required"`
	Notas      string `json:"notas"       validate:"omitempty,max=500"`
}

type MovimientoFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"        validate:"omitempty,oneof=entrada salida ajuste"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoResponse struct {
	ID             string  `json:"id"`
	ProductoID     string  `json:"producto_id"`
	ProductoNombre string  `json:"producto_nombre"`
	Tipo           string  `json:"tipo"`
	Cantidad       int     `json:"cantidad"`
	StockAnterior  int     `json:"stock_anterior"`
	StockNuevo     int     `json:"stock_nuevo"`
	Notas          *string `json:"notas"`
	UsuarioID      *string `json:"usuario_id"`
	CreatedAt      string  `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type AjusteStockResponse struct {
	Producto   ProductoResponse   `json:"producto"`
	Movimiento MovimientoResponse `json:"movimiento"`
}

type ResumenInventarioResponse struct {
	TotalProductos  int             `json:"total_productos"`
	TotalUnidades   int             `json:"total_unidades"`
	StockBajo       int             `json:"stock_bajo"`
	SinStock        int             `json:"sin_stock"`
	ValorInventario decimal.Decimal `json:"valor_inventario"`
}

type AlertaStockResponse struct {
	ProductoID string `json:"producto_id"`
	Nombre     string `json:"nombre"`
	SKU        string `json:"sku"`
	Categoria  string `json:"categoria"`
	Stock      int    `json:"stock"`
	Umbral     int    `json:"umbral"`
}
