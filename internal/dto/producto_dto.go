package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProductoRequest is used for both create and full update.
type ProductoRequest struct {
	Nombre      string          `json:"nombre"      validate:"required,min=1,max=100"`
	SKU         string          `json:"sku"         validate:"required,min=1,max=50"`
	Categoria   string          `json:"categoria"   validate:"omitempty,max=50"`
	Precio      decimal.Decimal `json:"precio"      validate:"min=0"`
	Stock       int             `json:"stock"       validate:"min=0"`
	Descripcion string          `json:"descripcion" validate:"omitempty,max=500"`
	ImagenURL   string          `json:"imagen_url"  validate:"omitempty,url"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ProductoFilter struct {
	Busqueda  string `form:"busqueda"`  // name or SKU, case-insensitive substring
	Categoria string `form:"categoria"` // exact
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	SKU         string          `json:"sku"`
	Categoria   string          `json:"categoria"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	EstadoStock string          `json:"estado_stock"` // "Stock Normal" | "Stock Bajo"
	Descripcion *string         `json:"descripcion"`
	ImagenURL   *string         `json:"imagen_url"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int                `json:"total"`
}

// ConsultaPreciosResponse is returned by the public price check endpoint (no auth required).
type ConsultaPreciosResponse struct {
	Nombre          string          `json:"nombre"`
	SKU             string          `json:"sku"`
	Precio          decimal.Decimal `json:"precio"`
	StockDisponible int             `json:"stock_disponible"`
	Categoria       string          `json:"categoria"`
}

// ImportarCSVResponse reports the outcome of a bulk import. Errores carries
// one line-numbered message per rejected row.
type ImportarCSVResponse struct {
	Importados int                `json:"importados"`
	Errores    []string           `json:"errores"`
	Productos  []ProductoResponse `json:"productos"`
}
