package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AgregarItemRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
}

// BuscarProductoRequest drives the search-to-add shortcut.
type BuscarProductoRequest struct {
	Termino string `json:"termino" validate:"required,min=1,max=100"`
}

type ActualizarCantidadRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// ConfirmacionRequest must carry Confirmar=true for destructive cart actions.
type ConfirmacionRequest struct {
	Confirmar bool `json:"confirmar"`
}

type CobrarRequest struct {
	MetodoPago   string `json:"metodo_pago"   validate:"omitempty,oneof=efectivo tarjeta transferencia"`
	ClienteEmail string `json:"cliente_email" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CarritoItemResponse struct {
	ProductoID      string          `json:"producto_id"`
	Nombre          string          `json:"nombre"`
	Categoria       string          `json:"categoria"`
	Precio          decimal.Decimal `json:"precio"`
	Cantidad        int             `json:"cantidad"`
	StockDisponible int             `json:"stock_disponible"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

type CarritoResponse struct {
	ID        string                `json:"id"`
	Items     []CarritoItemResponse `json:"items"`
	Articulos int                   `json:"articulos"`
	Subtotal  decimal.Decimal       `json:"subtotal"`
	IVA       decimal.Decimal       `json:"iva"`
	Total     decimal.Decimal       `json:"total"`
}

// BusquedaResponse: Agregado is set when the term resolved to one product;
// Coincidencias lists the candidates when it was ambiguous.
type BusquedaResponse struct {
	Carrito       CarritoResponse    `json:"carrito"`
	Agregado      *ProductoResponse  `json:"agregado"`
	Coincidencias []ProductoResponse `json:"coincidencias"`
}

type VentaResponse struct {
	NumeroTicket  string                `json:"numero_ticket"`
	Fecha         string                `json:"fecha"`
	MetodoPago    string                `json:"metodo_pago"`
	Items         []CarritoItemResponse `json:"items"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	IVA           decimal.Decimal       `json:"iva"`
	Total         decimal.Decimal       `json:"total"`
	TicketTexto   string                `json:"ticket_texto"`
	ArchivoTicket string                `json:"archivo_ticket"`
	TicketHTML    string                `json:"ticket_html,omitempty"`
	Imprimir      bool                  `json:"imprimir"`
	Productos     []ProductoResponse    `json:"productos"`
}
