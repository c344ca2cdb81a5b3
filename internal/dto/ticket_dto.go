package dto

import "github.com/shopspring/decimal"

type TicketItemRequest struct {
	Nombre   string          `json:"nombre"   validate:"required,max=100"`
	Precio   decimal.Decimal `json:"precio"   validate:"min=0"`
	Cantidad int             `json:"cantidad" validate:"required,min=1"`
}

// RenderTicketRequest renders a ticket for an arbitrary list of items using
// the caller's business settings.
type RenderTicketRequest struct {
	Items      []TicketItemRequest `json:"items"       validate:"required,min=1,dive"`
	MetodoPago string              `json:"metodo_pago" validate:"omitempty,max=30"`
}
