package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// ResumenVenta is the new_values payload of a venta_creada audit entry.
// Amounts are two-decimal strings.
type ResumenVenta struct {
	Ticket     string             `json:"ticket"`
	MetodoPago string             `json:"metodo_pago"`
	Articulos  int                `json:"articulos"`
	Subtotal   string             `json:"subtotal"`
	IVA        string             `json:"iva"`
	Total      string             `json:"total"`
	Items      []ResumenVentaItem `json:"items"`
}

type ResumenVentaItem struct {
	ProductoID string `json:"producto_id"`
	Nombre     string `json:"nombre"`
	Cantidad   int    `json:"cantidad"`
	Precio     string `json:"precio"`
}

func (r ResumenVenta) JSONMap() datatypes.JSONMap {
	raw, _ := json.Marshal(r)
	m := datatypes.JSONMap{}
	_ = json.Unmarshal(raw, &m)
	return m
}

// ResumenVentaDesde decodes a snapshot written by JSONMap. Unknown or missing
// keys are left zero.
func ResumenVentaDesde(m datatypes.JSONMap) (ResumenVenta, error) {
	var r ResumenVenta
	raw, err := json.Marshal(m)
	if err != nil {
		return r, err
	}
	err = json.Unmarshal(raw, &r)
	return r, err
}
