package infra

import (
	"bytes"
	"testing"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/ticket"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketPDF(t *testing.T) {
	tk := ticket.Nuevo(
		ticket.Negocio{Nombre: "Cafetería Central", RFC: "CACX7605101P8"},
		[]ticket.Linea{
			{Nombre: "Café americano", Precio: decimal.RequireFromString("3.50"), Cantidad: 2},
			{Nombre: "Croissant", Precio: decimal.RequireFromString("2.80"), Cantidad: 1},
		},
		"tarjeta",
		time.Date(2026, 10, 16, 14, 30, 0, 0, time.UTC),
	)

	out, err := TicketPDF(tk)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
