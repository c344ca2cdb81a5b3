package ticket

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fechaFija = time.Date(2026, 10, 16, 14, 30, 0, 789000000, time.UTC)

func ticketDePrueba() Ticket {
	t := Nuevo(Negocio{
		Nombre:   "Cafetería Central",
		RFC:      "XAXX010101000",
		Telefono: "555-0101",
	}, []Linea{
		{Nombre: "Café", Precio: decimal.RequireFromString("3.50"), Cantidad: 2},
		{Nombre: "Croissant", Precio: decimal.RequireFromString("2.80"), Cantidad: 1},
	}, "", fechaFija)
	t.Numero = "T20261016-123456"
	return t
}

func TestNumero(t *testing.T) {
	assert.Equal(t, "T20261016-000789", Numero(fechaFija))
	assert.Regexp(t, `^T\d{8}-\d{6}$`, Numero(time.Now()))
}

func TestNuevoCalculaTotales(t *testing.T) {
	tk := ticketDePrueba()
	assert.Equal(t, "9.80", tk.Subtotal.StringFixed(2))
	assert.Equal(t, "1.57", tk.IVA.StringFixed(2))
	assert.Equal(t, "11.37", tk.Total.StringFixed(2))
	assert.Equal(t, "Efectivo", tk.MetodoPago)
	assert.Equal(t, "ticket-T20261016-123456.txt", tk.NombreArchivo())
}

func TestTextoGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "ticket_texto", []byte(ticketDePrueba().Texto()))
}

func TestTextoNegocioPorDefecto(t *testing.T) {
	tk := Nuevo(Negocio{}, []Linea{{Nombre: "Té", Precio: decimal.NewFromInt(1), Cantidad: 1}}, "tarjeta", fechaFija)
	txt := tk.Texto()
	assert.Contains(t, txt, "\nMI NEGOCIO\n")
	assert.Contains(t, txt, "Pago: Tarjeta\n")
	assert.NotContains(t, txt, "RFC:")
}

func TestHTMLEscapaYMuestraTotales(t *testing.T) {
	tk := ticketDePrueba()
	tk.Lineas = append(tk.Lineas, Linea{Nombre: "<b>Pan</b>", Precio: decimal.Zero, Cantidad: 1})

	html, err := tk.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, "<title>Ticket de Compra - T20261016-123456</title>")
	assert.Contains(t, html, "<h1>Cafetería Central</h1>")
	assert.Contains(t, html, "<p>RFC: XAXX010101000</p>")
	assert.Contains(t, html, "&lt;b&gt;Pan&lt;/b&gt;")
	assert.Contains(t, html, "<span>$11.37</span>")
	assert.Contains(t, html, "window.print()")
}
