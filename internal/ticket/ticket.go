// Package ticket renders sale receipts as plain text and HTML.
package ticket

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/pos"

	"github.com/shopspring/decimal"
)

const (
	anchoLinea     = 40
	NegocioDefecto = "Mi Negocio"
	formatoFecha   = "02/01/2006, 15:04"
)

// Negocio is the business header printed on every ticket.
type Negocio struct {
	Nombre    string
	RFC       string
	Direccion string
	Telefono  string
	Email     string
}

type Linea struct {
	Nombre   string
	Precio   decimal.Decimal
	Cantidad int
}

func (l Linea) Importe() decimal.Decimal {
	return l.Precio.Mul(decimal.NewFromInt(int64(l.Cantidad)))
}

type Ticket struct {
	Numero     string
	Fecha      time.Time
	MetodoPago string
	Negocio    Negocio
	Lineas     []Linea
	pos.Totales
}

// Numero builds a ticket number T<YYYYMMDD>-<last 6 digits of epoch millis>.
func Numero(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return fmt.Sprintf("T%s-%s", t.UTC().Format("20060102"), ms)
}

// EtiquetaPago maps a payment method code to its printed label.
func EtiquetaPago(metodo string) string {
	switch metodo {
	case "tarjeta":
		return "Tarjeta"
	case "transferencia":
		return "Transferencia"
	case "", "efectivo":
		return "Efectivo"
	default:
		return metodo
	}
}

// Nuevo assembles a ticket stamped at ahora and computes its totals.
func Nuevo(negocio Negocio, lineas []Linea, metodoPago string, ahora time.Time) Ticket {
	subtotal := decimal.Zero
	for _, l := range lineas {
		subtotal = subtotal.Add(l.Importe())
	}
	return Ticket{
		Numero:     Numero(ahora),
		Fecha:      ahora,
		MetodoPago: EtiquetaPago(metodoPago),
		Negocio:    negocio,
		Lineas:     lineas,
		Totales:    pos.CalcularTotales(subtotal),
	}
}

// NombreArchivo is the download name of the text rendering.
func (t Ticket) NombreArchivo() string { return "ticket-" + t.Numero + ".txt" }

// NombreNegocio falls back to NegocioDefecto when settings have no name.
func (t Ticket) NombreNegocio() string {
	if strings.TrimSpace(t.Negocio.Nombre) == "" {
		return NegocioDefecto
	}
	return t.Negocio.Nombre
}

func (t Ticket) FechaTexto() string { return t.Fecha.Format(formatoFecha) }

// LineasEncabezado returns the optional header lines that are set, in print order.
func (n Negocio) LineasEncabezado() []string {
	var out []string
	if n.RFC != "" {
		out = append(out, "RFC: "+n.RFC)
	}
	if n.Direccion != "" {
		out = append(out, n.Direccion)
	}
	if n.Telefono != "" {
		out = append(out, "Tel: "+n.Telefono)
	}
	if n.Email != "" {
		out = append(out, n.Email)
	}
	return out
}

func moneda(d decimal.Decimal) string { return "$" + d.StringFixed(2) }

// Texto renders the plain-text receipt.
func (t Ticket) Texto() string {
	doble := strings.Repeat("=", anchoLinea)
	simple := strings.Repeat("-", anchoLinea)

	var b strings.Builder
	b.WriteString(doble + "\n")
	b.WriteString(strings.ToUpper(t.NombreNegocio()) + "\n")
	b.WriteString(doble + "\n")
	for _, l := range t.Negocio.LineasEncabezado() {
		b.WriteString(l + "\n")
	}
	b.WriteString(simple + "\n")
	fmt.Fprintf(&b, "Ticket: %s\n", t.Numero)
	fmt.Fprintf(&b, "Fecha: %s\n", t.FechaTexto())
	fmt.Fprintf(&b, "Pago: %s\n", t.MetodoPago)
	b.WriteString(simple + "\n")
	b.WriteString("PRODUCTOS:\n")
	for _, l := range t.Lineas {
		fmt.Fprintf(&b, "%s\n  %d x %s = %s\n", l.Nombre, l.Cantidad, moneda(l.Precio), moneda(l.Importe()))
	}
	b.WriteString(simple + "\n")
	fmt.Fprintf(&b, "%-21s%s\n", "Subtotal:", moneda(t.Subtotal))
	fmt.Fprintf(&b, "%-21s%s\n", "IVA (16%):", moneda(t.IVA))
	b.WriteString(simple + "\n")
	fmt.Fprintf(&b, "%-21s%s\n", "TOTAL:", moneda(t.Total))
	b.WriteString(doble + "\n")
	b.WriteString("     ¡Gracias por su compra!\n")
	b.WriteString("     Conserve este ticket\n")
	b.WriteString(doble + "\n")
	return b.String()
}

var plantillaHTML = template.Must(template.New("ticket").Funcs(template.FuncMap{
	"moneda": moneda,
}).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Ticket de Compra - {{.Numero}}</title>
  <style>
    @page { size: 80mm auto; margin: 5mm; }
    body { font-family: 'Courier New', monospace; font-size: 12px; line-height: 1.4; margin: 0; padding: 10px; max-width: 280px; }
    .header { text-align: center; margin-bottom: 15px; }
    .header h1 { font-size: 16px; margin: 0 0 5px 0; }
    .header p { margin: 2px 0; font-size: 11px; }
    .divider { border-top: 1px dashed #000; margin: 10px 0; }
    .item { display: flex; justify-content: space-between; margin: 5px 0; }
    .item-name { flex: 1; }
    .item-qty { width: 30px; text-align: center; }
    .item-price { width: 60px; text-align: right; }
    .total-row { display: flex; justify-content: space-between; }
    .total-row.grand { font-weight: bold; font-size: 14px; margin-top: 5px; }
    .footer { text-align: center; margin-top: 15px; font-size: 11px; }
  </style>
</head>
<body onload="window.print()">
  <div class="header">
    <h1>{{.NombreNegocio}}</h1>
    {{- with .Negocio.RFC}}
    <p>RFC: {{.}}</p>{{end}}
    {{- with .Negocio.Direccion}}
    <p>{{.}}</p>{{end}}
    {{- with .Negocio.Telefono}}
    <p>Tel: {{.}}</p>{{end}}
    {{- with .Negocio.Email}}
    <p>{{.}}</p>{{end}}
  </div>
  <div class="divider"></div>
  <p><strong>Ticket:</strong> {{.Numero}}</p>
  <p><strong>Fecha:</strong> {{.FechaTexto}}</p>
  <p><strong>Pago:</strong> {{.MetodoPago}}</p>
  <div class="divider"></div>
  <div class="items">
  {{- range .Lineas}}
    <div class="item">
      <span class="item-name">{{.Nombre}}</span>
      <span class="item-qty">x{{.Cantidad}}</span>
      <span class="item-price">{{moneda .Importe}}</span>
    </div>
  {{- end}}
  </div>
  <div class="divider"></div>
  <div class="totals">
    <div class="total-row"><span>Subtotal:</span><span>{{moneda .Subtotal}}</span></div>
    <div class="total-row"><span>IVA (16%):</span><span>{{moneda .IVA}}</span></div>
    <div class="total-row grand"><span>TOTAL:</span><span>{{moneda .Total}}</span></div>
  </div>
  <div class="footer">
    <p>¡Gracias por su compra!</p>
    <p>Conserve este ticket para cualquier aclaración</p>
  </div>
</body>
</html>
`))

// HTML renders the printable receipt; the document triggers the print
// dialog on load. Item names and header fields are escaped.
func (t Ticket) HTML() (string, error) {
	var buf bytes.Buffer
	if err := plantillaHTML.Execute(&buf, t); err != nil {
		return "", fmt.Errorf("ticket: render html: %w", err)
	}
	return buf.String(), nil
}
