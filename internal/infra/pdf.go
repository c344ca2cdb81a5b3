package infra

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xjoule42/quicksale-pos/internal/ticket"

	"github.com/go-pdf/fpdf"
)

// TicketPDF renders a receipt on 80mm thermal-width paper and returns the PDF
// bytes. Height grows with the number of lines so the receipt is one page.
func TicketPDF(t ticket.Ticket) ([]byte, error) {
	const ancho = 80.0
	alto := 95.0 + float64(len(t.Lineas))*9

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: ancho, Ht: alto},
	})
	pdf.SetMargins(5, 5, 5)
	pdf.SetAutoPageBreak(false, 5)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	contentW := ancho - 10
	linea := func() {
		pdf.Ln(1)
		pdf.Line(5, pdf.GetY(), ancho-5, pdf.GetY())
		pdf.Ln(2)
	}

	pdf.SetFont("Courier", "B", 12)
	pdf.CellFormat(contentW, 6, tr(strings.ToUpper(t.NombreNegocio())), "", 1, "C", false, 0, "")
	pdf.SetFont("Courier", "", 8)
	for _, extra := range t.Negocio.LineasEncabezado() {
		pdf.CellFormat(contentW, 4, tr(extra), "", 1, "C", false, 0, "")
	}
	linea()

	pdf.CellFormat(contentW, 4, tr("Ticket: "+t.Numero), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Fecha: "+t.FechaTexto()), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Pago: "+t.MetodoPago), "", 1, "L", false, 0, "")
	linea()

	colNombre := contentW * 0.55
	colCant := contentW * 0.15
	colImporte := contentW * 0.30
	for _, l := range t.Lineas {
		pdf.CellFormat(contentW, 4, tr(l.Nombre), "", 1, "L", false, 0, "")
		pdf.CellFormat(colNombre, 4, tr("  $"+l.Precio.StringFixed(2)), "", 0, "L", false, 0, "")
		pdf.CellFormat(colCant, 4, fmt.Sprintf("x%d", l.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(colImporte, 4, "$"+l.Importe().StringFixed(2), "", 1, "R", false, 0, "")
	}
	linea()

	fila := func(etiqueta, valor string, alto float64) {
		pdf.CellFormat(colNombre+colCant, alto, tr(etiqueta), "", 0, "L", false, 0, "")
		pdf.CellFormat(colImporte, alto, valor, "", 1, "R", false, 0, "")
	}
	fila("Subtotal:", "$"+t.Subtotal.StringFixed(2), 4)
	fila("IVA (16%):", "$"+t.IVA.StringFixed(2), 4)
	pdf.SetFont("Courier", "B", 10)
	fila("TOTAL:", "$"+t.Total.StringFixed(2), 6)

	pdf.Ln(3)
	pdf.SetFont("Courier", "I", 8)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Conserve este ticket"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render ticket %s: %w", t.Numero, err)
	}
	return buf.Bytes(), nil
}
