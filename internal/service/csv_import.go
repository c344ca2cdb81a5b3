package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/metrics"
	"github.com/xjoule42/quicksale-pos/internal/model"
	"github.com/xjoule42/quicksale-pos/internal/pos"

	"github.com/shopspring/decimal"
)

const (
	msgCSVSinDatos = "El archivo CSV debe tener al menos una fila de encabezados y una de datos"
)

// FilaCSV is one parsed product row. Linea counts non-blank lines, with the
// header on line 1.
type FilaCSV struct {
	Linea       int
	Nombre      string
	SKU         string
	Categoria   string
	Precio      decimal.Decimal
	Stock       int
	Descripcion string
}

// ParsearCSV reads a product CSV. A structural problem (no data rows, missing
// required columns) returns an error; per-row problems are collected and the
// row is skipped.
func ParsearCSV(r io.Reader) ([]FilaCSV, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var registros [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, invalido(fmt.Sprintf("CSV inválido: %v", err))
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		registros = append(registros, rec)
	}
	if len(registros) < 2 {
		return nil, nil, invalido(msgCSVSinDatos)
	}

	encabezados := make([]string, len(registros[0]))
	presentes := map[string]bool{}
	for i, h := range registros[0] {
		encabezados[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		presentes[encabezados[i]] = true
	}
	var faltan []string
	if !presentes["name"] && !presentes["nombre"] {
		faltan = append(faltan, "name")
	}
	if !presentes["sku"] {
		faltan = append(faltan, "sku")
	}
	if len(faltan) > 0 {
		return nil, nil, invalido("Faltan columnas requeridas: " + strings.Join(faltan, ", "))
	}

	var filas []FilaCSV
	var errores []string
	for i, rec := range registros[1:] {
		linea := i + 2
		if len(rec) != len(encabezados) {
			errores = append(errores, fmt.Sprintf("Línea %d: número incorrecto de columnas", linea))
			continue
		}
		f := FilaCSV{Linea: linea, Precio: decimal.Zero}
		for j, h := range encabezados {
			v := strings.TrimSpace(rec[j])
			switch h {
			case "name", "nombre":
				f.Nombre = v
			case "category", "categoria", "categoría":
				f.Categoria = v
			case "price", "precio":
				f.Precio = parsePrecio(v)
			case "stock":
				f.Stock = parseStock(v)
			case "sku":
				f.SKU = v
			case "description", "descripcion", "descripción":
				f.Descripcion = v
			}
		}
		if f.Nombre == "" || f.SKU == "" {
			errores = append(errores, fmt.Sprintf("Línea %d: falta nombre o SKU", linea))
			continue
		}
		if f.Categoria == "" {
			f.Categoria = model.CategoriaPorDefecto
		}
		filas = append(filas, f)
	}
	return filas, errores, nil
}

// parsePrecio yields 0 for anything that is not a non-negative number.
func parsePrecio(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(2)
}

func parseStock(v string) int {
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
		return int(f)
	}
	return 0
}

// ImportarCSV parses r, drops rows whose SKU collides with the catalog or an
// earlier row, and inserts the rest in one batch.
func (s *productoService) ImportarCSV(ctx context.Context, actor Actor, r io.Reader) (*dto.ImportarCSVResponse, error) {
	filas, errores, err := ParsearCSV(r)
	if err != nil {
		return nil, err
	}

	catalogo, err := s.repo.List(ctx, dto.ProductoFilter{})
	if err != nil {
		return nil, err
	}
	usados := make(map[string]bool, len(catalogo)+len(filas))
	for _, p := range catalogo {
		usados[pos.Normalizar(p.SKU)] = true
	}

	nuevos := make([]model.Producto, 0, len(filas))
	for _, f := range filas {
		clave := pos.Normalizar(f.SKU)
		if usados[clave] {
			errores = append(errores, fmt.Sprintf("Línea %d: el SKU %s ya existe", f.Linea, f.SKU))
			continue
		}
		usados[clave] = true
		nuevos = append(nuevos, model.Producto{
			Nombre:      f.Nombre,
			SKU:         f.SKU,
			Categoria:   f.Categoria,
			Precio:      f.Precio,
			Stock:       f.Stock,
			Descripcion: strPtr(f.Descripcion),
		})
	}

	if err := s.repo.CreateBatch(ctx, nuevos); err != nil {
		return nil, err
	}
	metrics.RecordImportacion(len(nuevos), len(errores))

	resp := &dto.ImportarCSVResponse{
		Importados: len(nuevos),
		Errores:    errores,
		Productos:  make([]dto.ProductoResponse, len(nuevos)),
	}
	if resp.Errores == nil {
		resp.Errores = []string{}
	}
	for i := range nuevos {
		resp.Productos[i] = productoToResponse(&nuevos[i], s.umbral)
		s.auditoria.Registrar(ctx, actor, EntradaAuditoria{
			Accion:      model.AccionProductoCreado,
			Tabla:       "products",
			RegistroID:  nuevos[i].ID.String(),
			Nuevos:      instantanea(resp.Productos[i]),
			Descripcion: fmt.Sprintf("Producto importado desde CSV: %s", nuevos[i].Nombre),
		})
	}
	return resp, nil
}
