package service

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/model"
	"github.com/xjoule42/quicksale-pos/internal/pos"
)

const (
	EstadoStockNormal = "Stock Normal"
	EstadoStockBajo   = "Stock Bajo"
)

func productoToResponse(p *model.Producto, umbral int) dto.ProductoResponse {
	estado := EstadoStockNormal
	if p.Stock <= umbral {
		estado = EstadoStockBajo
	}
	return dto.ProductoResponse{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		SKU:         p.SKU,
		Categoria:   p.Categoria,
		Precio:      p.Precio,
		Stock:       p.Stock,
		EstadoStock: estado,
		Descripcion: p.Descripcion,
		ImagenURL:   p.ImagenURL,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func movimientoToResponse(m *model.MovimientoInventario) dto.MovimientoResponse {
	resp := dto.MovimientoResponse{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Notas:         m.Notas,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
	if m.Producto != nil {
		resp.ProductoNombre = m.Producto.Nombre
	}
	if m.UsuarioID != nil {
		s := m.UsuarioID.String()
		resp.UsuarioID = &s
	}
	return resp
}

// Insignia derives the customer badge from the purchase counter.
func Insignia(totalCompras int) string {
	switch {
	case totalCompras > 20:
		return "VIP"
	case totalCompras > 10:
		return "Frecuente"
	default:
		return "Regular"
	}
}

// Iniciales returns up to two upper-case initials of nombre.
func Iniciales(nombre string) string {
	var out []rune
	for _, palabra := range strings.Fields(nombre) {
		r := []rune(palabra)
		out = append(out, unicode.ToUpper(r[0]))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

func clienteToResponse(c *model.Cliente) dto.ClienteResponse {
	resp := dto.ClienteResponse{
		ID:           c.ID.String(),
		Nombre:       c.Nombre,
		Email:        c.Email,
		Telefono:     c.Telefono,
		TotalCompras: c.TotalCompras,
		Insignia:     Insignia(c.TotalCompras),
		Iniciales:    Iniciales(c.Nombre),
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}
	if c.UltimaCompra != nil {
		s := c.UltimaCompra.Format(time.RFC3339)
		resp.UltimaCompra = &s
	}
	return resp
}

func configuracionToResponse(c model.Configuracion, guardada bool) dto.ConfiguracionResponse {
	return dto.ConfiguracionResponse{
		ConfiguracionRequest: dto.ConfiguracionRequest{
			NombreNegocio:    c.NombreNegocio,
			RFC:              c.RFC,
			Direccion:        c.Direccion,
			Telefono:         c.Telefono,
			Email:            c.Email,
			ImpresoraActiva:  c.ImpresoraActiva,
			EscanerActivo:    c.EscanerActivo,
			PagoEfectivo:     c.PagoEfectivo,
			PagoTarjeta:      c.PagoTarjeta,
			PagoTransfer:     c.PagoTransfer,
			AlertasStockBajo: c.AlertasStockBajo,
			ReportesDiarios:  c.ReportesDiarios,
		},
		Guardada: guardada,
	}
}

func perfilToResponse(p *model.Perfil) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:             p.ID.String(),
		Email:          p.Email,
		NombreCompleto: p.NombreCompleto,
		Rol:            p.RolPrincipal(),
	}
}

func carritoToResponse(c *pos.Carrito) dto.CarritoResponse {
	items := make([]dto.CarritoItemResponse, len(c.Items))
	for i, it := range c.Items {
		items[i] = itemToResponse(it)
	}
	t := c.Totales()
	return dto.CarritoResponse{
		ID:        c.ID.String(),
		Items:     items,
		Articulos: c.Articulos(),
		Subtotal:  t.Subtotal,
		IVA:       t.IVA,
		Total:     t.Total,
	}
}

func itemToResponse(it pos.Item) dto.CarritoItemResponse {
	return dto.CarritoItemResponse{
		ProductoID:      it.ProductoID.String(),
		Nombre:          it.Nombre,
		Categoria:       it.Categoria,
		Precio:          it.Precio,
		Cantidad:        it.Cantidad,
		StockDisponible: it.Stock,
		Subtotal:        it.Subtotal(),
	}
}

// instantanea turns a response DTO into the JSON object stored in
// old_values/new_values.
func instantanea(v interface{}) map[string]interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
