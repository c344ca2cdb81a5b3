// Package pos holds the checkout cart state machine and the VAT arithmetic.
// It has no I/O: services load products, mutate a Carrito, and persist it.
package pos

import (
	"errors"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TasaIVA is the fixed VAT rate applied to every sale.
var TasaIVA = decimal.RequireFromString("0.16")

var (
	ErrStockInsuficiente = errors.New("stock insuficiente")
	ErrCarritoVacio      = errors.New("el carrito está vacío")
	ErrItemNoEncontrado  = errors.New("el producto no está en el carrito")
)

// Estados del carrito.
const (
	EstadoVacio   = "vacio"
	EstadoArmando = "armando"
)

// Item is a cart line. Stock is the product stock captured when the line was
// first added; later adds and increments are checked against it, never
// against live stock.
type Item struct {
	ProductoID uuid.UUID       `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Categoria  string          `json:"categoria"`
	Precio     decimal.Decimal `json:"precio"`
	Stock      int             `json:"stock"`
	Cantidad   int             `json:"cantidad"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.Precio.Mul(decimal.NewFromInt(int64(i.Cantidad)))
}

// Totales of a sale. IVA is rounded to cents before being added.
type Totales struct {
	Subtotal decimal.Decimal
	IVA      decimal.Decimal
	Total    decimal.Decimal
}

// CalcularTotales applies TasaIVA to subtotal.
func CalcularTotales(subtotal decimal.Decimal) Totales {
	iva := subtotal.Mul(TasaIVA).Round(2)
	return Totales{Subtotal: subtotal, IVA: iva, Total: subtotal.Add(iva)}
}

// Carrito is one POS session's cart.
type Carrito struct {
	ID        uuid.UUID `json:"id"`
	UsuarioID uuid.UUID `json:"usuario_id"`
	Items     []Item    `json:"items"`
	CreadoEn  time.Time `json:"creado_en"`
}

func NuevoCarrito(usuarioID uuid.UUID, ahora time.Time) *Carrito {
	return &Carrito{ID: uuid.New(), UsuarioID: usuarioID, Items: []Item{}, CreadoEn: ahora}
}

func (c *Carrito) Vacio() bool { return len(c.Items) == 0 }

func (c *Carrito) Estado() string {
	if c.Vacio() {
		return EstadoVacio
	}
	return EstadoArmando
}

// Item returns the line for productoID.
func (c *Carrito) Item(productoID uuid.UUID) (Item, bool) {
	if i := c.indice(productoID); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

// Agregar adds one unit of p. An existing line is incremented against its
// stored snapshot; a new line snapshots p.Stock. Rejected additions leave the
// cart unchanged.
func (c *Carrito) Agregar(p model.Producto) error {
	if i := c.indice(p.ID); i >= 0 {
		if c.Items[i].Cantidad+1 > c.Items[i].Stock {
			return ErrStockInsuficiente
		}
		c.Items[i].Cantidad++
		return nil
	}
	if p.Stock < 1 {
		return ErrStockInsuficiente
	}
	c.Items = append(c.Items, Item{
		ProductoID: p.ID,
		Nombre:     p.Nombre,
		Categoria:  p.Categoria,
		Precio:     p.Precio,
		Stock:      p.Stock,
		Cantidad:   1,
	})
	return nil
}

// ActualizarCantidad applies delta to a line. Increases past the snapshot are
// rejected; a resulting quantity of zero or less removes the line.
func (c *Carrito) ActualizarCantidad(productoID uuid.UUID, delta int) error {
	i := c.indice(productoID)
	if i < 0 {
		return ErrItemNoEncontrado
	}
	nueva := c.Items[i].Cantidad + delta
	if delta > 0 && nueva > c.Items[i].Stock {
		return ErrStockInsuficiente
	}
	if nueva <= 0 {
		c.Quitar(productoID)
		return nil
	}
	c.Items[i].Cantidad = nueva
	return nil
}

// Quitar removes a line if present.
func (c *Carrito) Quitar(productoID uuid.UUID) {
	if i := c.indice(productoID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

func (c *Carrito) Vaciar() { c.Items = []Item{} }

// Articulos is the total number of units in the cart.
func (c *Carrito) Articulos() int {
	n := 0
	for _, it := range c.Items {
		n += it.Cantidad
	}
	return n
}

func (c *Carrito) Totales() Totales {
	subtotal := decimal.Zero
	for _, it := range c.Items {
		subtotal = subtotal.Add(it.Subtotal())
	}
	return CalcularTotales(subtotal)
}

func (c *Carrito) indice(productoID uuid.UUID) int {
	for i, it := range c.Items {
		if it.ProductoID == productoID {
			return i
		}
	}
	return -1
}
