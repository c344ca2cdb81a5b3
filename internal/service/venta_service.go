package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/metrics"
	"github.com/xjoule42/quicksale-pos/internal/model"
	"github.com/xjoule42/quicksale-pos/internal/pos"
	"github.com/xjoule42/quicksale-pos/internal/repository"
	"github.com/xjoule42/quicksale-pos/internal/ticket"
	"github.com/xjoule42/quicksale-pos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	MetodoEfectivo      = "efectivo"
	MetodoTarjeta       = "tarjeta"
	MetodoTransferencia = "transferencia"

	msgVentaFallida        = "Error al procesar la venta"
	msgCarritoNoEncontrado = "Carrito no encontrado"
	msgConfirmacion        = "Se requiere confirmación"
)

// Notificador queues outbound emails; *worker.Dispatcher satisfies it.
type Notificador interface {
	EnqueueEmail(ctx context.Context, job worker.EmailJob) error
}

// VentaService drives the POS cart and checkout. Carts are scoped to the
// user that created them.
type VentaService interface {
	CrearCarrito(ctx context.Context, actor Actor) (*dto.CarritoResponse, error)
	ObtenerCarrito(ctx context.Context, actor Actor, carritoID uuid.UUID) (*dto.CarritoResponse, error)
	AgregarProducto(ctx context.Context, actor Actor, carritoID, productoID uuid.UUID) (*dto.CarritoResponse, error)
	Buscar(ctx context.Context, actor Actor, carritoID uuid.UUID, termino string) (*dto.BusquedaResponse, error)
	ActualizarCantidad(ctx context.Context, actor Actor, carritoID, productoID uuid.UUID, delta int) (*dto.CarritoResponse, error)
	QuitarProducto(ctx context.Context, actor Actor, carritoID, productoID uuid.UUID) (*dto.CarritoResponse, error)
	VaciarCarrito(ctx context.Context, actor Actor, carritoID uuid.UUID, confirmar bool) (*dto.CarritoResponse, error)
	CancelarVenta(ctx context.Context, actor Actor, carritoID uuid.UUID, confirmar bool) (*dto.CarritoResponse, error)
	Cobrar(ctx context.Context, actor Actor, carritoID uuid.UUID, req dto.CobrarRequest) (*dto.VentaResponse, error)
	RenderTicket(ctx context.Context, actor Actor, req dto.RenderTicketRequest) (ticket.Ticket, error)
}

type ventaService struct {
	carritos      repository.CarritoStore
	productos     repository.ProductoRepository
	configuracion ConfiguracionService
	auditoria     AuditoriaService
	notificador   Notificador
	umbral        int
	ahora         func() time.Time
}

// NewVentaService: notificador may be nil, in which case no emails are queued.
func NewVentaService(
	carritos repository.CarritoStore,
	productos repository.ProductoRepository,
	configuracion ConfiguracionService,
	auditoria AuditoriaService,
	notificador Notificador,
	umbral int,
) VentaService {
	return &ventaService{
		carritos:      carritos,
		productos:     productos,
		configuracion: configuracion,
		auditoria:     auditoria,
		notificador:   notificador,
		umbral:        umbral,
		ahora:         time.Now,
	}
}

func usuarioDe(actor Actor) uuid.UUID {
	if actor.UsuarioID == nil {
		return uuid.Nil
	}
	return *actor.UsuarioID
}

// cargar fetches a cart owned by actor. Someone else's cart is reported as
// missing.
func (s *ventaService) cargar(ctx context.Context, actor Actor, id uuid.UUID) (*pos.Carrito, error) {
	c, err := s.carritos.Obtener(ctx, id)
	if err != nil {
		return nil, traducirNoEncontrado(err, msgCarritoNoEncontrado)
	}
	if c.UsuarioID != usuarioDe(actor) {
		return nil, noEncontrado(msgCarritoNoEncontrado)
	}
	return c, nil
}

func (s *ventaService) guardar(ctx context.Context, c *pos.Carrito) (*dto.CarritoResponse, error) {
	if err := s.carritos.Guardar(ctx, c); err != nil {
		return nil, err
	}
	resp := carritoToResponse(c)
	return &resp, nil
}

func errorCarrito(err error) error {
	switch {
	case errors.Is(err, pos.ErrStockInsuficiente):
		return sinStock("Stock insuficiente")
	case errors.Is(err, pos.ErrItemNoEncontrado):
		return noEncontrado("El producto no está en el carrito")
	default:
		return err
	}
}

func (s *ventaService) CrearCarrito(ctx context.Context, actor Actor) (*dto.CarritoResponse, error) {
	return s.guardar(ctx, pos.NuevoCarrito(usuarioDe(actor), s.ahora()))
}

func (s *ventaService) ObtenerCarrito(ctx context.Context, actor Actor, carritoID uuid.UUID) (*dto.CarritoResponse, error) {
	c, err := s.cargar(ctx, actor, carritoID)
	if err != nil {
		return nil, err
	}
	resp := carritoToResponse(c)
	return &resp, nil
}

func (s *ventaService) AgregarProducto(ctx context.Context, actor Actor, carritoID, productoID uuid.UUID) (*dto.CarritoResponse, error) {
	c, err := s.cargar(ctx, actor, carritoID)
	if err != nil {
		return nil, err
	}
	p, err := s.productos.FindByID(ctx, productoID)
	if err != nil {
		return nil, traducirNoEncontrado(err, "Producto no encontrado")
	}
	if err := c.Agregar(*p); err != nil {
		return nil, errorCarrito(err)
	}
	return s.guardar(ctx, c)
}

// Buscar adds the product the term resolves to. An ambiguous term leaves the
// cart unchanged and returns the candidates.
func (s *ventaService) Buscar(ctx context.Context, actor Actor, carritoID uuid.UUID, termino string) (*dto.BusquedaResponse, error) {
	c, err := s.cargar(ctx, actor, carritoID)
	if err != nil {
		return nil, err
	}
	catalogo, err := s.productos.List(ctx, dto.ProductoFilter{})
	if err != nil {
		return nil, err
	}
	res, err := pos.ResolverBusqueda(termino, catalogo)
	if errors.Is(err, pos.ErrProductoNoEncontrado) {
		return nil, noEncontrado("Producto no encontrado")
	}
	if err != nil {
		return nil, err
	}

	resp := &dto.BusquedaResponse{Coincidencias: []dto.ProductoResponse{}}
	if res.Producto == nil {
		for i := range res.Coincidencias {
			resp.Coincidencias = append(resp.Coincidencias, productoToResponse(&res.Coincidencias[i], s.umbral))
		}
		resp.Carrito = carritoToResponse(c)
		return resp, nil
	}

	if err := c.Agregar(*res.Producto); err != nil {
		return nil, errorCarrito(err)
	}
	carrito, err := s.guardar(ctx, c)
	if err != nil {
		return nil, err
	}
	agregado := productoToResponse(res.Producto, s.umbral)
	resp.Carrito = *carrito
	resp.Agregado = &agregado
	return resp, nil
}

func (s *ventaService) ActualizarCantidad(ctx context.Context, actor Actor, carritoID, productoID uuid.UUID, delta int) (*dto.CarritoResponse, error) {
	c, err := s.cargar(ctx, actor, carritoID)
	if err != nil {
		return nil, err
	}
	if err := c.ActualizarCantidad(productoID, delta); err != nil {
		return nil, errorCarrito(err)
	}
	return s.guardar(ctx, c)
}

func (s *ventaService) QuitarProducto(ctx context.Context, actor Actor, carritoID, productoID uuid.UUID) (*dto.CarritoResponse, error) {
	c, err := s.cargar(ctx, actor, carritoID)
	if err != nil {
		return nil, err
	}
	c.Quitar(productoID)
	return s.guardar(ctx, c)
}

func (s *ventaService) VaciarCarrito(ctx context.Context, actor Actor, carritoID uuid.UUID, confirmar bool) (*dto.CarritoResponse, error) {
	c, err := s.cargar(ctx, actor, carritoID)
	if err != nil {
		return nil, err
	}
	if !confirmar {
		return nil, conflicto(msgConfirmacion)
	}
	c.Vaciar()
	return s.guardar(ctx, c)
}

// CancelarVenta empties the cart and, when it held items, records a
// venta_cancelada entry with the discarded lines.
func (s *ventaService) CancelarVenta(ctx context.Context, actor Actor, carritoID uuid.UUID, confirmar bool) (*dto.CarritoResponse, error) {
	c, err := s.cargar(ctx, actor, carritoID)
	if err != nil {
		return nil, err
	}
	if !confirmar {
		return nil, conflicto(msgConfirmacion)
	}
	if !c.Vacio() {
		t := c.Totales()
		s.auditoria.Registrar(ctx, actor, EntradaAuditoria{
			Accion:     model.AccionVentaCancelada,
			Tabla:      "sales",
			RegistroID: c.ID.String(),
			Anteriores: map[string]interface{}{
				"items":     resumenItems(c.Items),
				"articulos": c.Articulos(),
				"total":     t.Total.StringFixed(2),
			},
			Descripcion: fmt.Sprintf("Venta cancelada con %d artículos por $%s", c.Articulos(), t.Total.StringFixed(2)),
		})
		metrics.RecordVentaCancelada()
	}
	c.Vaciar()
	return s.guardar(ctx, c)
}

func resumenItems(items []pos.Item) []model.ResumenVentaItem {
	out := make([]model.ResumenVentaItem, len(items))
	for i, it := range items {
		out[i] = model.ResumenVentaItem{
			ProductoID: it.ProductoID.String(),
			Nombre:     it.Nombre,
			Cantidad:   it.Cantidad,
			Precio:     it.Precio.StringFixed(2),
		}
	}
	return out
}

// metodoHabilitado validates the payment method against the user's settings.
func metodoHabilitado(metodo string, c model.Configuracion) bool {
	switch metodo {
	case MetodoEfectivo:
		return c.PagoEfectivo
	case MetodoTarjeta:
		return c.PagoTarjeta
	case MetodoTransferencia:
		return c.PagoTransfer
	default:
		return false
	}
}

func negocioDe(c model.Configuracion) ticket.Negocio {
	return ticket.Negocio{
		Nombre:    c.NombreNegocio,
		RFC:       c.RFC,
		Direccion: c.Direccion,
		Telefono:  c.Telefono,
		Email:     c.Email,
	}
}

// Cobrar checks out a cart. Each line's stock is overwritten with
// snapshot minus quantity, one independent write per line, in cart order.
// A failing write aborts the remaining lines without undoing earlier ones
// and the cart is kept. No sale row or inventory movement is written; the
// venta_creada audit entry is the only record of the sale.
func (s *ventaService) Cobrar(ctx context.Context, actor Actor, carritoID uuid.UUID, req dto.CobrarRequest) (*dto.VentaResponse, error) {
	c, err := s.cargar(ctx, actor, carritoID)
	if err != nil {
		return nil, err
	}
	if c.Vacio() {
		return nil, invalido("El carrito está vacío")
	}

	cfg, err := s.configuracion.Efectiva(ctx, usuarioDe(actor))
	if err != nil {
		return nil, err
	}
	metodo := strings.TrimSpace(req.MetodoPago)
	if metodo == "" {
		metodo = MetodoEfectivo
	}
	if !metodoHabilitado(metodo, cfg) {
		return nil, invalido("Método de pago no habilitado")
	}

	for _, it := range c.Items {
		if err := s.productos.SetStock(ctx, it.ProductoID, it.Stock-it.Cantidad); err != nil {
			log.Error().Err(err).
				Str("carrito_id", c.ID.String()).
				Str("producto_id", it.ProductoID.String()).
				Msg("Error processing sale")
			metrics.RecordCobroFallido()
			return nil, fallida(msgVentaFallida)
		}
	}

	lineas := make([]ticket.Linea, len(c.Items))
	for i, it := range c.Items {
		lineas[i] = ticket.Linea{Nombre: it.Nombre, Precio: it.Precio, Cantidad: it.Cantidad}
	}
	tk := ticket.Nuevo(negocioDe(cfg), lineas, metodo, s.ahora())

	resumen := model.ResumenVenta{
		Ticket:     tk.Numero,
		MetodoPago: metodo,
		Articulos:  c.Articulos(),
		Subtotal:   tk.Subtotal.StringFixed(2),
		IVA:        tk.IVA.StringFixed(2),
		Total:      tk.Total.StringFixed(2),
		Items:      resumenItems(c.Items),
	}
	s.auditoria.Registrar(ctx, actor, EntradaAuditoria{
		Accion:      model.AccionVentaCreada,
		Tabla:       "sales",
		RegistroID:  tk.Numero,
		Nuevos:      resumen.JSONMap(),
		Descripcion: fmt.Sprintf("Venta %s por $%s", tk.Numero, resumen.Total),
	})

	resp := &dto.VentaResponse{
		NumeroTicket:  tk.Numero,
		Fecha:         tk.Fecha.Format(time.RFC3339),
		MetodoPago:    metodo,
		Items:         make([]dto.CarritoItemResponse, len(c.Items)),
		Subtotal:      tk.Subtotal,
		IVA:           tk.IVA,
		Total:         tk.Total,
		TicketTexto:   tk.Texto(),
		ArchivoTicket: tk.NombreArchivo(),
		Imprimir:      cfg.ImpresoraActiva,
		Productos:     []dto.ProductoResponse{},
	}
	for i, it := range c.Items {
		resp.Items[i] = itemToResponse(it)
	}
	if cfg.ImpresoraActiva {
		html, err := tk.HTML()
		if err != nil {
			log.Error().Err(err).Str("ticket", tk.Numero).Msg("ticket html render failed")
		}
		resp.TicketHTML = html
	}

	if err := s.carritos.Eliminar(ctx, c.ID); err != nil {
		log.Error().Err(err).Str("carrito_id", c.ID.String()).Msg("cart cleanup failed")
	}

	ids := make([]uuid.UUID, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ProductoID
	}
	refrescados, err := s.productos.FindByIDs(ctx, ids)
	if err != nil {
		log.Error().Err(err).Msg("refresh sold products failed")
	}
	for i := range refrescados {
		resp.Productos = append(resp.Productos, productoToResponse(&refrescados[i], s.umbral))
	}

	metrics.RecordVenta(metodo, tk.Total.InexactFloat64())
	s.notificar(ctx, req.ClienteEmail, tk, cfg, refrescados)
	return resp, nil
}

// notificar queues the customer ticket email and the low-stock alert. Queue
// failures are logged only.
func (s *ventaService) notificar(ctx context.Context, clienteEmail string, tk ticket.Ticket, cfg model.Configuracion, productos []model.Producto) {
	if s.notificador == nil {
		return
	}
	if email := strings.TrimSpace(clienteEmail); email != "" {
		job := worker.EmailJob{
			To:      email,
			Subject: fmt.Sprintf("%s: ticket %s", tk.NombreNegocio(), tk.Numero),
			Body:    tk.Texto(),
			Ticket:  &tk,
		}
		if err := s.notificador.EnqueueEmail(ctx, job); err != nil {
			log.Error().Err(err).Str("ticket", tk.Numero).Msg("enqueue ticket email failed")
		}
	}

	if !cfg.AlertasStockBajo || cfg.Email == "" {
		return
	}
	var bajos []model.Producto
	for _, p := range productos {
		if p.Stock <= s.umbral {
			bajos = append(bajos, p)
		}
	}
	if len(bajos) == 0 {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Productos con stock bajo (umbral %d) tras la venta %s:\n\n", s.umbral, tk.Numero)
	for _, p := range bajos {
		fmt.Fprintf(&b, "- %s (%s): %d unidades\n", p.Nombre, p.SKU, p.Stock)
	}
	job := worker.EmailJob{
		To:      cfg.Email,
		Subject: fmt.Sprintf("%s: alerta de stock bajo", tk.NombreNegocio()),
		Body:    b.String(),
	}
	if err := s.notificador.EnqueueEmail(ctx, job); err != nil {
		log.Error().Err(err).Msg("enqueue stock alert failed")
	}
}

// RenderTicket builds a ticket for arbitrary items with the actor's business
// settings. Nothing is persisted.
func (s *ventaService) RenderTicket(ctx context.Context, actor Actor, req dto.RenderTicketRequest) (ticket.Ticket, error) {
	if len(req.Items) == 0 {
		return ticket.Ticket{}, invalido("El ticket debe tener al menos un producto")
	}
	cfg, err := s.configuracion.Efectiva(ctx, usuarioDe(actor))
	if err != nil {
		return ticket.Ticket{}, err
	}
	lineas := make([]ticket.Linea, len(req.Items))
	for i, it := range req.Items {
		if it.Cantidad < 1 || it.Precio.IsNegative() {
			return ticket.Ticket{}, invalido(fmt.Sprintf("Producto %d inválido", i+1))
		}
		lineas[i] = ticket.Linea{Nombre: it.Nombre, Precio: it.Precio, Cantidad: it.Cantidad}
	}
	return ticket.Nuevo(negocioDe(cfg), lineas, req.MetodoPago, s.ahora()), nil
}
