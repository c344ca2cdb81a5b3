package handler

import (
	"net/http"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CarritosHandler struct{ svc service.VentaService }

func NewCarritosHandler(svc service.VentaService) *CarritosHandler {
	return &CarritosHandler{svc: svc}
}

func (h *CarritosHandler) Crear(c *gin.Context) {
	resp, err := h.svc.CrearCarrito(c.Request.Context(), actorDe(c))
	if err != nil {
		responderError(c, err, "Error al crear el carrito")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CarritosHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerCarrito(c.Request.Context(), actorDe(c), id)
	if err != nil {
		responderError(c, err, "Error al obtener el carrito")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritosHandler) AgregarItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AgregarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarProducto(c.Request.Context(), actorDe(c), id, uuid.MustParse(req.ProductoID))
	if err != nil {
		responderError(c, err, "Error al agregar el producto")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritosHandler) Buscar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.BuscarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Buscar(c.Request.Context(), actorDe(c), id, req.Termino)
	if err != nil {
		responderError(c, err, "Error al buscar el producto")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritosHandler) ActualizarCantidad(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	productoID, ok := parseID(c, "producto_id")
	if !ok {
		return
	}
	var req dto.ActualizarCantidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCantidad(c.Request.Context(), actorDe(c), id, productoID, req.Delta)
	if err != nil {
		responderError(c, err, "Error al actualizar la cantidad")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritosHandler) QuitarItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	productoID, ok := parseID(c, "producto_id")
	if !ok {
		return
	}
	resp, err := h.svc.QuitarProducto(c.Request.Context(), actorDe(c), id, productoID)
	if err != nil {
		responderError(c, err, "Error al quitar el producto")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritosHandler) Vaciar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ConfirmacionRequest
	if !bindOpcional(c, &req) {
		return
	}
	resp, err := h.svc.VaciarCarrito(c.Request.Context(), actorDe(c), id, req.Confirmar)
	if err != nil {
		responderError(c, err, "Error al vaciar el carrito")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritosHandler) Cancelar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ConfirmacionRequest
	if !bindOpcional(c, &req) {
		return
	}
	resp, err := h.svc.CancelarVenta(c.Request.Context(), actorDe(c), id, req.Confirmar)
	if err != nil {
		responderError(c, err, "Error al cancelar la venta")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cobrar godoc
// @Summary Cobra el carrito y emite el ticket
// @Tags carritos
// @Accept json
// @Produce json
// @Param id path string true "ID del carrito"
// @Param body body dto.CobrarRequest true "Método de pago"
// @Success 201 {object} dto.VentaResponse
// @Failure 422 {object} apierror.APIError
// @Failure 500 {object} apierror.APIError
// @Router /v1/carritos/{id}/cobrar [post]
func (h *CarritosHandler) Cobrar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CobrarRequest
	if !bindOpcional(c, &req) {
		return
	}
	resp, err := h.svc.Cobrar(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		responderError(c, err, "Error al procesar la venta")
		return
	}
	c.JSON(http.StatusCreated, resp)
}
