package handler

import (
	"net/http"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

func (h *InventarioHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context())
	if err != nil {
		responderError(c, err, "Error al obtener el resumen de inventario")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) ObtenerAlertas(c *gin.Context) {
	resp, err := h.svc.Alertas(c.Request.Context())
	if err != nil {
		responderError(c, err, "Error al obtener alertas de stock")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filtro dto.MovimientoFilter
	if !bindQuery(c, &filtro) {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filtro)
	if err != nil {
		responderError(c, err, "Error al listar movimientos")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) AjustarStock(c *gin.Context) {
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjustarStock(c.Request.Context(), actorDe(c), req)
	if err != nil {
		responderError(c, err, "Error al ajustar el stock")
		return
	}
	c.JSON(http.StatusCreated, resp)
}
