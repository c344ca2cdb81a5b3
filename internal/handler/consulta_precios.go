package handler

import (
	"net/http"

	"github.com/xjoule42/quicksale-pos/internal/service"

	"github.com/gin-gonic/gin"
)

// ConsultaPreciosHandler serves the public price check. No auth.
type ConsultaPreciosHandler struct{ svc service.ProductoService }

func NewConsultaPreciosHandler(svc service.ProductoService) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{svc: svc}
}

func (h *ConsultaPreciosHandler) GetPrecioPorSKU(c *gin.Context) {
	resp, err := h.svc.ObtenerPorSKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		responderError(c, err, "Error al consultar el precio")
		return
	}
	c.JSON(http.StatusOK, resp)
}
