package handler

import (
	"net/http"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/service"

	"github.com/gin-gonic/gin"
)

// ConfiguracionHandler reads and writes the caller's own settings row.
type ConfiguracionHandler struct{ svc service.ConfiguracionService }

func NewConfiguracionHandler(svc service.ConfiguracionService) *ConfiguracionHandler {
	return &ConfiguracionHandler{svc: svc}
}

func (h *ConfiguracionHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), usuarioDe(c))
	if err != nil {
		responderError(c, err, "Error al cargar la configuración")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConfiguracionHandler) Guardar(c *gin.Context) {
	var req dto.ConfiguracionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Guardar(c.Request.Context(), actorDe(c), usuarioDe(c), req)
	if err != nil {
		responderError(c, err, "Error al guardar la configuración")
		return
	}
	c.JSON(http.StatusOK, resp)
}
