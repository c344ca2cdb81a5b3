package handler

import (
	"net/http"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/service"

	"github.com/gin-gonic/gin"
)

type AuditoriaHandler struct{ svc service.AuditoriaService }

func NewAuditoriaHandler(svc service.AuditoriaService) *AuditoriaHandler {
	return &AuditoriaHandler{svc: svc}
}

func (h *AuditoriaHandler) Listar(c *gin.Context) {
	var filtro dto.AuditoriaFilter
	if !bindQuery(c, &filtro) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filtro)
	if err != nil {
		responderError(c, err, "Error al cargar los registros de auditoría")
		return
	}
	c.JSON(http.StatusOK, resp)
}
