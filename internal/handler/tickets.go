package handler

import (
	"net/http"

	"github.com/xjoule42/quicksale-pos/internal/apierror"
	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/infra"
	"github.com/xjoule42/quicksale-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type TicketsHandler struct{ svc service.VentaService }

func NewTicketsHandler(svc service.VentaService) *TicketsHandler {
	return &TicketsHandler{svc: svc}
}

// Render godoc
// @Summary Renderiza un ticket en HTML, texto o PDF
// @Tags tickets
// @Accept json
// @Param formato query string false "html | txt | pdf" default(html)
// @Param body body dto.RenderTicketRequest true "Productos"
// @Router /v1/tickets/render [post]
func (h *TicketsHandler) Render(c *gin.Context) {
	formato := c.DefaultQuery("formato", "html")
	if formato != "html" && formato != "txt" && formato != "pdf" {
		c.JSON(http.StatusBadRequest, apierror.New("Formato no soportado: use html, txt o pdf"))
		return
	}
	var req dto.RenderTicketRequest
	if !bindAndValidate(c, &req) {
		return
	}
	t, err := h.svc.RenderTicket(c.Request.Context(), actorDe(c), req)
	if err != nil {
		responderError(c, err, "Error al generar el ticket")
		return
	}

	switch formato {
	case "txt":
		c.Header("Content-Disposition", `attachment; filename="`+t.NombreArchivo()+`"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(t.Texto()))
	case "pdf":
		pdf, err := infra.TicketPDF(t)
		if err != nil {
			log.Error().Err(err).Str("ticket", t.Numero).Msg("ticket pdf render failed")
			c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el ticket"))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="ticket-`+t.Numero+`.pdf"`)
		c.Data(http.StatusOK, "application/pdf", pdf)
	default:
		html, err := t.HTML()
		if err != nil {
			responderError(c, err, "Error al generar el ticket")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	}
}
