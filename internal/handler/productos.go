package handler

import (
	"io"
	"net/http"

	"github.com/xjoule42/quicksale-pos/internal/apierror"
	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/service"

	"github.com/gin-gonic/gin"
)

// maxCSV bounds the import upload.
const maxCSV = 5 << 20

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.ProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), actorDe(c), req)
	if err != nil {
		responderError(c, err, "Error al crear el producto")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err, "Error al listar productos")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err, "Error al obtener el producto")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		responderError(c, err, "Error al actualizar el producto")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), actorDe(c), id); err != nil {
		responderError(c, err, "Error al eliminar el producto")
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportarCSV accepts a multipart "archivo" field or a raw text/csv body.
func (h *ProductosHandler) ImportarCSV(c *gin.Context) {
	var r io.Reader
	if fh, err := c.FormFile("archivo"); err == nil {
		if fh.Size > maxCSV {
			c.JSON(http.StatusRequestEntityTooLarge, apierror.New("El archivo CSV supera 5 MB"))
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
			return
		}
		defer f.Close()
		r = f
	} else {
		r = http.MaxBytesReader(c.Writer, c.Request.Body, maxCSV)
	}

	resp, err := h.svc.ImportarCSV(c.Request.Context(), actorDe(c), r)
	if err != nil {
		responderError(c, err, "Error al importar productos")
		return
	}
	c.JSON(http.StatusOK, resp)
}
