package handler

import (
	"net/http"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login de usuario
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		responderError(c, err, "Error al iniciar sesión")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		responderError(c, err, "Error al renovar la sesión")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sesion godoc
// @Summary Usuario actual y estado de conexión
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SesionResponse
// @Router /v1/sesion [get]
func (h *AuthHandler) Sesion(c *gin.Context) {
	resp, err := h.svc.Sesion(c.Request.Context(), usuarioDe(c))
	if err != nil {
		responderError(c, err, "Error al obtener la sesión")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Usuarios Handler ─────────────────────────────────────────────────────────

type UsuariosHandler struct{ svc service.AuthService }

func NewUsuariosHandler(svc service.AuthService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearUsuario(c.Request.Context(), actorDe(c), req)
	if err != nil {
		responderError(c, err, "Error al crear el usuario")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UsuariosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarUsuarios(c.Request.Context())
	if err != nil {
		responderError(c, err, "Error al listar usuarios")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsuariosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarUsuario(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		responderError(c, err, "Error al actualizar el usuario")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsuariosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarUsuario(c.Request.Context(), actorDe(c), id); err != nil {
		responderError(c, err, "Error al eliminar el usuario")
		return
	}
	c.Status(http.StatusNoContent)
}
