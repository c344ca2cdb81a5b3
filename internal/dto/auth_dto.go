package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CrearUsuarioRequest struct {
	Email          string  `json:"email"           validate:"required,email"`
	NombreCompleto *string `json:"nombre_completo" validate:"omitempty,min=2,max=100"`
	Password       string  `json:"password"        validate:"required,min=8"`
	Rol            string  `json:"rol"             validate:"required,oneof=administrador vendedor cliente"`
}

type ActualizarUsuarioRequest struct {
	NombreCompleto *string `json:"nombre_completo" validate:"omitempty,min=2,max=100"`
	Rol            string  `json:"rol"             validate:"omitempty,oneof=administrador vendedor cliente"`
	Password       string  `json:"password"        validate:"omitempty,min=8"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	NombreCompleto *string `json:"nombre_completo"`
	Rol            string  `json:"rol"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}

// SesionResponse backs the session indicator: who is logged in and whether
// the backing store is reachable.
type SesionResponse struct {
	Usuario      UsuarioResponse `json:"usuario"`
	EnLinea      bool            `json:"en_linea"`
	UltimoCambio string          `json:"ultimo_cambio"`
}
