package dto

type ClienteRequest struct {
	Nombre   string `json:"nombre"   validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Telefono string `json:"telefono" validate:"omitempty,max=20"`
}

type ClienteFilter struct {
	Busqueda string `form:"busqueda"` // name or email
}

type ClienteResponse struct {
	ID           string  `json:"id"`
	Nombre       string  `json:"nombre"`
	Email        *string `json:"email"`
	Telefono     *string `json:"telefono"`
	TotalCompras int     `json:"total_compras"`
	UltimaCompra *string `json:"ultima_compra"`
	Insignia     string  `json:"insignia"`
	Iniciales    string  `json:"iniciales"`
	CreatedAt    string  `json:"created_at"`
}
