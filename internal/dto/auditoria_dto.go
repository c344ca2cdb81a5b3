package dto

type AuditoriaFilter struct {
	Busqueda string `form:"busqueda"`
}

type PerfilResumen struct {
	NombreCompleto *string `json:"nombre_completo"`
	Email          string  `json:"email"`
}

// AuditLogResponse is one row of the audit viewer. Etiqueta and Variante are
// display hints derived from the action type.
type AuditLogResponse struct {
	ID          string                 `json:"id"`
	Accion      string                 `json:"accion"`
	Etiqueta    string                 `json:"etiqueta"`
	Variante    string                 `json:"variante"`
	Tabla       string                 `json:"tabla"`
	RegistroID  *string                `json:"registro_id"`
	Anteriores  map[string]interface{} `json:"valores_anteriores"`
	Nuevos      map[string]interface{} `json:"valores_nuevos"`
	Descripcion *string                `json:"descripcion"`
	UserAgent   *string                `json:"user_agent"`
	IP          *string                `json:"ip"`
	CreatedAt   string                 `json:"created_at"`
	Usuario     *PerfilResumen         `json:"usuario"`
}
