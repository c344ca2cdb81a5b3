package dto

type ConfiguracionRequest struct {
	NombreNegocio    string `json:"nombre_negocio"     validate:"required,min=1,max=100"`
	RFC              string `json:"rfc"                validate:"omitempty,max=13"`
	Direccion        string `json:"direccion"          validate:"omitempty,max=200"`
	Telefono         string `json:"telefono"           validate:"omitempty,max=20"`
	Email            string `json:"email"              validate:"omitempty,email"`
	ImpresoraActiva  bool   `json:"impresora_activa"`
	EscanerActivo    bool   `json:"escaner_activo"`
	PagoEfectivo     bool   `json:"pago_efectivo"`
	PagoTarjeta      bool   `json:"pago_tarjeta"`
	PagoTransfer     bool   `json:"pago_transferencia"`
	AlertasStockBajo bool   `json:"alertas_stock_bajo"`
	ReportesDiarios  bool   `json:"reportes_diarios"`
}

// ConfiguracionResponse mirrors the request plus Guardada, which is false
// when the values are defaults and no row exists yet.
type ConfiguracionResponse struct {
	ConfiguracionRequest
	Guardada bool `json:"guardada"`
}
