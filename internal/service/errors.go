package service

import "errors"

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrNoEncontrado      = errors.New("no encontrado")
	ErrValidacion        = errors.New("error de validación")
	ErrConflicto         = errors.New("conflicto")
	ErrStockInsuficiente = errors.New("stock insuficiente")
	ErrNoAutorizado      = errors.New("no autorizado")
	ErrOperacionFallida  = errors.New("operación fallida")
)

// Error carries a user-facing Spanish message and one of the kinds above.
type Error struct {
	Tipo    error
	Mensaje string
}

func (e *Error) Error() string { return e.Mensaje }
func (e *Error) Unwrap() error { return e.Tipo }

func noEncontrado(msg string) error { return &Error{Tipo: ErrNoEncontrado, Mensaje: msg} }
func invalido(msg string) error     { return &Error{Tipo: ErrValidacion, Mensaje: msg} }
func conflicto(msg string) error    { return &Error{Tipo: ErrConflicto, Mensaje: msg} }
func sinStock(msg string) error     { return &Error{Tipo: ErrStockInsuficiente, Mensaje: msg} }
func noAutorizado(msg string) error { return &Error{Tipo: ErrNoAutorizado, Mensaje: msg} }
func fallida(msg string) error      { return &Error{Tipo: ErrOperacionFallida, Mensaje: msg} }
