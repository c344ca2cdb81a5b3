package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/model"
	"github.com/xjoule42/quicksale-pos/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validar = validator.New()

type ClienteService interface {
	Crear(ctx context.Context, actor Actor, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ClienteFilter) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, actor Actor, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, actor Actor, id uuid.UUID) error
}

type clienteService struct {
	repo      repository.ClienteRepository
	auditoria AuditoriaService
}

func NewClienteService(repo repository.ClienteRepository, auditoria AuditoriaService) ClienteService {
	return &clienteService{repo: repo, auditoria: auditoria}
}

// Customer mutations are recorded under the usuario_* action types with
// table_name "customers".
const tablaClientes = "customers"

func validarCliente(req dto.ClienteRequest) (nombre string, email, telefono *string, err error) {
	nombre = strings.TrimSpace(req.Nombre)
	if nombre == "" || len([]rune(nombre)) > 100 {
		return "", nil, nil, invalido("El nombre debe tener entre 1 y 100 caracteres")
	}
	if e := strings.TrimSpace(req.Email); e != "" {
		if perr := validar.Var(e, "email"); perr != nil {
			return "", nil, nil, invalido("Email inválido")
		}
		email = &e
	}
	if t := strings.TrimSpace(req.Telefono); t != "" {
		if len([]rune(t)) > 20 {
			return "", nil, nil, invalido("El teléfono no puede superar 20 caracteres")
		}
		telefono = &t
	}
	return nombre, email, telefono, nil
}

func (s *clienteService) Crear(ctx context.Context, actor Actor, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	nombre, email, telefono, err := validarCliente(req)
	if err != nil {
		return nil, err
	}
	c := &model.Cliente{Nombre: nombre, Email: email, Telefono: telefono}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := clienteToResponse(c)
	s.auditoria.Registrar(ctx, actor, EntradaAuditoria{
		Accion:      model.AccionUsuarioCreado,
		Tabla:       tablaClientes,
		RegistroID:  c.ID.String(),
		Nuevos:      instantanea(resp),
		Descripcion: fmt.Sprintf("Cliente creado: %s", c.Nombre),
	})
	return &resp, nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirNoEncontrado(err, "Cliente no encontrado")
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx, filter.Busqueda)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		out[i] = clienteToResponse(&clientes[i])
	}
	return out, nil
}

func (s *clienteService) Actualizar(ctx context.Context, actor Actor, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirNoEncontrado(err, "Cliente no encontrado")
	}
	nombre, email, telefono, err := validarCliente(req)
	if err != nil {
		return nil, err
	}
	anterior := clienteToResponse(c)
	c.Nombre, c.Email, c.Telefono = nombre, email, telefono
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := clienteToResponse(c)
	s.auditoria.Registrar(ctx, actor, EntradaAuditoria{
		Accion:      model.AccionUsuarioActualizado,
		Tabla:       tablaClientes,
		RegistroID:  id.String(),
		Anteriores:  instantanea(anterior),
		Nuevos:      instantanea(resp),
		Descripcion: fmt.Sprintf("Cliente actualizado: %s", c.Nombre),
	})
	return &resp, nil
}

func (s *clienteService) Eliminar(ctx context.Context, actor Actor, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return traducirNoEncontrado(err, "Cliente no encontrado")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return traducirNoEncontrado(err, "Cliente no encontrado")
	}
	s.auditoria.Registrar(ctx, actor, EntradaAuditoria{
		Accion:      model.AccionUsuarioEliminado,
		Tabla:       tablaClientes,
		RegistroID:  id.String(),
		Anteriores:  instantanea(clienteToResponse(c)),
		Descripcion: fmt.Sprintf("Cliente eliminado: %s", c.Nombre),
	})
	return nil
}
