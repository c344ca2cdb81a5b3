package service

import (
	"context"
	"errors"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/model"
	"github.com/xjoule42/quicksale-pos/internal/repository"

	"github.com/google/uuid"
)

type ConfiguracionService interface {
	Obtener(ctx context.Context, usuarioID uuid.UUID) (*dto.ConfiguracionResponse, error)
	// Efectiva returns the stored row or the defaults; it never fails on a
	// missing row.
	Efectiva(ctx context.Context, usuarioID uuid.UUID) (model.Configuracion, error)
	Guardar(ctx context.Context, actor Actor, usuarioID uuid.UUID, req dto.ConfiguracionRequest) (*dto.ConfiguracionResponse, error)
}

type configuracionService struct {
	repo      repository.ConfiguracionRepository
	auditoria AuditoriaService
}

func NewConfiguracionService(repo repository.ConfiguracionRepository, auditoria AuditoriaService) ConfiguracionService {
	return &configuracionService{repo: repo, auditoria: auditoria}
}

func (s *configuracionService) cargar(ctx context.Context, usuarioID uuid.UUID) (model.Configuracion, bool, error) {
	c, err := s.repo.FindByUsuario(ctx, usuarioID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.ConfiguracionPorDefecto(usuarioID), false, nil
	}
	if err != nil {
		return model.Configuracion{}, false, err
	}
	return *c, true, nil
}

func (s *configuracionService) Obtener(ctx context.Context, usuarioID uuid.UUID) (*dto.ConfiguracionResponse, error) {
	c, guardada, err := s.cargar(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	resp := configuracionToResponse(c, guardada)
	return &resp, nil
}

func (s *configuracionService) Efectiva(ctx context.Context, usuarioID uuid.UUID) (model.Configuracion, error) {
	c, _, err := s.cargar(ctx, usuarioID)
	return c, err
}

// Guardar reads the user's row and then updates it or inserts a new one.
// The two steps are not atomic; concurrent first saves may race on the
// unique user_id index.
func (s *configuracionService) Guardar(ctx context.Context, actor Actor, usuarioID uuid.UUID, req dto.ConfiguracionRequest) (*dto.ConfiguracionResponse, error) {
	anterior, existe, err := s.cargar(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	nueva := model.Configuracion{
		ID:               anterior.ID,
		UsuarioID:        usuarioID,
		NombreNegocio:    req.NombreNegocio,
		RFC:              req.RFC,
		Direccion:        req.Direccion,
		Telefono:         req.Telefono,
		Email:            req.Email,
		ImpresoraActiva:  req.ImpresoraActiva,
		EscanerActivo:    req.EscanerActivo,
		PagoEfectivo:     req.PagoEfectivo,
		PagoTarjeta:      req.PagoTarjeta,
		PagoTransfer:     req.PagoTransfer,
		AlertasStockBajo: req.AlertasStockBajo,
		ReportesDiarios:  req.ReportesDiarios,
	}

	if existe {
		err = s.repo.UpdateByUsuario(ctx, &nueva)
	} else {
		err = s.repo.Create(ctx, &nueva)
	}
	if err != nil {
		return nil, err
	}

	entrada := EntradaAuditoria{
		Accion:      model.AccionConfiguracionActualizada,
		Tabla:       "settings",
		RegistroID:  usuarioID.String(),
		Nuevos:      instantanea(configuracionToResponse(nueva, true).ConfiguracionRequest),
		Descripcion: "Configuración del negocio actualizada",
	}
	if existe {
		entrada.Anteriores = instantanea(configuracionToResponse(anterior, true).ConfiguracionRequest)
	}
	s.auditoria.Registrar(ctx, actor, entrada)

	resp := configuracionToResponse(nueva, true)
	return &resp, nil
}
