package service

import (
	"context"
	"strings"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/model"
	"github.com/xjoule42/quicksale-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LimiteAuditoria is how many entries the viewer loads.
const LimiteAuditoria = 100

// EntradaAuditoria is one event to record.
type EntradaAuditoria struct {
	Accion      model.AccionAuditoria
	Tabla       string
	RegistroID  string
	Anteriores  map[string]interface{}
	Nuevos      map[string]interface{}
	Descripcion string
}

type AuditoriaService interface {
	// Registrar never fails: errors are logged and dropped so the audited
	// operation is unaffected.
	Registrar(ctx context.Context, actor Actor, e EntradaAuditoria)
	Listar(ctx context.Context, filtro dto.AuditoriaFilter) ([]dto.AuditLogResponse, error)
}

type auditoriaService struct {
	repo     repository.AuditLogRepository
	perfiles repository.PerfilRepository
}

func NewAuditoriaService(repo repository.AuditLogRepository, perfiles repository.PerfilRepository) AuditoriaService {
	return &auditoriaService{repo: repo, perfiles: perfiles}
}

func (s *auditoriaService) Registrar(ctx context.Context, actor Actor, e EntradaAuditoria) {
	if !e.Accion.Valida() {
		log.Error().Str("action_type", string(e.Accion)).Msg("auditoria: tipo de acción desconocido")
		return
	}
	entrada := &model.AuditLog{
		UsuarioID:   actor.UsuarioID,
		Accion:      e.Accion,
		Tabla:       e.Tabla,
		RegistroID:  strPtr(e.RegistroID),
		Anteriores:  e.Anteriores,
		Nuevos:      e.Nuevos,
		Descripcion: strPtr(e.Descripcion),
		UserAgent:   strPtr(actor.UserAgent),
		IP:          strPtr(actor.IP),
	}
	if err := s.repo.Create(ctx, entrada); err != nil {
		log.Error().Err(err).
			Str("action_type", string(e.Accion)).
			Str("table_name", e.Tabla).
			Msg("Error logging audit action")
	}
}

// Listar loads the newest entries, joins each with its author's profile and
// applies the optional search in memory.
func (s *auditoriaService) Listar(ctx context.Context, filtro dto.AuditoriaFilter) ([]dto.AuditLogResponse, error) {
	logs, err := s.repo.ListRecientes(ctx, LimiteAuditoria)
	if err != nil {
		return nil, err
	}

	vistos := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	for _, l := range logs {
		if l.UsuarioID != nil && !vistos[*l.UsuarioID] {
			vistos[*l.UsuarioID] = true
			ids = append(ids, *l.UsuarioID)
		}
	}
	perfiles, err := s.perfiles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	porID := make(map[uuid.UUID]*model.Perfil, len(perfiles))
	for i := range perfiles {
		porID[perfiles[i].ID] = &perfiles[i]
	}

	termino := strings.ToLower(strings.TrimSpace(filtro.Busqueda))
	out := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		var perfil *model.Perfil
		if logs[i].UsuarioID != nil {
			perfil = porID[*logs[i].UsuarioID]
		}
		if termino != "" && !coincideAuditoria(&logs[i], perfil, termino) {
			continue
		}
		out = append(out, auditLogToResponse(&logs[i], perfil))
	}
	return out, nil
}

func coincideAuditoria(l *model.AuditLog, p *model.Perfil, termino string) bool {
	campos := []string{string(l.Accion), l.Tabla}
	if l.Descripcion != nil {
		campos = append(campos, *l.Descripcion)
	}
	if p != nil {
		campos = append(campos, p.Email)
		if p.NombreCompleto != nil {
			campos = append(campos, *p.NombreCompleto)
		}
	}
	for _, c := range campos {
		if strings.Contains(strings.ToLower(c), termino) {
			return true
		}
	}
	return false
}

var etiquetasAccion = map[model.AccionAuditoria]string{
	model.AccionVentaCreada:              "Venta Creada",
	model.AccionVentaCancelada:           "Venta Cancelada",
	model.AccionProductoCreado:           "Producto Creado",
	model.AccionProductoActualizado:      "Producto Actualizado",
	model.AccionProductoEliminado:        "Producto Eliminado",
	model.AccionAjusteInventario:         "Ajuste de Inventario",
	model.AccionUsuarioCreado:            "Usuario Creado",
	model.AccionUsuarioActualizado:       "Usuario Actualizado",
	model.AccionUsuarioEliminado:         "Usuario Eliminado",
	model.AccionConfiguracionActualizada: "Configuración Actualizada",
}

// EtiquetaAccion is the display label of an action type; unknown types are
// returned as-is.
func EtiquetaAccion(a model.AccionAuditoria) string {
	if e, ok := etiquetasAccion[a]; ok {
		return e
	}
	return string(a)
}

// VarianteAccion picks the badge style from the action's verb.
func VarianteAccion(a model.AccionAuditoria) string {
	s := string(a)
	switch {
	case strings.Contains(s, "creado"), strings.Contains(s, "creada"):
		return "default"
	case strings.Contains(s, "actualizado"), strings.Contains(s, "actualizada"):
		return "secondary"
	case strings.Contains(s, "eliminado"), strings.Contains(s, "eliminada"), strings.Contains(s, "cancelada"):
		return "destructive"
	default:
		return "outline"
	}
}

func auditLogToResponse(l *model.AuditLog, p *model.Perfil) dto.AuditLogResponse {
	resp := dto.AuditLogResponse{
		ID:          l.ID.String(),
		Accion:      string(l.Accion),
		Etiqueta:    EtiquetaAccion(l.Accion),
		Variante:    VarianteAccion(l.Accion),
		Tabla:       l.Tabla,
		RegistroID:  l.RegistroID,
		Anteriores:  l.Anteriores,
		Nuevos:      l.Nuevos,
		Descripcion: l.Descripcion,
		UserAgent:   l.UserAgent,
		IP:          l.IP,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
	}
	if p != nil {
		resp.Usuario = &dto.PerfilResumen{NombreCompleto: p.NombreCompleto, Email: p.Email}
	}
	return resp
}
