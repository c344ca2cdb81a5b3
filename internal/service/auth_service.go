package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/config"
	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/model"
	"github.com/xjoule42/quicksale-pos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is shared with posctl hash-password.
const BcryptCost = 12

const msgCredenciales = "Credenciales inválidas"

// Monitor reports store reachability; *infra.Conectividad satisfies it.
type Monitor interface {
	EnLinea() bool
	UltimoCambio() time.Time
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	Sesion(ctx context.Context, usuarioID uuid.UUID) (*dto.SesionResponse, error)
	CrearUsuario(ctx context.Context, actor Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, actor Actor, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	EliminarUsuario(ctx context.Context, actor Actor, id uuid.UUID) error
}

type authService struct {
	repo      repository.PerfilRepository
	auditoria AuditoriaService
	monitor   Monitor
	cfg       *config.Config
}

func NewAuthService(repo repository.PerfilRepository, auditoria AuditoriaService, monitor Monitor, cfg *config.Config) AuthService {
	return &authService{repo: repo, auditoria: auditoria, monitor: monitor, cfg: cfg}
}

// HashPassword returns the bcrypt hash stored in profiles.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, noAutorizado(msgCredenciales)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, noAutorizado(msgCredenciales)
	}
	return s.tokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, noAutorizado("Refresh token inválido o expirado")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, noAutorizado("Token mal formado")
	}
	if tipo, _ := claims["tipo"].(string); tipo != "refresh" {
		return nil, noAutorizado("Token mal formado")
	}
	userIDStr, _ := claims["user_id"].(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, noAutorizado("Token mal formado")
	}
	user, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, noAutorizado("Usuario no encontrado")
	}
	return s.tokens(user)
}

func (s *authService) tokens(user *model.Perfil) (*dto.LoginResponse, error) {
	access, err := s.generateToken(user, "access", time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(user, "refresh", time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         perfilToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Perfil, tipo string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"rol":     user.RolPrincipal(),
		"tipo":    tipo,
		"exp":     now.Add(duration).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) Sesion(ctx context.Context, usuarioID uuid.UUID) (*dto.SesionResponse, error) {
	user, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, traducirNoEncontrado(err, "Usuario no encontrado")
	}
	resp := &dto.SesionResponse{Usuario: perfilToResponse(user), EnLinea: true}
	if s.monitor != nil {
		resp.EnLinea = s.monitor.EnLinea()
		resp.UltimoCambio = s.monitor.UltimoCambio().Format(time.RFC3339)
	}
	return resp, nil
}

func (s *authService) CrearUsuario(ctx context.Context, actor Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, conflicto("Ya existe un usuario con ese email")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	p := &model.Perfil{Email: email, NombreCompleto: req.NombreCompleto, PasswordHash: hash}
	if err := s.repo.Create(ctx, p, req.Rol); err != nil {
		return nil, err
	}

	resp := perfilToResponse(p)
	s.auditoria.Registrar(ctx, actor, EntradaAuditoria{
		Accion:      model.AccionUsuarioCreado,
		Tabla:       "profiles",
		RegistroID:  p.ID.String(),
		Nuevos:      instantanea(resp),
		Descripcion: fmt.Sprintf("Usuario %s creado con rol %s", p.Email, req.Rol),
	})
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error) {
	perfiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(perfiles))
	for i := range perfiles {
		resp[i] = perfilToResponse(&perfiles[i])
	}
	return resp, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, actor Actor, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirNoEncontrado(err, "Usuario no encontrado")
	}
	antes := perfilToResponse(p)

	if req.NombreCompleto != nil {
		p.NombreCompleto = req.NombreCompleto
	}
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		p.PasswordHash = hash
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if req.Rol != "" && req.Rol != antes.Rol {
		if err := s.repo.SetRol(ctx, id, req.Rol); err != nil {
			return nil, err
		}
		p.Roles = []model.UsuarioRol{{UsuarioID: id, Rol: req.Rol}}
	}

	despues := perfilToResponse(p)
	s.auditoria.Registrar(ctx, actor, EntradaAuditoria{
		Accion:      model.AccionUsuarioActualizado,
		Tabla:       "profiles",
		RegistroID:  id.String(),
		Anteriores:  instantanea(antes),
		Nuevos:      instantanea(despues),
		Descripcion: "Usuario actualizado: " + p.Email,
	})
	return &despues, nil
}

func (s *authService) EliminarUsuario(ctx context.Context, actor Actor, id uuid.UUID) error {
	if actor.UsuarioID != nil && *actor.UsuarioID == id {
		return conflicto("No puede eliminar su propio usuario")
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return traducirNoEncontrado(err, "Usuario no encontrado")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return traducirNoEncontrado(err, "Usuario no encontrado")
	}
	s.auditoria.Registrar(ctx, actor, EntradaAuditoria{
		Accion:      model.AccionUsuarioEliminado,
		Tabla:       "profiles",
		RegistroID:  id.String(),
		Anteriores:  instantanea(perfilToResponse(p)),
		Descripcion: "Usuario eliminado: " + p.Email,
	})
	return nil
}
