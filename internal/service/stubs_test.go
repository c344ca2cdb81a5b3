package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/model"
	"github.com/xjoule42/quicksale-pos/internal/pos"
	"github.com/xjoule42/quicksale-pos/internal/repository"
	"github.com/xjoule42/quicksale-pos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Productos ────────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	mu        sync.Mutex
	productos map[uuid.UUID]*model.Producto
	orden     []uuid.UUID
	// falloSetStock makes SetStock fail for that product id.
	falloSetStock    uuid.UUID
	setStockLlamadas int
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) agregar(nombre, sku string, precio string, stock int) *model.Producto {
	p := &model.Producto{
		ID:        uuid.New(),
		Nombre:    nombre,
		SKU:       sku,
		Categoria: "General",
		Precio:    decimal.RequireFromString(precio),
		Stock:     stock,
	}
	r.productos[p.ID] = p
	r.orden = append(r.orden, p.ID)
	return p
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.productos[p.ID] = &cp
	r.orden = append(r.orden, p.ID)
	return nil
}

func (r *stubProductoRepo) CreateBatch(ctx context.Context, ps []model.Producto) error {
	for i := range ps {
		if err := r.Create(ctx, &ps[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) FindBySKU(_ context.Context, sku string) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.orden {
		if p, ok := r.productos[id]; ok && strings.EqualFold(p.SKU, strings.TrimSpace(sku)) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubProductoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, id := range ids {
		if p, err := r.FindByID(ctx, id); err == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) List(_ context.Context, f dto.ProductoFilter) ([]model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Producto
	for _, id := range r.orden {
		p, ok := r.productos[id]
		if !ok {
			continue
		}
		if f.Categoria != "" && p.Categoria != f.Categoria {
			continue
		}
		if b := strings.ToLower(f.Busqueda); b != "" &&
			!strings.Contains(strings.ToLower(p.Nombre), b) && !strings.Contains(strings.ToLower(p.SKU), b) {
			continue
		}
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubProductoRepo) ListStockBajo(ctx context.Context, umbral int) ([]model.Producto, error) {
	todos, _ := r.List(ctx, dto.ProductoFilter{})
	var out []model.Producto
	for _, p := range todos {
		if p.Stock <= umbral {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.productos[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.productos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) SetStock(_ context.Context, id uuid.UUID, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setStockLlamadas++
	if id == r.falloSetStock {
		return errors.New("conexión perdida")
	}
	p, ok := r.productos[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stock = stock
	return nil
}

func (r *stubProductoRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	return r.SetStock(context.Background(), id, stock)
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── Movimientos ──────────────────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoInventario
}

func (r *stubMovimientoRepo) Create(_ context.Context, m *model.MovimientoInventario) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoInventario) error {
	return r.Create(context.Background(), m)
}

func (r *stubMovimientoRepo) List(_ context.Context, f repository.MovimientoFilter) ([]model.MovimientoInventario, int64, error) {
	var out []model.MovimientoInventario
	for i := len(r.movimientos) - 1; i >= 0; i-- {
		m := r.movimientos[i]
		if f.ProductoID != nil && m.ProductoID != *f.ProductoID {
			continue
		}
		if f.Tipo != "" && m.Tipo != f.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.MovimientoInventarioRepository = (*stubMovimientoRepo)(nil)

// ── Clientes ─────────────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubClienteRepo) List(_ context.Context, busqueda string) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if busqueda == "" || strings.Contains(strings.ToLower(c.Nombre), strings.ToLower(busqueda)) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	if _, ok := r.clientes[c.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.clientes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.clientes, id)
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── Auditoría ────────────────────────────────────────────────────────────────

type stubAuditLogRepo struct {
	mu   sync.Mutex
	logs []model.AuditLog
	err  error
}

func (r *stubAuditLogRepo) Create(_ context.Context, a *model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	r.logs = append(r.logs, *a)
	return nil
}

func (r *stubAuditLogRepo) ListRecientes(_ context.Context, limit int) ([]model.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AuditLog
	for i := len(r.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.logs[i])
	}
	return out, nil
}

func (r *stubAuditLogRepo) ListByAccionEntre(_ context.Context, accion model.AccionAuditoria, desde, hasta time.Time) ([]model.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AuditLog
	for _, l := range r.logs {
		if l.Accion == accion && !l.CreatedAt.Before(desde) && l.CreatedAt.Before(hasta) {
			out = append(out, l)
		}
	}
	return out, nil
}

// porAccion returns the recorded entries of one action type.
func (r *stubAuditLogRepo) porAccion(a model.AccionAuditoria) []model.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AuditLog
	for _, l := range r.logs {
		if l.Accion == a {
			out = append(out, l)
		}
	}
	return out
}

var _ repository.AuditLogRepository = (*stubAuditLogRepo)(nil)

// ── Configuración ────────────────────────────────────────────────────────────

type stubConfiguracionRepo struct {
	filas   map[uuid.UUID]model.Configuracion
	creates int
	updates int
}

func newStubConfiguracionRepo() *stubConfiguracionRepo {
	return &stubConfiguracionRepo{filas: make(map[uuid.UUID]model.Configuracion)}
}

func (r *stubConfiguracionRepo) FindByUsuario(_ context.Context, usuarioID uuid.UUID) (*model.Configuracion, error) {
	c, ok := r.filas[usuarioID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *stubConfiguracionRepo) Create(_ context.Context, c *model.Configuracion) error {
	if _, ok := r.filas[c.UsuarioID]; ok {
		return errors.New("duplicate key value violates unique constraint")
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.creates++
	r.filas[c.UsuarioID] = *c
	return nil
}

func (r *stubConfiguracionRepo) UpdateByUsuario(_ context.Context, c *model.Configuracion) error {
	prev, ok := r.filas[c.UsuarioID]
	if !ok {
		return repository.ErrNotFound
	}
	c.ID = prev.ID
	r.updates++
	r.filas[c.UsuarioID] = *c
	return nil
}

func (r *stubConfiguracionRepo) List(_ context.Context) ([]model.Configuracion, error) {
	out := make([]model.Configuracion, 0, len(r.filas))
	for _, c := range r.filas {
		out = append(out, c)
	}
	return out, nil
}

var _ repository.ConfiguracionRepository = (*stubConfiguracionRepo)(nil)

// ── Perfiles ─────────────────────────────────────────────────────────────────

type stubPerfilRepo struct {
	perfiles map[uuid.UUID]*model.Perfil
}

func newStubPerfilRepo() *stubPerfilRepo {
	return &stubPerfilRepo{perfiles: make(map[uuid.UUID]*model.Perfil)}
}

func (r *stubPerfilRepo) Create(_ context.Context, p *model.Perfil, rol string) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Roles = []model.UsuarioRol{{ID: uuid.New(), UsuarioID: p.ID, Rol: rol}}
	cp := *p
	r.perfiles[p.ID] = &cp
	return nil
}

func (r *stubPerfilRepo) FindByEmail(_ context.Context, email string) (*model.Perfil, error) {
	for _, p := range r.perfiles {
		if strings.EqualFold(p.Email, strings.TrimSpace(email)) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubPerfilRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Perfil, error) {
	p, ok := r.perfiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPerfilRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Perfil, error) {
	var out []model.Perfil
	for _, id := range ids {
		if p, err := r.FindByID(ctx, id); err == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPerfilRepo) List(_ context.Context) ([]model.Perfil, error) {
	var out []model.Perfil
	for _, p := range r.perfiles {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *stubPerfilRepo) Update(_ context.Context, p *model.Perfil) error {
	prev, ok := r.perfiles[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cp := *p
	cp.Roles = prev.Roles
	r.perfiles[p.ID] = &cp
	return nil
}

func (r *stubPerfilRepo) SetRol(_ context.Context, id uuid.UUID, rol string) error {
	p, ok := r.perfiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Roles = []model.UsuarioRol{{ID: uuid.New(), UsuarioID: id, Rol: rol}}
	return nil
}

func (r *stubPerfilRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.perfiles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.perfiles, id)
	return nil
}

var _ repository.PerfilRepository = (*stubPerfilRepo)(nil)

// ── Carritos ─────────────────────────────────────────────────────────────────

type stubCarritoStore struct {
	carritos map[uuid.UUID]pos.Carrito
}

func newStubCarritoStore() *stubCarritoStore {
	return &stubCarritoStore{carritos: make(map[uuid.UUID]pos.Carrito)}
}

func (s *stubCarritoStore) Guardar(_ context.Context, c *pos.Carrito) error {
	cp := *c
	cp.Items = append([]pos.Item(nil), c.Items...)
	s.carritos[c.ID] = cp
	return nil
}

func (s *stubCarritoStore) Obtener(_ context.Context, id uuid.UUID) (*pos.Carrito, error) {
	c, ok := s.carritos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Items = append([]pos.Item(nil), c.Items...)
	return &c, nil
}

func (s *stubCarritoStore) Eliminar(_ context.Context, id uuid.UUID) error {
	delete(s.carritos, id)
	return nil
}

var _ repository.CarritoStore = (*stubCarritoStore)(nil)

// ── Notificador ──────────────────────────────────────────────────────────────

type stubNotificador struct {
	jobs []worker.EmailJob
}

func (n *stubNotificador) EnqueueEmail(_ context.Context, job worker.EmailJob) error {
	n.jobs = append(n.jobs, job)
	return nil
}

var _ Notificador = (*stubNotificador)(nil)

// ── Monitor ──────────────────────────────────────────────────────────────────

type stubMonitor struct {
	enLinea bool
	cambio  time.Time
}

func (m stubMonitor) EnLinea() bool           { return m.enLinea }
func (m stubMonitor) UltimoCambio() time.Time { return m.cambio }

func mustDecimal(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (r *stubPerfilRepo) mustID(t *testing.T, email string) uuid.UUID {
	t.Helper()
	p, err := r.FindByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("perfil %s: %v", email, err)
	}
	return p.ID
}
