package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/model"
	"github.com/xjoule42/quicksale-pos/internal/pos"
	"github.com/xjoule42/quicksale-pos/internal/repository"

	"github.com/google/uuid"
)

// ProductoService defines the business logic contract for the catalog.
type ProductoService interface {
	Crear(ctx context.Context, actor Actor, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ObtenerPorSKU(ctx context.Context, sku string) (*dto.ConsultaPreciosResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, actor Actor, id uuid.UUID, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, actor Actor, id uuid.UUID) error
	ImportarCSV(ctx context.Context, actor Actor, r io.Reader) (*dto.ImportarCSVResponse, error)
}

type productoService struct {
	repo      repository.ProductoRepository
	auditoria AuditoriaService
	umbral    int
}

// NewProductoService: umbral is the stock level at or below which a product
// is reported as "Stock Bajo".
func NewProductoService(repo repository.ProductoRepository, auditoria AuditoriaService, umbral int) ProductoService {
	return &productoService{repo: repo, auditoria: auditoria, umbral: umbral}
}

const msgSKUDuplicado = "Ya existe un producto con ese SKU"

func (s *productoService) Crear(ctx context.Context, actor Actor, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	p, err := productoDesdeRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.verificarSKU(ctx, p.SKU, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	resp := productoToResponse(p, s.umbral)
	s.auditoria.Registrar(ctx, actor, EntradaAuditoria{
		Accion:      model.AccionProductoCreado,
		Tabla:       "products",
		RegistroID:  p.ID.String(),
		Nuevos:      instantanea(resp),
		Descripcion: fmt.Sprintf("Producto creado: %s", p.Nombre),
	})
	return &resp, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirNoEncontrado(err, "Producto no encontrado")
	}
	resp := productoToResponse(p, s.umbral)
	return &resp, nil
}

func (s *productoService) ObtenerPorSKU(ctx context.Context, sku string) (*dto.ConsultaPreciosResponse, error) {
	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, traducirNoEncontrado(err, "Producto no encontrado")
	}
	return &dto.ConsultaPreciosResponse{
		Nombre:          p.Nombre,
		SKU:             p.SKU,
		Precio:          p.Precio,
		StockDisponible: p.Stock,
		Categoria:       p.Categoria,
	}, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		data[i] = productoToResponse(&productos[i], s.umbral)
	}
	return &dto.ProductoListResponse{Data: data, Total: len(data)}, nil
}

func (s *productoService) Actualizar(ctx context.Context, actor Actor, id uuid.UUID, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	actual, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirNoEncontrado(err, "Producto no encontrado")
	}
	cambios, err := productoDesdeRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.verificarSKU(ctx, cambios.SKU, id); err != nil {
		return nil, err
	}

	anterior := productoToResponse(actual, s.umbral)
	actual.Nombre = cambios.Nombre
	actual.SKU = cambios.SKU
	actual.Categoria = cambios.Categoria
	actual.Precio = cambios.Precio
	actual.Stock = cambios.Stock
	actual.Descripcion = cambios.Descripcion
	actual.ImagenURL = cambios.ImagenURL
	if err := s.repo.Update(ctx, actual); err != nil {
		return nil, err
	}

	resp := productoToResponse(actual, s.umbral)
	s.auditoria.Registrar(ctx, actor, EntradaAuditoria{
		Accion:      model.AccionProductoActualizado,
		Tabla:       "products",
		RegistroID:  id.String(),
		Anteriores:  instantanea(anterior),
		Nuevos:      instantanea(resp),
		Descripcion: fmt.Sprintf("Producto actualizado: %s", actual.Nombre),
	})
	return &resp, nil
}

// Eliminar hard-deletes the product. Carts holding it are not touched.
func (s *productoService) Eliminar(ctx context.Context, actor Actor, id uuid.UUID) error {
	actual, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return traducirNoEncontrado(err, "Producto no encontrado")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return traducirNoEncontrado(err, "Producto no encontrado")
	}
	s.auditoria.Registrar(ctx, actor, EntradaAuditoria{
		Accion:      model.AccionProductoEliminado,
		Tabla:       "products",
		RegistroID:  id.String(),
		Anteriores:  instantanea(productoToResponse(actual, s.umbral)),
		Descripcion: fmt.Sprintf("Producto eliminado: %s", actual.Nombre),
	})
	return nil
}

// verificarSKU rejects sku when another loaded product has the same SKU
// after case folding and Unicode normalization. There is no database
// constraint behind this check.
func (s *productoService) verificarSKU(ctx context.Context, sku string, excluir uuid.UUID) error {
	catalogo, err := s.repo.List(ctx, dto.ProductoFilter{})
	if err != nil {
		return err
	}
	clave := pos.Normalizar(sku)
	for _, p := range catalogo {
		if p.ID != excluir && pos.Normalizar(p.SKU) == clave {
			return conflicto(msgSKUDuplicado)
		}
	}
	return nil
}

// productoDesdeRequest trims the text fields and re-checks the rules the CLI
// path cannot rely on the HTTP validator for.
func productoDesdeRequest(req dto.ProductoRequest) (*model.Producto, error) {
	nombre := strings.TrimSpace(req.Nombre)
	sku := strings.TrimSpace(req.SKU)
	categoria := strings.TrimSpace(req.Categoria)
	switch {
	case nombre == "" || len([]rune(nombre)) > 100:
		return nil, invalido("El nombre debe tener entre 1 y 100 caracteres")
	case sku == "" || len([]rune(sku)) > 50:
		return nil, invalido("El SKU debe tener entre 1 y 50 caracteres")
	case len([]rune(categoria)) > 50:
		return nil, invalido("La categoría no puede superar 50 caracteres")
	case req.Precio.IsNegative():
		return nil, invalido("El precio no puede ser negativo")
	case req.Stock < 0:
		return nil, invalido("El stock no puede ser negativo")
	case len([]rune(req.Descripcion)) > 500:
		return nil, invalido("La descripción no puede superar 500 caracteres")
	}
	if categoria == "" {
		categoria = model.CategoriaPorDefecto
	}
	return &model.Producto{
		Nombre:      nombre,
		SKU:         sku,
		Categoria:   categoria,
		Precio:      req.Precio.Round(2),
		Stock:       req.Stock,
		Descripcion: strPtr(strings.TrimSpace(req.Descripcion)),
		ImagenURL:   strPtr(strings.TrimSpace(req.ImagenURL)),
	}, nil
}

func traducirNoEncontrado(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return noEncontrado(msg)
	}
	return err
}
