package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInventarioSvc() (InventarioService, *stubProductoRepo, *stubMovimientoRepo, *stubAuditLogRepo) {
	productos := newStubProductoRepo()
	movs := &stubMovimientoRepo{}
	logs := &stubAuditLogRepo{}
	aud := NewAuditoriaService(logs, newStubPerfilRepo())
	return NewInventarioService(productos, movs, aud, 30), productos, movs, logs
}

func TestAjustarStock(t *testing.T) {
	svc, productos, movs, logs := buildInventarioSvc()
	ctx := context.Background()
	p := productos.agregar("Arroz", "ARR-1", "20.00", 10)
	uid := uuid.New()
	actor := Actor{UsuarioID: &uid}

	resp, err := svc.AjustarStock(ctx, actor, dto.AjustarStockRequest{ProductoID: p.ID.String(), Delta: 25, Notas: "Compra"})
	require.NoError(t, err)
	assert.Equal(t, 35, resp.Producto.Stock)
	assert.Equal(t, model.MovimientoEntrada, resp.Movimiento.Tipo)
	assert.Equal(t, 10, resp.Movimiento.StockAnterior)
	assert.Equal(t, "Arroz", resp.Movimiento.ProductoNombre)

	resp, err = svc.AjustarStock(ctx, actor, dto.AjustarStockRequest{ProductoID: p.ID.String(), Delta: -5})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.Producto.Stock)
	assert.Equal(t, model.MovimientoAjuste, resp.Movimiento.Tipo)

	require.Len(t, movs.movimientos, 2)
	assert.Equal(t, &uid, movs.movimientos[0].UsuarioID)
	assert.Len(t, logs.porAccion(model.AccionAjusteInventario), 2)
}

func TestAjustarStock_Rechazos(t *testing.T) {
	svc, productos, movs, _ := buildInventarioSvc()
	ctx := context.Background()
	p := productos.agregar("Arroz", "ARR-1", "20.00", 3)

	_, err := svc.AjustarStock(ctx, ActorSistema, dto.AjustarStockRequest{ProductoID: p.ID.String(), Delta: 0})
	assert.True(t, errors.Is(err, ErrValidacion))

	_, err = svc.AjustarStock(ctx, ActorSistema, dto.AjustarStockRequest{ProductoID: p.ID.String(), Delta: -4})
	assert.True(t, errors.Is(err, ErrStockInsuficiente))

	_, err = svc.AjustarStock(ctx, ActorSistema, dto.AjustarStockRequest{ProductoID: uuid.NewString(), Delta: 1})
	assert.True(t, errors.Is(err, ErrNoEncontrado))

	assert.Empty(t, movs.movimientos)
	actual, _ := productos.FindByID(ctx, p.ID)
	assert.Equal(t, 3, actual.Stock)
}

func TestResumenYAlertas(t *testing.T) {
	svc, productos, _, _ := buildInventarioSvc()
	ctx := context.Background()
	productos.agregar("A", "A", "2.00", 0)
	productos.agregar("B", "B", "1.50", 30)
	productos.agregar("C", "C", "10.00", 31)

	r, err := svc.Resumen(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, r.TotalProductos)
	assert.Equal(t, 61, r.TotalUnidades)
	assert.Equal(t, 1, r.SinStock)
	assert.Equal(t, 2, r.StockBajo)
	assert.Equal(t, "355.00", r.ValorInventario.StringFixed(2))

	alertas, err := svc.Alertas(ctx)
	require.NoError(t, err)
	require.Len(t, alertas, 2)
	assert.Equal(t, "A", alertas[0].Nombre)
	assert.Equal(t, 30, alertas[1].Umbral)
}
