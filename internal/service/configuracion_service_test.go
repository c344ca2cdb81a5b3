package service

import (
	"context"
	"testing"

	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfiguracion_DefectoSinFila(t *testing.T) {
	repo := newStubConfiguracionRepo()
	svc := NewConfiguracionService(repo, NewAuditoriaService(&stubAuditLogRepo{}, newStubPerfilRepo()))

	resp, err := svc.Obtener(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, resp.Guardada)
	assert.Equal(t, "Mi Negocio", resp.NombreNegocio)
	assert.True(t, resp.PagoEfectivo)
	assert.False(t, resp.PagoTransfer)
}

func TestConfiguracion_GuardarInsertaYLuegoActualiza(t *testing.T) {
	repo := newStubConfiguracionRepo()
	logs := &stubAuditLogRepo{}
	svc := NewConfiguracionService(repo, NewAuditoriaService(logs, newStubPerfilRepo()))
	ctx := context.Background()
	uid := uuid.New()
	actor := Actor{UsuarioID: &uid}

	req := dto.ConfiguracionRequest{NombreNegocio: "Tienda Uno", PagoEfectivo: true, ReportesDiarios: true}
	_, err := svc.Guardar(ctx, actor, uid, req)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 0, repo.updates)
	primera := repo.filas[uid]

	req.NombreNegocio = "Tienda Dos"
	req.PagoEfectivo = false
	resp, err := svc.Guardar(ctx, actor, uid, req)
	require.NoError(t, err)
	assert.True(t, resp.Guardada)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 1, repo.updates)
	require.Len(t, repo.filas, 1)

	fila := repo.filas[uid]
	assert.Equal(t, primera.ID, fila.ID)
	assert.Equal(t, "Tienda Dos", fila.NombreNegocio)
	assert.False(t, fila.PagoEfectivo)

	entradas := logs.porAccion(model.AccionConfiguracionActualizada)
	require.Len(t, entradas, 2)
	assert.Nil(t, entradas[0].Anteriores)
	assert.Equal(t, "Tienda Uno", entradas[1].Anteriores["nombre_negocio"])
	assert.Equal(t, "Tienda Dos", entradas[1].Nuevos["nombre_negocio"])
	assert.Equal(t, uid.String(), *entradas[1].RegistroID)
}
