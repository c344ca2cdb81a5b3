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

func TestClientes_CRUD(t *testing.T) {
	repo := newStubClienteRepo()
	logs := &stubAuditLogRepo{}
	svc := NewClienteService(repo, NewAuditoriaService(logs, newStubPerfilRepo()))
	ctx := context.Background()

	c, err := svc.Crear(ctx, ActorSistema, dto.ClienteRequest{Nombre: "maría elena lópez", Email: "maria@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Regular", c.Insignia)
	assert.Equal(t, "ME", c.Iniciales)
	assert.Nil(t, c.Telefono)

	_, err = svc.Crear(ctx, ActorSistema, dto.ClienteRequest{Nombre: "Pedro", Email: "no-es-email"})
	assert.True(t, errors.Is(err, ErrValidacion))

	cid := uuid.MustParse(c.ID)
	act, err := svc.Actualizar(ctx, ActorSistema, cid, dto.ClienteRequest{Nombre: "María", Telefono: "555-0101"})
	require.NoError(t, err)
	assert.Nil(t, act.Email)
	require.NotNil(t, act.Telefono)

	require.NoError(t, svc.Eliminar(ctx, ActorSistema, cid))
	_, err = svc.ObtenerPorID(ctx, cid)
	assert.True(t, errors.Is(err, ErrNoEncontrado))

	assert.Len(t, logs.porAccion(model.AccionUsuarioCreado), 1)
	assert.Len(t, logs.porAccion(model.AccionUsuarioActualizado), 1)
	eliminados := logs.porAccion(model.AccionUsuarioEliminado)
	require.Len(t, eliminados, 1)
	assert.Equal(t, "customers", eliminados[0].Tabla)
}

func TestInsigniaEIniciales(t *testing.T) {
	assert.Equal(t, "Regular", Insignia(10))
	assert.Equal(t, "Frecuente", Insignia(11))
	assert.Equal(t, "VIP", Insignia(21))
	assert.Equal(t, "JP", Iniciales("juan pérez garcía"))
	assert.Equal(t, "A", Iniciales("ana"))
}
