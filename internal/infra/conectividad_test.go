package infra

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConectividad_TransicionesNotificadas(t *testing.T) {
	var caido atomic.Bool
	c := NewConectividad(0, map[string]Sonda{
		"database": func(context.Context) error { return nil },
		"redis": func(context.Context) error {
			if caido.Load() {
				return errors.New("connection refused")
			}
			return nil
		},
	})
	ch, cancelar := c.Suscribir()
	defer cancelar()

	require.True(t, c.EnLinea())
	antes := c.UltimoCambio()

	// Same state: no notification.
	assert.True(t, c.Comprobar(context.Background()))
	assert.Len(t, ch, 0)

	caido.Store(true)
	assert.False(t, c.Comprobar(context.Background()))
	assert.False(t, <-ch)
	assert.False(t, c.EnLinea())
	assert.False(t, c.UltimoCambio().Before(antes))
	assert.Equal(t, "ok", c.Detalle()["database"])
	assert.Equal(t, "error: connection refused", c.Detalle()["redis"])

	caido.Store(false)
	assert.True(t, c.Comprobar(context.Background()))
	assert.True(t, <-ch)
}

func TestConectividad_CancelarCierraCanal(t *testing.T) {
	c := NewConectividad(0, nil)
	ch, cancelar := c.Suscribir()
	cancelar()
	cancelar()

	_, abierto := <-ch
	assert.False(t, abierto)
}
