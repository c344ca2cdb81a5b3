package infra

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Sonda checks one dependency; a nil error means reachable.
type Sonda func(ctx context.Context) error

// Conectividad tracks whether the backend can reach its dependencies and
// notifies subscribers on every online/offline transition.
type Conectividad struct {
	intervalo time.Duration
	timeout   time.Duration
	sondas    map[string]Sonda

	mu        sync.RWMutex
	enLinea   bool
	cambio    time.Time
	detalle   map[string]string
	subs      map[int]chan bool
	siguiente int
}

func NewConectividad(intervalo time.Duration, sondas map[string]Sonda) *Conectividad {
	if intervalo <= 0 {
		intervalo = 10 * time.Second
	}
	detalle := make(map[string]string, len(sondas))
	for nombre := range sondas {
		detalle[nombre] = "ok"
	}
	return &Conectividad{
		intervalo: intervalo,
		timeout:   3 * time.Second,
		sondas:    sondas,
		enLinea:   true,
		cambio:    time.Now(),
		detalle:   detalle,
		subs:      make(map[int]chan bool),
	}
}

func (c *Conectividad) EnLinea() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enLinea
}

// UltimoCambio is when the state last flipped (or construction time).
func (c *Conectividad) UltimoCambio() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cambio
}

// Detalle returns the last result per probe: "ok" or "error: <msg>".
func (c *Conectividad) Detalle() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.detalle))
	for k, v := range c.detalle {
		out[k] = v
	}
	return out
}

// Suscribir returns a channel that receives the new state after each
// transition, and a func that unsubscribes and closes the channel.
// Slow readers only ever see the latest state.
func (c *Conectividad) Suscribir() (<-chan bool, func()) {
	ch := make(chan bool, 1)
	c.mu.Lock()
	id := c.siguiente
	c.siguiente++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

// Comprobar runs every probe once and returns the resulting state.
func (c *Conectividad) Comprobar(ctx context.Context) bool {
	nombres := make([]string, 0, len(c.sondas))
	for n := range c.sondas {
		nombres = append(nombres, n)
	}
	sort.Strings(nombres)

	detalle := make(map[string]string, len(nombres))
	ok := true
	for _, n := range nombres {
		pctx, cancel := context.WithTimeout(ctx, c.timeout)
		err := c.sondas[n](pctx)
		cancel()
		if err != nil {
			ok = false
			detalle[n] = "error: " + err.Error()
			continue
		}
		detalle[n] = "ok"
	}

	c.mu.Lock()
	c.detalle = detalle
	cambio := c.enLinea != ok
	if cambio {
		c.enLinea = ok
		c.cambio = time.Now()
		for _, ch := range c.subs {
			select {
			case <-ch:
			default:
			}
			ch <- ok
		}
	}
	c.mu.Unlock()

	if cambio {
		if ok {
			log.Info().Msg("conectividad: conexión restablecida")
		} else {
			log.Warn().Interface("detalle", detalle).Msg("conectividad: sin conexión")
		}
	}
	return ok
}

// Run probes on every tick until ctx is cancelled.
func (c *Conectividad) Run(ctx context.Context) {
	ticker := time.NewTicker(c.intervalo)
	defer ticker.Stop()
	c.Comprobar(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Comprobar(ctx)
		}
	}
}
