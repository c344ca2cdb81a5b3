package infra

import (
	"errors"
	"sync"
	"time"
)

// Breaker guards outbound SMTP delivery. After Umbral consecutive failures it
// opens and rejects calls until Espera elapses; then a single probe decides
// whether it closes again or stays open for another window.

type EstadoBreaker int

const (
	BreakerCerrado EstadoBreaker = iota
	BreakerAbierto
	BreakerSemiAbierto
)

func (s EstadoBreaker) String() string {
	switch s {
	case BreakerCerrado:
		return "closed"
	case BreakerAbierto:
		return "open"
	case BreakerSemiAbierto:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrBreakerAbierto is returned by Ejecutar while the breaker is open.
var ErrBreakerAbierto = errors.New("circuit breaker abierto")

type BreakerConfig struct {
	Nombre string
	Umbral int           // consecutive failures that open the breaker
	Exitos int           // consecutive half-open successes needed to close
	Espera time.Duration // time spent open before probing
	// AlCambiar is invoked after every state transition, outside the lock.
	AlCambiar func(nombre string, de, a EstadoBreaker)
}

type Breaker struct {
	cfg BreakerConfig
	now func() time.Time

	mu        sync.Mutex
	estado    EstadoBreaker
	fallos    int
	exitos    int
	abiertoEn time.Time
	sondeando bool
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.Umbral <= 0 {
		cfg.Umbral = 5
	}
	if cfg.Exitos <= 0 {
		cfg.Exitos = 1
	}
	if cfg.Espera <= 0 {
		cfg.Espera = time.Minute
	}
	return &Breaker{cfg: cfg, now: time.Now}
}

func (b *Breaker) Nombre() string { return b.cfg.Nombre }

func (b *Breaker) Estado() EstadoBreaker {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.estadoActual()
}

// estadoActual promotes open to half-open once the wait is over. Caller holds mu.
func (b *Breaker) estadoActual() EstadoBreaker {
	if b.estado == BreakerAbierto && b.now().Sub(b.abiertoEn) >= b.cfg.Espera {
		b.estado = BreakerSemiAbierto
		b.exitos = 0
		b.sondeando = false
	}
	return b.estado
}

// Ejecutar runs fn unless the breaker is open. In half-open only one call at a
// time is let through; concurrent callers get ErrBreakerAbierto.
func (b *Breaker) Ejecutar(fn func() error) error {
	b.mu.Lock()
	antes := b.estadoActual()
	switch antes {
	case BreakerAbierto:
		b.mu.Unlock()
		return ErrBreakerAbierto
	case BreakerSemiAbierto:
		if b.sondeando {
			b.mu.Unlock()
			return ErrBreakerAbierto
		}
		b.sondeando = true
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	b.sondeando = false
	if err != nil {
		b.registrarFallo()
	} else {
		b.registrarExito()
	}
	despues := b.estado
	b.mu.Unlock()

	if despues != antes && b.cfg.AlCambiar != nil {
		b.cfg.AlCambiar(b.cfg.Nombre, antes, despues)
	}
	return err
}

func (b *Breaker) registrarFallo() {
	b.fallos++
	if b.estado == BreakerSemiAbierto || b.fallos >= b.cfg.Umbral {
		b.estado = BreakerAbierto
		b.abiertoEn = b.now()
		b.fallos = 0
		b.exitos = 0
	}
}

func (b *Breaker) registrarExito() {
	b.fallos = 0
	if b.estado != BreakerSemiAbierto {
		return
	}
	b.exitos++
	if b.exitos >= b.cfg.Exitos {
		b.estado = BreakerCerrado
		b.exitos = 0
	}
}
