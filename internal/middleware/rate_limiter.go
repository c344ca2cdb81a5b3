package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// entrada tracks request counts per IP within a fixed window.
type entrada struct {
	count     int
	windowEnd time.Time
}

// Limitador is a per-IP fixed-window rate limiter.
type Limitador struct {
	limite  int
	ventana time.Duration
	mensaje string
	now     func() time.Time

	mu       sync.Mutex
	entradas map[string]*entrada
}

func NewLimitador(limite int, ventana time.Duration, mensaje string) *Limitador {
	return &Limitador{
		limite:   limite,
		ventana:  ventana,
		mensaje:  mensaje,
		now:      time.Now,
		entradas: make(map[string]*entrada),
	}
}

// NewLoginLimitador allows 20 login attempts per minute per IP.
func NewLoginLimitador() *Limitador {
	return NewLimitador(20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.")
}

// NewAPILimitador is the general limiter applied to every route.
func NewAPILimitador(limite int, ventana time.Duration) *Limitador {
	return NewLimitador(limite, ventana, "Demasiadas solicitudes. Intente nuevamente en un momento.")
}

// permitir counts one request from ip and reports whether it is within the
// limit, plus the end of the current window.
func (l *Limitador) permitir(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entradas[ip]
	if !ok {
		e = &entrada{}
		l.entradas[ip] = e
	}
	if now.After(e.windowEnd) {
		e.count = 0
		e.windowEnd = now.Add(l.ventana)
	}
	e.count++
	return e.count <= l.limite, e.windowEnd
}

func (l *Limitador) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fin := l.permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.mensaje))
			return
		}
		c.Next()
	}
}

// Purgar drops expired windows and returns how many were removed.
func (l *Limitador) Purgar() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for ip, e := range l.entradas {
		if now.After(e.windowEnd) {
			delete(l.entradas, ip)
			n++
		}
	}
	return n
}

func (l *Limitador) tamano() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entradas)
}

// RunPurga periodically purges every limiter until ctx is cancelled.
func RunPurga(ctx context.Context, intervalo time.Duration, limitadores ...*Limitador) {
	ticker := time.NewTicker(intervalo)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purgadas, restantes := 0, 0
			for _, l := range limitadores {
				purgadas += l.Purgar()
				restantes += l.tamano()
			}
			if purgadas > 0 {
				log.Debug().
					Int("entries_purged", purgadas).
					Int("entries_remaining", restantes).
					Msg("rate limiter maps purged")
			}
		}
	}
}
