package worker

// Once a day, at DAILY_REPORT_HOUR, every staff user with daily_reports
// enabled (stored or default) receives a summary of the previous day's sales, rebuilt from the
// venta_creada audit entries they wrote.

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/model"
	"github.com/xjoule42/quicksale-pos/internal/repository"
	"github.com/xjoule42/quicksale-pos/internal/ticket"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Encolador is satisfied by *Dispatcher.
type Encolador interface {
	EnqueueEmail(ctx context.Context, job EmailJob) error
}

type ReporteCronConfig struct {
	Auditoria     repository.AuditLogRepository
	Configuracion repository.ConfiguracionRepository
	Perfiles      repository.PerfilRepository
	Dispatcher    Encolador
	Hora          int
	// EnLinea, when set, makes the cron skip a run while the store is unreachable.
	EnLinea func() bool
}

type ReporteDiario struct {
	Fecha     time.Time
	Ventas    int
	Articulos int
	Subtotal  decimal.Decimal
	IVA       decimal.Decimal
	Total     decimal.Decimal
	PorMetodo map[string]decimal.Decimal
}

// ConstruirReporte aggregates venta_creada entries. Entries with unreadable
// amounts still count as a sale but add nothing to the totals.
func ConstruirReporte(fecha time.Time, logs []model.AuditLog) ReporteDiario {
	r := ReporteDiario{
		Fecha:     fecha,
		Subtotal:  decimal.Zero,
		IVA:       decimal.Zero,
		Total:     decimal.Zero,
		PorMetodo: map[string]decimal.Decimal{},
	}
	for _, l := range logs {
		if l.Accion != model.AccionVentaCreada {
			continue
		}
		r.Ventas++
		v, err := model.ResumenVentaDesde(l.Nuevos)
		if err != nil {
			continue
		}
		r.Articulos += v.Articulos
		r.Subtotal = r.Subtotal.Add(parseImporte(v.Subtotal))
		r.IVA = r.IVA.Add(parseImporte(v.IVA))
		total := parseImporte(v.Total)
		r.Total = r.Total.Add(total)
		metodo := ticket.EtiquetaPago(v.MetodoPago)
		r.PorMetodo[metodo] = r.PorMetodo[metodo].Add(total)
	}
	return r
}

func parseImporte(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (r ReporteDiario) Asunto(negocio string) string {
	return fmt.Sprintf("%s: reporte de ventas %s", negocio, r.Fecha.Format("02/01/2006"))
}

func (r ReporteDiario) Texto(negocio string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nReporte de ventas del %s\n\n", strings.ToUpper(negocio), r.Fecha.Format("02/01/2006"))
	fmt.Fprintf(&b, "%-21s%d\n", "Ventas:", r.Ventas)
	fmt.Fprintf(&b, "%-21s%d\n", "Artículos:", r.Articulos)
	fmt.Fprintf(&b, "%-21s$%s\n", "Subtotal:", r.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "%-21s$%s\n", "IVA (16%):", r.IVA.StringFixed(2))
	fmt.Fprintf(&b, "%-21s$%s\n", "TOTAL:", r.Total.StringFixed(2))

	if len(r.PorMetodo) > 0 {
		b.WriteString("\nPor método de pago:\n")
		metodos := make([]string, 0, len(r.PorMetodo))
		for m := range r.PorMetodo {
			metodos = append(metodos, m)
		}
		sort.Strings(metodos)
		for _, m := range metodos {
			fmt.Fprintf(&b, "  %-19s$%s\n", m+":", r.PorMetodo[m].StringFixed(2))
		}
	}
	return b.String()
}

// ProximaEjecucion returns the next hora:00 strictly after now, in now's location.
func ProximaEjecucion(now time.Time, hora int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hora, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// StartReporteDiario launches the report goroutine. It respects ctx for
// graceful shutdown.
func StartReporteDiario(ctx context.Context, cfg ReporteCronConfig) {
	go func() {
		log.Info().Int("hora", cfg.Hora).Msg("reporte_diario: started")
		for {
			espera := time.Until(ProximaEjecucion(time.Now(), cfg.Hora))
			timer := time.NewTimer(espera)
			select {
			case <-ctx.Done():
				timer.Stop()
				log.Info().Msg("reporte_diario: shutting down")
				return
			case <-timer.C:
				if cfg.EnLinea != nil && !cfg.EnLinea() {
					log.Warn().Msg("reporte_diario: sin conexión, se omite la ejecución")
					continue
				}
				ayer := time.Now().AddDate(0, 0, -1)
				n, err := EnviarReportes(ctx, cfg, ayer)
				if err != nil {
					log.Error().Err(err).Msg("reporte_diario: failed")
					continue
				}
				log.Info().Int("enviados", n).Msg("reporte_diario: reports enqueued")
			}
		}
	}()
}

// EnviarReportes enqueues one report per staff user (administrador or
// vendedor) whose effective settings have daily_reports on, for the calendar
// day containing dia. A user with no stored settings runs on the defaults.
// The profile email is used, else the business email.
func EnviarReportes(ctx context.Context, cfg ReporteCronConfig, dia time.Time) (int, error) {
	desde := time.Date(dia.Year(), dia.Month(), dia.Day(), 0, 0, 0, 0, dia.Location())
	hasta := desde.AddDate(0, 0, 1)

	destinatarios, err := destinatariosReporte(ctx, cfg)
	if err != nil {
		return 0, err
	}
	if len(destinatarios) == 0 {
		return 0, nil
	}
	logs, err := cfg.Auditoria.ListByAccionEntre(ctx, model.AccionVentaCreada, desde, hasta)
	if err != nil {
		return 0, fmt.Errorf("listar ventas: %w", err)
	}

	enviados := 0
	for _, d := range destinatarios {
		c, perfil := d.config, d.perfil
		destino := perfil.Email
		if destino == "" {
			destino = c.Email
		}
		if destino == "" {
			continue
		}

		var propias []model.AuditLog
		for _, l := range logs {
			if l.UsuarioID != nil && *l.UsuarioID == perfil.ID {
				propias = append(propias, l)
			}
		}
		rep := ConstruirReporte(desde, propias)
		negocio := c.NombreNegocio
		if negocio == "" {
			negocio = ticket.NegocioDefecto
		}
		job := EmailJob{To: destino, Subject: rep.Asunto(negocio), Body: rep.Texto(negocio)}
		if err := cfg.Dispatcher.EnqueueEmail(ctx, job); err != nil {
			return enviados, fmt.Errorf("encolar reporte: %w", err)
		}
		enviados++
	}
	return enviados, nil
}

type destinatario struct {
	perfil model.Perfil
	config model.Configuracion
}

func destinatariosReporte(ctx context.Context, cfg ReporteCronConfig) ([]destinatario, error) {
	perfiles, err := cfg.Perfiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar perfiles: %w", err)
	}
	guardadas, err := cfg.Configuracion.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar configuraciones: %w", err)
	}
	porUsuario := make(map[uuid.UUID]model.Configuracion, len(guardadas))
	for _, c := range guardadas {
		porUsuario[c.UsuarioID] = c
	}

	var out []destinatario
	for _, p := range perfiles {
		if rol := p.RolPrincipal(); rol != model.RolAdministrador && rol != model.RolVendedor {
			continue
		}
		c, ok := porUsuario[p.ID]
		if !ok {
			c = model.ConfiguracionPorDefecto(p.ID)
		}
		if c.ReportesDiarios {
			out = append(out, destinatario{perfil: p, config: c})
		}
	}
	return out, nil
}
