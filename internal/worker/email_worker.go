package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xjoule42/quicksale-pos/internal/infra"
	"github.com/xjoule42/quicksale-pos/internal/ticket"

	"github.com/rs/zerolog/log"
)

// EmailJob is the payload of QueueEmail. When Ticket is set the worker
// attaches its PDF rendering.
type EmailJob struct {
	To      string         `json:"to"`
	Subject string         `json:"subject"`
	Body    string         `json:"body"`
	Ticket  *ticket.Ticket `json:"ticket,omitempty"`
}

// Enviador is satisfied by *infra.Mailer.
type Enviador interface {
	Configurado() bool
	Enviar(to, subject, body string, adjuntos ...infra.Adjunto) error
}

// EmailWorker delivers EmailJobs through the SMTP circuit breaker.
type EmailWorker struct {
	mailer Enviador
	cb     *infra.Breaker
}

func NewEmailWorker(mailer Enviador, cb *infra.Breaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

// Process is a Handler. Jobs that cannot succeed on retry (bad payload, no
// recipient, SMTP not configured) are dropped with a log line.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var job EmailJob
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if job.To == "" {
		log.Warn().Msg("email_worker: empty recipient, skipping")
		return nil
	}
	if !w.mailer.Configurado() {
		log.Warn().Str("to", job.To).Msg("email_worker: SMTP not configured, skipping")
		return nil
	}

	var adjuntos []infra.Adjunto
	if job.Ticket != nil {
		pdf, err := infra.TicketPDF(*job.Ticket)
		if err != nil {
			return fmt.Errorf("email_worker: %w", err)
		}
		adjuntos = append(adjuntos, infra.Adjunto{
			Nombre:    "ticket-" + job.Ticket.Numero + ".pdf",
			Tipo:      "application/pdf",
			Contenido: pdf,
		})
	}

	err := w.cb.Ejecutar(func() error {
		return w.mailer.Enviar(job.To, job.Subject, job.Body, adjuntos...)
	})
	if err != nil {
		return err
	}
	log.Info().Str("to", job.To).Str("subject", job.Subject).Msg("email_worker: sent")
	return nil
}
