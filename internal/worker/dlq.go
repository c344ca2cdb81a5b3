package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Dead-lettered jobs live in one Redis list per source queue, dlq:<cola>,
// newest first, capped at MaxEntradasDLQ.
const (
	DLQPrefix      = "dlq:"
	MaxEntradasDLQ = 1000
)

// EntradaDLQ is a job that will not be retried. For email jobs the recipient
// and subject are lifted out of the payload so `posctl dlq` can show them
// without decoding it.
type EntradaDLQ struct {
	Cola         string          `json:"cola"`
	Tipo         string          `json:"tipo"`
	Destinatario string          `json:"destinatario,omitempty"`
	Asunto       string          `json:"asunto,omitempty"`
	Motivo       string          `json:"motivo"`
	Intentos     int             `json:"intentos"`
	FallidoEn    time.Time       `json:"fallido_en"`
	Payload      json.RawMessage `json:"payload"`
}

func nuevaEntradaDLQ(cola string, job Job, motivo string, ahora time.Time) EntradaDLQ {
	e := EntradaDLQ{
		Cola:      cola,
		Tipo:      job.Type,
		Motivo:    motivo,
		Intentos:  job.Intentos,
		FallidoEn: ahora.UTC(),
		Payload:   job.Payload,
	}
	if job.Type == JobEmail {
		var email EmailJob
		if json.Unmarshal(job.Payload, &email) == nil {
			e.Destinatario = email.To
			e.Asunto = email.Subject
		}
	}
	return e
}

// MoverADLQ records job as dead. A failure to write is logged; the job is
// lost in that case.
func MoverADLQ(ctx context.Context, rdb *redis.Client, cola string, job Job, motivo string) {
	entrada := nuevaEntradaDLQ(cola, job, motivo, time.Now())
	data, err := json.Marshal(entrada)
	if err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("dlq: marshal")
		return
	}

	clave := DLQPrefix + cola
	pipe := rdb.TxPipeline()
	pipe.LPush(ctx, clave, data)
	pipe.LTrim(ctx, clave, 0, MaxEntradasDLQ-1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Str("clave", clave).Msg("dlq: push failed, job lost")
		return
	}

	log.Warn().
		Str("cola", cola).
		Str("tipo", entrada.Tipo).
		Str("destinatario", entrada.Destinatario).
		Str("motivo", motivo).
		Int("intentos", entrada.Intentos).
		Msg("dlq: job moved to dead letter queue")
}

// LongitudDLQ is reported by /health and `posctl dlq`.
func LongitudDLQ(ctx context.Context, rdb *redis.Client, cola string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+cola).Result()
}

// ListarDLQ returns up to n entries, newest first. Unreadable entries are
// skipped.
func ListarDLQ(ctx context.Context, rdb *redis.Client, cola string, n int64) ([]EntradaDLQ, error) {
	raws, err := rdb.LRange(ctx, DLQPrefix+cola, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]EntradaDLQ, 0, len(raws))
	for _, raw := range raws {
		var e EntradaDLQ
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
