package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/infra"
	"github.com/xjoule42/quicksale-pos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Health runs the connectivity probes and reports each one plus the email
// dead-letter backlog. Never exposes credentials or internals.
func Health(monitor *infra.Conectividad, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		ok := monitor.Comprobar(ctx)
		checks := monitor.Detalle()
		for k, v := range checks {
			if v != "ok" {
				checks[k] = "error"
			}
		}
		body := gin.H{
			"ok":            ok,
			"checks":        checks,
			"ultimo_cambio": monitor.UltimoCambio().Format(time.RFC3339),
		}
		if n, err := worker.LongitudDLQ(ctx, rdb, worker.QueueEmail); err == nil {
			body["dlq_email"] = n
		}

		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, body)
	}
}
