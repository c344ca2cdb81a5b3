// Package metrics holds the Prometheus collectors. Until Init is called every
// Record helper is a no-op, so services can be used without a registry.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Sales metrics
	VentasTotal       *prometheus.CounterVec
	VentasImporte     *prometheus.CounterVec
	CobrosFallidos    prometheus.Counter
	CarritosCancelado prometheus.Counter

	// Inventory metrics
	AjustesStock    *prometheus.CounterVec
	FilasImportadas *prometheus.CounterVec

	// Background jobs
	JobsProcesados *prometheus.CounterVec
	BreakerEstado  *prometheus.GaugeVec
	Conectividad   prometheus.Gauge

	once sync.Once
)

// Init registers every collector under prefix. Subsequent calls are ignored.
func Init(prefix string, reg prometheus.Registerer) {
	once.Do(func() {
		f := promauto.With(reg)

		HTTPRequestsTotal = f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)
		HTTPRequestDuration = f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		VentasTotal = f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_ventas_total",
				Help: "Completed checkouts by payment method",
			},
			[]string{"metodo_pago"},
		)
		VentasImporte = f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_ventas_importe_total",
				Help: "Sum of checkout totals (tax included) by payment method",
			},
			[]string{"metodo_pago"},
		)
		CobrosFallidos = f.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_cobros_fallidos_total",
			Help: "Checkouts aborted by a failing stock update",
		})
		CarritosCancelado = f.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_ventas_canceladas_total",
			Help: "Non-empty carts cancelled",
		})

		AjustesStock = f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_ajustes_stock_total",
				Help: "Manual stock adjustments by movement type",
			},
			[]string{"tipo"},
		)
		FilasImportadas = f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_csv_filas_total",
				Help: "CSV import rows by outcome",
			},
			[]string{"resultado"},
		)

		JobsProcesados = f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_jobs_total",
				Help: "Background jobs by type and outcome",
			},
			[]string{"tipo", "resultado"},
		)
		BreakerEstado = f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_circuit_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
			},
			[]string{"nombre"},
		)
		Conectividad = f.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_en_linea",
			Help: "1 when the database and Redis are reachable",
		})
	})
}

// ObserveHTTP records one handled request.
func ObserveHTTP(method, path, status string, start time.Time) {
	if HTTPRequestsTotal == nil {
		return
	}
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
}

func RecordVenta(metodoPago string, total float64) {
	if VentasTotal == nil {
		return
	}
	VentasTotal.WithLabelValues(metodoPago).Inc()
	VentasImporte.WithLabelValues(metodoPago).Add(total)
}

func RecordCobroFallido() {
	if CobrosFallidos != nil {
		CobrosFallidos.Inc()
	}
}

func RecordVentaCancelada() {
	if CarritosCancelado != nil {
		CarritosCancelado.Inc()
	}
}

func RecordAjusteStock(tipo string) {
	if AjustesStock != nil {
		AjustesStock.WithLabelValues(tipo).Inc()
	}
}

func RecordImportacion(importadas, rechazadas int) {
	if FilasImportadas == nil {
		return
	}
	FilasImportadas.WithLabelValues("importada").Add(float64(importadas))
	FilasImportadas.WithLabelValues("rechazada").Add(float64(rechazadas))
}

func RecordJob(tipo, resultado string) {
	if JobsProcesados != nil {
		JobsProcesados.WithLabelValues(tipo, resultado).Inc()
	}
}

func SetBreakerEstado(nombre string, estado int) {
	if BreakerEstado != nil {
		BreakerEstado.WithLabelValues(nombre).Set(float64(estado))
	}
}

func SetEnLinea(ok bool) {
	if Conectividad == nil {
		return
	}
	if ok {
		Conectividad.Set(1)
	} else {
		Conectividad.Set(0)
	}
}
