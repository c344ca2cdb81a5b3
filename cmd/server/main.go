package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/config"
	"github.com/xjoule42/quicksale-pos/internal/infra"
	"github.com/xjoule42/quicksale-pos/internal/metrics"
	"github.com/xjoule42/quicksale-pos/internal/repository"
	"github.com/xjoule42/quicksale-pos/internal/router"
	"github.com/xjoule42/quicksale-pos/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// @title QuickSale POS API
// @version 1.0
// @description Punto de venta: catálogo, carrito y cobro, inventario, clientes y auditoría.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	configurarLogger(cfg)

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}
	if cfg.MetricsEnabled {
		metrics.Init(cfg.MetricsPrefix, prometheus.DefaultRegisterer)
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.AutoMigrate)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Background goroutines (workers, cron, monitor, limiter purge) stop
	// when ctx is cancelled during shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := infra.NewConectividad(time.Duration(cfg.ConectividadSegundos)*time.Second, map[string]infra.Sonda{
		"db":    func(ctx context.Context) error { return pingDB(ctx, db) },
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})
	go monitor.Run(ctx)
	go observarConectividad(ctx, monitor)

	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewBreaker(infra.BreakerConfig{
		Nombre: "smtp",
		Umbral: 5,
		Espera: time.Minute,
		AlCambiar: func(nombre string, de, a infra.EstadoBreaker) {
			log.Warn().Str("breaker", nombre).Str("de", de.String()).Str("a", a.String()).Msg("circuit breaker transition")
			metrics.SetBreakerEstado(nombre, int(a))
		},
	})
	if !mailer.Configurado() {
		log.Warn().Msg("SMTP_HOST not set: emails will be discarded")
	}

	dispatcher := worker.NewDispatcher(rdb)
	emailWorker := worker.NewEmailWorker(mailer, smtpCB)
	pool := worker.NewPool(rdb, map[string]worker.Handler{
		worker.JobEmail: emailWorker.Process,
	})
	pool.Start(ctx, cfg.WorkerPoolSize)

	worker.StartReporteDiario(ctx, worker.ReporteCronConfig{
		Auditoria:     repository.NewAuditLogRepository(db),
		Configuracion: repository.NewConfiguracionRepository(db),
		Perfiles:      repository.NewPerfilRepository(db),
		Dispatcher:    dispatcher,
		Hora:          cfg.ReporteDiarioHora,
		EnLinea:       monitor.EnLinea,
	})

	r := router.New(ctx, cfg, db, rdb, monitor, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("quicksale-pos listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	log.Info().Msg("server exited")
}

// configurarLogger: pretty console output in development, JSON otherwise.
func configurarLogger(cfg *config.Config) {
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	nivel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || nivel == zerolog.NoLevel {
		nivel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(nivel)
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// observarConectividad mirrors the online flag into the gauge.
func observarConectividad(ctx context.Context, monitor *infra.Conectividad) {
	cambios, cancelar := monitor.Suscribir()
	defer cancelar()
	metrics.SetEnLinea(monitor.EnLinea())
	for {
		select {
		case <-ctx.Done():
			return
		case ok, abierto := <-cambios:
			if !abierto {
				return
			}
			metrics.SetEnLinea(ok)
		}
	}
}
