package cli

import (
	"context"
	"fmt"

	"github.com/xjoule42/quicksale-pos/internal/config"
	"github.com/xjoule42/quicksale-pos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "text" | "json" | "yaml"

	conectar Conector
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// Entorno is what the data commands operate on.
type Entorno struct {
	DB     *gorm.DB
	RDB    *redis.Client // nil when only the database is available
	Umbral int           // low-stock threshold used for estado_stock
}

// Cerrar releases the underlying connection pools.
func (e *Entorno) Cerrar() {
	if sqlDB, err := e.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if e.RDB != nil {
		_ = e.RDB.Close()
	}
}

// Conector opens the store. Commands that do not touch the database never
// call it.
type Conector func(ctx context.Context) (*Entorno, error)

// ConectarDesdeEnv reads the same environment as the server.
func ConectarDesdeEnv(_ context.Context) (*Entorno, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.AutoMigrate)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return &Entorno{DB: db, RDB: rdb, Umbral: cfg.StockBajoUmbral}, nil
}

// NewRootCommand creates the posctl root command.
func NewRootCommand(conectar Conector) *cobra.Command {
	opts := &RootOptions{conectar: conectar}

	cmd := &cobra.Command{
		Use:           "posctl",
		Short:         "posctl - operator tasks for quicksale-pos",
		Long:          "Administrative commands that run against the store directly, without the HTTP server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(NewSeedUserCommand(opts))
	cmd.AddCommand(NewHashPasswordCommand(opts))
	cmd.AddCommand(NewImportCSVCommand(opts))
	cmd.AddCommand(NewSettingsCommand(opts))
	cmd.AddCommand(NewDLQCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// entorno opens the store for a single command run.
func (o *RootOptions) entorno(ctx context.Context) (*Entorno, error) {
	if o.conectar == nil {
		return nil, fmt.Errorf("no database connector configured")
	}
	return o.conectar(ctx)
}
