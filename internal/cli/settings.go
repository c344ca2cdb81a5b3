package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xjoule42/quicksale-pos/internal/repository"
	"github.com/xjoule42/quicksale-pos/internal/service"

	"github.com/spf13/cobra"
)

// NewSettingsCommand shows a user's effective settings: the stored row, or
// the defaults when none was saved yet.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the effective settings of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := rootOpts.entorno(ctx)
			if err != nil {
				return err
			}
			defer env.Cerrar()

			perfiles := repository.NewPerfilRepository(env.DB)
			p, err := perfiles.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("usuario %q no encontrado", email)
			}
			if err != nil {
				return err
			}

			auditoria := service.NewAuditoriaService(repository.NewAuditLogRepository(env.DB), perfiles)
			svc := service.NewConfiguracionService(repository.NewConfiguracionRepository(env.DB), auditoria)
			cfg, err := svc.Obtener(ctx, p.ID)
			if err != nil {
				return err
			}
			return imprimir(cmd.OutOrStdout(), rootOpts.Format, cfg, func(w io.Writer) error {
				origen := "valores por defecto"
				if cfg.Guardada {
					origen = "guardada"
				}
				linea(w, "Usuario", p.Email)
				linea(w, "Origen", origen)
				linea(w, "Negocio", cfg.NombreNegocio)
				linea(w, "RFC", cfg.RFC)
				linea(w, "Dirección", cfg.Direccion)
				linea(w, "Teléfono", cfg.Telefono)
				linea(w, "Email", cfg.Email)
				linea(w, "Impresora", siNo(cfg.ImpresoraActiva))
				linea(w, "Escáner", siNo(cfg.EscanerActivo))
				linea(w, "Pago efectivo", siNo(cfg.PagoEfectivo))
				linea(w, "Pago tarjeta", siNo(cfg.PagoTarjeta))
				linea(w, "Pago transferencia", siNo(cfg.PagoTransfer))
				linea(w, "Alertas stock bajo", siNo(cfg.AlertasStockBajo))
				linea(w, "Reportes diarios", siNo(cfg.ReportesDiarios))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "usuario", "", "email of the user whose settings to show (required)")
	_ = cmd.MarkFlagRequired("usuario")

	return cmd
}
