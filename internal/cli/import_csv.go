package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/xjoule42/quicksale-pos/internal/repository"
	"github.com/xjoule42/quicksale-pos/internal/service"

	"github.com/spf13/cobra"
)

// NewImportCSVCommand bulk-loads products from a CSV file with the same
// rules as POST /v1/productos/importar.
func NewImportCSVCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-csv <file>",
		Short: "Import products from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ctx := cmd.Context()
			env, err := rootOpts.entorno(ctx)
			if err != nil {
				return err
			}
			defer env.Cerrar()

			perfiles := repository.NewPerfilRepository(env.DB)
			auditoria := service.NewAuditoriaService(repository.NewAuditLogRepository(env.DB), perfiles)
			productos := service.NewProductoService(repository.NewProductoRepository(env.DB), auditoria, env.Umbral)

			res, err := productos.ImportarCSV(ctx, service.ActorSistema, f)
			if err != nil {
				return err
			}
			return imprimir(cmd.OutOrStdout(), rootOpts.Format, res, func(w io.Writer) error {
				fmt.Fprintf(w, "Importados: %d\n", res.Importados)
				if len(res.Errores) > 0 {
					fmt.Fprintf(w, "Rechazados: %d\n", len(res.Errores))
					for _, e := range res.Errores {
						fmt.Fprintf(w, "  %s\n", e)
					}
				}
				return nil
			})
		},
	}
}
