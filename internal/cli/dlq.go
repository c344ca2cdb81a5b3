package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xjoule42/quicksale-pos/internal/worker"

	"github.com/spf13/cobra"
)

// NewDLQCommand lists the email jobs that exhausted their retries.
func NewDLQCommand(rootOpts *RootOptions) *cobra.Command {
	var limite int64

	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "List dead-lettered email jobs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := rootOpts.entorno(ctx)
			if err != nil {
				return err
			}
			defer env.Cerrar()
			if env.RDB == nil {
				return errors.New("redis no configurado")
			}

			total, err := worker.LongitudDLQ(ctx, env.RDB, worker.QueueEmail)
			if err != nil {
				return err
			}
			entradas, err := worker.ListarDLQ(ctx, env.RDB, worker.QueueEmail, limite)
			if err != nil {
				return err
			}
			out := struct {
				Cola     string              `json:"cola"`
				Total    int64               `json:"total"`
				Entradas []worker.EntradaDLQ `json:"entradas"`
			}{worker.QueueEmail, total, entradas}
			return imprimir(cmd.OutOrStdout(), rootOpts.Format, out, func(w io.Writer) error {
				fmt.Fprintf(w, "%s: %d en DLQ\n", worker.DLQPrefix+worker.QueueEmail, total)
				for _, e := range entradas {
					fmt.Fprintf(w, "  %s  %-6s intentos=%d  %s  %s: %s\n",
						e.FallidoEn.Format(time.RFC3339), e.Tipo, e.Intentos, e.Destinatario, e.Asunto, e.Motivo)
				}
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&limite, "limite", 20, "max entries to show")
	return cmd
}
