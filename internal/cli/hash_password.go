package cli

import (
	"fmt"
	"io"

	"github.com/xjoule42/quicksale-pos/internal/service"

	"github.com/spf13/cobra"
)

// NewHashPasswordCommand prints the bcrypt hash stored in
// profiles.password_hash, for seeding through SQL.
func NewHashPasswordCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := service.HashPassword(args[0])
			if err != nil {
				return err
			}
			out := struct {
				Hash string `json:"hash"`
				Cost int    `json:"cost"`
			}{hash, service.BcryptCost}
			return imprimir(cmd.OutOrStdout(), rootOpts.Format, out, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, hash)
				return err
			})
		},
	}
}
