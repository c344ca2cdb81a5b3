package cli

import (
	"fmt"
	"io"

	"github.com/xjoule42/quicksale-pos/internal/config"
	"github.com/xjoule42/quicksale-pos/internal/dto"
	"github.com/xjoule42/quicksale-pos/internal/model"
	"github.com/xjoule42/quicksale-pos/internal/repository"
	"github.com/xjoule42/quicksale-pos/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var validar = validator.New()

// NewSeedUserCommand creates a user directly in the store, typically the
// first administrator of a fresh install.
func NewSeedUserCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		email    string
		password string
		nombre   string
		rol      string
	)

	cmd := &cobra.Command{
		Use:   "seed-user",
		Short: "Create a user (default role: administrador)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.CrearUsuarioRequest{Email: email, Password: password, Rol: rol}
			if nombre != "" {
				req.NombreCompleto = &nombre
			}
			if err := validar.Struct(req); err != nil {
				return fmt.Errorf("datos inválidos: %w", err)
			}

			ctx := cmd.Context()
			env, err := rootOpts.entorno(ctx)
			if err != nil {
				return err
			}
			defer env.Cerrar()

			perfiles := repository.NewPerfilRepository(env.DB)
			auditoria := service.NewAuditoriaService(repository.NewAuditLogRepository(env.DB), perfiles)
			auth := service.NewAuthService(perfiles, auditoria, nil, &config.Config{})

			u, err := auth.CrearUsuario(ctx, service.ActorSistema, req)
			if err != nil {
				return err
			}
			return imprimir(cmd.OutOrStdout(), rootOpts.Format, u, func(w io.Writer) error {
				fmt.Fprintf(w, "Usuario creado: %s (%s) id=%s\n", u.Email, u.Rol, u.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&password, "password", "", "initial password, min 8 characters (required)")
	cmd.Flags().StringVar(&nombre, "nombre", "", "full name")
	cmd.Flags().StringVar(&rol, "rol", model.RolAdministrador, "administrador | vendedor | cliente")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
