package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoice-graph-importer/pkg/jwt"
)

// newTokenCmd emite un Bearer token para el API firmado con JWT_SECRET.
func newTokenCmd(env *cliEnv) *cobra.Command {
	var (
		subject string
		role    string
		ttl     int
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un token JWT para el API de importación",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch role {
			case jwt.RoleAdmin, jwt.RoleImporter, jwt.RoleViewer:
			default:
				return fmt.Errorf("rol desconocido %q (admin|importer|viewer)", role)
			}
			if ttl <= 0 {
				return errors.New("--ttl debe ser > 0")
			}
			tok, err := jwt.Generate(env.cfg.JWT.Secret, subject, role, env.cfg.JWT.Issuer, ttl)
			if err != nil {
				return err
			}
			env.log.Info().Str("subject", subject).Str("role", role).Int("ttl_min", ttl).Msg("token emitido")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Operador (email o nombre) (requerido)")
	cmd.Flags().StringVar(&role, "role", jwt.RoleImporter, "Rol: admin | importer | viewer")
	cmd.Flags().IntVar(&ttl, "ttl", 60, "Vigencia en minutos")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
