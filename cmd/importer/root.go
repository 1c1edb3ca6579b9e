package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/invoice-graph-importer/pkg/config"
	"github.com/jhoicas/invoice-graph-importer/pkg/logger"
)

// cliEnv configuración y logger compartidos por los subcomandos.
type cliEnv struct {
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	env := &cliEnv{}

	root := &cobra.Command{
		Use:           "importer",
		Short:         "Importa exports de facturas al grafo de conocimiento",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			env.cfg = cfg
			env.log = logger.New(logger.Config{
				Env:   cfg.App.Env,
				Level: cfg.App.LogLevel,
				Out:   cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	root.AddCommand(newRunCmd(env), newTokenCmd(env))
	return root
}
