package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"rabbit-pedigree/internal/adapters/compatibility/remote"

	"github.com/spf13/cobra"
)

func newCheckCmd(root *rootFlags) *cobra.Command {
	var (
		server   string
		maleID   int64
		femaleID int64
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Consulta la compatibilidad contra un servidor",
		Long: `Hace GET /breeding/compatibility en el servidor indicado e imprime el veredicto.
Cualquier falla de red o de respuesta se informa como cruza bloqueada.
Sale con código 2 si la cruza no es compatible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if maleID <= 0 || femaleID <= 0 {
				return fmt.Errorf("--male and --female must be positive ids")
			}

			client, err := remote.New(remote.Options{
				BaseURL: server,
				Timeout: timeout,
				Logger:  root.cliLogger(cmd.ErrOrStderr()),
			})
			if err != nil {
				return err
			}

			v := client.CheckCompatibility(cmd.Context(), maleID, femaleID)
			return printVerdict(cmd.OutOrStdout(), v)
		},
	}

	defaultServer := strings.TrimSpace(os.Getenv("PEDIGREE_SERVER"))
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}

	cmd.Flags().StringVar(&server, "server", defaultServer, "URL base del servidor (env PEDIGREE_SERVER)")
	cmd.Flags().Int64Var(&maleID, "male", 0, "ID del macho")
	cmd.Flags().Int64Var(&femaleID, "female", 0, "ID de la hembra")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "timeout del request")
	_ = cmd.MarkFlagRequired("male")
	_ = cmd.MarkFlagRequired("female")
	return cmd
}
