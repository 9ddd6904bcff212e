package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"rabbit-pedigree/internal/domain/breeding"
	"rabbit-pedigree/internal/platform/logger"

	"github.com/spf13/cobra"
)

// errIncompatible hace que el proceso termine con código 2 sin imprimir nada
// más que el veredicto.
var errIncompatible = errors.New("pairing is not compatible")

type rootFlags struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "pedigreectl",
		Short:         "Verificación de compatibilidad de cruzas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "logs de debug en stderr")

	cmd.AddCommand(newCheckCmd(flags))
	cmd.AddCommand(newEvaluateCmd(flags))
	return cmd
}

// cliLogger escribe a stderr para no mezclarse con el JSON de stdout.
func (f *rootFlags) cliLogger(stderr io.Writer) logger.Logger {
	if !f.verbose {
		return logger.NewNop()
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return logger.New(logger.Options{
		Level:  logger.Debug,
		Format: logger.FormatText,
		App:    "pedigreectl",
		Output: stderr,
	})
}

func printVerdict(w io.Writer, v breeding.Verdict) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	if !v.Compatible {
		return errIncompatible
	}
	return nil
}
