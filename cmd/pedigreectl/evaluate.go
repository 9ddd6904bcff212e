package main

import (
	"fmt"

	mem "rabbit-pedigree/internal/adapters/storage/memory"
	"rabbit-pedigree/internal/domain/animals"
	"rabbit-pedigree/internal/domain/breeding"
	"rabbit-pedigree/internal/domain/breeds"

	"github.com/spf13/cobra"
)

func newEvaluateCmd(root *rootFlags) *cobra.Command {
	var (
		herdPath   string
		breedsPath string
		maleID     int64
		femaleID   int64
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evalúa una cruza sobre un rodeo en YAML, sin servidor",
		Long: `Carga el rodeo de --herd en memoria (calculando la ancestry de cada animal)
y evalúa --male contra --female usando los ids del archivo.
Con --breeds agrega la compatibilidad de razas al veredicto.
Sale con código 2 si la cruza no es compatible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := root.cliLogger(cmd.ErrOrStderr())

			herd, err := loadHerdFile(herdPath)
			if err != nil {
				return err
			}

			animalRepo := mem.NewAnimalRepo()
			ids, err := herd.register(ctx, animals.NewService(animalRepo, animals.Options{Logger: log}))
			if err != nil {
				return err
			}

			male, ok := ids[maleID]
			if !ok {
				return fmt.Errorf("male %d is not in the herd", maleID)
			}
			female, ok := ids[femaleID]
			if !ok {
				return fmt.Errorf("female %d is not in the herd", femaleID)
			}

			var lookup breeding.BreedLookup
			if breedsPath != "" {
				table, err := breeds.LoadTableFile(breedsPath)
				if err != nil {
					return err
				}
				breedsSvc := breeds.NewService(mem.NewBreedRepo(), log)
				if err := breedsSvc.Seed(ctx, table); err != nil {
					return err
				}
				lookup = breedsSvc
			}

			svc := breeding.NewService(animalRepo, lookup, nil, log)
			v, err := svc.Check(ctx, male, female)
			if err != nil {
				log.Warn("evaluate failed", map[string]any{"err": err})
				v = breeding.FailClosed()
			}
			return printVerdict(cmd.OutOrStdout(), v)
		},
	}

	cmd.Flags().StringVar(&herdPath, "herd", "herd.yaml", "archivo YAML del rodeo")
	cmd.Flags().StringVar(&breedsPath, "breeds", "", "tabla de razas en YAML (opcional)")
	cmd.Flags().Int64Var(&maleID, "male", 0, "ID del macho en el archivo")
	cmd.Flags().Int64Var(&femaleID, "female", 0, "ID de la hembra en el archivo")
	_ = cmd.MarkFlagRequired("male")
	_ = cmd.MarkFlagRequired("female")
	return cmd
}
