package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/citycarbon/footprint-cli/internal/seed"
)

var (
	seedBaselinesPath  string
	seedParametersPath string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load baseline and parameter reference CSVs into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedBaselinesPath == "" && seedParametersPath == "" {
			return eris.New("at least one of --baselines or --parameters is required")
		}

		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}

		if seedBaselinesPath != "" {
			n, err := seed.BaselinesFile(cmd.Context(), st, seedBaselinesPath)
			if err != nil {
				return err
			}
			zap.L().Info("baselines seeded",
				zap.String("file", seedBaselinesPath), zap.Int("rows", n))
		}

		if seedParametersPath != "" {
			n, err := seed.FactorsFile(cmd.Context(), st, seedParametersPath)
			if err != nil {
				return err
			}
			zap.L().Info("parameters seeded",
				zap.String("file", seedParametersPath), zap.Int("rows", n))
		}

		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedBaselinesPath, "baselines", "", "baseline items CSV")
	seedCmd.Flags().StringVar(&seedParametersPath, "parameters", "", "factor parameters CSV")
	rootCmd.AddCommand(seedCmd)
}
