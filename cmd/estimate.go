package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/citycarbon/footprint-cli/internal/emission"
	"github.com/citycarbon/footprint-cli/internal/estimator"
	"github.com/citycarbon/footprint-cli/internal/model"
	"github.com/citycarbon/footprint-cli/internal/profile"
	"github.com/citycarbon/footprint-cli/internal/validate"
)

var estimateAnswersPath string

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Run a one-shot estimation from an answers JSON file",
	Long:  "Reads a JSON file holding the four answer sets, runs the estimators against the seeded reference data, and prints the per-domain scores.",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(estimateAnswersPath)
		if err != nil {
			return eris.Wrapf(err, "read answers file %s", estimateAnswersPath)
		}

		var answers struct {
			MobilityAnswer *model.MobilityAnswer `json:"mobilityAnswer"`
			HousingAnswer  *model.HousingAnswer  `json:"housingAnswer"`
			FoodAnswer     *model.FoodAnswer     `json:"foodAnswer"`
			OtherAnswer    *model.OtherAnswer    `json:"otherAnswer"`
		}
		if err := json.Unmarshal(raw, &answers); err != nil {
			return eris.Wrap(err, "parse answers file")
		}
		if errs := validate.Answers(answers.MobilityAnswer, answers.HousingAnswer); len(errs) > 0 {
			return eris.Errorf("invalid answers: %v", errs)
		}

		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		svc := profile.NewService(
			estimator.New(st, st),
			emission.NewCalculator(nil),
			st,
		)
		p, scores, err := svc.Create(cmd.Context(), profile.Request{
			MobilityAnswer: answers.MobilityAnswer,
			HousingAnswer:  answers.HousingAnswer,
			FoodAnswer:     answers.FoodAnswer,
			OtherAnswer:    answers.OtherAnswer,
			Estimate:       true,
		})
		if err != nil {
			return err
		}

		out := map[string]any{
			"id":       p.ID,
			"mobility": scores.Mobility,
			"food":     scores.Food,
			"housing":  scores.Housing,
			"other":    scores.Other,
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	estimateCmd.Flags().StringVar(&estimateAnswersPath, "answers", "", "answers JSON file (required)")
	_ = estimateCmd.MarkFlagRequired("answers")
	rootCmd.AddCommand(estimateCmd)
}
