package main

import (
	"github.com/spf13/cobra"

	"github.com/scoutcamp/campo/internal/bulk"
)

func newExportCmd(e *env) *cobra.Command {
	export := &cobra.Command{
		Use:   "export",
		Short: "Export data as CSV",
	}

	var output, subCamp string
	ranking := &cobra.Command{
		Use:   "ranking",
		Short: "Write the patrol ranking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := e.services()
			if err != nil {
				return err
			}

			ranked, err := svc.camp.Ranking(cmd.Context(), subCamp)
			if err != nil {
				return err
			}

			f, done, err := create(output, false)
			if err != nil {
				return err
			}
			defer done()

			return bulk.WriteRanking(f, ranked)
		},
	}
	ranking.Flags().StringVarP(&output, "output", "o", "classifica_scout.csv", `output file, "-" for stdout`)
	ranking.Flags().StringVar(&subCamp, "sottocampo", "", "only patrols of this sub-camp")

	export.AddCommand(ranking)
	return export
}
