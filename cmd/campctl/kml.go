package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scoutcamp/campo/internal/bulk"
	"github.com/scoutcamp/campo/internal/kml"
)

func newKMLCmd() *cobra.Command {
	var output string
	var appendTo bool

	cmd := &cobra.Command{
		Use:   "kml <input.kml|input.kmz>",
		Short: "Convert KML/KMZ polygons to a terreni CSV",
		Long: `Extract every polygon placemark and write it in the terrains import format.
Tags are left empty; fill them in before importing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			terrains, err := kml.ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(terrains) == 0 {
				return errors.New("no polygons found in " + args[0])
			}

			_, statErr := os.Stat(output)
			header := !appendTo || errors.Is(statErr, os.ErrNotExist)

			f, done, err := create(output, appendTo)
			if err != nil {
				return err
			}
			defer done()

			if err = bulk.WriteTerrains(f, terrains, header); err != nil {
				return err
			}

			for _, t := range terrains {
				fmt.Fprintf(cmd.ErrOrStderr(), "+ %s (%.6f, %.6f)\n", t.Name, t.CenterLat, t.CenterLon)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d terrains written to %s\n", len(terrains), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "terreni.csv", "output CSV file")
	cmd.Flags().BoolVarP(&appendTo, "append", "a", false, "append to an existing CSV")

	return cmd
}
