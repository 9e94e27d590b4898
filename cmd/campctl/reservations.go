package main

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/scoutcamp/campo/internal/bulk"
)

const dateLayout = "2006-01-02"

func newGenReservationsCmd(e *env) *cobra.Command {
	var (
		n        int
		from, to string
		output   string
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "gen-reservations",
		Short: "Generate a demo reservations CSV from the stored units and terrains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc := e.conf.Camp.Location()
			start, err := time.ParseInLocation(dateLayout, from, loc)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			end, err := time.ParseInLocation(dateLayout, to, loc)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			svc, err := e.services()
			if err != nil {
				return err
			}

			units, err := svc.camp.ListUnits(cmd.Context())
			if err != nil {
				return err
			}
			terrains, err := svc.terrains.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(units) == 0 || len(terrains) == 0 {
				return errors.New("import units and terrains first")
			}

			unitNames := make([]string, len(units))
			for i, u := range units {
				unitNames[i] = u.Name
			}
			terrainNames := make([]string, len(terrains))
			for i, t := range terrains {
				terrainNames[i] = t.Name
			}

			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			rows := bulk.GenerateReservations(rand.New(rand.NewSource(seed)), terrainNames, unitNames, n, start, end, e.conf.Camp.MaxReservationHours)

			f, done, err := create(output, false)
			if err != nil {
				return err
			}
			defer done()

			if err = bulk.WriteReservations(f, rows); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%d reservations written to %s\n", len(rows), output)
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 30, "number of reservations")
	cmd.Flags().StringVar(&from, "from", "2026-07-25", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "2026-08-08", "last day (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&output, "output", "o", "prenotazioni.csv", "output CSV file")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 for a time based one")

	return cmd
}
