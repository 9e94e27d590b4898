package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scoutcamp/campo/internal/bulk"
)

// defaultFiles are the file names looked up by "import all <dir>".
var defaultFiles = map[bulk.Kind]string{
	bulk.KindUnits:        "units.csv",
	bulk.KindPatrols:      "pattuglie.csv",
	bulk.KindChallenges:   "challenges.csv",
	bulk.KindCompletions:  "completions.csv",
	bulk.KindTerrains:     "terreni.csv",
	bulk.KindReservations: "prenotazioni.csv",
}

func newImportCmd(e *env) *cobra.Command {
	kinds := make([]string, 0, len(bulk.Kinds()))
	for _, k := range bulk.Kinds() {
		kinds = append(kinds, string(k))
	}

	return &cobra.Command{
		Use:   "import <kind|all> <file|dir>",
		Short: "Import a CSV file (" + strings.Join(kinds, ", ") + ")",
		Long: `Import rows that do not exist yet. Rows are matched by name, so running
an import twice is harmless. "import all <dir>" loads units.csv, pattuglie.csv,
challenges.csv, completions.csv, terreni.csv and prenotazioni.csv from dir,
skipping missing files.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.services()
			if err != nil {
				return err
			}
			im := bulk.NewImporter(svc.camp, svc.score, svc.terrains, svc.reservations)

			if args[0] == "all" {
				for _, kind := range bulk.Kinds() {
					path := filepath.Join(args[1], defaultFiles[kind])
					if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s not found, skipping\n", path)
						continue
					}
					if err := importFile(cmd, im, kind, path); err != nil {
						return err
					}
				}
				return nil
			}

			kind, err := bulk.ParseKind(args[0])
			if err != nil {
				return err
			}

			return importFile(cmd, im, kind, args[1])
		},
	}
}

func importFile(cmd *cobra.Command, im *bulk.Importer, kind bulk.Kind, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("os.Open -> %w", err)
	}
	defer f.Close()

	res, err := im.Import(cmd.Context(), kind, f)
	for _, w := range res.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", path, w)
	}
	if err != nil {
		return fmt.Errorf("import %s -> %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d created, %d skipped\n", kind, res.Created, res.Skipped)
	return nil
}
