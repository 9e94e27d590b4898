package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoutcamp/campo/internal/bulk"
)

func newSeedUsersCmd(e *env) *cobra.Command {
	var credentials string

	cmd := &cobra.Command{
		Use:   "seed-users",
		Short: "Create the admin, tech and per-unit accounts",
		Long: `Create "admin" (admin), "prog" (tech) and one unit account per unit, each
with a random password. Existing accounts are kept. The new credentials are
written to a CSV file; keep it private.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := e.services()
			if err != nil {
				return err
			}

			creds, err := bulk.SeedUsers(cmd.Context(), svc.camp, svc.users)
			if err != nil {
				return err
			}

			f, done, err := create(credentials, false)
			if err != nil {
				return err
			}
			defer done()

			if err = bulk.WriteCredentials(f, creds); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%d accounts created, credentials in %s\n", len(creds), credentials)
			return nil
		},
	}
	cmd.Flags().StringVar(&credentials, "credentials", "credentials.csv", `credentials output file, "-" for stdout`)

	return cmd
}
