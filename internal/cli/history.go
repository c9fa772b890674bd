package cli

import (
	"errors"
	"fmt"

	"github.com/piwi3910/barcut/internal/archive"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openArchive(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(w, "No archived plans.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(w, "%s  %s  %4d pieces on %3d x %gmm  %6.2f%%  %s\n",
					e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Pieces, e.Bars, e.BarLength, e.Efficiency, e.Algorithm)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", archive.DefaultRecentLimit, "number of plans to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Show one archived plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openArchive(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			e, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), e.Plan, nil)
			return nil
		},
	})
	return cmd
}

func (a *app) openArchive(cmd *cobra.Command) (*archive.Store, error) {
	if !a.cfg.Archive.Enabled {
		return nil, errors.New("archive is disabled; set archive.enabled: true in the config")
	}
	return archive.Open(cmd.Context(), a.cfg.Archive.Path)
}
