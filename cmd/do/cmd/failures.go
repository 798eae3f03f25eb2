package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/scoutreport/activityform/internal/repository"
)

func FailuresCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "failures",
		Short: "Print recent notification failures",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			failures, err := repository.NewNotificationFailureRepository(database).Recent(limit)
			if err != nil {
				return err
			}
			if len(failures) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no notification failures")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWHEN\tKIND\tACTIVITY\tTARGET\tERROR")
			for _, f := range failures {
				activity := "-"
				if f.ActivityID != nil {
					activity = fmt.Sprintf("#%d", *f.ActivityID)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					f.ID, f.CreatedAt.Format(time.DateTime), f.Kind, activity, f.Target, f.Error)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of failures to print")
	return cmd
}
