package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoutreport/activityform/internal/app"
)

func DigestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Send the unreviewed activities digest now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				n, err := a.ActivityService.SendDigest()
				if err != nil {
					return err
				}
				if n == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing awaiting review")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "digest queued for %d activities\n", n)
				return nil
			})
		},
	}
}
