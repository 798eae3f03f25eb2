package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoutreport/activityform/internal/app"
	"github.com/scoutreport/activityform/internal/model"
	"github.com/scoutreport/activityform/internal/repository"
)

func ExportCmd() *cobra.Command {
	var filter repository.ActivityFilter
	var status string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print filtered activities as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				state, ok := model.ParseCheckedState(status)
				if !ok {
					return fmt.Errorf("invalid --status %q, expected unchecked, checked, edited or 0, 1, -1", status)
				}
				filter.Status = &state
			}

			return withApp(cmd, func(a *app.App) error {
				activities, err := a.ActivityService.List(filter)
				if err != nil {
					return err
				}
				if activities == nil {
					activities = []*model.Activity{}
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(activities)
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "review state: unchecked, checked or edited")
	cmd.Flags().StringVar(&filter.Start, "start", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&filter.End, "end", "", "last date, YYYY-MM-DD")
	cmd.Flags().StringVar(&filter.Group, "group", "", "exact group name")
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "free-text search")
	cmd.Flags().BoolVar(&filter.Unreviewed, "unreviewed", false, "only activities not marked reviewed")
	return cmd
}
