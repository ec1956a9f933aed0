package root

import (
	"context"

	"github.com/spf13/cobra"
)

func newCreateMissionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-missions",
		Short: "Create today's mission history rows from every mission time",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.Missions.CreateToday(ctx)
			return printEnvelope(cmd.OutOrStdout(), res, err)
		},
	}
}

func newNotifyFailedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify-failed",
		Short: "Push failure notices for missions past their deadline",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := svc.Failed.Notify(ctx)
			return printEnvelope(cmd.OutOrStdout(), resp, err)
		},
	}
}
