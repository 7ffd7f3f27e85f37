package cmd

import (
	"bbdash/internal/model"
	"bbdash/internal/poller"
	"bbdash/internal/render"

	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List pending builds",
	RunE: func(cmd *cobra.Command, args []string) error {
		var pending []model.PendingBuild
		if err := fetchChannel(poller.ChannelPending, &pending); err != nil {
			return err
		}

		rows := make([]any, len(pending))
		for i, p := range pending {
			rows[i] = p
		}

		printTable(render.PendingBuilds(), rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pendingCmd)
}
