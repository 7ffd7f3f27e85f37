package cmd

import (
	"bbdash/internal/model"
	"bbdash/internal/poller"
	"bbdash/internal/render"

	"github.com/spf13/cobra"
)

var slavesCmd = &cobra.Command{
	Use:   "slaves",
	Short: "List slaves attached to the master",
	RunE: func(cmd *cobra.Command, args []string) error {
		var slaves []model.Slave
		if err := fetchChannel(poller.ChannelSlaves, &slaves); err != nil {
			return err
		}

		rows := make([]any, len(slaves))
		for i, s := range slaves {
			rows[i] = s
		}

		printTable(render.Slaves(), rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(slavesCmd)
}
