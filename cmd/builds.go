package cmd

import (
	"bbdash/internal/model"
	"bbdash/internal/poller"
	"bbdash/internal/render"

	"github.com/spf13/cobra"
)

var buildsRecent bool

var buildsCmd = &cobra.Command{
	Use:   "builds",
	Short: "List current builds on the watched builder",
	RunE: func(cmd *cobra.Command, args []string) error {
		channel := poller.ChannelCurrentBuilds
		table := render.CurrentBuilds(render.SourceKeyStamps)
		if buildsRecent {
			channel = poller.ChannelBuilds
			table = render.RecentBuilds(render.SourceKeyStamps)
		}

		var builds []model.Build
		if err := fetchChannel(channel, &builds); err != nil {
			return err
		}

		rows := make([]any, len(builds))
		for i, b := range builds {
			rows[i] = b
		}

		printTable(table, rows)
		return nil
	},
}

func init() {
	buildsCmd.Flags().BoolVar(&buildsRecent, "recent", false, "show recently finished builds instead")
	rootCmd.AddCommand(buildsCmd)
}
