package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bbdash/internal/model"
	"bbdash/internal/repository"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View daemon and master status",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Get(daemonURL("/status"))
		if err != nil {
			return fmt.Errorf("daemon not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		var result struct {
			Master    string               `json:"master"`
			Project   string               `json:"project"`
			Builder   string               `json:"builder"`
			Global    model.GlobalStatus   `json:"global"`
			Stats     *repository.Stats    `json:"stats"`
			UpdatedAt map[string]time.Time `json:"updated_at"`
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("failed to decode status response: %w", err)
		}

		fmt.Printf("master:  %s\n", result.Master)
		if result.Project != "" {
			fmt.Printf("project: %s\n", result.Project)
		}
		if result.Builder != "" {
			fmt.Printf("builder: %s\n", result.Builder)
		}

		fmt.Printf("slaves:  %d (%d busy)\n", result.Global.SlavesCount, result.Global.SlavesBusy)
		fmt.Printf("running: %d builds (load %d)\n", result.Global.RunningBuilds, result.Global.BuildLoad)

		if result.Stats != nil {
			fmt.Printf("history: %d builds recorded (%d succeeded, %d failed)\n",
				result.Stats.Total, result.Stats.Success, result.Stats.Failed)
		}

		if len(result.UpdatedAt) > 0 {
			fmt.Println("channels:")
			for channel, at := range result.UpdatedAt {
				fmt.Printf("  %-16s %s ago\n", channel, time.Since(at).Round(time.Second))
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
