package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strconv"

	"bbdash/internal/model"
	"bbdash/internal/render"

	"github.com/spf13/cobra"
)

var (
	historyN       int
	historyBuilder string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recorded build history",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := neturl.Values{"n": {strconv.Itoa(historyN)}}
		if historyBuilder != "" {
			query.Set("builder", historyBuilder)
		}

		resp, err := http.Get(daemonURL("/history") + "?" + query.Encode())
		if err != nil {
			return fmt.Errorf("daemon not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		var recs []model.BuildRecord
		if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
			return err
		}

		if len(recs) == 0 {
			fmt.Println("no builds recorded yet")
			return nil
		}

		for _, rec := range recs {
			status := "✓"
			if rec.Result != model.ResultSuccess {
				status = "✗"
			}

			fmt.Printf("%s [%s] %s #%d %-10s %s (%s)\n",
				status,
				rec.FinishedAt.Format("2006-01-02 15:04:05"),
				rec.Builder,
				rec.Number,
				render.ResultText(rec.Result),
				rec.Revision,
				rec.Owner,
			)
		}

		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyN, "n", 20, "number of history entries to show")
	historyCmd.Flags().StringVar(&historyBuilder, "builder", "", "only show builds from this builder")
	rootCmd.AddCommand(historyCmd)
}
