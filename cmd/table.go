package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bbdash/internal/render"
)

// fetchChannel pulls one channel's snapshot from the daemon.
func fetchChannel(channel string, out any) error {
	resp, err := http.Get(daemonURL("/api/channels/" + channel))
	if err != nil {
		return fmt.Errorf("daemon not running: %w", err)
	}

	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("daemon returned %s for channel %s", resp.Status, channel)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", channel, err)
	}

	return nil
}

func printTable(t render.Table, rows []any) {
	if len(rows) == 0 {
		fmt.Println(t.Empty)
		return
	}

	now := time.Now()

	for _, col := range t.Columns {
		fmt.Printf("%-*s ", col.Width, col.Label)
	}
	fmt.Println()

	for _, row := range rows {
		for i, cell := range t.Cells(row, now) {
			fmt.Printf("%-*s ", t.Columns[i].Width, cell)
		}
		fmt.Println()
	}
}
