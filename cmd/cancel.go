package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var cancelReason string

var cancelCmd = &cobra.Command{
	Use:   "cancel [builder] [number]",
	Short: "Cancel a running build",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid build number: %s", args[1])
		}

		path := fmt.Sprintf("/builders/%s/builds/%d/cancel", url.PathEscape(args[0]), number)
		form := url.Values{"reason": {cancelReason}}

		resp, err := http.Post(daemonURL(path),
			"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
		if err != nil {
			return fmt.Errorf("daemon not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		if resp.StatusCode != http.StatusOK {
			var result map[string]string
			_ = json.NewDecoder(resp.Body).Decode(&result)
			return fmt.Errorf("cancel rejected: %s", result["error"])
		}

		fmt.Printf("cancel requested for %s #%d\n", args[0], number)
		return nil
	},
}

func init() {
	cancelCmd.Flags().StringVar(&cancelReason, "reason", "cancelled from CLI", "reason shown on the master")
	rootCmd.AddCommand(cancelCmd)
}
