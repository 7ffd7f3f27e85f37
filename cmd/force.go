package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

var (
	forceBranch string
	forceReason string
)

var forceCmd = &cobra.Command{
	Use:   "force [builder]",
	Short: "Request a new build on a builder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := fmt.Sprintf("/builders/%s/force", url.PathEscape(args[0]))
		form := url.Values{"branch": {forceBranch}, "reason": {forceReason}}

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
			return fmt.Errorf("force rejected: %s", result["error"])
		}

		fmt.Printf("build requested on %s\n", args[0])
		return nil
	},
}

func init() {
	forceCmd.Flags().StringVar(&forceBranch, "branch", "", "branch to build")
	forceCmd.Flags().StringVar(&forceReason, "reason", "forced from CLI", "reason shown on the master")
	rootCmd.AddCommand(forceCmd)
}
