package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Triggers generation of today's review report",
	RunE: func(_ *cobra.Command, _ []string) error {
		resp, err := newAPIClient().R().Get("/review/daily_report")
		if err != nil {
			return fmt.Errorf("failed to request daily report: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("server returned %s: %s", resp.Status(), resp.String())
		}

		var body struct {
			Report  string `json:"report"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			return fmt.Errorf("unexpected response: %w", err)
		}

		if body.Report != "" {
			fmt.Println(body.Report)
		} else {
			fmt.Println(body.Message)
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.AddCommand(reportCmd)
}
