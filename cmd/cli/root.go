package main

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "warden-cli",
	Short: "warden-cli is the command-line interface for Review-Warden.",
	Long:  `A CLI for interacting with a running Review-Warden service, allowing tasks like triggering the daily report and querying review logs.`,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:5001", "Review-Warden server base URL")
}

func newAPIClient() *resty.Client {
	return resty.New().
		SetBaseURL(serverURL).
		SetTimeout(2 * time.Minute)
}
