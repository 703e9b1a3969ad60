package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/review-warden/internal/core"
)

var (
	logAuthors    []string
	logProjects   []string
	logStartDate  string
	logEndDate    string
	logOutputJSON bool
)

var pushLogsCmd = &cobra.Command{
	Use:   "push-logs",
	Short: "Lists push review logs recorded by Review-Warden",
	RunE: func(_ *cobra.Command, _ []string) error {
		params := url.Values{}
		for _, a := range logAuthors {
			params.Add("authors", a)
		}
		for _, p := range logProjects {
			params.Add("project_names", p)
		}
		if logStartDate != "" {
			params.Set("start_date", logStartDate)
		}
		if logEndDate != "" {
			params.Set("end_date", logEndDate)
		}

		req := newAPIClient().R().SetQueryParamsFromValues(params)

		resp, err := req.Get("/api/review/push_logs")
		if err != nil {
			return fmt.Errorf("failed to query push logs: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("server returned %s: %s", resp.Status(), resp.String())
		}

		var body struct {
			Logs  []core.PushReviewLog `json:"logs"`
			Total int                  `json:"total"`
		}
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			return fmt.Errorf("unexpected response: %w", err)
		}

		if logOutputJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(body.Logs)
		}

		if body.Total == 0 {
			fmt.Println("No push review logs found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tPROJECT\tAUTHOR\tBRANCH\tSCORE\tREVIEWED AT")
		for _, l := range body.Logs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
				l.ID,
				l.ProjectName,
				l.Author,
				l.Branch,
				l.Score,
				time.Unix(l.UpdatedAt, 0).Format(time.RFC822),
			)
		}
		return w.Flush()
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	pushLogsCmd.Flags().StringSliceVar(&logAuthors, "author", nil, "Filter by author (repeatable)")
	pushLogsCmd.Flags().StringSliceVar(&logProjects, "project", nil, "Filter by project name (repeatable)")
	pushLogsCmd.Flags().StringVar(&logStartDate, "start-date", "", "Start date (YYYY-MM-DD)")
	pushLogsCmd.Flags().StringVar(&logEndDate, "end-date", "", "End date (YYYY-MM-DD, inclusive)")
	pushLogsCmd.Flags().BoolVar(&logOutputJSON, "json", false, "Output logs as JSON")
	rootCmd.AddCommand(pushLogsCmd)
}
