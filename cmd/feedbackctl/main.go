// Command feedbackctl lists, submits, edits and deletes feedback through the
// feedback API.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/NomadCrew/feedback-service/pkg/feedbackclient"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	apiURL  string
	timeout time.Duration
}

func (o *options) client() *feedbackclient.Client {
	return feedbackclient.NewClient(o.apiURL, feedbackclient.WithTimeout(o.timeout))
}

func rootCmd() *cobra.Command {
	opts := &options{}

	defaultURL := os.Getenv("FEEDBACK_API_URL")
	if defaultURL == "" {
		defaultURL = feedbackclient.DefaultBaseURL
	}

	cmd := &cobra.Command{
		Use:           "feedbackctl",
		Short:         "Manage feedback entries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", defaultURL, "Base URL of the feedback API (env FEEDBACK_API_URL)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", feedbackclient.DefaultTimeout, "Per-request timeout")

	cmd.AddCommand(
		listCmd(opts),
		showCmd(opts),
		submitCmd(opts),
		editCmd(opts),
		deleteCmd(opts),
		healthCmd(opts),
	)
	return cmd
}
