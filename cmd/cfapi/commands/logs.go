package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/cfapi/pkg/capi"
	"github.com/fivetwenty-io/cfapi/pkg/loggregator"
)

// NewLogsCommand creates the logs command.
func NewLogsCommand() *cobra.Command {
	var (
		recent        bool
		skipMalformed bool
	)

	cmd := &cobra.Command{
		Use:   "logs APP_NAME",
		Short: "Tail or show recent logs for an application",
		Long: `Stream the logs of an application until interrupted.

With --recent, print the logs loggregator has buffered and exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()

			app, err := findApplication(ctx, client, loadConfig(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if recent {
				return printRecentLogs(ctx, out, client, app.GUID)
			}

			var opts []loggregator.Option
			if skipMalformed {
				opts = append(opts, loggregator.WithSkipMalformedFrames())
			}

			_, _ = fmt.Fprintf(out, "Tailing logs for app %s...\n\n", app.Name)

			return tailLogs(ctx, out, client, capi.StreamLogsRequest{ID: app.GUID, Options: opts})
		},
	}

	cmd.Flags().BoolVar(&recent, "recent", false, "dump recent logs instead of tailing")
	cmd.Flags().BoolVar(&skipMalformed, "skip-malformed", false, "drop undecodable frames instead of ending the stream")

	return cmd
}

func printRecentLogs(ctx context.Context, out io.Writer, client capi.Client, appGUID string) error {
	messages, err := client.Logs().Recent(ctx, capi.RecentLogsRequest{ID: appGUID})
	if err != nil {
		return fmt.Errorf("failed to get recent logs: %w", err)
	}

	for _, msg := range messages {
		_, _ = fmt.Fprintln(out, msg.String())
	}

	return nil
}

// tailLogs prints messages until the stream ends or ctx is cancelled.
func tailLogs(ctx context.Context, out io.Writer, client capi.Client, request capi.StreamLogsRequest) error {
	session, err := client.Logs().Stream(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to open log stream: %w", err)
	}
	defer func() { _ = session.Close() }()

	for msg, err := range session.Messages(ctx) {
		if errors.Is(err, context.Canceled) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("log stream failed: %w", err)
		}

		_, _ = fmt.Fprintln(out, msg.String())
	}

	return nil
}
