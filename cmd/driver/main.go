package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/agenthands/evalharness/internal/driver"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
		verbose bool
	)

	root := &cobra.Command{
		Use:          "driver",
		Short:        "Drive a running evaluation server through its dataset",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	client := func() *driver.Client { return driver.NewClient(baseURL, timeout) }

	root.AddCommand(newRunCmd(client), newResetCmd(client), newStatusCmd(client))
	return root
}

func newRunCmd(client func() *driver.Client) *cobra.Command {
	var opts driver.Options

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send predict requests for a range of indices",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			c := client()
			summary, err := driver.NewRunner(c).Run(ctx, opts)
			if err != nil && ctx.Err() == nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sent:      %d (%d failed) in %s\n", summary.Sent, summary.Failed, summary.Elapsed.Round(time.Millisecond))
			fmt.Fprintf(out, "correct:   %d\n", summary.Correct)
			fmt.Fprintf(out, "incorrect: %d\n", summary.Incorrect)
			fmt.Fprintf(out, "accuracy:  %.2f%%\n", summary.Accuracy()*100)
			for _, n := range summary.Misses {
				log.Debug().Str("image", c.ImageURL(n)).Msg("misclassified")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Start, "start", 0, "first index")
	cmd.Flags().IntVar(&opts.Count, "count", 70000, "number of indices to send")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 10*time.Millisecond, "pause between requests, 0 for none")
	cmd.Flags().IntVar(&opts.Workers, "workers", 1, "concurrent requests")
	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "reset counters before starting")
	cmd.Flags().BoolVar(&opts.StopOnInvalid, "stop-on-invalid", true, "stop at the first rejected index")
	return cmd
}

func newResetCmd(client func() *driver.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset the server counters and delete saved images",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := client().Reset(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
}

func newStatusCmd(client func() *driver.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the current counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := client().Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "correct=%d incorrect=%d accuracy=%.2f%%\n", st.Correct, st.Incorrect, st.Accuracy*100)
			return nil
		},
	}
}
