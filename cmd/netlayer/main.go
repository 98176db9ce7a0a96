package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/netlayer/internal/app"
	"github.com/samvad-hq/netlayer/internal/config"
	"github.com/samvad-hq/netlayer/internal/logger"
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "netlayer: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "netlayer",
		Short:         "Call catalogued HTTP endpoints and classify their responses",
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newFetchCmd(), newListCmd(), newHistoryCmd())
	return root
}

// withRunner loads config, logging and the runner around fn.
func withRunner(fn func(ctx context.Context, r *app.Runner) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := app.NewRunner(cfg, log, nil)
	if err != nil {
		log.ErrorObj("failed to initialize runner", "error", err.Error())
		return err
	}
	defer runner.Close()

	return fn(ctx, runner)
}

func newFetchCmd() *cobra.Command {
	var (
		decode  bool
		useYAML bool
		quiet   bool
	)
	cmd := &cobra.Command{
		Use:   "fetch NAME",
		Short: "Call an endpoint and print its body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := app.FormatRaw
			switch {
			case useYAML:
				format = app.FormatYAML
			case decode:
				format = app.FormatJSON
			}
			return withRunner(func(ctx context.Context, r *app.Runner) error {
				out, err := r.Fetch(ctx, args[0], format)
				if err != nil {
					return err
				}
				return printOutput(cmd.OutOrStdout(), cmd.ErrOrStderr(), out, quiet)
			})
		},
	}
	cmd.Flags().BoolVar(&decode, "decode", false, "decode the body as JSON and pretty-print it")
	cmd.Flags().BoolVar(&useYAML, "yaml", false, "decode the body as YAML and pretty-print it as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the status line")
	return cmd
}

func printOutput(stdout, stderr io.Writer, out app.Output, quiet bool) error {
	if !quiet {
		fmt.Fprintf(stderr, "status: %d\n", out.StatusCode)
	}
	if _, err := stdout.Write(out.Body); err != nil {
		return err
	}
	if n := len(out.Body); n > 0 && out.Body[n-1] != '\n' {
		_, err := io.WriteString(stdout, "\n")
		return err
	}
	return nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalogued endpoints and their URLs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(func(_ context.Context, r *app.Runner) error {
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tMETHOD\tURL")
				for _, l := range r.List() {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", l.Name, l.Method, l.URL)
				}
				return tw.Flush()
			})
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent endpoint calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(func(_ context.Context, r *app.Runner) error {
				entries, err := r.History(limit)
				if err != nil {
					return fmt.Errorf("read history: %w", err)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "AT\tENDPOINT\tSTATUS\tBYTES\tERROR")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", e.At.Format(time.RFC3339), e.Endpoint, e.StatusCode, e.Bytes, e.Error)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries (0 for all)")
	return cmd
}
