package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libadaptive/bench"
	"github.com/spf13/cobra"
)

func newRootCmd(logger l.Wrapper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "adaptive-bench",
		Short:         "Benchmark the adaptive learners on their reference functions",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newRunCmd(logger), newHistoryCmd())

	return rootCmd
}

func newRunCmd(logger l.Wrapper) *cobra.Command {
	var (
		configFile string
		history    string
		override   bench.Config
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Sample a benchmark function until the point budget is spent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := bench.DefaultConfig()

			if configFile != "" {
				var err error

				if cfg, err = bench.LoadConfig(configFile); err != nil {
					return err
				}
			}

			flags := cmd.Flags()

			if flags.Changed("learner") {
				cfg.Learner = override.Learner
			}

			if flags.Changed("points") {
				cfg.Points = override.Points
			}

			if flags.Changed("bounds") {
				cfg.Bounds = override.Bounds
			}

			if flags.Changed("offset") {
				cfg.Offset = override.Offset
			}

			if flags.Changed("seed") {
				cfg.Seed = override.Seed
			}

			if flags.Changed("stall-timeout") {
				cfg.StallTimeout = override.StallTimeout
			}

			if flags.Changed("history") {
				cfg.History = history
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			report, err := bench.Run(ctx, cfg, logger)
			if err != nil {
				return err
			}

			cmd.Printf("%s %s: %d points, loss %s, %s\n", report.ID, report.Learner, report.Points, report.Loss,
				report.Elapsed.Round(time.Millisecond))

			if cfg.History == "" {
				return nil
			}

			h, err := bench.NewHistory(cfg.History)
			if err != nil {
				return err
			}

			return h.Append(report)
		},
	}

	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML benchmark config")
	runCmd.Flags().StringVar(&override.Learner, "learner", bench.Learner1D, "learner to run (1d, 2d, balancing, average)")
	runCmd.Flags().IntVarP(&override.Points, "points", "n", 1000, "number of points to sample")
	runCmd.Flags().StringVar(&override.Bounds, "bounds", "", "comma separated bounds, lo,hi or xlo,xhi,ylo,yhi")
	runCmd.Flags().Float64Var(&override.Offset, "offset", 0, "peak position of the 1-D function")
	runCmd.Flags().Uint64Var(&override.Seed, "seed", 1, "random seed")
	runCmd.Flags().DurationVar(&override.StallTimeout, "stall-timeout", 0, "stop the run when no point has been fed back for this long, checked between evaluations")
	runCmd.Flags().StringVar(&history, "history", "", "directory of the report history")

	return runCmd
}

func newHistoryCmd() *cobra.Command {
	var learnerName string

	historyCmd := &cobra.Command{
		Use:   "history [dir]",
		Short: "List recorded benchmark reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := bench.NewHistory(args[0])
			if err != nil {
				return err
			}

			reports := h.Reports()

			if learnerName != "" {
				reports = reports[:0]

				if report, exists := h.Latest(learnerName); exists {
					reports = append(reports, report)
				}
			}

			for _, report := range reports {
				cmd.Printf("%s %s %s: %d points, loss %g, %s\n", time.Unix(report.At, 0).Format(time.DateTime),
					report.ID, report.Learner, report.Points, report.LossValue(), report.Elapsed.Round(time.Millisecond))
			}

			return nil
		},
	}

	historyCmd.Flags().StringVar(&learnerName, "learner", "", "show only the latest report of this learner")

	return historyCmd
}
