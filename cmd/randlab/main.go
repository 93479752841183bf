package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"randlab/adapters/report"
	"randlab/internal"
	"randlab/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "randlab",
		Short: "Uniform and discrete random number generator lab",
		Long: `Generates uniform samples with a multiplicative congruential generator,
the platform generator and their MacLaren-Marsaglia combination, tests them for
uniformity, and samples Bernoulli, binomial, geometric and Poisson variates.

Configuration comes from flags, RANDLAB_* environment variables and a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().AddFlagSet(config.Flags())

	rootCmd.AddCommand(
		newUniformCmd(out),
		newDiscreteCmd(out),
		newAllCmd(out),
	)
	return rootCmd
}

func newUniformCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "uniform",
		Short: "Generate and test the congruential, platform and combined uniform samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, out)
			if err != nil {
				return err
			}
			return runUniform(cmd.Context(), env)
		},
	}
}

func newDiscreteCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "discrete",
		Short: "Sample Bernoulli, binomial, geometric and Poisson variates and compare moments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, out)
			if err != nil {
				return err
			}
			return runDiscrete(cmd.Context(), env)
		},
	}
}

func newAllCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run the uniform lab followed by the discrete lab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, out)
			if err != nil {
				return err
			}
			if err := runUniform(cmd.Context(), env); err != nil {
				return err
			}
			return runDiscrete(cmd.Context(), env)
		},
	}
}

// labEnv carries what every lab command needs
type labEnv struct {
	cfg      *config.Config
	logger   *internal.Logger
	reporter *report.Console
}

func setup(cmd *cobra.Command, out io.Writer) (*labEnv, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)).With("command", cmd.Name())
	return &labEnv{
		cfg:      cfg,
		logger:   logger,
		reporter: report.NewConsole(out),
	}, nil
}
