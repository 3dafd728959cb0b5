package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"svsim/internal/config"
	"svsim/internal/logging"
	"svsim/internal/quantum"
)

var (
	configPath   string
	flagLogLevel string
	flagStrategy string
	flagWorkers  int

	// Resolved in PersistentPreRunE from defaults, file, env and flags.
	cfg    config.Config
	logger = log.Default()

	rootCmd = &cobra.Command{
		Use:   "svsim",
		Short: "A real-valued statevector quantum circuit simulator",
		Long: `svsim evolves |0...0> through circuits of X, H, T and CNOT gates over a
dense vector of 2^n real amplitudes, and benchmarks how gate application
scales with the number of qubits.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadSettings,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flagStrategy, "strategy", "", fmt.Sprintf("gate application strategy %v", quantum.StrategyNames))
	pf.IntVar(&flagWorkers, "workers", 0, "worker goroutines for the parallel strategy (0 = GOMAXPROCS)")

	rootCmd.AddCommand(runCmd, circuitCmd, benchCmd, verifyCmd)
}

func loadSettings(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel = flagLogLevel
	}
	if flags.Changed("strategy") {
		c.Strategy = flagStrategy
	}
	if flags.Changed("workers") {
		c.Workers = flagWorkers
	}
	if err := c.Validate(); err != nil {
		return err
	}

	l, err := logging.New(logging.Options{Level: c.LogLevel, Format: c.LogFormat})
	if err != nil {
		return err
	}
	cfg, logger = c, l
	log.SetDefault(logger)
	return nil
}

// newRunner builds a runner on the configured strategy that logs to l.
func newRunner(l *log.Logger) (*quantum.Runner, error) {
	st, err := quantum.ParseStrategy(cfg.Strategy, cfg.Workers)
	if err != nil {
		return nil, err
	}
	engine := quantum.NewEngine(quantum.WithStrategy(st))
	return quantum.NewRunner(engine, quantum.WithLogger(l)), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}
