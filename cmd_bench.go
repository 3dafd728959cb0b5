package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"svsim/internal/bench"
	"svsim/internal/logging"
	"svsim/internal/quantum"
)

// UI modes for the bench command.
const (
	uiAuto  = "auto"
	uiTUI   = "tui"
	uiPlain = "plain"
)

var (
	benchUI string

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Time the standard circuit across a range of qubit counts",
		Long: `Bench runs X(0), H(0), CNOT(0, 1) on |0...0> for every register width in
[--min, --max], averaging --repeats runs each, and appends
"<qubits> <seconds>" lines to the output file. Results can also be written
to InfluxDB and exposed as Prometheus metrics.`,
		Args: cobra.NoArgs,
		RunE: runBench,
	}
)

func init() {
	f := benchCmd.Flags()
	f.Int("min", 0, "smallest register width")
	f.Int("max", 0, "largest register width")
	f.Int("repeats", 0, "runs averaged per width")
	f.StringP("out", "o", "", `output file ("-" for stdout, "" to disable)`)
	f.String("metrics-addr", "", "serve Prometheus metrics on this address")
	f.String("influx-url", "", "InfluxDB URL")
	f.String("influx-org", "", "InfluxDB organization")
	f.String("influx-bucket", "", "InfluxDB bucket")
	f.StringVar(&benchUI, "ui", uiAuto, "progress display: auto, tui or plain")
}

// applyBenchFlags overlays explicitly set flags on the loaded config.
func applyBenchFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	b := &cfg.Bench
	ints := map[string]*int{"min": &b.MinQubits, "max": &b.MaxQubits, "repeats": &b.Repeats}
	for name, dst := range ints {
		if f.Changed(name) {
			v, err := f.GetInt(name)
			if err != nil {
				return err
			}
			*dst = v
		}
	}
	strs := map[string]*string{
		"out":           &b.OutputFile,
		"metrics-addr":  &b.MetricsAddr,
		"influx-url":    &b.Influx.URL,
		"influx-org":    &b.Influx.Org,
		"influx-bucket": &b.Influx.Bucket,
	}
	for name, dst := range strs {
		if f.Changed(name) {
			v, err := f.GetString(name)
			if err != nil {
				return err
			}
			*dst = v
		}
	}
	switch benchUI {
	case uiAuto, uiTUI, uiPlain:
	default:
		return fmt.Errorf("%w: --ui %q (want auto, tui or plain)", quantum.ErrInvalidArgument, benchUI)
	}
	return cfg.Validate()
}

func runBench(cmd *cobra.Command, _ []string) error {
	if err := applyBenchFlags(cmd); err != nil {
		return err
	}
	ctx := cmd.Context()

	sink, err := openSinks(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn("closing sinks", "err", err)
		}
	}()

	// The TUI owns the terminal; stdout output and progress logs would tear it.
	tui := useTUI() && cfg.Bench.OutputFile != "-"
	benchLogger := logger
	if tui {
		benchLogger = logging.Discard()
	}
	runner, err := newRunner(benchLogger)
	if err != nil {
		return err
	}
	harness := bench.NewHarness(runner, sink,
		bench.WithLogger(benchLogger),
		bench.WithRepeats(cfg.Bench.Repeats),
	)

	if tui {
		return runBenchTUI(ctx, harness)
	}

	results, err := harness.Sweep(ctx, cfg.Bench.MinQubits, cfg.Bench.MaxQubits)
	if len(results) > 0 && cfg.Bench.OutputFile != "-" {
		fmt.Fprintln(cmd.OutOrStdout(), renderObservations(results))
	}
	return err
}

func useTUI() bool {
	switch benchUI {
	case uiTUI:
		return true
	case uiPlain:
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func runBenchTUI(parent context.Context, harness *bench.Harness) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	m := newBenchModel(ctx, cancel, harness, cfg.Bench.MinQubits, cfg.Bench.MaxQubits)
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if fm, ok := final.(benchModel); ok && fm.err != nil {
		return fm.err
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if fm, ok := final.(benchModel); ok && len(fm.results) > 0 {
		fmt.Println(renderObservations(fm.results))
	}
	return parent.Err()
}

// openSinks assembles every configured destination into one sink.
func openSinks(ctx context.Context) (bench.Sink, error) {
	var sinks bench.MultiSink
	b := cfg.Bench

	switch b.OutputFile {
	case "":
	case "-":
		sinks = append(sinks, bench.NewWriterSink(os.Stdout))
	default:
		fs, err := bench.NewFileSink(b.OutputFile)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fs)
	}

	if b.Influx.Enabled() {
		sinks = append(sinks, bench.NewInfluxSink(bench.InfluxOptions{
			URL:    b.Influx.URL,
			Token:  b.Influx.Token,
			Org:    b.Influx.Org,
			Bucket: b.Influx.Bucket,
		}))
		logger.Info("writing to influxdb", "url", b.Influx.URL, "bucket", b.Influx.Bucket)
	}

	if b.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		sinks = append(sinks, bench.NewPrometheusSink(reg))
		if err := serveMetrics(ctx, b.MetricsAddr, reg); err != nil {
			_ = sinks.Close()
			return nil, err
		}
	}
	return sinks, nil
}

// serveMetrics exposes reg on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())
	return nil
}
