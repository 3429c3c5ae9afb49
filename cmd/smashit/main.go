package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lsymds/smashit/internal/config"
	"github.com/lsymds/smashit/internal/dashboard"
	"github.com/lsymds/smashit/internal/expect"
	"github.com/lsymds/smashit/internal/httpclient"
	"github.com/lsymds/smashit/internal/metrics"
	"github.com/lsymds/smashit/internal/output"
	"github.com/lsymds/smashit/internal/runner"
	"github.com/lsymds/smashit/internal/threshold"
	"github.com/lsymds/smashit/internal/tracing"
)

const progressInterval = time.Second

// errThresholdBreached signals a threshold failure; it maps to exit code 1
// like any other error, but the report has already been printed.
var errThresholdBreached = errors.New("one or more thresholds breached")

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, errThresholdBreached) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.NoColor || cfg.JSONOutput {
		output.DisableColor()
	}

	builder, err := httpclient.NewRequestBuilder(cfg)
	if err != nil {
		return err
	}

	expectation, err := expect.Parse(cfg.ExpectJSON)
	if err != nil {
		return err
	}

	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tracer, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = tracer.Shutdown(shutdownCtx)
	}()

	client := httpclient.NewClient(cfg.Timeout)
	collector := metrics.NewCollector()

	requester := &httpRequester{
		client:      client,
		builder:     builder,
		collector:   collector,
		expectation: expectation,
		tracer:      tracer,
	}

	r := runner.New(runner.Options{
		Concurrency:   cfg.Concurrency,
		Count:         cfg.Count,
		RatePerSecond: cfg.Rate,
		Requester:     requester,
	})

	var dash *dashboard.Dashboard
	if cfg.Dashboard {
		dash, err = dashboard.New(collector, dashboard.RunConfig{
			TargetURL:   cfg.TargetURL,
			Method:      cfg.Method,
			Count:       cfg.Count,
			Concurrency: cfg.Concurrency,
			Rate:        cfg.Rate,
			Timeout:     cfg.Timeout,
			ConfigFile:  cfg.ConfigFile,
		}, cancel)
		if err != nil {
			return err
		}
		dash.Start()
	}

	var progress *output.ProgressReporter
	if !cfg.JSONOutput && !cfg.Dashboard {
		progress = output.NewProgressReporter(collector, progressInterval, os.Stdout)
		progress.Start()
	}

	// Mark the actual start time in the collector so throughput excludes
	// setup time spent above.
	collector.Start()
	result := r.Run(ctx)

	if progress != nil {
		progress.Stop()
	}
	if dash != nil {
		dash.Stop()
	}

	summary := metrics.Summarize(result.Outcomes, result.Duration)

	if cfg.JSONOutput {
		if err := output.PrintJSONReport(os.Stdout, summary); err != nil {
			return err
		}
	} else {
		output.PrintReport(os.Stdout, summary)
	}

	if len(thresholds) > 0 {
		results := threshold.NewEvaluator(thresholds).Evaluate(summary)
		if !cfg.JSONOutput {
			output.PrintThresholds(os.Stdout, results)
		}
		if !threshold.AllPassed(results) {
			return errThresholdBreached
		}
	}

	return nil
}
