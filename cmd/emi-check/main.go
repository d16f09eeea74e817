package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cloud-ru/emi-oracle-go/internal/browser"
	"github.com/cloud-ru/emi-oracle-go/internal/calculations"
	"github.com/cloud-ru/emi-oracle-go/internal/check"
	"github.com/cloud-ru/emi-oracle-go/internal/config"
	"github.com/cloud-ru/emi-oracle-go/internal/fixtures"
	"github.com/cloud-ru/emi-oracle-go/internal/logger"
	"github.com/cloud-ru/emi-oracle-go/internal/metrics"
	"github.com/cloud-ru/emi-oracle-go/internal/tracing"
)

type options struct {
	principal float64
	rate      float64
	tenure    int
	all       bool
	schedule  bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("emi-check", flag.ContinueOnError)
	fs.Float64Var(&opts.principal, "principal", 1_000_000, "Loan principal")
	fs.Float64Var(&opts.rate, "rate", 8.5, "Annual interest rate, percent")
	fs.IntVar(&opts.tenure, "tenure", 120, "Tenure in months")
	fs.BoolVar(&opts.all, "all", false, "Run every fixture suite against the calculator")
	fs.BoolVar(&opts.schedule, "schedule", false, "Print the amortization schedule and exit, no browser")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	if opts.schedule {
		if err := printSchedule(opts); err != nil {
			log.Fatal("Failed to build schedule", zap.Error(err))
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ok, err := run(ctx, cfg, log, opts)
	if err != nil {
		log.Error("Run failed", zap.Error(err))
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

func printSchedule(opts options) error {
	terms, err := calculations.NewLoanTerms(opts.principal, opts.rate, opts.tenure)
	if err != nil {
		return err
	}
	result, err := calculations.Calculate(terms)
	if err != nil {
		return err
	}
	schedule, err := terms.Schedule()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Terms    calculations.LoanTerms           `json:"terms"`
		Result   calculations.EMIResult           `json:"result"`
		Schedule []calculations.AmortizationEntry `json:"schedule"`
	}{terms, result, schedule})
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, opts options) (bool, error) {
	tp, err := tracing.InitTracing(ctx, cfg.OTELServiceName, cfg.OTELEndpoint, log)
	if err != nil {
		return false, err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	m := metrics.New()
	checker := check.NewChecker(cfg, log, m, tp.Tracer())

	session, err := browser.NewSession(cfg, log, m)
	if err != nil {
		return false, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("Browser close failed", zap.Error(err))
		}
	}()

	openPage := func(context.Context) (check.Observer, error) {
		home, err := session.NewHomePage()
		if err != nil {
			return nil, err
		}
		if err := home.Navigate(); err != nil {
			_ = home.Close()
			return nil, err
		}
		return home, nil
	}

	var reports []check.Report
	if opts.all {
		suites := []check.Suite{
			{Name: "smoke", Cases: fixtures.ValidCases()},
			{Name: "edge", Cases: fixtures.EdgeCases()},
			{Name: "decimal", Cases: fixtures.DecimalRateCases()},
			{Name: "sweep", Cases: fixtures.Sweep()},
		}
		reports = checker.RunSuites(ctx, openPage, suites)
		for _, tc := range fixtures.NegativeCases() {
			reports = append(reports, checker.Reject(ctx, "negative", tc))
		}
	} else {
		tc := fixtures.Case{Name: "cli", Principal: opts.principal, Rate: opts.rate, Tenure: opts.tenure}
		reports = checker.RunSuites(ctx, openPage, []check.Suite{{Name: "cli", Cases: []fixtures.Case{tc}}})
	}

	summary := check.Summarize(reports)
	if perf, err := measurePerformance(ctx, session, checker); err != nil {
		log.Warn("Could not read page timings", zap.Error(err))
	} else {
		summary.Performance = &perf
	}

	var errs []error
	if err := check.WriteReport(cfg.ReportFile, summary); err != nil {
		errs = append(errs, err)
	} else {
		log.Info("Report written", zap.String("path", cfg.ReportFile))
	}
	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			errs = append(errs, err)
		}
	}

	log.Info("Run finished",
		zap.Int("total", summary.Total),
		zap.Int("passed", summary.Passed),
		zap.Int("failed", summary.Failed),
	)
	return summary.OK(), errors.Join(errs...)
}

func measurePerformance(ctx context.Context, session *browser.Session, checker *check.Checker) (check.PerformanceReport, error) {
	home, err := session.NewHomePage()
	if err != nil {
		return check.PerformanceReport{}, err
	}
	defer func() { _ = home.Close() }()

	if err := home.Navigate(); err != nil {
		return check.PerformanceReport{}, err
	}
	return checker.CheckPerformance(ctx, home)
}
