// Package check сверяет значения калькулятора на странице с расчетом оракула.
package check

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/cloud-ru/emi-oracle-go/internal/browser"
	"github.com/cloud-ru/emi-oracle-go/internal/calculations"
	"github.com/cloud-ru/emi-oracle-go/internal/config"
	"github.com/cloud-ru/emi-oracle-go/internal/fixtures"
	"github.com/cloud-ru/emi-oracle-go/internal/logger"
	"github.com/cloud-ru/emi-oracle-go/internal/metrics"
	"github.com/cloud-ru/emi-oracle-go/internal/validators"
)

// ErrOutOfRange - параметры кредита вне допустимых диапазонов
var ErrOutOfRange = errors.New("loan parameters out of range")

const operation = "emi_check"

// Observer вводит параметры кредита и читает результат калькулятора
type Observer interface {
	Observe(ctx context.Context, terms calculations.LoanTerms) (browser.Observation, error)
}

// LoadTimer отдает тайминги загрузки страницы
type LoadTimer interface {
	LoadMetrics() (browser.PageLoadMetrics, error)
}

type screenshotter interface {
	Screenshot(name string) (string, error)
}

// Report - результат одной проверки
type Report struct {
	ID          string                        `json:"id"`
	Suite       string                        `json:"suite"`
	Name        string                        `json:"name"`
	Terms       calculations.LoanTerms        `json:"terms"`
	Expected    calculations.EMIResult        `json:"expected"`
	Observed    browser.Observation           `json:"observed"`
	EMI         calculations.ValidationResult `json:"emi"`
	TotalOK     bool                          `json:"total_ok"`
	InterestOK  bool                          `json:"interest_ok"`
	Skipped     []string                      `json:"skipped,omitempty"`
	RangeErrors []string                      `json:"range_errors,omitempty"`
	Error       string                        `json:"error,omitempty"`
	Screenshot  string                        `json:"screenshot,omitempty"`
	Duration    time.Duration                 `json:"duration"`
	Passed      bool                          `json:"passed"`
}

// PerformanceReport - тайминги загрузки и их сравнение с порогами
type PerformanceReport struct {
	Metrics    browser.PageLoadMetrics `json:"metrics"`
	LoadOK     bool                    `json:"load_ok"`
	ResponseOK bool                    `json:"response_ok"`
	Passed     bool                    `json:"passed"`
}

// Checker выполняет проверки и пишет метрики и спаны
type Checker struct {
	cfg        *config.Config
	log        *zap.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	comparator *calculations.Comparator
}

// NewChecker создает Checker. nil tracer заменяется на no-op.
func NewChecker(cfg *config.Config, log *zap.Logger, m *metrics.Metrics, tracer trace.Tracer) *Checker {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	log = logger.Named(log, "Checker")
	return &Checker{
		cfg:        cfg,
		log:        log,
		metrics:    m,
		tracer:     tracer,
		comparator: calculations.NewComparator(log),
	}
}

// Run проверяет один набор параметров: диапазоны, расчет оракула, значения на странице.
// Ошибка возвращается, если проверку не удалось довести до сравнения.
func (c *Checker) Run(ctx context.Context, suite string, obs Observer, tc fixtures.Case) (report Report, err error) {
	ctx, span := c.tracer.Start(ctx, operation)
	defer span.End()

	start := time.Now()
	defer func() {
		report.Duration = time.Since(start)
		c.metrics.CheckDuration.Observe(report.Duration.Seconds())
	}()

	id := uuid.New().String()
	span.SetAttributes(
		attribute.String("correlation_id", id),
		attribute.String("suite", suite),
		attribute.String("case", tc.Name),
		attribute.Float64("principal", tc.Principal),
		attribute.Float64("annual_rate_percent", tc.Rate),
		attribute.Int("tenure_months", tc.Tenure),
	)
	log := c.log.With(
		zap.String("correlation_id", id),
		zap.String("suite", suite),
		zap.String("case", tc.Name),
	)
	report = Report{ID: id, Suite: suite, Name: tc.Name}

	// Валидация
	ranges := validators.ValidateInputRanges(tc.Principal, tc.Rate, tc.Tenure, validators.WithBounds(c.cfg.Bounds()))
	if !ranges.IsValid {
		report.RangeErrors = ranges.Errors
		c.fail(span, suite, "validation_error", "validation")
		return report, fmt.Errorf("%w: %s", ErrOutOfRange, strings.Join(ranges.Errors, "; "))
	}

	// Расчет
	terms, err := tc.Terms()
	if err != nil {
		c.fail(span, suite, "calculation_error", "calculation")
		return report, err
	}
	report.Terms = terms

	expected, err := calculations.Calculate(terms)
	if err != nil {
		c.fail(span, suite, "calculation_error", "calculation")
		return report, err
	}
	report.Expected = expected
	span.SetAttributes(
		attribute.Float64("expected_emi", expected.EMI),
		attribute.Float64("expected_total", expected.TotalAmount),
	)

	// Значения со страницы
	observed, err := obs.Observe(ctx, terms)
	if err != nil {
		report.Error = err.Error()
		report.Screenshot = c.screenshot(obs, tc.Name, log)
		c.fail(span, suite, "observe_error", "observe")
		log.Error("Failed to read calculator result", zap.Error(err))
		return report, fmt.Errorf("observe %s: %w", terms, err)
	}
	report.Observed = observed
	span.SetAttributes(attribute.Float64("observed_emi", observed.EMI))

	if err := c.compare(&report); err != nil {
		report.Error = err.Error()
		c.fail(span, suite, "comparison_error", "comparison")
		return report, err
	}

	report.Passed = report.EMI.IsValid && report.TotalOK && report.InterestOK
	span.SetAttributes(attribute.Bool("success", report.Passed))

	if report.Passed {
		c.metrics.Checks.WithLabelValues(suite, "passed").Inc()
		logger.Step(log, fmt.Sprintf("Check passed for %s", terms))
	} else {
		c.metrics.Checks.WithLabelValues(suite, "failed").Inc()
		span.SetStatus(codes.Error, "calculator disagrees with oracle")
		report.Screenshot = c.screenshot(obs, tc.Name, log)
		log.Warn("Check failed",
			zap.Stringer("terms", terms),
			zap.Float64("expected_emi", expected.EMI),
			zap.Float64("observed_emi", observed.EMI),
			zap.Bool("total_ok", report.TotalOK),
			zap.Bool("interest_ok", report.InterestOK),
		)
	}
	return report, nil
}

// compare сравнивает платеж всегда, итоги - только если страница их показала
func (c *Checker) compare(report *Report) error {
	tol := c.cfg.TolerancePercent
	expected, observed := report.Expected, report.Observed

	var err error
	report.EMI, err = c.comparator.ValidateEMI(observed.EMI, expected.EMI, tol)
	if err != nil {
		return err
	}
	c.count("emi", report.EMI.IsValid)

	report.TotalOK = true
	if observed.TotalAmount > 0 {
		if report.TotalOK, err = c.comparator.ValidateTotalAmount(observed.TotalAmount, expected.TotalAmount, tol); err != nil {
			return err
		}
		c.count("total_amount", report.TotalOK)
	} else {
		report.Skipped = append(report.Skipped, "total_amount")
	}

	report.InterestOK = true
	switch {
	case observed.TotalInterest <= 0:
		report.Skipped = append(report.Skipped, "total_interest")
	case expected.TotalInterest == 0:
		// процентное отклонение от нуля не определено
		report.InterestOK = false
		c.count("total_interest", false)
	default:
		if report.InterestOK, err = c.comparator.ValidateInterest(observed.TotalInterest, expected.TotalInterest, tol); err != nil {
			return err
		}
		c.count("total_interest", report.InterestOK)
	}
	return nil
}

// RunAll выполняет проверки по очереди. Ошибка одной проверки не останавливает остальные.
func (c *Checker) RunAll(ctx context.Context, suite string, obs Observer, cases []fixtures.Case) []Report {
	reports := make([]Report, 0, len(cases))
	for _, tc := range cases {
		if ctx.Err() != nil {
			c.log.Warn("Run interrupted", zap.String("suite", suite), zap.Int("remaining", len(cases)-len(reports)))
			break
		}
		report, err := c.Run(ctx, suite, obs, tc)
		if err != nil {
			c.log.Error("Check error", zap.String("suite", suite), zap.String("case", tc.Name), zap.Error(err))
			if report.Error == "" {
				report.Error = err.Error()
			}
		}
		reports = append(reports, report)
	}
	return reports
}

// Reject проверяет, что недопустимые параметры отклоняются без обращения к странице
func (c *Checker) Reject(ctx context.Context, suite string, tc fixtures.Case) Report {
	_, span := c.tracer.Start(ctx, "emi_reject")
	defer span.End()

	report := Report{ID: uuid.New().String(), Suite: suite, Name: tc.Name}
	ranges := validators.ValidateInputRanges(tc.Principal, tc.Rate, tc.Tenure, validators.WithBounds(c.cfg.Bounds()))
	report.RangeErrors = ranges.Errors
	report.Passed = !ranges.IsValid

	span.SetAttributes(
		attribute.String("case", tc.Name),
		attribute.Bool("rejected", report.Passed),
	)

	status := "passed"
	if !report.Passed {
		status = "failed"
		c.log.Warn("Invalid parameters were accepted", zap.String("case", tc.Name))
	}
	c.metrics.Checks.WithLabelValues(suite, status).Inc()
	return report
}

// CheckPerformance сравнивает тайминги загрузки с MaxLoadTime и MaxResponseTime
func (c *Checker) CheckPerformance(ctx context.Context, src LoadTimer) (PerformanceReport, error) {
	_, span := c.tracer.Start(ctx, "page_performance")
	defer span.End()

	m, err := src.LoadMetrics()
	if err != nil {
		c.fail(span, "performance", "metrics_error", "performance")
		return PerformanceReport{}, err
	}

	report := PerformanceReport{
		Metrics:    m,
		LoadOK:     m.LoadTime <= c.cfg.MaxLoadTime,
		ResponseOK: m.ResponseTime <= c.cfg.MaxResponseTime,
	}
	report.Passed = report.LoadOK && report.ResponseOK

	span.SetAttributes(
		attribute.Int64("load_time_ms", m.LoadTime.Milliseconds()),
		attribute.Int64("response_time_ms", m.ResponseTime.Milliseconds()),
		attribute.Bool("success", report.Passed),
	)

	status := "passed"
	if !report.Passed {
		status = "failed"
	}
	c.metrics.Checks.WithLabelValues("performance", status).Inc()
	c.log.Info("Page performance",
		zap.Duration("load_time", m.LoadTime),
		zap.Duration("dom_ready_time", m.DOMReadyTime),
		zap.Duration("response_time", m.ResponseTime),
		zap.Bool("passed", report.Passed),
	)
	return report, nil
}

func (c *Checker) fail(span trace.Span, suite, status, errorType string) {
	span.SetAttributes(attribute.String("error", status))
	span.SetStatus(codes.Error, status)
	c.metrics.Checks.WithLabelValues(suite, status).Inc()
	c.metrics.CalculationErrors.WithLabelValues(operation, errorType).Inc()
}

func (c *Checker) count(field string, ok bool) {
	result := "match"
	if !ok {
		result = "mismatch"
	}
	c.metrics.Comparisons.WithLabelValues(field, result).Inc()
}

func (c *Checker) screenshot(obs Observer, name string, log *zap.Logger) string {
	if !c.cfg.ScreenshotOnFailure {
		return ""
	}
	s, ok := obs.(screenshotter)
	if !ok {
		return ""
	}
	path, err := s.Screenshot(strings.ReplaceAll(name, " ", "_"))
	if err != nil {
		log.Warn("Could not take screenshot", zap.Error(err))
		return ""
	}
	return path
}
