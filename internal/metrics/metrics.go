package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics содержит счетчики проверок калькулятора
type Metrics struct {
	registry *prometheus.Registry

	// Checks счетчик проверок по типу и статусу
	Checks *prometheus.CounterVec

	// Comparisons счетчик сравнений со значениями оракула
	Comparisons *prometheus.CounterVec

	// CalculationErrors счетчик ошибок расчетов
	CalculationErrors *prometheus.CounterVec

	// BrowserActions счетчик действий на странице
	BrowserActions *prometheus.CounterVec

	// CheckDuration длительность одной проверки
	CheckDuration prometheus.Histogram
}

// New регистрирует счетчики в новом реестре
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Checks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emi_checks_total",
				Help: "Общее количество проверок калькулятора",
			},
			[]string{"suite", "status"},
		),
		Comparisons: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emi_comparisons_total",
				Help: "Сравнения значений страницы с оракулом",
			},
			[]string{"field", "result"},
		),
		CalculationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emi_calculation_errors_total",
				Help: "Количество ошибок расчетов",
			},
			[]string{"operation", "error_type"},
		),
		BrowserActions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emi_browser_actions_total",
				Help: "Действия браузера на странице калькулятора",
			},
			[]string{"action", "status"},
		),
		CheckDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "emi_check_duration_seconds",
				Help:    "Длительность проверки, включая работу браузера",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
			},
		),
	}
}

// Registry возвращает реестр для экспорта
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile сохраняет текущие значения в формате textfile-коллектора
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
