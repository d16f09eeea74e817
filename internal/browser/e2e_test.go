package browser_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cloud-ru/emi-oracle-go/internal/browser"
	"github.com/cloud-ru/emi-oracle-go/internal/calculations"
	"github.com/cloud-ru/emi-oracle-go/internal/check"
	"github.com/cloud-ru/emi-oracle-go/internal/config"
	"github.com/cloud-ru/emi-oracle-go/internal/fixtures"
	"github.com/cloud-ru/emi-oracle-go/internal/metrics"
)

// Сценарии против живого калькулятора. Запуск: EMI_E2E=1 go test ./internal/browser/
func newHomePage(t *testing.T) (*browser.HomePage, *config.Config, *check.Checker) {
	t.Helper()
	if os.Getenv("EMI_E2E") != "1" {
		t.Skip("set EMI_E2E=1 to run browser scenarios")
	}

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	cfg.Headless = true

	log := zaptest.NewLogger(t)
	m := metrics.New()

	session, err := browser.NewSession(cfg, log, m)
	if err != nil {
		t.Skipf("playwright is not available: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })

	home, err := session.NewHomePage()
	require.NoError(t, err)
	t.Cleanup(func() { _ = home.Close() })
	require.NoError(t, home.Navigate())

	return home, cfg, check.NewChecker(cfg, log, m, nil)
}

func TestE2E_Smoke(t *testing.T) {
	home, cfg, checker := newHomePage(t)

	require.NoError(t, home.VerifyPageLoaded())
	assert.True(t, home.VerifyCalculatorSectionPresent())

	perf, err := checker.CheckPerformance(context.Background(), home)
	require.NoError(t, err)
	assert.LessOrEqual(t, perf.Metrics.DOMReadyTime, cfg.Timeout)

	report, err := checker.Run(context.Background(), "smoke", home, fixtures.ValidCases()[0])
	require.NoError(t, err)
	assert.True(t, report.Passed, "%+v", report)
	assert.True(t, home.IsChartVisible())
}

func TestE2E_DataDriven(t *testing.T) {
	home, _, checker := newHomePage(t)

	cases := append(fixtures.ValidCases(), fixtures.DecimalRateCases()...)
	for _, report := range checker.RunAll(context.Background(), "regression", home, cases) {
		assert.True(t, report.Passed, "%s: %+v", report.Name, report)
		require.NoError(t, home.ClearAllInputs())
	}
}

func TestE2E_Sweep(t *testing.T) {
	home, _, _ := newHomePage(t)

	for _, tc := range fixtures.Sweep() {
		terms, err := tc.Terms()
		require.NoError(t, err)

		obs, err := home.Observe(context.Background(), terms)
		require.NoError(t, err, terms.String())
		assert.Positive(t, obs.EMI, terms.String())
	}
}

func TestE2E_Negative(t *testing.T) {
	home, _, _ := newHomePage(t)

	for _, tc := range fixtures.NegativeCases() {
		if _, err := tc.Terms(); err == nil {
			continue
		}
		// страница не должна падать на недопустимых значениях
		_ = home.EnterPrincipal(tc.Principal)
		_ = home.EnterRate(tc.Rate)
		home.ClickCalculate()
		assert.NotEmpty(t, home.URL(), tc.Name)
	}

	require.NoError(t, home.EnterPrincipalText("abc@123"))
	home.HasValidationErrors()
	assert.NotEmpty(t, home.URL())
}

func TestE2E_DynamicUpdate(t *testing.T) {
	home, cfg, _ := newHomePage(t)
	comparator := calculations.NewComparator(nil)

	first, err := calculations.NewLoanTerms(1_000_000, 8.5, 120)
	require.NoError(t, err)
	obs, err := home.Observe(context.Background(), first)
	require.NoError(t, err)

	second := first
	second.AnnualRatePercent = 10
	require.NoError(t, home.EnterRate(second.AnnualRatePercent))
	home.ClickCalculate()

	updated, err := home.EMIResult()
	require.NoError(t, err)
	assert.Greater(t, updated, obs.EMI)

	expected, err := calculations.CalculateEMI(second.Principal, second.AnnualRatePercent, second.TenureMonths)
	require.NoError(t, err)
	res, err := comparator.ValidateEMI(updated, expected, cfg.TolerancePercent)
	require.NoError(t, err)
	assert.True(t, res.IsValid)
}
