package browser

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/cloud-ru/emi-oracle-go/internal/calculations"
	"github.com/cloud-ru/emi-oracle-go/internal/config"
	"github.com/cloud-ru/emi-oracle-go/internal/logger"
	"github.com/cloud-ru/emi-oracle-go/internal/metrics"
	"github.com/cloud-ru/emi-oracle-go/pkg/utils"
)

// Селекторы калькулятора
const (
	selLogo              = `img[alt*="logo"], .logo, [class*="logo"]`
	selPrincipalInput    = "#input-principal"
	selRateInput         = "#input-annual-rate"
	selTenureYearsInput  = "#input-tenure-years"
	selTenureMonthsInput = "#input-tenure-months"
	selSummary           = "aside"
	selEMILabel          = "aside >> text=/Calculated EMI:?/"
	selRupeeValues       = `aside strong:has-text("₹")`
	selChart             = `canvas, .chart, [class*="chart"]`
	selAmortization      = `table, .amortization-table, [class*="amortization"]`
	selHeader            = "header >> nth=1"
	selFooter            = "footer >> nth=1"
	selValidationError   = `.error, .invalid, [class*="error"]`

	// порядковые номера значений ₹ в блоке итогов
	totalInterestIndex = 7
	totalAmountIndex   = 8

	recalcDelay = time.Second
)

// ErrValueNotFound - на странице нет ожидаемого значения
var ErrValueNotFound = errors.New("value not found on page")

var emiValuePattern = regexp.MustCompile(`₹\s*([\d,]+)`)

// Observation - значения, прочитанные со страницы после расчета
type Observation struct {
	EMI           float64 `json:"emi"`
	TotalInterest float64 `json:"total_interest"`
	TotalAmount   float64 `json:"total_amount"`
}

// HomePage - главная страница с калькулятором EMI
type HomePage struct {
	BasePage

	// контекст создан вместе со страницей и закрывается вместе с ней
	ownsContext bool
}

// NewHomePage оборачивает вкладку в page object калькулятора
func NewHomePage(page playwright.Page, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) *HomePage {
	return &HomePage{BasePage: newBasePage(page, cfg, log, m, "HomePage")}
}

// Close закрывает вкладку, а если контекст создавался для нее, то и контекст
func (h *HomePage) Close() error {
	if h.ownsContext {
		if err := h.Page.Context().Close(); err != nil {
			return fmt.Errorf("close browser context: %w", err)
		}
		return nil
	}
	if err := h.Page.Close(); err != nil {
		return fmt.Errorf("close page: %w", err)
	}
	return nil
}

// Navigate открывает главную страницу
func (h *HomePage) Navigate() error {
	if err := h.Goto("/"); err != nil {
		return err
	}
	logger.Step(h.log, "Navigated to home page")
	return nil
}

// VerifyPageLoaded проверяет, что страница загрузилась и у нее есть заголовок
func (h *HomePage) VerifyPageLoaded() error {
	if err := h.WaitForPageLoad(); err != nil {
		return err
	}
	title, err := h.Title()
	if err != nil {
		return fmt.Errorf("read title: %w", err)
	}
	if title == "" {
		return errors.New("home page has empty title")
	}
	logger.Step(h.log, "Home page loaded successfully", zap.String("title", title))
	return nil
}

// VerifyCalculatorSectionPresent проверяет, что все поля ввода видимы
func (h *HomePage) VerifyCalculatorSectionPresent() bool {
	visible := h.IsVisible(selPrincipalInput) &&
		h.IsVisible(selRateInput) &&
		h.IsVisible(selTenureYearsInput)
	logger.Step(h.log, fmt.Sprintf("Calculator inputs visible: %t", visible))
	return visible
}

// EnterPrincipal вводит сумму кредита
func (h *HomePage) EnterPrincipal(amount float64) error {
	if err := h.EnterPrincipalText(strconv.FormatFloat(amount, 'f', -1, 64)); err != nil {
		return err
	}
	logger.Step(h.log, fmt.Sprintf("Entered principal: %v", amount))
	return nil
}

// EnterPrincipalText вводит сумму как есть, например с символом валюты
func (h *HomePage) EnterPrincipalText(text string) error {
	return h.Fill(selPrincipalInput, text)
}

// EnterRate вводит годовую ставку
func (h *HomePage) EnterRate(rate float64) error {
	if err := h.Fill(selRateInput, strconv.FormatFloat(rate, 'f', -1, 64)); err != nil {
		return err
	}
	logger.Step(h.log, fmt.Sprintf("Entered rate: %v%%", rate))
	return nil
}

// EnterTenure вводит срок в поле лет или месяцев, см. SplitTenure
func (h *HomePage) EnterTenure(months int) error {
	field, value := SplitTenure(months)
	selector := selTenureMonthsInput
	if field == TenureYears {
		selector = selTenureYearsInput
	}

	loc, err := h.WaitVisible(selector, elementTimeout)
	if err == nil {
		err = loc.Fill(strconv.Itoa(value))
	}
	if err == nil {
		err = loc.Blur()
	}
	h.track("fill", err)
	if err != nil {
		return fmt.Errorf("enter tenure: %w", err)
	}
	h.Sleep(recalcDelay)

	logger.Step(h.log, fmt.Sprintf("Entered tenure: %d %s (%d total months)", value, field, months))
	return nil
}

// ClickCalculate ждет автоматического пересчета; отдельной кнопки нет
func (h *HomePage) ClickCalculate() {
	h.Sleep(recalcDelay / 2)
	logger.Step(h.log, "Waiting for auto-calculation")
}

// CalculateEMI вводит параметры кредита и ждет блок итогов
func (h *HomePage) CalculateEMI(terms calculations.LoanTerms) error {
	if err := h.EnterPrincipal(terms.Principal); err != nil {
		return err
	}
	if err := h.EnterRate(terms.AnnualRatePercent); err != nil {
		return err
	}
	if err := h.EnterTenure(terms.TenureMonths); err != nil {
		return err
	}
	h.Sleep(recalcDelay)

	err := h.Page.Locator(selSummary).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(5000),
	})
	if err != nil {
		h.log.Warn("EMI summary not found", zap.Error(err))
	}

	logger.Step(h.log, "EMI calculation completed",
		zap.Float64("principal", terms.Principal),
		zap.Float64("rate", terms.AnnualRatePercent),
		zap.Int("tenure", terms.TenureMonths),
	)
	return nil
}

// EMIResult читает рассчитанный платеж из строки "Calculated EMI: ₹ 12,399"
func (h *HomePage) EMIResult() (float64, error) {
	err := h.Page.Locator(selSummary).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(elementTimeout.Milliseconds())),
	})
	if err != nil {
		h.log.Error("Failed to get EMI result", zap.Error(err))
		return 0, fmt.Errorf("wait for summary: %w", err)
	}

	text, err := h.Page.Locator(selEMILabel).First().TextContent()
	if err != nil {
		h.log.Error("Failed to get EMI result", zap.Error(err))
		return 0, fmt.Errorf("read EMI label: %w", err)
	}

	emi, err := ParseEMILabel(text)
	if err != nil {
		h.log.Error("Failed to get EMI result", zap.Error(err))
		return 0, err
	}
	logger.Step(h.log, fmt.Sprintf("EMI Result retrieved: %v", emi))
	return emi, nil
}

// TotalInterest читает сумму процентов; 0, если значение не найдено
func (h *HomePage) TotalInterest() float64 {
	v, err := h.rupeeValue(totalInterestIndex)
	if err != nil {
		h.log.Warn("Could not retrieve total interest", zap.Error(err))
		return 0
	}
	logger.Step(h.log, fmt.Sprintf("Total Interest: %v", v))
	return v
}

// TotalAmount читает общую сумму выплат; 0, если значение не найдено
func (h *HomePage) TotalAmount() float64 {
	v, err := h.rupeeValue(totalAmountIndex)
	if err != nil {
		h.log.Warn("Could not retrieve total amount", zap.Error(err))
		return 0
	}
	logger.Step(h.log, fmt.Sprintf("Total Amount: %v", v))
	return v
}

func (h *HomePage) rupeeValue(index int) (float64, error) {
	values, err := h.Page.Locator(selRupeeValues).All()
	if err != nil {
		return 0, err
	}
	if len(values) <= index {
		return 0, fmt.Errorf("%w: only %d amounts in summary", ErrValueNotFound, len(values))
	}
	text, err := values[index].TextContent()
	if err != nil {
		return 0, err
	}
	return utils.ParseCurrency(text)
}

// Observe вводит параметры и читает все итоговые значения.
// Чтение платежа повторяется при ошибке, пока страница пересчитывает результат.
func (h *HomePage) Observe(ctx context.Context, terms calculations.LoanTerms) (Observation, error) {
	if err := h.CalculateEMI(terms); err != nil {
		return Observation{}, err
	}

	emi, err := Retry(ctx, h.log, uint(h.cfg.Retries)+1, recalcDelay, h.EMIResult)
	if err != nil {
		return Observation{}, err
	}

	return Observation{
		EMI:           emi,
		TotalInterest: h.TotalInterest(),
		TotalAmount:   h.TotalAmount(),
	}, nil
}

// IsLogoVisible проверяет наличие логотипа
func (h *HomePage) IsLogoVisible() bool {
	return h.IsVisible(selLogo)
}

// IsChartVisible проверяет, что диаграмма отрисована
func (h *HomePage) IsChartVisible() bool {
	visible := h.IsVisible(selChart)
	logger.Step(h.log, fmt.Sprintf("Chart visible: %t", visible))
	return visible
}

// IsAmortizationTableVisible проверяет, что таблица платежей отрисована
func (h *HomePage) IsAmortizationTableVisible() bool {
	visible := h.IsVisible(selAmortization)
	logger.Step(h.log, fmt.Sprintf("Amortization table visible: %t", visible))
	return visible
}

// IsHeaderVisible проверяет наличие шапки страницы
func (h *HomePage) IsHeaderVisible() bool {
	return h.IsVisible(selHeader)
}

// IsFooterVisible проверяет наличие подвала страницы
func (h *HomePage) IsFooterVisible() bool {
	return h.IsVisible(selFooter)
}

// ClearAllInputs очищает все поля калькулятора
func (h *HomePage) ClearAllInputs() error {
	for _, sel := range []string{selPrincipalInput, selRateInput, selTenureYearsInput, selTenureMonthsInput} {
		if err := h.Fill(sel, ""); err != nil {
			return err
		}
	}
	logger.Step(h.log, "Cleared all inputs")
	return nil
}

// InputValues возвращает значения полей: сумма, ставка, срок в месяцах
func (h *HomePage) InputValues() (principal, rate string, tenureMonths int, err error) {
	if principal, err = h.Page.Locator(selPrincipalInput).InputValue(); err != nil {
		return
	}
	if rate, err = h.Page.Locator(selRateInput).InputValue(); err != nil {
		return
	}
	years, err := h.Page.Locator(selTenureYearsInput).InputValue()
	if err != nil {
		return
	}
	months, err := h.Page.Locator(selTenureMonthsInput).InputValue()
	if err != nil {
		return
	}
	y, _ := strconv.Atoi(years)
	m, _ := strconv.Atoi(months)
	return principal, rate, y*12 + m, nil
}

// HasValidationErrors проверяет, показала ли страница ошибки ввода
func (h *HomePage) HasValidationErrors() bool {
	h.ClickCalculate()
	n, err := h.Page.Locator(selValidationError).Count()
	if err != nil {
		return false
	}
	logger.Step(h.log, fmt.Sprintf("Validation errors displayed: %t", n > 0))
	return n > 0
}

// ParseEMILabel извлекает сумму из текста вида "Calculated EMI: ₹ 12,399"
func ParseEMILabel(text string) (float64, error) {
	match := emiValuePattern.FindStringSubmatch(text)
	if match == nil {
		return 0, fmt.Errorf("%w: EMI in %q", ErrValueNotFound, text)
	}
	return utils.ParseCurrency(match[1])
}
