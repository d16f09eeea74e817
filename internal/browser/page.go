package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/cloud-ru/emi-oracle-go/internal/config"
	"github.com/cloud-ru/emi-oracle-go/internal/logger"
	"github.com/cloud-ru/emi-oracle-go/internal/metrics"
)

const (
	elementTimeout = 10 * time.Second
	visibleProbe   = 5 * time.Second
)

// PageLoadMetrics - тайминги из performance.timing
type PageLoadMetrics struct {
	LoadTime     time.Duration `json:"load_time"`
	DOMReadyTime time.Duration `json:"dom_ready_time"`
	ResponseTime time.Duration `json:"response_time"`
}

// BasePage содержит общие действия со страницей
type BasePage struct {
	Page    playwright.Page
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
}

func newBasePage(page playwright.Page, cfg *config.Config, log *zap.Logger, m *metrics.Metrics, component string) BasePage {
	return BasePage{
		Page:    page,
		cfg:     cfg,
		log:     logger.Named(log, component),
		metrics: m,
	}
}

// Goto открывает путь относительно BaseURL и ждет загрузки
func (p *BasePage) Goto(path string) error {
	_, err := p.Page.Goto(path, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	p.track("goto", err)
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", path, err)
	}
	if err := p.WaitForPageLoad(); err != nil {
		return err
	}
	logger.Step(p.log, "Navigated to "+path)
	return nil
}

// WaitForPageLoad ждет DOMContentLoaded, затем отсутствия сетевой активности
func (p *BasePage) WaitForPageLoad() error {
	timeout := playwright.Float(float64(p.cfg.Timeout.Milliseconds()))
	for _, state := range []*playwright.LoadState{playwright.LoadStateDomcontentloaded, playwright.LoadStateNetworkidle} {
		if err := p.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{State: state, Timeout: timeout}); err != nil {
			p.log.Error("Page load timeout", zap.Error(err))
			return fmt.Errorf("wait for load state %s: %w", *state, err)
		}
	}
	logger.Step(p.log, "Page loaded successfully")
	return nil
}

// Title возвращает заголовок страницы
func (p *BasePage) Title() (string, error) {
	return p.Page.Title()
}

// URL возвращает текущий адрес
func (p *BasePage) URL() string {
	return p.Page.URL()
}

// WaitVisible ждет появления первого элемента по селектору
func (p *BasePage) WaitVisible(selector string, timeout time.Duration) (playwright.Locator, error) {
	loc := p.Page.Locator(selector).First()
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("wait for %s: %w", selector, err)
	}
	return loc, nil
}

// Click кликает по первому видимому элементу
func (p *BasePage) Click(selector string) error {
	loc, err := p.WaitVisible(selector, elementTimeout)
	if err == nil {
		err = loc.Click()
	}
	p.track("click", err)
	if err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	logger.Step(p.log, "Clicked element: "+selector)
	return nil
}

// Fill очищает поле и вводит значение
func (p *BasePage) Fill(selector, value string) error {
	loc, err := p.WaitVisible(selector, elementTimeout)
	if err == nil {
		err = loc.Click()
	}
	if err == nil {
		err = loc.Clear()
	}
	if err == nil {
		err = loc.Fill(value)
	}
	p.track("fill", err)
	if err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	logger.Step(p.log, fmt.Sprintf("Filled input %s with value: %s", selector, value))
	return nil
}

// Text возвращает текст первого видимого элемента без пробелов по краям
func (p *BasePage) Text(selector string) (string, error) {
	loc, err := p.WaitVisible(selector, elementTimeout)
	if err != nil {
		return "", err
	}
	text, err := loc.TextContent()
	if err != nil {
		return "", fmt.Errorf("read text of %s: %w", selector, err)
	}
	return strings.TrimSpace(text), nil
}

// IsVisible проверяет видимость элемента, ожидая его не дольше 5 секунд
func (p *BasePage) IsVisible(selector string) bool {
	_, err := p.WaitVisible(selector, visibleProbe)
	return err == nil
}

// Screenshot сохраняет снимок всей страницы и возвращает путь к файлу
func (p *BasePage) Screenshot(name string) (string, error) {
	if err := os.MkdirAll(p.cfg.ScreenshotDir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	path := filepath.Join(p.cfg.ScreenshotDir, fmt.Sprintf("%s_%s.png", name, timestamp(time.Now())))
	_, err := p.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	p.track("screenshot", err)
	if err != nil {
		return "", fmt.Errorf("take screenshot: %w", err)
	}
	p.log.Info("Screenshot taken", zap.String("path", path))
	return path, nil
}

// ScrollTo прокручивает страницу к элементу
func (p *BasePage) ScrollTo(selector string) error {
	return p.Page.Locator(selector).First().ScrollIntoViewIfNeeded()
}

// Reload перезагружает страницу
func (p *BasePage) Reload() error {
	if _, err := p.Page.Reload(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return p.WaitForPageLoad()
}

// GoBack возвращается на предыдущую страницу истории
func (p *BasePage) GoBack() error {
	if _, err := p.Page.GoBack(); err != nil {
		return fmt.Errorf("go back: %w", err)
	}
	return p.WaitForPageLoad()
}

// MetaTag возвращает content мета-тега по имени
func (p *BasePage) MetaTag(name string) (string, error) {
	return p.Page.Locator(fmt.Sprintf(`meta[name="%s"]`, name)).First().GetAttribute("content")
}

// LoadMetrics читает тайминги загрузки страницы
func (p *BasePage) LoadMetrics() (PageLoadMetrics, error) {
	raw, err := p.Page.Evaluate(`() => {
		const t = performance.timing;
		return {
			loadTime: t.loadEventEnd - t.navigationStart,
			domReadyTime: t.domContentLoadedEventEnd - t.navigationStart,
			responseTime: t.responseEnd - t.requestStart,
		};
	}`)
	if err != nil {
		return PageLoadMetrics{}, fmt.Errorf("read performance timing: %w", err)
	}
	values, ok := raw.(map[string]interface{})
	if !ok {
		return PageLoadMetrics{}, fmt.Errorf("unexpected performance timing %T", raw)
	}
	return PageLoadMetrics{
		LoadTime:     millis(values["loadTime"]),
		DOMReadyTime: millis(values["domReadyTime"]),
		ResponseTime: millis(values["responseTime"]),
	}, nil
}

// Sleep ждет фиксированное время; калькулятор пересчитывает результат с задержкой
func (p *BasePage) Sleep(d time.Duration) {
	p.Page.WaitForTimeout(float64(d.Milliseconds()))
}

func (p *BasePage) track(action string, err error) {
	if p.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	p.metrics.BrowserActions.WithLabelValues(action, status).Inc()
}

func timestamp(t time.Time) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(t.UTC().Format("2006-01-02T15:04:05.000Z"))
}

func millis(v interface{}) time.Duration {
	switch n := v.(type) {
	case int:
		return time.Duration(n) * time.Millisecond
	case int64:
		return time.Duration(n) * time.Millisecond
	case float64:
		return time.Duration(n * float64(time.Millisecond))
	default:
		return 0
	}
}
