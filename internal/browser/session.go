// Package browser управляет Playwright и описывает страницы калькулятора
// в виде page object.
package browser

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/cloud-ru/emi-oracle-go/internal/config"
	"github.com/cloud-ru/emi-oracle-go/internal/logger"
	"github.com/cloud-ru/emi-oracle-go/internal/metrics"
)

// DesktopViewport - размер окна для десктопных сценариев
var DesktopViewport = playwright.Size{Width: 1920, Height: 1080}

// Session - запущенный Playwright и браузер. Один Session на воркер.
type Session struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics

	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewSession запускает Playwright и браузер из конфигурации
func NewSession(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch cfg.Browser {
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
	}

	b, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch %s: %w", cfg.Browser, err)
	}

	logger.Named(log, "BrowserSession").Info("Browser launched",
		zap.String("browser", cfg.Browser),
		zap.Bool("headless", cfg.Headless),
		zap.String("base_url", cfg.BaseURL),
	)

	return &Session{cfg: cfg, log: log, metrics: m, pw: pw, browser: b}, nil
}

// NewContext создает изолированный контекст с базовым адресом калькулятора
func (s *Session) NewContext(options ...playwright.BrowserNewContextOptions) (playwright.BrowserContext, error) {
	opts := playwright.BrowserNewContextOptions{}
	if len(options) > 0 {
		opts = options[0]
	}
	if opts.BaseURL == nil {
		opts.BaseURL = playwright.String(s.cfg.BaseURL)
	}
	if opts.Viewport == nil {
		vp := DesktopViewport
		opts.Viewport = &vp
	}

	ctx, err := s.browser.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}
	timeout := float64(s.cfg.Timeout.Milliseconds())
	ctx.SetDefaultTimeout(timeout)
	ctx.SetDefaultNavigationTimeout(timeout)
	return ctx, nil
}

// NewHomePage открывает новую вкладку в отдельном контексте.
// HomePage.Close закрывает этот контекст.
func (s *Session) NewHomePage() (*HomePage, error) {
	ctx, err := s.NewContext()
	if err != nil {
		return nil, err
	}
	home, err := s.HomePageIn(ctx)
	if err != nil {
		_ = ctx.Close()
		return nil, err
	}
	home.ownsContext = true
	return home, nil
}

// HomePageIn открывает новую вкладку в существующем контексте.
// HomePage.Close закрывает только вкладку.
func (s *Session) HomePageIn(ctx playwright.BrowserContext) (*HomePage, error) {
	page, err := ctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	return NewHomePage(page, s.cfg, s.log, s.metrics), nil
}

// Close закрывает браузер и останавливает Playwright
func (s *Session) Close() error {
	var errs []error
	if err := s.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	if err := s.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop playwright: %w", err))
	}
	return errors.Join(errs...)
}
