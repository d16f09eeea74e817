package check

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cloud-ru/emi-oracle-go/internal/fixtures"
)

// Suite - именованный набор случаев
type Suite struct {
	Name  string
	Cases []fixtures.Case
}

// ObserverFactory открывает отдельную страницу для воркера.
// Если Observer реализует io.Closer, он закрывается после набора.
type ObserverFactory func(ctx context.Context) (Observer, error)

// RunSuites выполняет наборы параллельно, не больше cfg.Workers одновременно.
// Каждый набор получает свою страницу. Отчеты возвращаются в порядке наборов.
// Если страницу открыть не удалось, набор попадает в отчет как проваленный,
// остальные наборы продолжают работу.
func (c *Checker) RunSuites(ctx context.Context, open ObserverFactory, suites []Suite) []Report {
	results := make([][]Report, len(suites))

	var g errgroup.Group
	g.SetLimit(max(c.cfg.Workers, 1))

	for i, suite := range suites {
		g.Go(func() error {
			log := c.log.With(zap.String("suite", suite.Name))

			obs, err := open(ctx)
			if err != nil {
				log.Error("Could not open page for suite", zap.Error(err))
				results[i] = []Report{c.openFailed(suite.Name, err)}
				return nil
			}
			if closer, ok := obs.(io.Closer); ok {
				defer func() {
					if err := closer.Close(); err != nil {
						log.Warn("Could not close page", zap.Error(err))
					}
				}()
			}

			log.Info("Suite started", zap.Int("cases", len(suite.Cases)))
			results[i] = c.RunAll(ctx, suite.Name, obs, suite.Cases)
			return nil
		})
	}
	_ = g.Wait()

	var reports []Report
	for _, r := range results {
		reports = append(reports, r...)
	}
	return reports
}

func (c *Checker) openFailed(suite string, err error) Report {
	c.metrics.Checks.WithLabelValues(suite, "open_error").Inc()
	c.metrics.CalculationErrors.WithLabelValues(operation, "open").Inc()
	return Report{
		ID:    uuid.New().String(),
		Suite: suite,
		Name:  "open page",
		Error: fmt.Sprintf("open page for suite %s: %v", suite, err),
	}
}
