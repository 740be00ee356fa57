// Package batch выполняет пакетную проверку URL с ограничением параллелизма.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/Totarae/URLProbe/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrency число одновременных проверок по умолчанию.
const DefaultMaxConcurrency = 70

// Prober проверяет один URL и всегда возвращает классифицированный результат.
type Prober interface {
	Probe(ctx context.Context, url string) model.ProbeResult
}

// State стадия выполнения пакета.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Runner раздаёт проверки пулу горутин и собирает результаты.
type Runner struct {
	prober Prober
	logger *zap.Logger
}

// NewRunner создаёт Runner.
func NewRunner(p Prober, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{prober: p, logger: logger}
}

// Run проверяет urls, одновременно выполняя не больше maxConcurrency проверок.
// Результаты возвращаются в порядке urls. Ошибка возможна только при отмене ctx
// до того, как все проверки завершились; частичные результаты в этом случае
// не возвращаются. Отмена после завершения последней проверки пакет не портит.
func (r *Runner) Run(ctx context.Context, urls []string, maxConcurrency int) (*model.BatchResult, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}

	start := time.Now()
	r.logger.Info("batch state",
		zap.String("state", string(StateRunning)),
		zap.Int("urls", len(urls)),
		zap.Int("max_concurrency", maxConcurrency),
	)

	results := make([]model.ProbeResult, len(urls))

	var g errgroup.Group
	g.SetLimit(maxConcurrency)

	var dispatchErr error
	for i, url := range urls {
		if dispatchErr = ctx.Err(); dispatchErr != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := r.prober.Probe(ctx, url)
			// Отмена, пришедшая после получения ответа, результат не портит.
			if res.Category == model.CategoryError {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			results[i] = res
			return nil
		})
	}

	err := g.Wait()
	if dispatchErr != nil {
		err = dispatchErr
	}
	if err != nil {
		r.logger.Warn("batch state",
			zap.String("state", string(StateFailed)),
			zap.Int("urls", len(urls)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}

	summary := Summarize(results)
	r.logger.Info("batch state",
		zap.String("state", string(StateCompleted)),
		zap.Int("urls", len(urls)),
		zap.Duration("duration", time.Since(start)),
	)

	return &model.BatchResult{Results: results, Summary: summary}, nil
}
