package service

import (
	"context"
	"errors"
	"time"

	"github.com/Totarae/URLProbe/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoURLs возвращается, если в запросе нет ни одного URL.
var ErrNoURLs = errors.New("no URL or file provided")

// TimestampLayout формат поля processed_at.
const TimestampLayout = "2006-01-02 15:04:05"

// Runner выполняет пакет проверок.
type Runner interface {
	Run(ctx context.Context, urls []string, maxConcurrency int) (*model.BatchResult, error)
}

// CheckService собирает отчёт по пакету URL.
type CheckService struct {
	Runner         Runner
	Logger         *zap.Logger
	MaxConcurrency int

	now   func() time.Time
	newID func() string
}

// NewCheckService создаёт CheckService.
func NewCheckService(runner Runner, logger *zap.Logger, maxConcurrency int) *CheckService {
	return &CheckService{
		Runner:         runner,
		Logger:         logger,
		MaxConcurrency: maxConcurrency,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// Check проверяет urls и возвращает отчёт. Пустой список отклоняется до запуска пакета.
func (s *CheckService) Check(ctx context.Context, urls []string) (*model.Report, error) {
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}

	batchID := s.newID()
	s.Logger.Info("checking batch", zap.String("batch_id", batchID), zap.Int("urls", len(urls)))

	res, err := s.Runner.Run(ctx, urls, s.MaxConcurrency)
	if err != nil {
		s.Logger.Error("batch failed", zap.String("batch_id", batchID), zap.Error(err))
		return nil, err
	}

	return &model.Report{
		Message:        "URLs processed successfully",
		BatchID:        batchID,
		ProcessedAt:    s.now().Format(TimestampLayout),
		Results:        res.Results,
		Summary:        res.Summary.ByStatusCode,
		CategoryCounts: res.Summary.CategoryCounts,
	}, nil
}
