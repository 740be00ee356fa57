package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Totarae/URLProbe/internal/batch"
	"github.com/Totarae/URLProbe/internal/config"
	grpcv2 "github.com/Totarae/URLProbe/internal/grpc/v2"
	"github.com/Totarae/URLProbe/internal/handlers"
	"github.com/Totarae/URLProbe/internal/prober"
	"github.com/Totarae/URLProbe/internal/router"
	"github.com/Totarae/URLProbe/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.NewConfig()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logger.Fatal("Ошибка конфигурации", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatal("Ошибка при запуске сервера", zap.Error(err))
	}
	if err := a.serve(ctx); err != nil {
		logger.Error("Сервер остановлен с ошибкой", zap.Error(err))
	}
}

// app держит открытые слушатели и серверы обеих границ.
type app struct {
	logger          *zap.Logger
	httpServer      *http.Server
	httpListener    net.Listener
	grpcServer      *grpc.Server
	grpcListener    net.Listener
	shutdownTimeout time.Duration
}

// newApp собирает зависимости и открывает порты. gRPC поднимается,
// только если задан GRPCAddress.
func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	p := prober.New(cfg.ProbeTimeout,
		prober.WithUserAgent(cfg.UserAgent),
		prober.WithLogger(logger),
	)
	checker := service.NewCheckService(batch.NewRunner(p, logger), logger, cfg.MaxConcurrency)
	handler := handlers.NewHandler(checker, logger, cfg.MaxUploadBytes)

	a := &app{
		logger: logger,
		httpServer: &http.Server{
			Handler: router.NewRouter(handler, logger),
		},
		shutdownTimeout: cfg.ProbeTimeout + 5*time.Second,
	}

	lis, err := net.Listen("tcp", cfg.ServerAddress)
	if err != nil {
		return nil, fmt.Errorf("listen http %s: %w", cfg.ServerAddress, err)
	}
	a.httpListener = lis

	if cfg.GRPCAddress != "" {
		glis, err := net.Listen("tcp", cfg.GRPCAddress)
		if err != nil {
			lis.Close()
			return nil, fmt.Errorf("listen grpc %s: %w", cfg.GRPCAddress, err)
		}
		a.grpcListener = glis
		a.grpcServer = grpc.NewServer()
		grpcv2.Register(a.grpcServer, grpcv2.NewGRPCServer(checker))
	}

	logger.Info("Сервер запущен",
		zap.String("address", lis.Addr().String()),
		zap.String("grpc_address", cfg.GRPCAddress),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Duration("probe_timeout", cfg.ProbeTimeout),
	)
	return a, nil
}

// serve обслуживает запросы до отмены ctx или ошибки одного из серверов,
// затем останавливает оба, дожидаясь незавершённых пакетов.
func (a *app) serve(ctx context.Context) error {
	errCh := make(chan error, 2)

	if a.grpcServer != nil {
		go func() {
			if err := a.grpcServer.Serve(a.grpcListener); err != nil {
				errCh <- fmt.Errorf("grpc: %w", err)
			}
		}()
	}
	go func() {
		if err := a.httpServer.Serve(a.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}
	a.logger.Info("Остановка сервера")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	if a.grpcServer != nil {
		a.grpcServer.GracefulStop()
	}
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Join(serveErr, fmt.Errorf("shutdown: %w", err))
	}
	return serveErr
}
