// Package prober проверяет доступность одного URL запросом HEAD.
package prober

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/Totarae/URLProbe/internal/model"
	"go.uber.org/zap"
)

// DefaultTimeout ограничение на одну проверку.
const DefaultTimeout = 5 * time.Second

// Doer выполняет HTTP-запрос. *http.Client удовлетворяет интерфейсу.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPProber проверяет URL запросом HEAD.
type HTTPProber struct {
	client    Doer
	timeout   time.Duration
	userAgent string
	logger    *zap.Logger
	now       func() time.Time
}

// Option настраивает HTTPProber.
type Option func(*HTTPProber)

// WithClient подменяет HTTP-клиент.
func WithClient(c Doer) Option {
	return func(p *HTTPProber) { p.client = c }
}

// WithUserAgent задаёт заголовок User-Agent.
func WithUserAgent(ua string) Option {
	return func(p *HTTPProber) { p.userAgent = ua }
}

// WithLogger задаёт логгер.
func WithLogger(l *zap.Logger) Option {
	return func(p *HTTPProber) { p.logger = l }
}

// New создаёт HTTPProber. Нулевой или отрицательный timeout заменяется на DefaultTimeout.
func New(timeout time.Duration, opts ...Option) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p := &HTTPProber{
		timeout: timeout,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = NewClient(timeout)
	}
	return p
}

// NewClient возвращает клиент с общим пулом соединений.
// Редиректы обрабатываются политикой клиента по умолчанию.
func NewClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: timeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// Probe выполняет одну проверку. Любая ошибка превращается в результат
// категории error, наружу ошибки не возвращаются.
func (p *HTTPProber) Probe(ctx context.Context, url string) model.ProbeResult {
	start := p.now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	code, err := p.head(ctx, url)
	elapsed := roundSeconds(p.now().Sub(start))

	if err != nil {
		p.logger.Debug("probe failed", zap.String("url", url), zap.Error(err))
		return model.ProbeResult{
			URL:          url,
			Message:      fmt.Sprintf("Error: %v", err),
			ResponseTime: elapsed,
			Category:     model.CategoryError,
		}
	}

	category, message := Classify(code)
	return model.ProbeResult{
		URL:          url,
		StatusCode:   model.StatusCode(code),
		Message:      message,
		ResponseTime: elapsed,
		Category:     category,
	}
}

func (p *HTTPProber) head(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

// Classify сопоставляет HTTP-код категории и сообщению.
func Classify(code int) (model.Category, string) {
	switch code {
	case http.StatusOK:
		return model.CategoryActive, "Site is Live"
	case http.StatusNotFound:
		return model.CategoryInactive, "404 Not Found"
	case http.StatusInternalServerError:
		return model.CategoryError, "Server Error"
	default:
		return model.CategoryError, fmt.Sprintf("Status: %d", code)
	}
}

// roundSeconds округляет длительность до миллисекунд и переводит в секунды.
func roundSeconds(d time.Duration) float64 {
	if d < 0 {
		d = 0
	}
	return math.Round(d.Seconds()*1000) / 1000
}
