package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config хранит конфигурацию сервиса
type Config struct {
	ServerAddress  string        `json:"server_address"`
	GRPCAddress    string        `json:"grpc_address"`
	MaxConcurrency int           `json:"max_concurrency"`
	ProbeTimeout   time.Duration `json:"-"`
	MaxUploadBytes int64         `json:"max_upload_bytes"`
	UserAgent      string        `json:"user_agent"`
}

// jsonConfig повторяет Config, но таймаут хранится строкой вида "5s".
type jsonConfig struct {
	Config
	ProbeTimeout string `json:"probe_timeout"`
}

// NewConfig читает конфигурацию из аргументов командной строки процесса.
// Для -h возвращается ошибка, удовлетворяющая errors.Is(err, flag.ErrHelp).
func NewConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load собирает конфигурацию: значения по умолчанию, затем JSON-файл,
// .env и переменные окружения, затем флаги.
func Load(args []string) (*Config, error) {
	v := viper.New()
	v.SetDefault("SERVER_ADDRESS", "localhost:8080")
	v.SetDefault("GRPC_ADDRESS", "")
	v.SetDefault("MAX_CONCURRENCY", 70)
	v.SetDefault("PROBE_TIMEOUT", 5*time.Second)
	v.SetDefault("MAX_UPLOAD_BYTES", 32<<20)
	v.SetDefault("USER_AGENT", "URLProbe/1.0")

	v.AutomaticEnv()

	// .env не переопределяет переменные окружения
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	fs := flag.NewFlagSet("urlprobe", flag.ContinueOnError)
	serverAddress := fs.String("a", "", "HTTP server address")
	grpcAddress := fs.String("g", "", "gRPC server address (empty disables gRPC)")
	maxConcurrency := fs.Int("w", 0, "max concurrent probes per batch")
	probeTimeout := fs.Duration("t", 0, "timeout of a single probe")
	maxUpload := fs.Int64("m", 0, "max upload size in bytes")
	userAgent := fs.String("u", "", "User-Agent header of probes")
	configPath := fs.String("c", "", "path to JSON config file")
	fs.StringVar(configPath, "config", "", "path to JSON config file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	cfg := &Config{
		ServerAddress:  v.GetString("SERVER_ADDRESS"),
		GRPCAddress:    v.GetString("GRPC_ADDRESS"),
		MaxConcurrency: v.GetInt("MAX_CONCURRENCY"),
		ProbeTimeout:   v.GetDuration("PROBE_TIMEOUT"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		UserAgent:      v.GetString("USER_AGENT"),
	}

	if *configPath == "" {
		*configPath = v.GetString("CONFIG")
	}
	if *configPath != "" {
		if err := cfg.applyJSON(*configPath, v); err != nil {
			log.Printf("Не удалось применить JSON-конфигурацию %q: %v", *configPath, err)
		}
	}

	if *serverAddress != "" {
		cfg.ServerAddress = *serverAddress
	}
	if *grpcAddress != "" {
		cfg.GRPCAddress = *grpcAddress
	}
	if *maxConcurrency != 0 {
		cfg.MaxConcurrency = *maxConcurrency
	}
	if *probeTimeout != 0 {
		cfg.ProbeTimeout = *probeTimeout
	}
	if *maxUpload != 0 {
		cfg.MaxUploadBytes = *maxUpload
	}
	if *userAgent != "" {
		cfg.UserAgent = *userAgent
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyJSON заполняет поля из файла, если они не заданы переменными окружения.
func (cfg *Config) applyJSON(path string, v *viper.Viper) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var raw jsonConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fromEnv := func(key string) bool {
		_, ok := os.LookupEnv(key)
		return ok || v.InConfig(key)
	}

	if raw.ServerAddress != "" && !fromEnv("SERVER_ADDRESS") {
		cfg.ServerAddress = raw.ServerAddress
	}
	if raw.GRPCAddress != "" && !fromEnv("GRPC_ADDRESS") {
		cfg.GRPCAddress = raw.GRPCAddress
	}
	if raw.MaxConcurrency != 0 && !fromEnv("MAX_CONCURRENCY") {
		cfg.MaxConcurrency = raw.MaxConcurrency
	}
	if raw.MaxUploadBytes != 0 && !fromEnv("MAX_UPLOAD_BYTES") {
		cfg.MaxUploadBytes = raw.MaxUploadBytes
	}
	if raw.UserAgent != "" && !fromEnv("USER_AGENT") {
		cfg.UserAgent = raw.UserAgent
	}
	if raw.ProbeTimeout != "" && !fromEnv("PROBE_TIMEOUT") {
		d, err := time.ParseDuration(raw.ProbeTimeout)
		if err != nil {
			return fmt.Errorf("probe_timeout: %w", err)
		}
		cfg.ProbeTimeout = d
	}
	return nil
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	if cfg.ServerAddress == "" {
		return fmt.Errorf("адрес сервера не может быть пустым")
	}
	if cfg.MaxConcurrency <= 0 {
		return fmt.Errorf("число параллельных проверок должно быть положительным: %d", cfg.MaxConcurrency)
	}
	if cfg.ProbeTimeout <= 0 {
		return fmt.Errorf("таймаут проверки должен быть положительным: %v", cfg.ProbeTimeout)
	}
	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("размер загрузки должен быть положительным: %d", cfg.MaxUploadBytes)
	}
	return nil
}
