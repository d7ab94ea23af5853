package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/annel0/zonegrid/internal/collision"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации сервиса.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// EngineConfig параметры движка коллизий для каждой комнаты
type EngineConfig struct {
	CellSize         float64 `yaml:"cell_size"`
	CollisionEpsilon float64 `yaml:"collision_epsilon"`
	LandingTolerance float64 `yaml:"landing_tolerance"`
	DefaultExtent    float64 `yaml:"default_extent"`
	DebugMaxHeight   float64 `yaml:"debug_max_height"`
}

type ServerConfig struct {
	HTTPPort    int `yaml:"http_port"`
	MetricsPort int `yaml:"metrics_port"`
	// StatsInterval период обновления метрик комнат, секунды
	StatsInterval int `yaml:"stats_interval_seconds"`
}

// StorageConfig выбор хранилища раскладок комнат: memory | badger | redis | tiered
type StorageConfig struct {
	Backend    string `yaml:"backend"`
	BadgerPath string `yaml:"badger_path"`
	RedisAddr  string `yaml:"redis_addr"`
	RedisDB    int    `yaml:"redis_db"`
	RedisTTL   int    `yaml:"redis_ttl_minutes"`
	// InvalidationURL NATS для сброса hot-уровня tiered на соседних узлах; пусто: без рассылки
	InvalidationURL string `yaml:"invalidation_url"`
	NodeID          string `yaml:"node_id"`
}

type EventBusConfig struct {
	URL       string `yaml:"url"` // пусто: in-memory шина
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
	Buffer    int    `yaml:"buffer"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	// Endpoint OTLP HTTP коллектора host:port; пусто: localhost:4318
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  bool   `yaml:"file"`
}

// Default возвращает рабочую конфигурацию без файла
func Default() *Config {
	opts := collision.DefaultOptions()
	return &Config{
		Engine: EngineConfig{
			CellSize:         opts.CellSize,
			CollisionEpsilon: opts.CollisionEpsilon,
			LandingTolerance: opts.LandingTolerance,
			DefaultExtent:    opts.DefaultExtent,
			DebugMaxHeight:   opts.DebugMaxHeight,
		},
		Server: ServerConfig{StatsInterval: 5},
		Storage: StorageConfig{
			Backend:    "memory",
			BadgerPath: "data",
			RedisAddr:  "localhost:6379",
			RedisTTL:   60,
		},
		EventBus:  EventBusConfig{Stream: "ZONES", Retention: 24, Buffer: 1024},
		Telemetry: TelemetryConfig{ServiceName: "zonegrid"},
		Logging:   LoggingConfig{Level: "info"},
	}
}

// EngineOptions переводит секцию engine в параметры движка
func (c *Config) EngineOptions() collision.Options {
	opts := collision.DefaultOptions()
	opts.CellSize = c.Engine.CellSize
	opts.CollisionEpsilon = c.Engine.CollisionEpsilon
	opts.LandingTolerance = c.Engine.LandingTolerance
	opts.DefaultExtent = c.Engine.DefaultExtent
	opts.DebugMaxHeight = c.Engine.DebugMaxHeight
	return opts
}

// GetHTTPPort возвращает порт API с поддержкой fallback значений
func (s *ServerConfig) GetHTTPPort() int {
	return getPortWithEnvFallback(s.HTTPPort, "ZONEGRID_HTTP_PORT", 8090)
}

// GetMetricsPort возвращает порт Prometheus метрик с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "ZONEGRID_METRICS_PORT", 2112)
}

// GetStatsInterval период опроса статистики комнат
func (s *ServerConfig) GetStatsInterval() time.Duration {
	if s.StatsInterval <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.StatsInterval) * time.Second
}

// GetRedisTTL время жизни раскладки в Redis
func (s *StorageConfig) GetRedisTTL() time.Duration {
	if s.RedisTTL <= 0 {
		return time.Hour
	}
	return time.Duration(s.RedisTTL) * time.Minute
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл поверх Default().
// Если path == "", берётся ENV ZONEGRID_CONFIG; если и он пуст: Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("ZONEGRID_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, которые движок не может исправить сам
func (c *Config) Validate() error {
	if c.Engine.CellSize <= 0 {
		return fmt.Errorf("engine.cell_size должен быть > 0, получено %v", c.Engine.CellSize)
	}
	switch c.Storage.Backend {
	case "memory", "badger", "redis", "tiered":
	default:
		return fmt.Errorf("неизвестный storage.backend %q", c.Storage.Backend)
	}
	return nil
}
