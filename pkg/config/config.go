package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Binance struct {
		RESTURL        string        `yaml:"rest_url"`
		WebSocketURL   string        `yaml:"websocket_url"`
		QuoteAssets    []string      `yaml:"quote_assets"`
		PriceMin       float64       `yaml:"price_min"`
		PriceMax       float64       `yaml:"price_max"`
		KlineInterval  string        `yaml:"kline_interval"`
		KlineLimit     int           `yaml:"kline_limit"`
		RequestsPerSec float64       `yaml:"requests_per_sec"`
		SymbolCacheTTL time.Duration `yaml:"symbol_cache_ttl"`
		MaxSymbols     int           `yaml:"max_symbols"`
		StreamEnabled  bool          `yaml:"stream_enabled"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"binance"`
	Scan struct {
		Interval            time.Duration `yaml:"interval"`
		ReferenceSymbol     string        `yaml:"reference_symbol"`
		CorrelationLookback int           `yaml:"correlation_lookback"`
		CacheTTL            time.Duration `yaml:"cache_ttl"`
	} `yaml:"scan"`
	Scoring struct {
		Timeframes []TimeframeConfig `yaml:"timeframes"`
	} `yaml:"scoring"`
	Profiles struct {
		Path string `yaml:"path"`
	} `yaml:"profiles"`
}

// TimeframeConfig is one configured growth window with its scoring
// thresholds. The same list drives growth rates, zero-growth penalties
// and the consistency sequence, oldest window last.
type TimeframeConfig struct {
	Label       string        `yaml:"label"`
	Window      time.Duration `yaml:"window"`
	MinGrowth   float64       `yaml:"min_growth"`
	ZeroPenalty float64       `yaml:"zero_penalty"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REFERENCE_SYMBOL"); v != "" {
		c.Scan.ReferenceSymbol = v
	}
	if v := os.Getenv("PROFILES_PATH"); v != "" {
		c.Profiles.Path = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Binance.RESTURL == "" {
		return fmt.Errorf("binance.rest_url is required")
	}
	if c.Scan.ReferenceSymbol == "" {
		return fmt.Errorf("scan.reference_symbol is required")
	}
	if c.Scan.Interval <= 0 {
		return fmt.Errorf("scan.interval must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	for i, tf := range c.Scoring.Timeframes {
		if tf.Label == "" {
			return fmt.Errorf("scoring.timeframes[%d].label is required", i)
		}
		if tf.Window <= 0 {
			return fmt.Errorf("scoring.timeframes[%d].window must be positive", i)
		}
		if tf.ZeroPenalty > 0 {
			return fmt.Errorf("scoring.timeframes[%d].zero_penalty must not be positive", i)
		}
	}
	return nil
}
