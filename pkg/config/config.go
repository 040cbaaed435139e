package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultLookbackDays is the history window fetched when lookback_days is
// unset. Five years of weekly candles keeps the band fold well past warmup.
const DefaultLookbackDays = 5 * 365

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Data struct {
		BaseURL      string        `yaml:"base_url"`
		Interval     string        `yaml:"interval"` // 1d or 1wk
		LookbackDays int           `yaml:"lookback_days"`
		Timeout      time.Duration `yaml:"timeout"`
		MaxPerSecond float64       `yaml:"max_per_second"` // fetch rate limit
		CacheTTL     time.Duration `yaml:"cache_ttl"`
	} `yaml:"data"`
	Instruments struct {
		Benchmark   string   `yaml:"benchmark"`
		Gated       []string `yaml:"gated"`       // traded only when the benchmark trend allows
		Independent []string `yaml:"independent"` // advised regardless of the benchmark
		Park        string   `yaml:"park"`        // liquid instrument used when the benchmark is red
	} `yaml:"instruments"`
	Strategy struct {
		Period       int     `yaml:"period"`
		Multiplier   float64 `yaml:"multiplier"`
		Capital      float64 `yaml:"capital"`
		MonthlyTopUp float64 `yaml:"monthly_top_up"`
		Leverage     float64 `yaml:"leverage"`
		BufferPct    float64 `yaml:"buffer_pct"`
		TargetPct    float64 `yaml:"target_pct"`
		StopPct      float64 `yaml:"stop_pct"`
		Step1Pct     float64 `yaml:"step1_pct"`
		Step2Pct     float64 `yaml:"step2_pct"`
		LockPct      float64 `yaml:"lock_pct"`
		TickSize     float64 `yaml:"tick_size"`
		Policy       string  `yaml:"policy"` // conservative or stepladder
	} `yaml:"strategy"`
	Costs struct {
		BrokerageRate float64 `yaml:"brokerage_rate"`
		BrokerageCap  float64 `yaml:"brokerage_cap"`
		STTRate       float64 `yaml:"stt_rate"`
		TxnRate       float64 `yaml:"txn_rate"`
		GSTRate       float64 `yaml:"gst_rate"`
		StampRate     float64 `yaml:"stamp_rate"`
		SEBIRate      float64 `yaml:"sebi_rate"`
	} `yaml:"costs"`
	Report struct {
		OutputPath string        `yaml:"output_path"`
		WebhookURL string        `yaml:"webhook_url"`
		Timeout    time.Duration `yaml:"webhook_timeout"`
		Retries    int           `yaml:"webhook_retries"`
	} `yaml:"report"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
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
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
	} `yaml:"kafka"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := defaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables, so a scheduled CI run can retarget tickers without editing the
// file.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("BENCHMARK_TICKER"); v != "" {
		c.Instruments.Benchmark = v
	}
	if v := os.Getenv("GATED_TICKERS"); v != "" {
		c.Instruments.Gated = splitList(v)
	}
	if v := os.Getenv("INDEPENDENT_TICKERS"); v != "" {
		c.Instruments.Independent = splitList(v)
	}
	if v := os.Getenv("PARK_TICKER"); v != "" {
		c.Instruments.Park = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		c.Report.WebhookURL = v
	}
	if v := os.Getenv("OUTPUT_PATH"); v != "" {
		c.Report.OutputPath = v
	}
	if v := os.Getenv("POLICY"); v != "" {
		c.Strategy.Policy = v
	}
	if v := os.Getenv("CAPITAL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Strategy.Capital = f
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}

	return c, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// defaultConfig enumerates every knob with its default so a minimal YAML
// file still yields a runnable configuration.
func defaultConfig() *Config {
	c := &Config{Environment: "development"}
	c.Server.Port = 8080
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 10 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second

	c.Data.Interval = "1d"
	c.Data.LookbackDays = DefaultLookbackDays
	c.Data.Timeout = 15 * time.Second
	c.Data.MaxPerSecond = 4
	c.Data.CacheTTL = 6 * time.Hour

	c.Strategy.Period = 10
	c.Strategy.Multiplier = 2.5
	c.Strategy.Capital = 100000
	c.Strategy.Leverage = 5
	c.Strategy.BufferPct = 0.001
	c.Strategy.TargetPct = 0.006
	c.Strategy.StopPct = 0.002
	c.Strategy.Step1Pct = 0.002
	c.Strategy.Step2Pct = 0.004
	c.Strategy.LockPct = 0.003
	c.Strategy.TickSize = 0.05
	c.Strategy.Policy = "conservative"

	c.Costs.BrokerageRate = 0.0003
	c.Costs.BrokerageCap = 20
	c.Costs.STTRate = 0.00025
	c.Costs.TxnRate = 0.0000325
	c.Costs.GSTRate = 0.18
	c.Costs.StampRate = 0.00003
	c.Costs.SEBIRate = 0.000001

	c.Report.OutputPath = "strategy_summary.json"
	c.Report.Timeout = 10 * time.Second
	c.Report.Retries = 3

	c.Kafka.RequiredAcks = -1
	c.Kafka.Compression = "gzip"
	return c
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Instruments.Benchmark == "" {
		return fmt.Errorf("instruments.benchmark is required")
	}
	if len(c.Instruments.Gated) == 0 && len(c.Instruments.Independent) == 0 {
		return fmt.Errorf("instruments: at least one gated or independent ticker is required")
	}
	if c.Strategy.Period < 1 {
		return fmt.Errorf("strategy.period must be >= 1")
	}
	if c.Strategy.Multiplier <= 0 {
		return fmt.Errorf("strategy.multiplier must be > 0")
	}
	if c.Strategy.Policy != "conservative" && c.Strategy.Policy != "stepladder" {
		return fmt.Errorf("strategy.policy must be 'conservative' or 'stepladder', got '%s'", c.Strategy.Policy)
	}
	if c.Strategy.TickSize <= 0 {
		return fmt.Errorf("strategy.tick_size must be > 0")
	}
	if c.Data.Interval != "1d" && c.Data.Interval != "1wk" {
		return fmt.Errorf("data.interval must be '1d' or '1wk', got '%s'", c.Data.Interval)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}
