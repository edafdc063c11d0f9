package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Hermes    HermesConfig    `yaml:"hermes"`
	Collector CollectorConfig `yaml:"collector"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type CollectorConfig struct {
	URL       string `yaml:"url"`
	Token     string `yaml:"token"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type PortfolioConfig struct {
	Workers int `yaml:"workers"`
	// Watchlist tickers are rescored from the collector every
	// RefreshIntervalMs. A zero interval or empty watchlist disables it.
	Watchlist         []string `yaml:"watchlist"`
	RefreshIntervalMs int      `yaml:"refresh_interval_ms"`
}

// ScoringConfig is the externally configurable surface of the scoring engine.
// Every value has a documented default; none of the numbers are fitted constants.
type ScoringConfig struct {
	Params           ScoringParams                 `yaml:"params"`
	DimensionWeights map[string]float64            `yaml:"dimension_weights"`
	MatrixOverrides  map[string]map[string]float64 `yaml:"matrix_overrides"`
	Sectors          []SectorConfig                `yaml:"sectors"`
	FallbackSector   SectorConfig                  `yaml:"fallback_sector"`
}

type ScoringParams struct {
	Alpha                      float64 `yaml:"alpha"`
	Beta                       float64 `yaml:"beta"`
	Delta                      float64 `yaml:"delta"`
	Lambda                     float64 `yaml:"lambda"`
	TCThreshold                float64 `yaml:"tc_threshold"`
	SEMK                       float64 `yaml:"sem_k"`
	BalanceK                   float64 `yaml:"balance_k"`
	NeutralScore               float64 `yaml:"neutral_score"`
	DefaultReliability         float64 `yaml:"default_reliability"`
	DefaultMarketCapPercentile float64 `yaml:"default_mcap_percentile"`
	IndividualMentionsCap      int     `yaml:"individual_mentions_cap"`
}

type SectorConfig struct {
	Name   string  `yaml:"name"`
	Base   float64 `yaml:"base"`
	Timing float64 `yaml:"timing"`
	AvgVR  float64 `yaml:"avg_vr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) CollectorTimeout() time.Duration {
	return time.Duration(c.Collector.TimeoutMs) * time.Millisecond
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Portfolio.RefreshIntervalMs) * time.Millisecond
}

// DefaultScoring returns the documented scoring defaults.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		Params: ScoringParams{
			Alpha:                      0.60,
			Beta:                       0.12,
			Delta:                      0.15,
			Lambda:                     0.25,
			TCThreshold:                0.25,
			SEMK:                       15.0,
			BalanceK:                   0.10,
			NeutralScore:               50.0,
			DefaultReliability:         0.5,
			DefaultMarketCapPercentile: 0.5,
			IndividualMentionsCap:      5,
		},
		DimensionWeights: map[string]float64{
			"data_infrastructure": 0.20,
			"ai_governance":       0.15,
			"technology_stack":    0.20,
			"talent_skills":       0.20,
			"leadership_vision":   0.10,
			"use_case_portfolio":  0.10,
			"culture_change":      0.05,
		},
		Sectors: []SectorConfig{
			{Name: "Technology", Base: 84, Timing: 1.20, AvgVR: 50},
			{Name: "Financial Services", Base: 68, Timing: 1.05, AvgVR: 45},
			{Name: "Retail", Base: 55, Timing: 1.00, AvgVR: 40},
			{Name: "Manufacturing", Base: 52, Timing: 1.00, AvgVR: 40},
		},
		FallbackSector: SectorConfig{Name: "Unclassified", Base: 50, Timing: 1.00, AvgVR: 50},
	}
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Collector: CollectorConfig{
			URL:       "http://localhost:8000",
			TimeoutMs: 15000,
		},
		Portfolio: PortfolioConfig{
			Workers: 4,
		},
		Scoring: DefaultScoring(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ORGAIR_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("ORGAIR_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("ORGAIR_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("ORGAIR_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("ORGAIR_NATS_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("ORGAIR_COLLECTOR_URL"); v != "" {
		cfg.Collector.URL = v
	}
	if v := os.Getenv("ORGAIR_COLLECTOR_TOKEN"); v != "" {
		cfg.Collector.Token = v
	}
	if v := os.Getenv("ORGAIR_PORTFOLIO_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Portfolio.Workers = n
		}
	}
	if v := os.Getenv("ORGAIR_WATCHLIST"); v != "" {
		cfg.Portfolio.Watchlist = strings.Split(v, ",")
	}
	if v := os.Getenv("ORGAIR_REFRESH_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Portfolio.RefreshIntervalMs = n
		}
	}
	if v := os.Getenv("ORGAIR_ALPHA"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.Params.Alpha = f
		}
	}
	if v := os.Getenv("ORGAIR_BETA"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.Params.Beta = f
		}
	}
	if v := os.Getenv("ORGAIR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ORGAIR_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
