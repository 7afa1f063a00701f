package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
)

// #region config
// Config is the process configuration.
type Config struct {
	DBPath     string          `yaml:"db_path"`
	CodecAddr  string          `yaml:"codec_addr"`
	HTTPAddr   string          `yaml:"http_addr"`
	Strictness rubric.Level    `yaml:"strictness"`
	SeedsFile  string          `yaml:"seeds_file"`
	RubricFile string          `yaml:"rubric_file"`
	Weights    WeightsConfig   `yaml:"weights"`
	Pipeline   PipelineConfig  `yaml:"pipeline"`
	Retrieval  RetrievalConfig `yaml:"retrieval"`
	Logging    LoggingConfig   `yaml:"logging"`
}

// WeightsConfig tunes the blend weight cache.
type WeightsConfig struct {
	DefaultSymbolic float64       `yaml:"default_symbolic"`
	LookupTimeout   time.Duration `yaml:"lookup_timeout"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
}

// PipelineConfig tunes the request path.
type PipelineConfig struct {
	GenerateTimeout time.Duration `yaml:"generate_timeout"`
	Language        string        `yaml:"language"`
	DisableGenerate bool          `yaml:"disable_generate"`
}

// RetrievalConfig tunes similarity retrieval.
type RetrievalConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	TopK                int     `yaml:"top_k"`
}

// LoggingConfig selects zap level and encoder.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" | "console"
}

// #endregion config

// #region defaults
// Default returns a fully populated configuration.
func Default() Config {
	return Config{
		DBPath:     "neurosym.db",
		CodecAddr:  "localhost:50051",
		HTTPAddr:   ":8080",
		Strictness: rubric.LevelModerate,
		Weights: WeightsConfig{
			DefaultSymbolic: 0.7,
			LookupTimeout:   25 * time.Millisecond,
			RefreshInterval: 5 * time.Minute,
			FetchTimeout:    2 * time.Second,
		},
		Pipeline: PipelineConfig{
			GenerateTimeout: 3 * time.Second,
			Language:        "nl",
		},
		Retrieval: RetrievalConfig{
			SimilarityThreshold: 0.3,
			TopK:                5,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// #endregion defaults

// #region load
// Load overlays the YAML file at path (if non-empty) and then the environment
// on top of Default, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.DBPath = envOr("NEUROSYM_DB", cfg.DBPath)
	cfg.CodecAddr = envOr("CODEC_ADDR", cfg.CodecAddr)
	cfg.HTTPAddr = envOr("NEUROSYM_HTTP_ADDR", cfg.HTTPAddr)
	cfg.Strictness = rubric.Level(envOr("NEUROSYM_STRICTNESS", string(cfg.Strictness)))
	cfg.Logging.Level = envOr("NEUROSYM_LOG_LEVEL", cfg.Logging.Level)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	if _, err := rubric.Preset(c.Strictness); err != nil {
		return err
	}
	if c.Weights.DefaultSymbolic < 0 || c.Weights.DefaultSymbolic > 1 {
		return fmt.Errorf("weights.default_symbolic %v outside [0,1]", c.Weights.DefaultSymbolic)
	}
	if c.Weights.LookupTimeout <= 0 {
		return fmt.Errorf("weights.lookup_timeout must be positive")
	}
	if c.Retrieval.SimilarityThreshold < 0 || c.Retrieval.SimilarityThreshold > 1 {
		return fmt.Errorf("retrieval.similarity_threshold %v outside [0,1]", c.Retrieval.SimilarityThreshold)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	return nil
}

// #endregion load

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
