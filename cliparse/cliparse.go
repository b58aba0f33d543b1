package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported storage engines
const (
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

type Config struct {
	Port         int    `yaml:"port" env:"PORT"`
	DatabaseURL  string `yaml:"database_url" env:"DATABASE_URL"`
	DatabaseType string `yaml:"database_type" env:"DATABASE_TYPE"`

	// Connection pool
	MaxOpenConns int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"DB_WRITE_TIMEOUT"`

	// Credential hashing (argon2id)
	HashMemoryKB    uint32 `yaml:"hash_memory_kb" env:"HASH_MEMORY_KB"`
	HashIterations  uint32 `yaml:"hash_iterations" env:"HASH_ITERATIONS"`
	HashThreads     uint8  `yaml:"hash_threads" env:"HASH_THREADS"`
	HashConcurrency int    `yaml:"hash_concurrency" env:"HASH_CONCURRENCY"`

	// Signup rate limiting per client IP. Zero RPS disables the limiter.
	SignupRPS   float64 `yaml:"signup_rps" env:"SIGNUP_RPS"`
	SignupBurst int     `yaml:"signup_burst" env:"SIGNUP_BURST"`

	CORSOrigin string `yaml:"cors_origin" env:"CORS_ORIGIN"`
	LogLevel   string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat  string `yaml:"log_format" env:"LOG_FORMAT"`
}

// Defaults applied to any field left unset by every other source
const (
	DefaultPort            = 8000
	DefaultMaxOpenConns    = 10
	DefaultWriteTimeout    = 10 * time.Second
	DefaultHashMemoryKB    = 64 * 1024
	DefaultHashIterations  = 2
	DefaultHashThreads     = 1
	DefaultHashConcurrency = 4
	DefaultSignupBurst     = 5
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
)

// ParseFlags builds the configuration from, in order of precedence:
// CLI flags, process environment, the .env file, the YAML config file.
func ParseFlags(args []string) (Config, error) {
	var (
		cfg        Config
		flagCfg    Config
		configFile string
		envFile    string
	)

	fs := flag.NewFlagSet("carelink", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&flagCfg.Port, "p", 0, "Server port")
	fs.StringVar(&flagCfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&flagCfg.DatabaseType, "t", "", "Database type (postgres or sqlite)")

	// Config sources
	fs.StringVar(&configFile, "c", "", "YAML config file")
	fs.StringVar(&envFile, "env-file", ".env", "dotenv file (missing file is ignored)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	if configFile != "" {
		if err := loadYAML(configFile, &cfg); err != nil {
			return Config{}, err
		}
	}

	// godotenv never overrides variables already set in the process
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	// Only explicitly passed flags override the other sources
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "p":
			cfg.Port = flagCfg.Port
		case "d":
			cfg.DatabaseURL = flagCfg.DatabaseURL
		case "t":
			cfg.DatabaseType = flagCfg.DatabaseType
		}
	})

	applyDefaults(&cfg)

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if cfg.DatabaseType != DatabasePostgres && cfg.DatabaseType != DatabaseSQLite {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}

	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = InferDatabaseType(cfg.DatabaseURL)
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = DefaultMaxOpenConns
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.HashMemoryKB == 0 {
		cfg.HashMemoryKB = DefaultHashMemoryKB
	}
	if cfg.HashIterations == 0 {
		cfg.HashIterations = DefaultHashIterations
	}
	if cfg.HashThreads == 0 {
		cfg.HashThreads = DefaultHashThreads
	}
	if cfg.HashConcurrency == 0 {
		cfg.HashConcurrency = DefaultHashConcurrency
	}
	if cfg.SignupBurst == 0 {
		cfg.SignupBurst = DefaultSignupBurst
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
}

// InferDatabaseType picks the engine from the URL scheme
func InferDatabaseType(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return DatabasePostgres
	}
	return DatabaseSQLite
}
