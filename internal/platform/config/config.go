package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverNeo4j    = "neo4j"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
	Storage  StorageConfig  `toml:"storage"`
	Breeds   BreedsConfig   `toml:"breeds"`
	Pedigree PedigreeConfig `toml:"pedigree"`
}

type ServerConfig struct {
	Port         string   `toml:"port"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Duration permite escribir "5s" en el TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("%w: invalid duration %q", ErrInvalidConfig, string(b))
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	App    string `toml:"app"`
}

type StorageConfig struct {
	Driver string `toml:"driver"` // memory | postgres | neo4j

	DSN string `toml:"dsn"`

	Neo4jURI      string `toml:"neo4j_uri"`
	Neo4jUser     string `toml:"neo4j_user"`
	Neo4jPassword string `toml:"neo4j_password"`
}

type BreedsConfig struct {
	// YAML con razas y tabla de compatibilidad; vacío = sin seed.
	File string `toml:"file"`
}

type PedigreeConfig struct {
	MaxGenerations int `toml:"max_generations"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  Duration{5 * time.Second},
			WriteTimeout: Duration{10 * time.Second},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			App:    "rabbit-pedigree",
		},
		Storage: StorageConfig{
			Driver: DriverMemory,
		},
		Pedigree: PedigreeConfig{
			MaxGenerations: 8,
		},
	}
}

// Load arma la config en capas: defaults -> .env (si existe) -> CONFIG_FILE (TOML) -> env vars.
func Load() (Config, error) {
	// .env es opcional; en prod normalmente no existe.
	_ = godotenv.Load()

	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Port, "PORT")
	if err := setDuration(&cfg.Server.ReadTimeout.Duration, "HTTP_READ_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Server.WriteTimeout.Duration, "HTTP_WRITE_TIMEOUT"); err != nil {
		return err
	}

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Log.App, "APP_NAME")

	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Storage.DSN, "DB_DSN")
	setString(&cfg.Storage.Neo4jURI, "NEO4J_URI")
	setString(&cfg.Storage.Neo4jUser, "NEO4J_USER")
	setString(&cfg.Storage.Neo4jPassword, "NEO4J_PASSWORD")

	setString(&cfg.Breeds.File, "BREEDS_FILE")
	if err := setInt(&cfg.Pedigree.MaxGenerations, "PEDIGREE_MAX_GENERATIONS"); err != nil {
		return err
	}

	// Compat: si hay DSN y no se eligió driver explícito, usar postgres.
	if os.Getenv("STORAGE_DRIVER") == "" && cfg.Storage.Driver == DriverMemory && cfg.Storage.DSN != "" {
		cfg.Storage.Driver = DriverPostgres
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("%w: DB_DSN is required for postgres storage", ErrInvalidConfig)
		}
	case DriverNeo4j:
		if strings.TrimSpace(c.Storage.Neo4jURI) == "" {
			return fmt.Errorf("%w: NEO4J_URI is required for neo4j storage", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if strings.TrimSpace(c.Server.Port) == "" {
		return fmt.Errorf("%w: port is required", ErrInvalidConfig)
	}
	if c.Pedigree.MaxGenerations <= 0 {
		return fmt.Errorf("%w: pedigree max generations must be positive", ErrInvalidConfig)
	}
	return nil
}

// Addr devuelve ":PORT" para http.Server.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Server.Port), ":")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidConfig, key, v)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %s must be a duration like 5s, got %q", ErrInvalidConfig, key, v)
	}
	*dst = d
	return nil
}
