package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config del servidor. Todo viene del entorno.
type Config struct {
	Addr string `env:"QUESTIONNAIRE_ADDR" envDefault:":8080"`
	// PORT se mantiene por compatibilidad con despliegues tipo PaaS.
	Port string `env:"PORT"`

	Storage string `env:"QUESTIONNAIRE_STORAGE" envDefault:"sqlite"`
	DBPath  string `env:"QUESTIONNAIRE_DB_PATH" envDefault:"questionnaire.db"`
	DBDSN   string `env:"QUESTIONNAIRE_DB_DSN"`
	DBPool  DBPool

	ReadTimeout     time.Duration `env:"QUESTIONNAIRE_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"QUESTIONNAIRE_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"QUESTIONNAIRE_SHUTDOWN_TIMEOUT" envDefault:"5s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	AppName   string `env:"APP_NAME" envDefault:"questionnaire"`
}

// DBPool solo aplica al backend postgres.
type DBPool struct {
	MaxOpenConns    int           `env:"QUESTIONNAIRE_DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"QUESTIONNAIRE_DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"QUESTIONNAIRE_DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	PingTimeout     time.Duration `env:"QUESTIONNAIRE_DB_PING_TIMEOUT" envDefault:"3s"`
}

// ParseEnv carga configuración desde variables de entorno.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parsea el entorno y valida el backend de storage.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	cfg.Storage = cfg.StorageKind()
	switch cfg.Storage {
	case StorageSQLite:
		if strings.TrimSpace(cfg.DBPath) == "" {
			return Config{}, fmt.Errorf("QUESTIONNAIRE_DB_PATH is required for sqlite storage")
		}
	case StoragePostgres:
		if strings.TrimSpace(cfg.DBDSN) == "" {
			return Config{}, fmt.Errorf("QUESTIONNAIRE_DB_DSN is required for postgres storage")
		}
	case StorageMemory:
	default:
		return Config{}, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
	return cfg, nil
}

// StorageKind normaliza Storage; un DSN explícito implica postgres.
func (c Config) StorageKind() string {
	kind := strings.ToLower(strings.TrimSpace(c.Storage))
	if strings.TrimSpace(c.DBDSN) != "" && (kind == "" || kind == StorageSQLite) {
		return StoragePostgres
	}
	if kind == "" {
		return StorageSQLite
	}
	return kind
}

// ListenAddr prioriza PORT si viene seteado.
func (c Config) ListenAddr() string {
	if v := strings.TrimSpace(c.Port); v != "" {
		return ":" + v
	}
	return c.Addr
}
