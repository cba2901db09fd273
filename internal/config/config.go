package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Clave por defecto solo para desarrollo local. En producción SESSION_SECRET debe venir del entorno.
const DefaultSessionSecret = "troque_esta_chave_para_producao"

// Config agrupa la configuración necesaria para correr la aplicación.
type Config struct {
	Port            string        `koanf:"port" validate:"required,numeric"`
	DatabaseURL     string        `koanf:"database_url" validate:"required"`
	SessionSecret   string        `koanf:"session_secret" validate:"min=16"`
	LogLevel        string        `koanf:"log_level" validate:"oneof=debug info warn error"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// Alternativa a DATABASE_URL: piezas sueltas (DB_HOST, DB_PORT, ...).
type databaseParts struct {
	Host     string `koanf:"db_host"`
	Port     string `koanf:"db_port"`
	User     string `koanf:"db_user"`
	Password string `koanf:"db_password"`
	Name     string `koanf:"db_name"`
}

var defaults = map[string]any{
	"port":             "8080",
	"session_secret":   DefaultSessionSecret,
	"log_level":        "info",
	"shutdown_timeout": "10s",
	"db_port":          "5432",
	"db_user":          "postgres",
	"db_name":          "mercado_db",
}

var validate = validator.New()

// Load lee variables de entorno (y .env si existe) y valida lo mínimo indispensable.
func Load() (Config, error) {
	// .env es opcional; las variables del proceso tienen prioridad.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("reading .env file: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}

	// Vacías cuentan como no definidas, así PORT="" cae al default.
	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if strings.TrimSpace(value) == "" {
			return "", nil
		}
		return strings.ToLower(key), strings.TrimSpace(value)
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Normalizamos por si alguien manda ":8080"
	cfg.Port = strings.TrimPrefix(cfg.Port, ":")

	if cfg.DatabaseURL == "" {
		var parts databaseParts
		if err := k.Unmarshal("", &parts); err != nil {
			return Config{}, fmt.Errorf("unmarshalling database parts: %w", err)
		}
		cfg.DatabaseURL = parts.url()
	}
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing required env var: DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate aplica las reglas declaradas en los tags `validate`.
func (cfg Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// url arma la URL de Postgres solo si hay host; sin host no hay nada que componer.
func (parts databaseParts) url() string {
	if parts.Host == "" {
		return ""
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(parts.Host, parts.Port),
		Path:   "/" + parts.Name,
	}
	if parts.Password != "" {
		u.User = url.UserPassword(parts.User, parts.Password)
	} else {
		u.User = url.User(parts.User)
	}
	return u.String()
}
