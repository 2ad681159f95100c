package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"store_rating_backend/internal/logger"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const defaultConfigPath = "config/config.yaml"

// Config собирается в три слоя: значения по умолчанию, config.yaml,
// затем переменные окружения поверх. Имена переменных строит envconfig
// из пути к полю: Database.URL -> DATABASE_URL, JWT.TTLMinutes -> JWT_TTL_MINUTES.
type Config struct {
	Server struct {
		Host                string `yaml:"host"`
		Port                int    `yaml:"port"`
		Env                 string `yaml:"env"`
		ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds" split_words:"true"`
		WriteTimeoutSeconds int    `yaml:"write_timeout_seconds" split_words:"true"`

		// Адреса прокси, которым доверяем X-Forwarded-For (пусто = никому)
		TrustedProxies []string `yaml:"trusted_proxies" split_words:"true"`
	} `yaml:"server"`

	Database struct {
		Driver                 string `yaml:"driver"` // postgres | mysql
		URL                    string `yaml:"url"`
		MaxOpenConns           int    `yaml:"max_open_conns" split_words:"true"`
		MaxIdleConns           int    `yaml:"max_idle_conns" split_words:"true"`
		ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes" split_words:"true"`
		AutoMigrate            bool   `yaml:"auto_migrate" split_words:"true"`
	} `yaml:"database"`

	JWT struct {
		Secret     string `yaml:"secret"`
		TTLMinutes int    `yaml:"ttl_minutes" split_words:"true"`
	} `yaml:"jwt"`

	RateLimit struct {
		Attempts      int `yaml:"attempts"`
		WindowMinutes int `yaml:"window_minutes" split_words:"true"`
	} `yaml:"rate_limit" split_words:"true"`

	// Redis опционален: без адреса лимитер живет в памяти процесса
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins" split_words:"true"`
	} `yaml:"cors"`

	FirstAdminEmail    string `yaml:"first_admin_email" split_words:"true"`
	FirstAdminPassword string `yaml:"first_admin_password" split_words:"true"`
	FirstAdminName     string `yaml:"first_admin_name" split_words:"true"`
}

var AppConfig *Config

// Default возвращает конфиг со значениями по умолчанию
func Default() *Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 5000
	cfg.Server.Env = "development"
	cfg.Server.ReadTimeoutSeconds = 15
	cfg.Server.WriteTimeoutSeconds = 15

	cfg.Database.Driver = "postgres"
	cfg.Database.MaxOpenConns = 20
	cfg.Database.MaxIdleConns = 5
	cfg.Database.ConnMaxLifetimeMinutes = 30
	cfg.Database.AutoMigrate = true

	cfg.JWT.TTLMinutes = 24 * 60

	cfg.RateLimit.Attempts = 5
	cfg.RateLimit.WindowMinutes = 15

	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.FirstAdminName = "System Administrator Account"
	return &cfg
}

// Load читает .env, config.yaml (CONFIG_PATH) и переменные окружения
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := Default()

	configPath := os.Getenv("CONFIG_PATH")
	explicit := configPath != ""
	if !explicit {
		configPath = defaultConfigPath
	}

	if err := readFile(configPath, cfg); err != nil {
		// Файл по умолчанию может отсутствовать (контейнер с одними env)
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	cfg.Database.Driver = strings.ToLower(cfg.Database.Driver)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var problems []string
	if c.Database.URL == "" {
		problems = append(problems, "database url is required (DATABASE_URL)")
	}
	if c.Database.Driver != "postgres" && c.Database.Driver != "mysql" {
		problems = append(problems, fmt.Sprintf("unsupported database driver %q", c.Database.Driver))
	}
	if c.JWT.Secret == "" {
		problems = append(problems, "jwt secret is required (JWT_SECRET)")
	}
	if c.JWT.TTLMinutes <= 0 {
		problems = append(problems, "jwt ttl must be positive")
	}
	if c.RateLimit.Attempts <= 0 || c.RateLimit.WindowMinutes <= 0 {
		problems = append(problems, "rate limit attempts and window must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// IsProduction - всё, что не development/test
func (c *Config) IsProduction() bool {
	return c.Server.Env != "development" && c.Server.Env != "test"
}

func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}
	AppConfig = cfg
}
