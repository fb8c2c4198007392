package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Database struct {
	URL          string `mapstructure:"url"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	Debug        bool   `mapstructure:"debug"`
}

type Config struct {
	App struct {
		Env string `mapstructure:"env"`
	} `mapstructure:"app"`

	HTTP struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"http"`

	Database Database `mapstructure:"database"`

	JWT struct {
		Secret string        `mapstructure:"secret"`
		TTL    time.Duration `mapstructure:"ttl"`
	} `mapstructure:"jwt"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`

	// Admin is seeded at startup when a password is set
	Admin struct {
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	} `mapstructure:"admin"`
}

const DefaultJWTSecret = "your-super-secret-key-change-in-production"

var bindings = map[string][]string{
	"app.env":                 {"APP_ENV"},
	"http.port":               {"PORT", "HTTP_PORT"},
	"database.url":            {"DATABASE_URL"},
	"database.max_open_conns": {"DB_MAX_OPEN_CONNS"},
	"database.max_idle_conns": {"DB_MAX_IDLE_CONNS"},
	"database.debug":          {"DB_DEBUG"},
	"jwt.secret":              {"JWT_SECRET"},
	"jwt.ttl":                 {"JWT_TTL"},
	"metrics.enabled":         {"METRICS_ENABLED"},
	"admin.username":          {"ADMIN_USERNAME"},
	"admin.password":          {"ADMIN_PASSWORD"},
}

// Load reads .env (if any), then the optional YAML file at path (or
// CONFIG_FILE), then the environment. Later sources win.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("app.env", "dev")
	v.SetDefault("http.port", "3000")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.debug", false)
	v.SetDefault("jwt.secret", DefaultJWTSecret)
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "")

	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, err
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, err
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if c.HTTP.Port == "" {
		return c, errors.New("http.port must not be empty")
	}
	return c, nil
}

func (c Config) IsDev() bool {
	return c.App.Env == "dev"
}
