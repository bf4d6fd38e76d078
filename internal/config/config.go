package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr       string        `mapstructure:"listen_addr"`
	Port             string        `mapstructure:"port" validate:"required,numeric"`
	DatabaseDriver   string        `mapstructure:"database_driver" validate:"oneof=sqlite postgres"`
	DatabasePath     string        `mapstructure:"database_path" validate:"required_if=DatabaseDriver sqlite"`
	DatabaseURL      string        `mapstructure:"database_url" validate:"required_if=DatabaseDriver postgres"`
	SessionSecret    string        `mapstructure:"session_secret" validate:"required"`
	GinMode          string        `mapstructure:"gin_mode" validate:"oneof=debug release test"`
	LogLevel         string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat        string        `mapstructure:"log_format" validate:"oneof=json text"`
	StoreTimeout     time.Duration `mapstructure:"store_timeout" validate:"gt=0"`
	TemplateGlob     string        `mapstructure:"template_glob"`
	StaticDir        string        `mapstructure:"static_dir"`
	MetricsEnabled   bool          `mapstructure:"metrics_enabled"`
	CORSAllowOrigins []string      `mapstructure:"cors_allow_origins"`
}

var envBindings = map[string][]string{
	"listen_addr":        {"LISTEN_ADDR"},
	"port":               {"PORT"},
	"database_driver":    {"DATABASE_DRIVER"},
	"database_path":      {"DATABASE_PATH"},
	"database_url":       {"DATABASE_URL"},
	"session_secret":     {"SESSION_SECRET", "SECRET_KEY"},
	"gin_mode":           {"GIN_MODE"},
	"log_level":          {"LOG_LEVEL"},
	"log_format":         {"LOG_FORMAT"},
	"store_timeout":      {"STORE_TIMEOUT"},
	"template_glob":      {"TEMPLATE_GLOB"},
	"static_dir":         {"STATIC_DIR"},
	"metrics_enabled":    {"METRICS_ENABLED"},
	"cors_allow_origins": {"CORS_ALLOW_ORIGINS"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_path", "roadmap.db")
	v.SetDefault("session_secret", "roadmap-dev-secret")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("store_timeout", "10s")
	v.SetDefault("template_glob", "web/template/*.html")
	v.SetDefault("static_dir", "web/static")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("cors_allow_origins", []string{"*"})
}

// Load 读取配置文件（可选）与环境变量，环境变量优先，缺失项使用默认值。
func Load(configPath string) (AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	if path := strings.TrimSpace(configPath); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return AppConfig{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return AppConfig{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.normalize()

	if err := validator.New().Struct(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *AppConfig) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	if c.ListenAddr == "" {
		c.ListenAddr = fmt.Sprintf(":%s", c.Port)
	}
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	c.DatabasePath = strings.TrimSpace(c.DatabasePath)
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.SessionSecret = strings.TrimSpace(c.SessionSecret)
	c.GinMode = strings.ToLower(strings.TrimSpace(c.GinMode))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	origins := make([]string, 0, len(c.CORSAllowOrigins))
	for _, origin := range c.CORSAllowOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.CORSAllowOrigins = origins
}

// DSN 返回当前驱动对应的连接串。
func (c AppConfig) DSN() string {
	if c.DatabaseDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DatabasePath
}
