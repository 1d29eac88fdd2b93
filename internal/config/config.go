// Package config loads application configuration from a YAML file,
// VEN_* environment variables, and built-in defaults, then validates
// the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`
}

// Address returns the host:port listen address.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig controls the SQLite database. An empty path disables
// persistence.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// KnowledgeConfig points at the optional knowledge base file.
type KnowledgeConfig struct {
	Path string `mapstructure:"path"`
}

// EngineConfig tunes the conversational core.
type EngineConfig struct {
	BotName         string        `mapstructure:"bot_name" validate:"required"`
	StaleContextTTL time.Duration `mapstructure:"stale_context_ttl" validate:"min=1m"`
}

// TelegramConfig enables the optional Telegram transport when a
// token is present.
type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

// TaskConfig controls one scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// Load reads configuration from the YAML file at path, layered over
// defaults and under VEN_* environment variables. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("VEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)

	v.SetDefault("database.path", "ven.db")
	v.SetDefault("knowledge.path", "knowledge_base.json")

	v.SetDefault("engine.bot_name", "Ven")
	v.SetDefault("engine.stale_context_ttl", 24*time.Hour)

	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 4 * * *")
	v.SetDefault("scheduler.tasks.context_sweep.enabled", true)
	v.SetDefault("scheduler.tasks.context_sweep.schedule", "*/30 * * * *")
}
