package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bbdash/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AuthConfig struct {
	TokenURL     string `mapstructure:"token_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

type Config struct {
	MasterURL    string            `mapstructure:"master_url"`
	Project      string            `mapstructure:"project"`
	Builder      string            `mapstructure:"builder"`
	Codebases    map[string]string `mapstructure:"codebases"`
	PollInterval time.Duration     `mapstructure:"poll_interval"`
	RecentBuilds int               `mapstructure:"recent_builds"`
	DaemonPort   int               `mapstructure:"daemon_port"`
	DBPath       string            `mapstructure:"db_path"`
	Auth         AuthConfig        `mapstructure:"auth"`
}

var Default = Config{
	MasterURL:    "http://localhost:8010",
	Project:      "",
	Builder:      "",
	Codebases:    map[string]string{},
	PollInterval: 10 * time.Second,
	RecentBuilds: 15,
	DaemonPort:   9030,
	DBPath:       "bbdash.db",
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home dir: %w", err)
	}

	configDir := filepath.Join(home, ".bbdash")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	viper.SetDefault("master_url", Default.MasterURL)
	viper.SetDefault("project", Default.Project)
	viper.SetDefault("builder", Default.Builder)
	viper.SetDefault("codebases", Default.Codebases)
	viper.SetDefault("poll_interval", Default.PollInterval)
	viper.SetDefault("recent_builds", Default.RecentBuilds)
	viper.SetDefault("daemon_port", Default.DaemonPort)
	viper.SetDefault("db_path", Default.DBPath)

	viper.SetEnvPrefix("BBDASH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if ok := errors.As(err, &notFound); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Watch reloads the config whenever the file changes on disk and hands the
// fresh copy to onChange. Poll interval and branch selection pick up the new
// values without a daemon restart.
func Watch(onChange func(*Config)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		logger.Log.Info("config file changed",
			zap.String("file", e.Name),
			zap.String("op", e.Op.String()))

		var cfg Config
		if err := viper.Unmarshal(&cfg); err != nil {
			logger.Log.Warn("failed to reload config",
				zap.Error(err))
			return
		}

		onChange(&cfg)
	})

	viper.WatchConfig()
}
