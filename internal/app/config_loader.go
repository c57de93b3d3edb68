package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/yourusername/streamfetch-go/internal/domain"
)

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	// Start with default config
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.streamfetch")
		v.AddConfigPath("/etc/streamfetch")
	}

	// Read environment variables
	v.SetEnvPrefix("STREAMFETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Metadata.APIKey == "" {
		config.Metadata.APIKey = firstEnv("GEMINI_API_KEY", "API_KEY")
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// bindEnvKeys registers every key so AutomaticEnv also applies to keys that
// appear in neither the config file nor viper defaults
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"server.host", "server.port",
		"storage.type", "storage.database_path", "storage.library_key",
		"storage.redis_addr", "storage.redis_password", "storage.redis_db", "storage.redis_timeout",
		"metadata.api_key", "metadata.model", "metadata.search_grounding", "metadata.timeout",
		"download.output_dir", "download.tick_interval", "download.synthetic_size",
		"download.min_step", "download.max_step",
		"notifications.enabled", "notifications.method",
		"logging.level", "logging.format", "logging.output_path", "logging.logs_dir",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return ""
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	if config.Storage.DatabasePath != ":memory:" {
		config.Storage.DatabasePath = expandPath(config.Storage.DatabasePath)
	}
	config.Download.OutputDir = expandPath(config.Download.OutputDir)
	config.Logging.LogsDir = expandPath(config.Logging.LogsDir)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	if strings.Contains(path, "$HOME") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = strings.ReplaceAll(path, "$HOME", home)
		}
	}

	return os.ExpandEnv(path)
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	switch config.Storage.Type {
	case domain.StorageSQLite, domain.StorageRedis, domain.StorageMemory:
	default:
		return fmt.Errorf("unknown storage type: %q", config.Storage.Type)
	}

	if config.Storage.LibraryKey == "" {
		return fmt.Errorf("library key not configured")
	}

	if config.Storage.DatabasePath == "" {
		return fmt.Errorf("database path not configured")
	}

	if config.Storage.Type == domain.StorageRedis && config.Storage.RedisAddr == "" {
		return fmt.Errorf("redis address not configured")
	}

	if config.Download.OutputDir == "" {
		return fmt.Errorf("download output directory not configured")
	}

	if config.Download.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}

	if config.Download.SyntheticSize <= 0 {
		return fmt.Errorf("synthetic size must be positive")
	}

	if config.Download.MinStep < 1 || config.Download.MaxStep < config.Download.MinStep {
		return fmt.Errorf("invalid progress step range: %d..%d", config.Download.MinStep, config.Download.MaxStep)
	}

	switch config.Notify.Method {
	case "", "osascript", "notify-send":
	default:
		return fmt.Errorf("unknown notification method: %q", config.Notify.Method)
	}

	if config.Metadata.Model == "" {
		return fmt.Errorf("metadata model not configured")
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *domain.Config, path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("server.host", config.Server.Host)
	v.Set("server.port", config.Server.Port)
	v.Set("storage.type", string(config.Storage.Type))
	v.Set("storage.database_path", config.Storage.DatabasePath)
	v.Set("storage.library_key", config.Storage.LibraryKey)
	v.Set("storage.redis_addr", config.Storage.RedisAddr)
	v.Set("storage.redis_db", config.Storage.RedisDB)
	v.Set("storage.redis_timeout", config.Storage.RedisTimeout.String())
	v.Set("metadata.model", config.Metadata.Model)
	v.Set("metadata.search_grounding", config.Metadata.SearchGrounding)
	v.Set("metadata.timeout", config.Metadata.Timeout.String())
	v.Set("download.output_dir", config.Download.OutputDir)
	v.Set("download.tick_interval", config.Download.TickInterval.String())
	v.Set("download.synthetic_size", config.Download.SyntheticSize)
	v.Set("download.min_step", config.Download.MinStep)
	v.Set("download.max_step", config.Download.MaxStep)
	v.Set("notifications.enabled", config.Notify.Enabled)
	v.Set("notifications.method", config.Notify.Method)
	v.Set("logging.level", config.Logging.Level)
	v.Set("logging.format", config.Logging.Format)
	v.Set("logging.output_path", config.Logging.OutputPath)
	v.Set("logging.logs_dir", config.Logging.LogsDir)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
