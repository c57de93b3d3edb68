package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Metadata MetadataConfig `mapstructure:"metadata"`
	Download DownloadConfig `mapstructure:"download"`
	Notify   NotifyConfig   `mapstructure:"notifications"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// StorageType selects the backend that holds the library slot
type StorageType string

const (
	StorageSQLite StorageType = "sqlite"
	StorageRedis  StorageType = "redis"
	StorageMemory StorageType = "memory"
)

// StorageConfig contains library persistence configuration
type StorageConfig struct {
	Type          StorageType   `mapstructure:"type"`
	DatabasePath  string        `mapstructure:"database_path"` // also holds download history
	LibraryKey    string        `mapstructure:"library_key"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	RedisTimeout  time.Duration `mapstructure:"redis_timeout"`
}

// MetadataConfig contains settings for the remote text-generation service
type MetadataConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	Model           string        `mapstructure:"model"`
	SearchGrounding bool          `mapstructure:"search_grounding"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// DownloadConfig contains settings for simulated downloads
type DownloadConfig struct {
	OutputDir     string        `mapstructure:"output_dir"`
	TickInterval  time.Duration `mapstructure:"tick_interval"`
	SyntheticSize int64         `mapstructure:"synthetic_size"` // bytes written per completed download
	MinStep       int           `mapstructure:"min_step"`
	MaxStep       int           `mapstructure:"max_step"`
}

// NotifyConfig contains desktop notification settings
type NotifyConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
	LogsDir    string `mapstructure:"logs_dir"`    // categorized log files
}

// DefaultLibraryKey is the slot name the library is stored under
const DefaultLibraryKey = "streamfetch_library"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8090,
		},
		Storage: StorageConfig{
			Type:         StorageSQLite,
			DatabasePath: "$HOME/.streamfetch/streamfetch.db",
			LibraryKey:   DefaultLibraryKey,
			RedisAddr:    "localhost:6379",
			RedisDB:      0,
			RedisTimeout: 2 * time.Second,
		},
		Metadata: MetadataConfig{
			Model:           "gemini-2.5-flash",
			SearchGrounding: true,
			Timeout:         30 * time.Second,
		},
		Download: DownloadConfig{
			OutputDir:     "$HOME/Downloads/streamfetch",
			TickInterval:  200 * time.Millisecond,
			SyntheticSize: 1024 * 1024,
			MinStep:       5,
			MaxStep:       19,
		},
		Notify: NotifyConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
			LogsDir:    "$HOME/.streamfetch/logs",
		},
	}
}
