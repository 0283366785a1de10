package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Batch conversion
	InputDir  string
	OutputDir string
	Workers   int

	// HTTP server
	Port           string
	APIKey         string
	MaxUploadBytes int64
	MaxQueueSize   int

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Optional pathstore sink
	PathstoreURL    string
	PathstoreAPIKey string

	// Logging: "json" or "text"
	LogFormat string
}

const (
	defaultWorkers        = 4
	defaultMaxQueueSize   = 100
	defaultMaxUploadBytes = 52428800 // 50MB
	defaultJobTTL         = time.Hour
)

// NewViper returns a viper instance reading LAWGEST_* environment variables
// and an optional lawgest.{json,yaml,toml} from ./config or the working
// directory.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("lawgest")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("LAWGEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input_dir", "laws")
	v.SetDefault("output_dir", "output")
	v.SetDefault("workers", defaultWorkers)
	v.SetDefault("port", "8090")
	v.SetDefault("api_key", "")
	v.SetDefault("max_upload_bytes", defaultMaxUploadBytes)
	v.SetDefault("max_queue_size", defaultMaxQueueSize)
	v.SetDefault("job_ttl", defaultJobTTL)
	v.SetDefault("pdf_fallback_pdftotext", true)
	v.SetDefault("pathstore_url", "")
	v.SetDefault("pathstore_api_key", "")
	v.SetDefault("log_format", "json")
}

// ReadFile loads the config file if one exists. A missing file is not an error.
func ReadFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load builds a Config from v and clamps out-of-range values to defaults.
func Load(v *viper.Viper) Config {
	cfg := Config{
		InputDir:  v.GetString("input_dir"),
		OutputDir: v.GetString("output_dir"),
		Workers:   v.GetInt("workers"),

		Port:           v.GetString("port"),
		APIKey:         v.GetString("api_key"),
		MaxUploadBytes: v.GetInt64("max_upload_bytes"),
		MaxQueueSize:   v.GetInt("max_queue_size"),

		JobTTL: v.GetDuration("job_ttl"),

		PDFFallbackPdftotext: v.GetBool("pdf_fallback_pdftotext"),

		PathstoreURL:    strings.TrimRight(v.GetString("pathstore_url"), "/"),
		PathstoreAPIKey: v.GetString("pathstore_api_key"),

		LogFormat: strings.ToLower(v.GetString("log_format")),
	}

	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = defaultMaxQueueSize
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = defaultJobTTL
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}

	return cfg
}

// Validate checks settings shared by every command.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("log_format must be json or text, got %q", c.LogFormat)
	}
	if c.PathstoreURL != "" && c.PathstoreAPIKey == "" {
		return fmt.Errorf("pathstore_api_key is required when pathstore_url is set")
	}
	return nil
}

// ValidateServer checks settings needed by the HTTP server.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	return nil
}
