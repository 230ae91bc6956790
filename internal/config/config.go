package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// ServerURL pre-fills the server entry, overriding the last URL from settings.
	ServerURL string

	// RequestTimeout bounds each Automation API call. Zero means no timeout.
	RequestTimeout time.Duration

	// SettingsPath overrides the INI file location.
	SettingsPath string

	// LogDir is where the main and API log files are written.
	LogDir string
}

// Load reads .env (if present), then flags from args with environment fallbacks.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	fs := flag.NewFlagSet("appscan-traffic-recorder", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "server", getEnv("TRAFFIC_RECORDER_URL", ""), "Traffic Recorder base URL, e.g. https://host:8383")
	fs.StringVar(&cfg.SettingsPath, "settings", getEnv("TRAFFIC_RECORDER_SETTINGS", ""), "Path of the INI settings file")
	fs.StringVar(&cfg.LogDir, "logs", getEnv("TRAFFIC_RECORDER_LOG_DIR", ""), "Directory for log files")

	timeout, err := time.ParseDuration(getEnv("TRAFFIC_RECORDER_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("TRAFFIC_RECORDER_TIMEOUT: %w", err)
	}
	fs.DurationVar(&cfg.RequestTimeout, "timeout", timeout, "Timeout for each Automation API call (0 = none)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.ServerURL = strings.TrimSpace(cfg.ServerURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.RequestTimeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.ServerURL != "" && !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("server URL must start with http:// or https://")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
