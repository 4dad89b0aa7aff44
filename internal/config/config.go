package config

import (
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults reproduce the behaviour of running the inspector without any
// configuration.
const (
	DefaultTargetURL         = "https://siglochconsulting.de"
	DefaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultNavigationTimeout = 30000 * time.Millisecond
	DefaultSummaryFormat     = "text"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
)

// AnalyzerConfig holds everything one inspection run needs.
type AnalyzerConfig struct {
	TargetURL         string
	ScreenshotPath    string
	ReportPath        string
	NavigationTimeout time.Duration
	UserAgent         string

	// ChromePath overrides browser auto-detection.
	ChromePath    string
	SummaryFormat string
	LogLevel      string
	LogFormat     string
}

// DefaultScreenshotPath is website-screenshot.png in the system temp dir.
func DefaultScreenshotPath() string {
	return filepath.Join(os.TempDir(), "website-screenshot.png")
}

// DefaultReportPath is website-analysis.json in the system temp dir.
func DefaultReportPath() string {
	return filepath.Join(os.TempDir(), "website-analysis.json")
}

// NewAnalyzerConfig returns the built-in defaults without reading the environment.
func NewAnalyzerConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		TargetURL:         DefaultTargetURL,
		ScreenshotPath:    DefaultScreenshotPath(),
		ReportPath:        DefaultReportPath(),
		NavigationTimeout: DefaultNavigationTimeout,
		UserAgent:         DefaultUserAgent,
		SummaryFormat:     DefaultSummaryFormat,
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
	}
}

// LoadAnalyzerConfig loads the inspector configuration from environment variables.
// It looks for a .env file in the project root and falls back to actual environment variables.
func LoadAnalyzerConfig() (*AnalyzerConfig, error) {
	loadEnvFile()
	return analyzerConfigFromEnv()
}

func analyzerConfigFromEnv() (*AnalyzerConfig, error) {
	cfg := NewAnalyzerConfig()

	cfg.TargetURL = getEnvOrDefault("INSPECTOR_URL", cfg.TargetURL)
	cfg.ScreenshotPath = getEnvOrDefault("INSPECTOR_SCREENSHOT", cfg.ScreenshotPath)
	cfg.ReportPath = getEnvOrDefault("INSPECTOR_REPORT", cfg.ReportPath)
	cfg.UserAgent = getEnvOrDefault("INSPECTOR_USER_AGENT", cfg.UserAgent)
	cfg.ChromePath = os.Getenv("CHROME_PATH")
	cfg.SummaryFormat = getEnvOrDefault("INSPECTOR_SUMMARY", cfg.SummaryFormat)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)

	if v := os.Getenv("INSPECTOR_NAV_TIMEOUT_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return nil, &EnvError{Key: "INSPECTOR_NAV_TIMEOUT_MS", Value: v, Err: err}
		}
		cfg.NavigationTimeout = time.Duration(ms) * time.Millisecond
	}

	return cfg, nil
}

// Validate checks the configuration for values that would make a run fail
// before the browser is even started.
func (c *AnalyzerConfig) Validate() error {
	if c.TargetURL == "" {
		return ErrNoTarget
	}
	u, err := url.Parse(c.TargetURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidTarget
	}
	if c.NavigationTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.ScreenshotPath == "" {
		return ErrNoScreenshotPath
	}
	if c.ReportPath == "" {
		return ErrNoReportPath
	}
	if c.SummaryFormat != "text" && c.SummaryFormat != "markdown" {
		return ErrInvalidSummaryFormat
	}
	return nil
}

// loadEnvFile attempts to load the .env file from the project root.
// It searches relative to this file's location to find the project root.
func loadEnvFile() {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return
	}

	// Navigate from internal/config/config.go to project root
	projectRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	// A .env in the working directory wins over the project one; godotenv
	// never overrides variables that are already set.
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(projectRoot, ".env"))
}

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
