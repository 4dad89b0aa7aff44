package config

import (
	"errors"
	"fmt"
)

// Validation errors returned by AnalyzerConfig.Validate.
var (
	ErrNoTarget             = errors.New("no target URL configured")
	ErrInvalidTarget        = errors.New("invalid target URL: must be an absolute http or https URL")
	ErrInvalidTimeout       = errors.New("invalid navigation timeout: must be positive")
	ErrNoScreenshotPath     = errors.New("no screenshot path configured")
	ErrNoReportPath         = errors.New("no report path configured")
	ErrInvalidSummaryFormat = errors.New("invalid summary format: must be text or markdown")
)

// EnvError reports an environment variable that could not be parsed.
type EnvError struct {
	Key   string
	Value string
	Err   error
}

func (e *EnvError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Key, e.Err)
}

func (e *EnvError) Unwrap() error {
	return e.Err
}
