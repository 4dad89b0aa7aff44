package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"SiglochWebsite/internal/analyzer"
	"SiglochWebsite/internal/config"
	"SiglochWebsite/internal/logging"
)

// NewRootCmd creates the inspector command. Without flags it inspects the
// default target with the default output paths.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspector",
		Short: "Inspect the public site in a headless browser",
		Long: `inspector loads one page in headless Chrome, extracts its structure and
design facts, saves a full-page screenshot and a JSON report, and prints a summary.

Every flag can also be set through the environment (or a .env file):
  INSPECTOR_URL, INSPECTOR_SCREENSHOT, INSPECTOR_REPORT, INSPECTOR_NAV_TIMEOUT_MS,
  INSPECTOR_USER_AGENT, INSPECTOR_SUMMARY, CHROME_PATH, LOG_LEVEL, LOG_FORMAT.
Flags take precedence over the environment.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runInspect,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().String("log-format", "", "Log format: text or json")

	cmd.Flags().StringP("url", "u", "", "Absolute URL to inspect")
	cmd.Flags().StringP("screenshot", "s", "", "Path of the full-page PNG screenshot")
	cmd.Flags().StringP("report", "r", "", "Path of the JSON report")
	cmd.Flags().IntP("nav-timeout", "t", 0, "Navigation timeout in milliseconds")
	cmd.Flags().String("user-agent", "", "User agent sent by the browser")
	cmd.Flags().String("chrome", "", "Chrome/Chromium executable (default: auto-detect)")
	cmd.Flags().String("summary", "", "Summary format: text or markdown")

	cmd.AddCommand(NewParseCmd())

	return cmd
}

func runInspect(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadAnalyzerConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	slog.SetDefault(setupLogger(cmd, cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = analyzer.New(cfg, analyzer.WithOutput(cmd.OutOrStdout())).Run(ctx)
	return err
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.AnalyzerConfig) error {
	flags := cmd.Flags()

	strFlags := map[string]*string{
		"url":        &cfg.TargetURL,
		"screenshot": &cfg.ScreenshotPath,
		"report":     &cfg.ReportPath,
		"user-agent": &cfg.UserAgent,
		"chrome":     &cfg.ChromePath,
		"summary":    &cfg.SummaryFormat,
		"log-format": &cfg.LogFormat,
	}
	for name, dst := range strFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if flags.Changed("nav-timeout") {
		ms, err := flags.GetInt("nav-timeout")
		if err != nil {
			return err
		}
		cfg.NavigationTimeout = time.Duration(ms) * time.Millisecond
	}

	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	return nil
}

func setupLogger(cmd *cobra.Command, cfg *config.AnalyzerConfig) *slog.Logger {
	return logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
}
