package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"SiglochWebsite/internal/config"
	"SiglochWebsite/internal/report"
)

const samplePage = `<html lang="de"><head><title>Sigloch Consulting</title></head>
<body><nav><a href="/blog">Blog</a></nav><h1>Willkommen</h1><img src="logo.png" alt="Logo"></body></html>`

func writeSample(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(path, []byte(samplePage), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApplyFlags(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	err := cmd.ParseFlags([]string{
		"--url", "https://staging.siglochconsulting.de",
		"-t", "1500",
		"--summary", "markdown",
		"-v",
	})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	cfg := config.NewAnalyzerConfig()
	if err := applyFlags(cmd, cfg); err != nil {
		t.Fatalf("applyFlags failed: %v", err)
	}

	if cfg.TargetURL != "https://staging.siglochconsulting.de" {
		t.Errorf("unexpected target %q", cfg.TargetURL)
	}
	if cfg.NavigationTimeout != 1500*time.Millisecond {
		t.Errorf("expected 1.5s timeout, got %v", cfg.NavigationTimeout)
	}
	if cfg.SummaryFormat != "markdown" || cfg.LogLevel != "debug" {
		t.Errorf("unexpected summary/log level %q/%q", cfg.SummaryFormat, cfg.LogLevel)
	}
	if cfg.ReportPath != config.DefaultReportPath() {
		t.Errorf("unset flag changed report path to %q", cfg.ReportPath)
	}
}

func TestRootRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--url", "siglochconsulting.de"})

	if err := cmd.Execute(); !errors.Is(err, config.ErrInvalidTarget) {
		t.Errorf("expected invalid target error, got %v", err)
	}
}

func TestRootRejectsArguments(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"https://siglochconsulting.de"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected positional arguments to be rejected")
	}
}

func TestParseCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints JSON report", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"parse", writeSample(t), "--base-url", "https://siglochconsulting.de/"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		var rep report.Report
		if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
			t.Fatalf("expected JSON on stdout: %v\n%s", err, out.String())
		}
		if len(rep.Headings) != 1 || rep.Headings[0].Text != "Willkommen" {
			t.Errorf("unexpected headings %+v", rep.Headings)
		}
		if len(rep.Images) != 1 || rep.Images[0].Src != "https://siglochconsulting.de/logo.png" {
			t.Errorf("unexpected images %+v", rep.Images)
		}
	})

	t.Run("writes report file and summary", func(t *testing.T) {
		t.Parallel()

		reportPath := filepath.Join(t.TempDir(), "analysis.json")
		var out bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"parse", writeSample(t), "--report", reportPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if _, err := os.Stat(reportPath); err != nil {
			t.Errorf("expected report at %s: %v", reportPath, err)
		}
		if !strings.Contains(out.String(), "Navigation Links:") {
			t.Errorf("expected text summary, got %q", out.String())
		}
	})

	t.Run("markdown summary", func(t *testing.T) {
		t.Parallel()

		reportPath := filepath.Join(t.TempDir(), "analysis.json")
		var out bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"parse", writeSample(t), "--report", reportPath, "--summary", "markdown"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if !strings.Contains(out.String(), "## Navigation Links") {
			t.Errorf("expected markdown summary, got %q", out.String())
		}
	})

	t.Run("rejects unknown summary format", func(t *testing.T) {
		t.Parallel()

		reportPath := filepath.Join(t.TempDir(), "analysis.json")
		cmd := NewRootCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"parse", writeSample(t), "--report", reportPath, "--summary", "mardown"})

		if err := cmd.Execute(); !errors.Is(err, config.ErrInvalidSummaryFormat) {
			t.Errorf("expected invalid summary format error, got %v", err)
		}
		if _, err := os.Stat(reportPath); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected no report to be written, stat returned %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"parse", filepath.Join(t.TempDir(), "missing.html")})

		if err := cmd.Execute(); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})
}
