package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"SiglochWebsite/internal/config"
	"SiglochWebsite/internal/extract"
	"SiglochWebsite/internal/report"
)

// NewParseCmd creates the parse command, which builds the report from a
// local HTML file without starting a browser.
func NewParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file.html>",
		Short: "Analyse a local HTML file without a browser",
		Long: `parse reads a built page (for example dist/index.html) and extracts the same
report the browser run produces. Only inline <style> blocks are read for custom
properties, and text is an approximation of the rendered text.

Without --report the JSON report is written to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}

	cmd.Flags().String("base-url", "", "URL used to resolve relative image sources")
	cmd.Flags().StringP("report", "r", "", "Write the JSON report to this path and print a summary")
	cmd.Flags().String("summary", "", "Summary format when --report is set: text or markdown")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadAnalyzerConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	if cfg.SummaryFormat != report.FormatText && cfg.SummaryFormat != report.FormatMarkdown {
		return fmt.Errorf("configuration error: %w: %q", config.ErrInvalidSummaryFormat, cfg.SummaryFormat)
	}
	slog.SetDefault(setupLogger(cmd, cfg))

	var base *url.URL
	if raw, _ := cmd.Flags().GetString("base-url"); raw != "" {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid --base-url: %w", err)
		}
		base = u
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	rep, err := extract.FromHTML(f, base)
	if err != nil {
		return err
	}
	slog.Debug("parsed", "file", args[0], "headings", len(rep.Headings), "sections", len(rep.Sections))

	reportPath, _ := cmd.Flags().GetString("report")
	if reportPath == "" {
		data, err := report.Marshal(rep)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	if err := report.WriteFile(reportPath, rep); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	if err := report.NewSummaryWriter(cfg.SummaryFormat, cmd.OutOrStdout()).WriteSummary(rep); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Full analysis saved to %s\n", reportPath)
	return nil
}
