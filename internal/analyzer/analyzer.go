// Package analyzer drives one inspection run: launch a headless browser, load
// the target page, extract the report, capture a screenshot, persist both and
// print a summary. The browser is always released before Run returns.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"SiglochWebsite/internal/browser"
	"SiglochWebsite/internal/config"
	"SiglochWebsite/internal/extract"
	"SiglochWebsite/internal/report"
)

// Page is the subset of browser automation a run needs.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Evaluate(ctx context.Context, script string) ([]byte, error)
	FullScreenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// LaunchFunc starts a browser and returns its page.
type LaunchFunc func(ctx context.Context, cfg browser.Config) (Page, error)

// Analyzer runs inspections for one configuration.
type Analyzer struct {
	cfg    *config.AnalyzerConfig
	launch LaunchFunc
	out    io.Writer
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLauncher replaces the chromedp launcher.
func WithLauncher(fn LaunchFunc) Option {
	return func(a *Analyzer) { a.launch = fn }
}

// WithOutput sets where the summary is printed. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *Analyzer) { a.out = w }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

func New(cfg *config.AnalyzerConfig, opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:    cfg,
		launch: launchChrome,
		out:    os.Stdout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func launchChrome(ctx context.Context, cfg browser.Config) (Page, error) {
	s, err := browser.Launch(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// BrowserConfig derives the browser settings from the analyzer configuration.
func (a *Analyzer) BrowserConfig() browser.Config {
	bc := browser.DefaultConfig()
	bc.ExecPath = a.cfg.ChromePath
	bc.UserAgent = a.cfg.UserAgent
	bc.NavigationTimeout = a.cfg.NavigationTimeout
	bc.IgnoreCertErrors = true
	return bc
}

// Run performs one full inspection. Either the report and the screenshot are
// both written, or an *Error is returned.
func (a *Analyzer) Run(ctx context.Context) (*report.Report, error) {
	url := a.cfg.TargetURL
	log := a.logger.With("url", url)

	log.Info("scraping")

	page, err := a.launch(ctx, a.BrowserConfig())
	if err != nil {
		return nil, newError(KindBrowserLaunch, "could not start headless browser", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Warn("browser close failed", "error", err)
			return
		}
		log.Debug("browser released")
	}()

	if err := page.Navigate(ctx, url); err != nil {
		return nil, newError(KindNavigation, fmt.Sprintf("could not load %s", url), err)
	}
	log.Debug("document parsed")

	raw, err := page.Evaluate(ctx, extract.Script())
	if err != nil {
		return nil, newError(KindExtraction, "page evaluation failed", err)
	}
	rep, err := report.Decode(raw)
	if err != nil {
		return nil, newError(KindExtraction, "unexpected evaluation result", err)
	}
	log.Info("page extracted",
		"headings", len(rep.Headings),
		"navLinks", len(rep.NavLinks),
		"forms", len(rep.Forms),
		"sections", len(rep.Sections),
		"cssVars", len(rep.CSSVars),
	)

	png, err := page.FullScreenshot(ctx)
	if err != nil {
		return nil, newError(KindScreenshot, "capture failed", err)
	}
	if err := report.WriteScreenshot(a.cfg.ScreenshotPath, png); err != nil {
		return nil, newError(KindFileWrite, "could not save screenshot to "+a.cfg.ScreenshotPath, err)
	}
	log.Info("screenshot saved", "path", a.cfg.ScreenshotPath, "bytes", len(png))

	if err := report.WriteFile(a.cfg.ReportPath, rep); err != nil {
		return nil, newError(KindFileWrite, "could not save report to "+a.cfg.ReportPath, err)
	}
	log.Info("report saved", "path", a.cfg.ReportPath)

	if err := report.NewSummaryWriter(a.cfg.SummaryFormat, a.out).WriteSummary(rep); err != nil {
		return nil, fmt.Errorf("print summary: %w", err)
	}
	fmt.Fprintf(a.out, "\n✓ Full analysis saved to %s\n", a.cfg.ReportPath)
	fmt.Fprintf(a.out, "✓ Screenshot saved to %s\n", a.cfg.ScreenshotPath)

	return rep, nil
}
