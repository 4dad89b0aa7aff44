package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ErrClosed is returned by every Session method once Close has run.
var ErrClosed = errors.New("browser session closed")

type Config struct {
	ExecPath          string
	Headless          bool
	NoSandbox         bool
	UserAgent         string
	IgnoreCertErrors  bool
	NavigationTimeout time.Duration
	WindowWidth       int
	WindowHeight      int
	DisableGPU        bool
	DisableDevShm     bool
}

func DefaultConfig() Config {
	return Config{
		Headless:          true,
		NoSandbox:         true,
		IgnoreCertErrors:  true,
		NavigationTimeout: 30 * time.Second,
		WindowWidth:       1920,
		WindowHeight:      1080,
		DisableGPU:        true,
		DisableDevShm:     true,
	}
}

// Session owns one browser process and its single tab.
type Session struct {
	mu          sync.Mutex
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	config      Config
	closed      bool
}

// Launch starts the browser process and opens a tab. The process is bound to
// ctx: cancelling it kills the browser.
func Launch(ctx context.Context, cfg Config) (*Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, buildAllocatorOptions(cfg)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Run with no actions forces the allocator to start the process.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Session{
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		config:      cfg,
	}, nil
}

// Navigate loads url and returns once the document has been parsed
// (DOMContentLoaded), without waiting for subresources.
func (s *Session) Navigate(ctx context.Context, url string) error {
	runCtx, cancel, err := s.runContext(ctx, s.config.NavigationTimeout)
	if err != nil {
		return err
	}
	defer cancel()

	parsed := make(chan struct{})
	var once sync.Once
	chromedp.ListenTarget(runCtx, func(ev interface{}) {
		if _, ok := ev.(*page.EventDomContentEventFired); ok {
			once.Do(func() { close(parsed) })
		}
	})

	var res page.NavigateReturns
	err = chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return cdp.Execute(ctx, page.CommandNavigate, page.Navigate(url), &res)
	}))
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if res.ErrorText != "" {
		return fmt.Errorf("navigate %s: %s", url, res.ErrorText)
	}

	select {
	case <-parsed:
		return nil
	case <-runCtx.Done():
		return fmt.Errorf("navigate %s: waiting for DOMContentLoaded: %w", url, runCtx.Err())
	}
}

// Evaluate runs script in the page and returns its result as raw JSON.
func (s *Session) Evaluate(ctx context.Context, script string) ([]byte, error) {
	runCtx, cancel, err := s.runContext(ctx, 0)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var raw []byte
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, &raw)); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	return raw, nil
}

// FullScreenshot captures the whole scrollable page as PNG.
func (s *Session) FullScreenshot(ctx context.Context) ([]byte, error) {
	runCtx, cancel, err := s.runContext(ctx, 0)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var buf []byte
	// quality 100 selects PNG encoding
	if err := chromedp.Run(runCtx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return buf, nil
}

// Close shuts the tab and kills the browser process. Only the first call has
// an effect.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	err := chromedp.Cancel(s.tabCtx)
	s.tabCancel()
	s.allocCancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}

// runContext derives a context for one chromedp.Run from the tab context.
// Cancelling parent aborts the run but leaves the tab open.
func (s *Session) runContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil, ErrClosed
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(s.tabCtx, timeout)
	} else {
		ctx, cancel = context.WithCancel(s.tabCtx)
	}
	stop := context.AfterFunc(parent, cancel)

	return ctx, func() {
		stop()
		cancel()
	}, nil
}

func buildAllocatorOptions(cfg Config) []chromedp.ExecAllocatorOption {
	opts := make([]chromedp.ExecAllocatorOption, 0, 16)
	opts = append(opts, chromedp.DefaultExecAllocatorOptions[:]...)

	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", cfg.NoSandbox),
		chromedp.Flag("disable-gpu", cfg.DisableGPU),
		chromedp.Flag("disable-dev-shm-usage", cfg.DisableDevShm),
		chromedp.Flag("disable-software-rasterizer", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-plugins", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)

	if cfg.IgnoreCertErrors {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}

	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	return opts
}
