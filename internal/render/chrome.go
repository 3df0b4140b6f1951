package render

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromeOptions configures the headless browser session.
type ChromeOptions struct {
	ExecPath    string
	UserAgent   string
	Width       int
	Height      int
	WaitTimeout time.Duration
	SettleDelay time.Duration
	Logger      *zap.Logger
}

// ChromeRenderer renders pages in a fresh headless Chrome per call. Nothing is
// shared between calls, and the browser is torn down before Render returns.
type ChromeRenderer struct {
	opts ChromeOptions
	log  *zap.Logger
}

func NewChromeRenderer(opts ChromeOptions) *ChromeRenderer {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1920, 1080
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 10 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &ChromeRenderer{opts: opts, log: log}
}

// allocatorOptions are the Chrome flags for a constrained container: no
// sandbox, no GPU and no /dev/shm.
func (c *ChromeRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(c.opts.Width, c.opts.Height),
	)
	if c.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.opts.UserAgent))
	}
	if c.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.opts.ExecPath))
	}
	return opts
}

func (c *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	start := time.Now()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Run with no actions starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		return "", &Error{Step: StepAllocate, URL: url, Err: err}
	}

	if err := chromedp.Run(browserCtx, bounded(c.opts.WaitTimeout, chromedp.Navigate(url))); err != nil {
		return "", &Error{Step: StepNavigate, URL: url, Err: err}
	}

	if err := chromedp.Run(browserCtx,
		bounded(c.opts.WaitTimeout, chromedp.WaitReady("body", chromedp.ByQuery)),
		chromedp.Sleep(c.opts.SettleDelay),
	); err != nil {
		return "", &Error{Step: StepWait, URL: url, Err: err}
	}

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", &Error{Step: StepCapture, URL: url, Err: err}
	}

	c.log.Info("Rendered page",
		zap.String("url", url),
		zap.Int("bytes", len(html)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return html, nil
}

// bounded runs action under its own timeout.
func bounded(d time.Duration, action chromedp.Action) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return action.Do(ctx)
	})
}
