package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

const (
	// MinContentLength is the cleaned text length below which a fetched page
	// is treated as a script-rendered shell.
	MinContentLength = 200
	// DefaultBrowserTimeout bounds one headless render.
	DefaultBrowserTimeout = 30 * time.Second
)

// Renderer returns the HTML of urlStr after scripts have run.
type Renderer func(ctx context.Context, urlStr string, timeout time.Duration) (string, error)

// ShouldUseBrowser reports whether text extracted from a plain HTTP fetch is
// too short to be the real posting.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// BrowserRenderer returns a Renderer backed by WithBrowser.
func BrowserRenderer(logger zerolog.Logger) Renderer {
	return func(ctx context.Context, urlStr string, timeout time.Duration) (string, error) {
		return WithBrowser(ctx, urlStr, timeout, logger)
	}
}

// WithBrowser renders a page in headless Chrome and returns the outer HTML of
// the document. Chrome or Chromium must be installed.
func WithBrowser(ctx context.Context, urlStr string, timeout time.Duration, logger zerolog.Logger) (string, error) {
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}
	logger.Debug().Str("url", urlStr).Dur("timeout", timeout).Msg("starting headless browser")

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady("body"),
		// Job boards fill the posting in after the load event.
		chromedp.Sleep(2*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Cookie banners are optional.
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible, chromedp.AtLeast(0)).Do(ctx)
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	logger.Debug().Str("url", urlStr).Int("bytes", len(html)).Msg("rendered page")
	return html, nil
}
