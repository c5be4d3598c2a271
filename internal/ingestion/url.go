package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-ranker/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when the page could not be fetched
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when the page has no usable text
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// IngestFromURL fetches a job posting and returns its cleaned text. Platform
// detection picks the content and noise selectors for known job boards. With
// opts.UseBrowser set, a page that yields less than fetch.MinContentLength of
// text is rendered again in a headless browser; if that fails the HTTP text
// is kept.
func IngestFromURL(ctx context.Context, urlStr string, opts *fetch.Options, logger zerolog.Logger) (string, *Metadata, error) {
	platform := fetch.DetectPlatform(urlStr)
	logger.Debug().Str("url", urlStr).Str("platform", string(platform)).Msg("fetching job posting")

	result, err := fetch.URL(ctx, urlStr, opts)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)
	textContent, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	cleaned := CleanText(textContent)
	if opts != nil && opts.UseBrowser && fetch.ShouldUseBrowser(cleaned) {
		cleaned = renderFallback(ctx, urlStr, cleaned, opts, contentSelectors, noiseSelectors, logger)
	}
	if cleaned == "" {
		return "", nil, fmt.Errorf("%w: page has no text", ErrContentExtractionFailed)
	}
	if len(cleaned) < fetch.MinContentLength {
		logger.Warn().Str("url", urlStr).Int("chars", len(cleaned)).Msg("job posting text is unusually short")
	}

	metadata := NewMetadata(cleaned, urlStr, FormatHTML)
	metadata.Platform = string(platform)
	logger.Debug().Str("url", urlStr).Int("chars", metadata.Chars).Msg("ingested job posting")

	return cleaned, metadata, nil
}

// renderFallback re-extracts the posting from browser-rendered HTML. It
// returns httpText unchanged when rendering or extraction fails or yields
// nothing.
func renderFallback(ctx context.Context, urlStr, httpText string, opts *fetch.Options, contentSelectors, noiseSelectors []string, logger zerolog.Logger) string {
	render := opts.Renderer
	if render == nil {
		render = fetch.BrowserRenderer(logger)
	}
	logger.Info().Str("url", urlStr).Int("chars", len(httpText)).Msg("page text too short, rendering in browser")

	html, err := render(ctx, urlStr, opts.BrowserTimeout)
	if err != nil {
		logger.Warn().Err(err).Str("url", urlStr).Msg("browser rendering failed, using HTTP content")
		return httpText
	}
	text, err := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...)
	if err != nil {
		logger.Warn().Err(err).Str("url", urlStr).Msg("browser content extraction failed, using HTTP content")
		return httpText
	}
	rendered := CleanText(text)
	if rendered == "" {
		return httpText
	}
	logger.Debug().Str("url", urlStr).Int("chars", len(rendered)).Msg("extracted rendered page")
	return rendered
}
