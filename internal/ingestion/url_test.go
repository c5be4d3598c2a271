package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ranker/internal/fetch"
)

func TestIngestFromURL_InvalidURL(t *testing.T) {
	tests := []struct {
		name   string
		urlStr string
	}{
		{"empty URL", ""},
		{"malformed URL", "not-a-url"},
		{"no scheme", "example.com"},
		{"no host", "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := IngestFromURL(context.Background(), tt.urlStr, nil, zerolog.Nop())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrHTTPRequestFailed)
		})
	}
}

func TestIngestFromURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		html := `<!DOCTYPE html>
<html>
<body>
<nav>Nav</nav>
<main>
<h1>Backend Engineer</h1>
<p>Build services in Go and Postgres.</p>
<form id="application-form">Upload your resume</form>
</main>
<footer>Footer</footer>
</body>
</html>`
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(html))
	}))
	defer server.Close()

	text, metadata, err := IngestFromURL(context.Background(), server.URL, nil, zerolog.Nop())
	require.NoError(t, err)

	assert.Contains(t, text, "Backend Engineer")
	assert.Contains(t, text, "Build services in Go and Postgres.")
	assert.NotContains(t, text, "Nav")
	assert.NotContains(t, text, "Footer")
	assert.NotContains(t, text, "Upload your resume")

	require.NotNil(t, metadata)
	assert.Equal(t, server.URL, metadata.Source)
	assert.Equal(t, FormatHTML, metadata.Format)
	assert.Equal(t, "unknown", metadata.Platform)
	assert.Len(t, metadata.Hash, 64)
}

func TestIngestFromURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, _, err := IngestFromURL(context.Background(), server.URL, nil, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
	assert.Contains(t, err.Error(), "404")
}

func TestIngestFromURL_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script>render()</script></body></html>`))
	}))
	defer server.Close()

	_, _, err := IngestFromURL(context.Background(), server.URL, nil, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContentExtractionFailed)
}

func TestIngestFromURL_NetworkError(t *testing.T) {
	_, _, err := IngestFromURL(context.Background(), "http://127.0.0.1:1/posting", nil, zerolog.Nop())
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
}

const shellPage = `<html><body><div id="root">Loading</div><script>render()</script></body></html>`

var renderedPosting = `<html><body><main><h1>Platform Engineer</h1><p>` +
	strings.Repeat("Operate golang services on kubernetes with terraform and postgres. ", 5) +
	`</p></main></body></html>`

func shellServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(shellPage))
	}))
	t.Cleanup(server.Close)
	return server
}

// fakeRenderer records its calls and returns html or err.
type fakeRenderer struct {
	html    string
	err     error
	calls   int
	url     string
	timeout time.Duration
}

func (f *fakeRenderer) render(_ context.Context, urlStr string, timeout time.Duration) (string, error) {
	f.calls++
	f.url = urlStr
	f.timeout = timeout
	return f.html, f.err
}

func TestIngestFromURL_BrowserFallback(t *testing.T) {
	server := shellServer(t)
	renderer := &fakeRenderer{html: renderedPosting}

	opts := fetch.DefaultOptions()
	opts.UseBrowser = true
	opts.BrowserTimeout = 5 * time.Second
	opts.Renderer = renderer.render

	text, metadata, err := IngestFromURL(context.Background(), server.URL+"/jobs/42", opts, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, server.URL+"/jobs/42", renderer.url)
	assert.Equal(t, 5*time.Second, renderer.timeout)
	assert.Contains(t, text, "Platform Engineer")
	assert.NotContains(t, text, "Loading")
	assert.Equal(t, len(text), metadata.Chars)
}

func TestIngestFromURL_BrowserFallbackFailureKeepsHTTPText(t *testing.T) {
	server := shellServer(t)
	renderer := &fakeRenderer{err: errors.New("chrome not found")}

	opts := fetch.DefaultOptions()
	opts.UseBrowser = true
	opts.Renderer = renderer.render

	text, _, err := IngestFromURL(context.Background(), server.URL, opts, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, "Loading", text)
}

func TestIngestFromURL_BrowserNotUsed(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		renderer := &fakeRenderer{html: renderedPosting}
		opts := fetch.DefaultOptions()
		opts.Renderer = renderer.render

		text, _, err := IngestFromURL(context.Background(), shellServer(t).URL, opts, zerolog.Nop())
		require.NoError(t, err)
		assert.Zero(t, renderer.calls)
		assert.Equal(t, "Loading", text)
	})

	t.Run("enough text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(renderedPosting))
		}))
		defer server.Close()

		renderer := &fakeRenderer{err: errors.New("must not be called")}
		opts := fetch.DefaultOptions()
		opts.UseBrowser = true
		opts.Renderer = renderer.render

		text, _, err := IngestFromURL(context.Background(), server.URL, opts, zerolog.Nop())
		require.NoError(t, err)
		assert.Zero(t, renderer.calls)
		assert.Contains(t, text, "Platform Engineer")
	})
}
