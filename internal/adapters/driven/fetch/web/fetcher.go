// Package web fetches article content over HTTP, with an optional local
// cache so repeated runs do not re-download unchanged pages.
package web

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driven"
	"github.com/JapanColorado/article-to-anki/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultTimeout  = 15 * time.Second
	DefaultCacheDir = ".article_cache"

	// userAgent mimics a desktop browser; several publishers refuse
	// requests with an obvious bot agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/113.0.0.0 Safari/537.36"

	// maxBodySize caps a response at 10 MiB.
	maxBodySize = 10 << 20
)

// Config holds configuration for the web fetcher.
type Config struct {
	// Timeout is the per-request timeout (default: 15s).
	Timeout time.Duration

	// UseCache enables the local content cache.
	UseCache bool

	// CacheDir is where cached content lives (default: .article_cache).
	CacheDir string
}

// Fetcher retrieves articles over HTTP.
type Fetcher struct {
	client   *http.Client
	useCache bool
	cacheDir string
}

// NewFetcher creates a web fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir
	}
	return &Fetcher{
		client:   &http.Client{Timeout: cfg.Timeout},
		useCache: cfg.UseCache,
		cacheDir: cfg.CacheDir,
	}
}

// Fetch retrieves the article at the given URL. When caching is enabled
// a previously fetched copy is served from disk without any network
// traffic.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*domain.RawArticle, error) {
	identity := domain.IdentityFromURL(url)

	if f.useCache {
		if raw, ok := f.readCache(url, identity); ok {
			logger.Debug("Serving %s from cache", url)
			return raw, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrFetchFailed, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrFetchFailed, err)
	}

	mimeType := contentMIMEType(resp.Header.Get("Content-Type"))
	raw := &domain.RawArticle{
		Identity: identity,
		URI:      url,
		MIMEType: mimeType,
		Content:  body,
	}

	if f.useCache {
		f.writeCache(url, raw)
	}
	return raw, nil
}

// contentMIMEType strips parameters from a Content-Type header,
// defaulting to text/html when the header is missing or malformed.
func contentMIMEType(header string) string {
	if header == "" {
		return "text/html"
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return "text/html"
	}
	return mediaType
}

// cachePath returns the cache file for a URL. Files are keyed by the
// article identity so canonical-equal URLs share one entry.
func (f *Fetcher) cachePath(identity string) string {
	return filepath.Join(f.cacheDir, identity+".cache")
}

// readCache loads a cached response. The first line holds the MIME
// type, the rest is the raw body.
func (f *Fetcher) readCache(url, identity string) (*domain.RawArticle, bool) {
	data, err := os.ReadFile(f.cachePath(identity))
	if err != nil {
		return nil, false
	}

	mimeType, body, found := strings.Cut(string(data), "\n")
	if !found {
		return nil, false
	}

	return &domain.RawArticle{
		Identity:  identity,
		URI:       url,
		MIMEType:  strings.TrimSpace(mimeType),
		Content:   []byte(body),
		FromCache: true,
	}, true
}

// writeCache stores a fetched response. Cache failures only cost a
// re-download next run, so they are logged and ignored.
func (f *Fetcher) writeCache(url string, raw *domain.RawArticle) {
	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		logger.Warn("cannot create cache directory %s: %v", f.cacheDir, err)
		return
	}

	data := append([]byte(raw.MIMEType+"\n"), raw.Content...)
	if err := os.WriteFile(f.cachePath(raw.Identity), data, 0o644); err != nil {
		logger.Warn("cannot cache %s: %v", url, err)
	}
}
