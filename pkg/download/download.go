package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// Downloader fetches generated images and materializes them as local files.
// Failures are logged and swallowed; callers only learn whether a file
// appeared, never why one did not.
type Downloader struct {
	http *http.Client
	dir  string

	now func() time.Time
}

func NewDownloader(dir string, httpClient *http.Client) *Downloader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Downloader{http: httpClient, dir: dir, now: time.Now}
}

// Fetch downloads url and writes it under the suggested filename in the
// download directory, falling back to a timestamp-based name when none is
// given. It returns the written path, or "" when the download failed.
func (d *Downloader) Fetch(ctx context.Context, url string, filename string) string {
	if filename == "" {
		filename = fmt.Sprintf("design_%d.png", d.now().UnixMilli())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("download failed")
		return ""
	}
	resp, err := d.http.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("download failed")
		return ""
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Int("status", resp.StatusCode).Str("url", url).Msg("download failed")
		return ""
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", d.dir).Msg("download failed")
		return ""
	}
	path := filepath.Join(d.dir, filename)
	f, err := os.Create(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("download failed")
		return ""
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(f, resp.Body); err != nil {
		log.Error().Err(err).Str("path", path).Msg("download failed")
		_ = os.Remove(path)
		return ""
	}
	log.Info().Str("url", url).Str("path", path).Msg("image downloaded")
	return path
}
