package dictionary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DefaultURL points at Plover's bundled main dictionary.
const DefaultURL = "https://raw.githubusercontent.com/openstenoproject/plover/main/plover/assets/main.json"

const defaultTimeout = 30 * time.Second

// Download fetches a dictionary into dest atomically and returns the number of
// translations it contains. The payload is validated before it replaces dest.
func Download(ctx context.Context, url, dest string, timeout time.Duration) (int, error) {
	if url == "" {
		return 0, fmt.Errorf("dictionary url is empty")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create dictionary dir: %w", err)
	}

	resp, err := httpRequest(ctx, url, timeout)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected dictionary status: %s", resp.Status)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "dictionary-*.json")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp dictionary: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return 0, fmt.Errorf("failed to download dictionary: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("failed to close temp dictionary: %w", err)
	}
	dict, err := LoadFile(tmpPath)
	if err != nil {
		return 0, err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return 0, fmt.Errorf("failed to move dictionary into place: %w", err)
	}
	return dict.Len(), nil
}

func httpRequest(ctx context.Context, url string, timeout time.Duration) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "chordrill")
	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	return resp, nil
}
