package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultFetchTimeout is the default HTTP client timeout
	DefaultFetchTimeout = 30 * time.Second

	// DefaultUserAgent is the default User-Agent header
	DefaultUserAgent = "manifestctl/1.0"
)

// ErrFetch wraps a failure to retrieve a remote manifest.
type ErrFetch struct {
	URL        string
	StatusCode int
	Err        error
}

func (e ErrFetch) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e ErrFetch) Unwrap() error {
	return e.Err
}

// HTTPClient defines the interface for HTTP operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher retrieves manifests over HTTP.
type Fetcher struct {
	Client    HTTPClient
	UserAgent string
}

// NewFetcher returns a Fetcher with a dedicated HTTP client.
func NewFetcher() *Fetcher {
	return &Fetcher{
		Client:    &http.Client{Timeout: DefaultFetchTimeout},
		UserAgent: DefaultUserAgent,
	}
}

// FetchRaw downloads url and returns the response body.
func (f *Fetcher) FetchRaw(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ErrFetch{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, ErrFetch{URL: url, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrFetch{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrFetch{URL: url, Err: err}
	}
	return body, nil
}

// FetchManifest downloads and decodes a manifest.
func (f *Fetcher) FetchManifest(ctx context.Context, url string) ([]Entry, error) {
	body, err := f.FetchRaw(ctx, url)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, ErrFetch{URL: url, Err: fmt.Errorf("%w: %v", ErrInvalidManifest, err)}
	}
	return entries, nil
}
