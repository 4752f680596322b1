// Package nuget queries a NuGet flat-container index to check which
// SDK package versions an upstream feed actually publishes.
package nuget

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clean-dependency-project/manifestctl/internal/sdkversion"
)

const (
	// DefaultBaseURL is the default flat-container endpoint
	DefaultBaseURL = "https://api.nuget.org/v3-flatcontainer"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is the default User-Agent header
	DefaultUserAgent = "manifestctl/1.0"
)

// HTTPClient defines the interface for HTTP operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds configuration for the index client
type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient HTTPClient
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Client queries the flat-container index.
type Client struct {
	config Config
}

// NewClient creates a new flat-container index client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: config.Timeout}
	}
	return &Client{config: config}
}

type versionsIndex struct {
	Versions []string `json:"versions"`
}

// Versions returns the published version strings for a package. The
// feed is advisory: transport failures and any response other than
// 200 degrade to an empty list so callers can proceed without it.
func (c *Client) Versions(ctx context.Context, packageID string) ([]string, error) {
	if packageID == "" {
		return nil, fmt.Errorf("package ID cannot be empty")
	}

	apiURL, err := url.JoinPath(c.config.BaseURL, strings.ToLower(packageID), "index.json")
	if err != nil {
		return nil, fmt.Errorf("failed to construct index URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return nil, nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var index versionsIndex
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		return nil, fmt.Errorf("failed to decode index for %s: %w", packageID, err)
	}
	return index.Versions, nil
}

// Normalize renders a version key the way the feed indexes it: stable
// releases collapse to "major.minor.0", pre-releases keep their full
// form.
func Normalize(k sdkversion.Key) string {
	if k.Stable() {
		return fmt.Sprintf("%d.%d.0", k.Major, k.Minor)
	}
	return k.String()
}

// Contains reports whether the normalized form of k appears in the
// published version list.
func Contains(available []string, k sdkversion.Key) bool {
	want := Normalize(k)
	for _, v := range available {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
