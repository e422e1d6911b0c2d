package hospitable

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotConfigured means the API URL or key is missing.
	ErrNotConfigured = errors.New("hospitable: api url or api key not configured")
	// ErrFetchFailed is returned for any non-success upstream response.
	// Callers treat it as "no data this page"; no retry happens here.
	ErrFetchFailed = errors.New("hospitable: fetch failed")
)

// Config carries the upstream credentials. It is injected at construction
// so nothing in the request path reads ambient state.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// QueryParams are the pagination/include parameters every collection
// endpoint accepts.
type QueryParams struct {
	Page    int
	PerPage int
	Include string
}

func (p QueryParams) values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.Include != "" {
		v.Set("include", p.Include)
	}
	return v
}

// Client issues authenticated GET calls against the Hospitable API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// FetchProperties loads one page of properties.
func (c *Client) FetchProperties(params QueryParams) (*Page, error) {
	return c.get("properties", params)
}

// FetchPropertyImages loads one page of images for a property.
func (c *Client) FetchPropertyImages(propertyID string, params QueryParams) (*Page, error) {
	return c.get("properties/"+propertyID+"/images", params)
}

// FetchPropertyReviews loads one page of reviews for a property.
func (c *Client) FetchPropertyReviews(propertyID string, params QueryParams) (*Page, error) {
	return c.get("properties/"+propertyID+"/reviews", params)
}

func (c *Client) get(endpoint string, params QueryParams) (*Page, error) {
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if q := params.values().Encode(); q != "" {
		u += "?" + q
	}

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("hospitable: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("❌ Hospitable request failed: GET %s: %v", u, err)
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("❌ Hospitable request failed: GET %s status=%d body=%s", u, resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	page, err := DecodePage(body)
	if err != nil {
		return nil, err
	}
	return page, nil
}
