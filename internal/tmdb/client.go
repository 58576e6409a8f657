// Package tmdb is a thin typed client for The Movie Database REST API.
// Every call is a live outbound request: no retry, no backoff, no cache.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ErrUpstreamTimeout marks an outbound call that exceeded the client's
// bounded timeout, distinct from upstream rejections.
var ErrUpstreamTimeout = errors.New("movie catalog request timed out")

// ErrEmptyQuery is returned before any outbound call is attempted.
var ErrEmptyQuery = errors.New("search query must not be empty")

// UpstreamError carries the catalog's non-success status for passthrough.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("movie catalog returned status %d", e.StatusCode)
}

// Movie is the narrowed external-metadata schema. Only these fields cross
// the gateway boundary into the rest of the system.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`
}

// SearchResult mirrors the catalog's paged search payload.
type SearchResult struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Client provides access to the TMDB REST API, authenticated with a
// pre-shared API key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a TMDB client. The timeout bounds every outbound call.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search performs a free-text movie search. The query must be non-empty;
// that is checked before any network traffic happens.
func (c *Client) Search(ctx context.Context, query string) (*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	endpoint := "/search/movie?query=" + url.QueryEscape(query)

	var result SearchResult
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("search movies %q: %w", query, err)
	}

	return &result, nil
}

// GetMovie fetches one movie's detail by its catalog id.
func (c *Client) GetMovie(ctx context.Context, movieID int64) (*Movie, error) {
	endpoint := fmt.Sprintf("/movie/%d", movieID)

	var movie Movie
	if err := c.get(ctx, endpoint, &movie); err != nil {
		return nil, fmt.Errorf("get movie %d: %w", movieID, err)
	}

	return &movie, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	fullURL := c.baseURL + endpoint + sep + "api_key=" + url.QueryEscape(c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return ErrUpstreamTimeout
		}
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}

	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
