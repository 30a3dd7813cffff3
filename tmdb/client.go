package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the TMDB v3 endpoint
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultTimeout bounds every request
	DefaultTimeout = 10 * time.Second
)

// Client represents a TMDB API client
type Client struct {
	baseURL    string
	params     ParamsSource
	timeout    time.Duration
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, params ParamsSource, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if params == nil {
		return nil, ErrMissingParams
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid tmdb URL %q: %w", baseURL, err)
	}

	o := clientOptions{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	} else if httpClient.Timeout > 0 {
		o.timeout = httpClient.Timeout
	} else {
		bounded := *httpClient
		bounded.Timeout = o.timeout
		httpClient = &bounded
	}

	return &Client{
		baseURL:    baseURL,
		params:     params,
		timeout:    o.timeout,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Movies returns the accessors for movie endpoints
func (c *Client) Movies() *Resource {
	return &Resource{client: c, kind: KindMovie}
}

// TV returns the accessors for TV series endpoints
func (c *Client) TV() *Resource {
	return &Resource{client: c, kind: KindTV}
}

// Request performs a GET against path and decodes the response envelope.
// A body that is not a valid envelope is logged as a ParseError and read
// as an empty envelope.
func (c *Client) Request(ctx context.Context, path string, params url.Values) (*Envelope, error) {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.logFailure(path, &ParseError{Path: path, Err: err})
		return &Envelope{}, nil
	}

	return &env, nil
}

// TestConnection tests the connection to TMDB and the validity of the API key
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.get(ctx, "/configuration", nil)
	return err
}

// get runs the outbound interceptor, the request itself, and the inbound
// interceptor on failure
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	query := c.withSharedParams(params)
	if query.Get("api_key") == "" {
		c.logFailure(path, ErrMissingAPIKey)
		return nil, ErrMissingAPIKey
	}

	reqURL := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().
		Str("path", path).
		Str("language", query.Get("language")).
		Msg("Making TMDB API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = c.classify(path, err)
		c.logFailure(path, err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = c.classify(path, fmt.Errorf("failed to read response body: %w", err))
		c.logFailure(path, err)
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    statusMessage(resp.StatusCode, body),
			Body:       string(body),
		}
		c.logFailure(path, apiErr)
		return nil, apiErr
	}

	return body, nil
}

// withSharedParams merges caller params with the live shared params.
// The shared keys always win.
func (c *Client) withSharedParams(params url.Values) url.Values {
	query := url.Values{}
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}

	shared := c.params.QueryParams()
	query.Set("api_key", shared.APIKey)
	query.Set("language", shared.Language)
	return query
}

// logFailure logs a classified message and leaves err untouched
func (c *Client) logFailure(path string, err error) {
	c.logger.Error().Err(err).Str("path", path).Msg("TMDB API error")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return
	}
	switch {
	case apiErr.IsUnauthorized():
		c.logger.Error().Msg("TMDB authentication failed - check the API key")
	case apiErr.IsRateLimited():
		c.logger.Error().Msg("TMDB rate limit exceeded - try again later")
	}
}

// classify turns deadline failures into a TimeoutError
func (c *Client) classify(path string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Path: path, Timeout: c.timeout, Err: err}
	}
	return fmt.Errorf("request failed: %w", err)
}

func statusMessage(status int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.StatusMessage != "" {
		return eb.StatusMessage
	}
	return http.StatusText(status)
}
