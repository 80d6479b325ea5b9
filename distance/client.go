// Package distance queries the external distance-matrix service for the
// travel distance between an ordered origin/destination pair.
package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrUnavailable covers every lookup failure: unreachable service, top-level
// error status, or a non-OK per-element status on an otherwise successful
// response. Callers treat all of them as "could not calculate distance".
var ErrUnavailable = errors.New("distance: lookup unavailable")

// Client calls the distance-matrix endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	group      singleflight.Group
}

// NewClient builds a client. A missing API key is a configuration error
// reported at startup rather than a broken lookup later.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("distance: empty base URL")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("distance: empty API key")
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"` // meters
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// Between returns the distance in kilometers from origin to destination.
// Concurrent lookups for the same ordered pair collapse into one request.
func (c *Client) Between(ctx context.Context, origin, destination string) (float64, error) {
	if origin == "" || destination == "" {
		return 0, fmt.Errorf("%w: empty origin or destination", ErrUnavailable)
	}

	key := origin + "|" + destination
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.lookup(ctx, origin, destination)
	})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

func (c *Client) lookup(ctx context.Context, origin, destination string) (float64, error) {
	q := url.Values{}
	q.Set("origins", origin)
	q.Set("destinations", destination)
	q.Set("units", "metric")
	q.Set("key", c.apiKey)

	endpoint := c.baseURL + "/distancematrix/json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("distance: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var matrix matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&matrix); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if matrix.Status != "OK" {
		return 0, fmt.Errorf("%w: response status %q", ErrUnavailable, matrix.Status)
	}
	if len(matrix.Rows) == 0 || len(matrix.Rows[0].Elements) == 0 {
		return 0, fmt.Errorf("%w: empty matrix", ErrUnavailable)
	}

	element := matrix.Rows[0].Elements[0]
	if element.Status != "OK" {
		return 0, fmt.Errorf("%w: element status %q", ErrUnavailable, element.Status)
	}

	return element.Distance.Value / 1000, nil
}
