// Package api is the HTTP client for the shop backend: the paged parcel
// search used by the tracking screen and the cart endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pders01/shopr/internal/cart"
	"github.com/pders01/shopr/internal/config"
	"github.com/pders01/shopr/internal/tracking"
	"github.com/pders01/shopr/internal/validation"
)

// ErrHTTPStatus is wrapped when the backend answers with a non-2xx status.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

const maxErrorBody = 4 << 10

type Client struct {
	base         string
	trackingPath string
	cartPath     string
	userAgent    string
	client       *http.Client
}

var _ tracking.Searcher = (*Client)(nil)

func NewClient(cfg config.APIConfig) (*Client, error) {
	base, err := validation.NormalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}
	return &Client{
		base:         base,
		trackingPath: cleanPath(cfg.TrackingPath),
		cartPath:     cleanPath(cfg.CartPath),
		userAgent:    cfg.UserAgent,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// BaseURL is the normalized API root.
func (c *Client) BaseURL() string { return c.base }

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return "/" + strings.Trim(p, "/")
}

// SearchParcels fetches one 1-based page of tracking rows matching query.
func (c *Client) SearchParcels(ctx context.Context, query string, page int) ([]tracking.Parcel, error) {
	q := url.Values{}
	q.Set("search", query)
	q.Set("page", strconv.Itoa(page))

	var body ParcelPage
	if err := c.do(ctx, http.MethodGet, c.trackingPath+"?"+q.Encode(), nil, &body); err != nil {
		return nil, fmt.Errorf("searching parcels: %w", err)
	}
	return body.Parcels(), nil
}

func (c *Client) Cart(ctx context.Context) ([]cart.Entry, error) {
	var body CartPayload
	if err := c.do(ctx, http.MethodGet, c.cartPath, nil, &body); err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	if body.Entries == nil {
		return []cart.Entry{}, nil
	}
	return body.Entries, nil
}

func (c *Client) IncreaseQuantity(ctx context.Context, productID string) error {
	if err := c.do(ctx, http.MethodPost, c.cartPath+"/increase", QuantityRequest{ProductID: productID}, nil); err != nil {
		return fmt.Errorf("increasing quantity: %w", err)
	}
	return nil
}

func (c *Client) DecreaseQuantity(ctx context.Context, productID string) error {
	if err := c.do(ctx, http.MethodPost, c.cartPath+"/decrease", QuantityRequest{ProductID: productID}, nil); err != nil {
		return fmt.Errorf("decreasing quantity: %w", err)
	}
	return nil
}

func (c *Client) RemoveEntry(ctx context.Context, entryID string) error {
	if err := c.do(ctx, http.MethodDelete, c.cartPath+"/entries/"+url.PathEscape(entryID), nil, nil); err != nil {
		return fmt.Errorf("removing entry: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body ErrorBody
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return fmt.Errorf("%w: %d: %s", ErrHTTPStatus, resp.StatusCode, body.Error)
	}
	return fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
}
