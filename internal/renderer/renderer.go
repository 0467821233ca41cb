// Package renderer turns HTML documents into PDFs through a
// Gotenberg-compatible conversion service.
package renderer

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is a resty-backed PDF renderer. A nil Client means rendering is
// disabled; callers are expected to check before use.
type Client struct {
	httpClient *resty.Client
}

// New builds a renderer client for the given base URL. Returns nil when the
// URL is empty so the document endpoints can degrade gracefully.
func New(baseURL string) *Client {
	base := strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetTimeout(30 * time.Second)

	return &Client{httpClient: restyClient}
}

// RenderHTML posts the HTML body to the conversion service and returns the
// produced PDF bytes.
func (c *Client) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("files", "index.html", strings.NewReader(html)).
		Post("/forms/chromium/convert/html")
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("renderer error: code=%d, message=%s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	return resp.Body(), nil
}
