// Package blob talks to a remote key/document blob service over HTTP: GET
// reads a document, PUT overwrites it. It is the transport several
// machines use to share one session document.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/aaronzipp/thavalon/internal/errors"
	"github.com/aaronzipp/thavalon/internal/store"
)

// maxDocumentBytes bounds how much of a response body is read.
const maxDocumentBytes = 1 << 20

// Client is an HTTP-backed document store.
type Client struct {
	baseURL string
	http    *http.Client
	now     func() time.Time
}

var _ store.DocumentStore = (*Client)(nil)

// New returns a client for the blob service rooted at baseURL. A nil
// httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("blob base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse blob base url: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient, now: time.Now}, nil
}

func (c *Client) documentURL(key string) string {
	return c.baseURL + "/" + url.PathEscape(key) + ".json"
}

// Get fetches the document under key. Each read carries a timestamp query
// parameter so caching proxies never serve a stale copy.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	u := c.documentURL(key) + "?timestamp=" + strconv.FormatInt(c.now().UnixNano(), 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build get request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTransientIO, "get document "+key, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, store.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, apperrors.New(apperrors.CodeTransientIO, fmt.Sprintf("get document %s: status %d", key, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTransientIO, "read document "+key, err)
	}
	if len(body) > maxDocumentBytes {
		return nil, apperrors.Wrap(apperrors.CodeCorruptDocument,
			fmt.Sprintf("get document %s: larger than %d bytes", key, maxDocumentBytes), store.ErrTooLarge)
	}
	return body, nil
}

// Put overwrites the document under key.
func (c *Client) Put(ctx context.Context, key string, doc []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.documentURL(key), bytes.NewReader(doc))
	if err != nil {
		return fmt.Errorf("build put request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeTransientIO, "put document "+key, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDocumentBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.New(apperrors.CodeTransientIO, fmt.Sprintf("put document %s: status %d", key, resp.StatusCode))
	}
	return nil
}
