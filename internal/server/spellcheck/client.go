// Package spellcheck talks to the Yandex Speller JSON API.
package spellcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/sethvargo/go-retry"
)

const checkTextPath = "/checkText"

// apiError is one element of the checkText response.
type apiError struct {
	Code int      `json:"code"`
	Pos  int      `json:"pos"`
	Row  int      `json:"row"`
	Col  int      `json:"col"`
	Len  int      `json:"len"`
	Word string   `json:"word"`
	S    []string `json:"s"`
}

// Client checks text against the speller service.
//
// Every attempt is bounded by timeout. Transport failures, 429 and 5xx
// responses are retried with exponential backoff. When the service stays
// unavailable Check returns common.ErrSpellerUnavailable, or nil if the
// client was built with fail-open enabled.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	retries    uint64
	backoff    time.Duration
	failOpen   bool
	log        logging.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithBackoff sets the base delay of the exponential backoff.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// WithFailOpen lets writes pass when the service is unavailable.
func WithFailOpen(v bool) Option {
	return func(c *Client) { c.failOpen = v }
}

func NewClient(baseURL string, timeout time.Duration, retries int, log logging.Logger, opts ...Option) *Client {
	if retries < 0 {
		retries = 0
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    timeout,
		retries:    uint64(retries),
		backoff:    200 * time.Millisecond,
		log:        log.With("module", "spellcheck"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Check returns a *ValidationError when text contains misspellings.
// Blank text is never sent.
func (c *Client) Check(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	b := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	found, err := retry.DoValue(ctx, b, func(ctx context.Context) ([]apiError, error) {
		return c.checkOnce(ctx, text)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if c.failOpen {
			c.log.Warn(ctx, "speller unavailable, skipping check", "error", err)
			return nil
		}
		c.log.Error(ctx, "speller unavailable", "error", err)
		return fmt.Errorf("%w: %v", common.ErrSpellerUnavailable, err)
	}

	if len(found) == 0 {
		return nil
	}
	verr := &ValidationError{Words: make([]Misspelling, 0, len(found))}
	for _, f := range found {
		s := f.S
		if s == nil {
			s = []string{}
		}
		verr.Words = append(verr.Words, Misspelling{Word: f.Word, Suggestions: s})
	}
	return verr
}

func (c *Client) checkOnce(ctx context.Context, text string) ([]apiError, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	form := url.Values{}
	form.Set("text", text)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+checkTextPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug(ctx, "speller request failed", "error", err)
		return nil, retry.RetryableError(fmt.Errorf("request error: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.log.Debug(ctx, "speller responded with retryable status", "status", resp.StatusCode)
		return nil, retry.RetryableError(fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result []apiError
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty response")
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}
