// Package breach checks passwords against the Pwned Passwords range API
// without disclosing them. Only the first five hex characters of the
// password's SHA-1 hash leave the process.
package breach

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const (
	DefaultBaseURL   = "https://api.pwnedpasswords.com"
	DefaultUserAgent = "PassGen Password Manager"
	DefaultTimeout   = 5 * time.Second

	prefixLen = 5
	suffixLen = 35
	// Range responses are a few dozen KB; anything far larger is not one.
	maxBodySize = 4 << 20
)

var (
	ErrUnexpectedStatus  = errors.New("unexpected status from range api")
	ErrMalformedResponse = errors.New("malformed range response")
	ErrCircuitOpen       = errors.New("range api circuit open")
)

// Status distinguishes a verified-clean password from one that could not be
// checked at all.
type Status string

const (
	StatusClean       Status = "clean"
	StatusCompromised Status = "compromised"
	StatusUnavailable Status = "unavailable"
)

// Result is the outcome of a breach check. On failure Compromised is false and
// Count is zero, so Status must be consulted before treating a password as safe.
type Result struct {
	Compromised bool   `json:"compromised"`
	Count       int    `json:"count"`
	Status      Status `json:"status"`
}

func unavailable() Result {
	return Result{Status: StatusUnavailable}
}

// RangeCache stores raw range responses keyed by hash prefix. Responses are
// public data; no password or full hash is ever cached.
type RangeCache interface {
	Get(ctx context.Context, prefix string) (string, bool, error)
	Set(ctx context.Context, prefix, body string) error
}

// Config configures a Client. Zero values select the defaults.
type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Cache      RangeCache
	// FailureThreshold is the number of consecutive failures that opens the
	// circuit breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// Client performs k-anonymity range lookups. It is safe for concurrent use.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	cache     RangeCache
	cb        *gobreaker.CircuitBreaker
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	threshold := cfg.FailureThreshold
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "pwned-passwords",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller that cancels or times out says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			var done *callerDoneError
			return err == nil || errors.As(err, &done)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("breach circuit state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      cfg.HTTPClient,
		cache:     cfg.Cache,
		cb:        cb,
	}
}

// Check looks up password and never fails: any error is logged and reported
// as StatusUnavailable with Compromised false and Count zero.
func (c *Client) Check(ctx context.Context, password string) Result {
	res, err := c.Lookup(ctx, password)
	if err != nil {
		slog.Warn("breach check unavailable", "error", err)
		return unavailable()
	}
	return res
}

// Lookup is the strict form of Check: failures are returned as errors.
func (c *Client) Lookup(ctx context.Context, password string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return unavailable(), err
	}
	prefix, suffix := HashPrefix(password)

	body, cached, err := c.fetchRange(ctx, prefix)
	if err != nil {
		return unavailable(), err
	}

	count, err := findSuffix(body, suffix)
	if err != nil {
		return unavailable(), err
	}
	if !cached {
		c.storeRange(ctx, prefix, body)
	}

	if count > 0 {
		return Result{Compromised: true, Count: count, Status: StatusCompromised}, nil
	}
	return Result{Status: StatusClean}, nil
}

// HashPrefix returns the uppercase hex SHA-1 of password split into the
// 5-character prefix sent upstream and the 35-character suffix kept locally.
func HashPrefix(password string) (prefix, suffix string) {
	sum := sha1.Sum([]byte(password))
	h := strings.ToUpper(hex.EncodeToString(sum[:]))
	return h[:prefixLen], h[prefixLen:]
}

// callerDoneError marks a request abandoned by its caller's context so the
// breaker does not count it against upstream.
type callerDoneError struct {
	err error
}

func (e *callerDoneError) Error() string { return e.err.Error() }
func (e *callerDoneError) Unwrap() error { return e.err }

// fetchRange returns the range body for prefix and whether it came from the
// cache.
func (c *Client) fetchRange(ctx context.Context, prefix string) (string, bool, error) {
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, prefix)
		if err != nil {
			slog.Warn("range cache read failed", "prefix", prefix, "error", err)
		} else if ok {
			return body, true, nil
		}
	}

	v, err := c.cb.Execute(func() (interface{}, error) {
		body, err := c.get(ctx, prefix)
		if err != nil && ctx.Err() != nil {
			return nil, &callerDoneError{err: err}
		}
		return body, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", false, ErrCircuitOpen
		}
		var done *callerDoneError
		if errors.As(err, &done) {
			return "", false, done.err
		}
		return "", false, err
	}
	return v.(string), false, nil
}

// storeRange caches a body that has already parsed as a range response.
func (c *Client) storeRange(ctx context.Context, prefix, body string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, prefix, body); err != nil {
		slog.Warn("range cache write failed", "prefix", prefix, "error", err)
	}
}

func (c *Client) get(ctx context.Context, prefix string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/range/"+prefix, nil)
	if err != nil {
		return "", fmt.Errorf("building range request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Add-Padding", "true")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("range request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading range response: %w", err)
	}
	return string(data), nil
}

// findSuffix validates every SUFFIX:COUNT line of body and returns the count
// for suffix, or 0 when absent. Padding rows carry a zero count. Any malformed
// line rejects the whole body.
func findSuffix(body, suffix string) (int, error) {
	found := 0
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		hashPart, countPart, ok := strings.Cut(line, ":")
		if !ok || !isSuffixHex(hashPart) {
			return 0, fmt.Errorf("%w: line %q", ErrMalformedResponse, line)
		}
		count, err := strconv.Atoi(strings.TrimSpace(countPart))
		if err != nil || count < 0 {
			return 0, fmt.Errorf("%w: count %q", ErrMalformedResponse, countPart)
		}
		if hashPart == suffix {
			found = count
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return found, nil
}

func isSuffixHex(s string) bool {
	if len(s) != suffixLen {
		return false
	}
	_, err := hex.DecodeString("0" + s)
	return err == nil
}
