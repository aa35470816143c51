package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nexora/webkit/core/circuitbreaker"
)

var (
	// ErrInvalidURL is returned when the destination URL is malformed or
	// uses an unsupported scheme.
	ErrInvalidURL = errors.New("webhook: invalid URL")
	// ErrInvalidPayload is returned when the event fails to marshal or
	// exceeds maxPayloadSize.
	ErrInvalidPayload = errors.New("webhook: invalid payload")
	// ErrTimeout is returned when a delivery attempt exceeds its timeout.
	ErrTimeout = errors.New("webhook: request timed out")
	// ErrCircuitOpen is returned when the configured circuit breaker is
	// protecting the endpoint and refuses the request outright.
	ErrCircuitOpen = errors.New("webhook: circuit breaker open")
	// ErrPermanentFailure wraps a 4xx response; Send does not retry these.
	ErrPermanentFailure = errors.New("webhook: permanent failure")
	// ErrTemporaryFailure wraps a network error or 5xx response; Send retries these.
	ErrTemporaryFailure = errors.New("webhook: temporary failure")
	// ErrWebhookDeliveryFailed is returned when every retry attempt is exhausted.
	ErrWebhookDeliveryFailed = errors.New("webhook: delivery failed after retries")
	// ErrInvalidConfiguration is returned for invalid setup or parameters.
	ErrInvalidConfiguration = errors.New("webhook: invalid configuration")
	// ErrInvalidSignatureHeaders is returned when expected signature headers are missing.
	ErrInvalidSignatureHeaders = errors.New("webhook: missing signature headers")
	// ErrSignatureExpired is returned when a signature's timestamp is outside tolerance.
	ErrSignatureExpired = errors.New("webhook: signature timestamp outside tolerance")
	// ErrInvalidSignature is returned when a signature does not match the payload.
	ErrInvalidSignature = errors.New("webhook: signature mismatch")
)

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
	maxPayloadSize    = 1 << 20 // 1MB

	signatureHeader = "X-Webhook-Signature"
	timestampHeader = "X-Webhook-Timestamp"
)

// Backoff computes the delay before the nth retry attempt (1-indexed).
type Backoff interface {
	Next(attempt int) time.Duration
}

// ExponentialBackoff grows the retry interval geometrically, with optional
// jitter to avoid thundering-herd retries against a recovering endpoint.
type ExponentialBackoff struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	JitterFactor    float64
}

// Next implements Backoff.
func (b ExponentialBackoff) Next(attempt int) time.Duration {
	initial := b.InitialInterval
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	multiplier := b.Multiplier
	if multiplier <= 1 {
		multiplier = 2.0
	}
	maxInterval := b.MaxInterval
	if maxInterval <= 0 {
		maxInterval = 30 * time.Second
	}

	interval := float64(initial) * math.Pow(multiplier, float64(attempt-1))
	if interval > float64(maxInterval) {
		interval = float64(maxInterval)
	}
	if b.JitterFactor > 0 {
		jitter := interval * b.JitterFactor
		interval += (rand.Float64()*2 - 1) * jitter
		if interval < 0 {
			interval = 0
		}
	}
	return time.Duration(interval)
}

// DeliveryResult describes the outcome of a single delivery attempt, passed
// to an OnDelivery hook for observability.
type DeliveryResult struct {
	Attempt    int
	Success    bool
	StatusCode int
	Duration   time.Duration
	Err        error
}

// CircuitBreaker protects a single webhook endpoint from repeated failed
// deliveries, pausing attempts while the endpoint appears to be down.
type CircuitBreaker struct {
	breaker *circuitbreaker.Breaker
}

// NewCircuitBreaker trips OPEN after failThreshold consecutive failed
// deliveries, waits resetTimeout, then requires successThreshold successes
// in HALF_OPEN before closing again.
func NewCircuitBreaker(failThreshold, successThreshold int, resetTimeout time.Duration) *CircuitBreaker {
	cfg := circuitbreaker.DefaultConfig()
	cfg.FailureThreshold = failThreshold
	cfg.SuccessThreshold = successThreshold
	cfg.ResetTimeout = resetTimeout
	cfg.Window = resetTimeout
	return &CircuitBreaker{breaker: circuitbreaker.New(cfg)}
}

// State reports the breaker's current state.
func (cb *CircuitBreaker) State() circuitbreaker.State {
	return cb.breaker.State()
}

type sendConfig struct {
	timeout    time.Duration
	maxRetries int
	secret     string
	backoff    Backoff
	breaker    *CircuitBreaker
	onDelivery func(DeliveryResult)
}

// Option configures a single Send call.
type Option func(*sendConfig)

// WithTimeout bounds a single delivery attempt, not the whole retry sequence.
func WithTimeout(d time.Duration) Option {
	return func(c *sendConfig) { c.timeout = d }
}

// WithMaxRetries caps the number of retry attempts after the first try.
func WithMaxRetries(n int) Option {
	return func(c *sendConfig) { c.maxRetries = n }
}

// WithSignature signs the payload with secret, attaching signature and
// timestamp headers the receiver verifies with VerifySignature.
func WithSignature(secret string) Option {
	return func(c *sendConfig) { c.secret = secret }
}

// WithBackoff overrides the default exponential backoff between retries.
func WithBackoff(b Backoff) Option {
	return func(c *sendConfig) { c.backoff = b }
}

// WithCircuitBreaker guards the destination with cb, short-circuiting
// delivery with ErrCircuitOpen while the breaker is tripped.
func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(c *sendConfig) { c.breaker = cb }
}

// WithOnDelivery registers a hook invoked after every delivery attempt,
// successful or not.
func WithOnDelivery(fn func(DeliveryResult)) Option {
	return func(c *sendConfig) { c.onDelivery = fn }
}

// Sender delivers webhook events over HTTP with retries, backoff, and
// optional circuit breaking and HMAC signing.
type Sender struct {
	client *http.Client
}

// NewSender creates a Sender backed by a connection-pooling http.Client.
func NewSender() *Sender {
	return &Sender{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Send marshals event as JSON and delivers it to rawURL, retrying transient
// failures per the configured backoff until maxRetries is exhausted.
func (s *Sender) Send(ctx context.Context, rawURL string, event any, opts ...Option) error {
	cfg := sendConfig{
		timeout:    defaultTimeout,
		maxRetries: defaultMaxRetries,
		backoff:    ExponentialBackoff{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	dest, err := url.Parse(rawURL)
	if err != nil || (dest.Scheme != "http" && dest.Scheme != "https") || dest.Host == "" {
		return ErrInvalidURL
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Join(ErrInvalidPayload, err)
	}
	if len(payload) == 0 || len(payload) > maxPayloadSize {
		return ErrInvalidPayload
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.maxRetries+1; attempt++ {
		if cfg.breaker != nil && !cfg.breaker.breaker.AllowRequest() {
			return ErrCircuitOpen
		}

		start := time.Now()
		statusCode, deliverErr := s.deliver(ctx, dest.String(), payload, cfg)
		duration := time.Since(start)
		success := deliverErr == nil

		if cfg.breaker != nil {
			if success {
				cfg.breaker.breaker.RecordSuccess()
			} else {
				cfg.breaker.breaker.RecordFailure("delivery")
			}
		}
		if cfg.onDelivery != nil {
			cfg.onDelivery(DeliveryResult{
				Attempt:    attempt,
				Success:    success,
				StatusCode: statusCode,
				Duration:   duration,
				Err:        deliverErr,
			})
		}

		if success {
			return nil
		}

		lastErr = deliverErr
		if errors.Is(deliverErr, ErrPermanentFailure) {
			return deliverErr
		}
		if attempt > cfg.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.backoff.Next(attempt)):
		}
	}

	return errors.Join(ErrWebhookDeliveryFailed, lastErr)
}

func (s *Sender) deliver(ctx context.Context, dest string, payload []byte, cfg sendConfig) (int, error) {
	timeout := cfg.timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, dest, bytes.NewReader(payload))
	if err != nil {
		return 0, errors.Join(ErrInvalidConfiguration, err)
	}
	req.Header.Set("Content-Type", "application/json")

	if cfg.secret != "" {
		headers, err := SignPayload(cfg.secret, payload)
		if err != nil {
			return 0, err
		}
		req.Header.Set(signatureHeader, headers[signatureHeader])
		req.Header.Set(timestampHeader, headers[timestampHeader])
	}

	client := s.client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return 0, errors.Join(ErrTimeout, err)
		}
		return 0, errors.Join(ErrTemporaryFailure, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp.StatusCode, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return resp.StatusCode, fmt.Errorf("%w: status %d", ErrPermanentFailure, resp.StatusCode)
	default:
		return resp.StatusCode, fmt.Errorf("%w: status %d", ErrTemporaryFailure, resp.StatusCode)
	}
}

// SignPayload returns the signature and timestamp headers for payload,
// stamped with the current time.
func SignPayload(secret string, payload []byte) (map[string]string, error) {
	if secret == "" {
		return nil, ErrInvalidConfiguration
	}
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	return map[string]string{
		signatureHeader: computeSignature(secret, ts, payload),
		timestampHeader: ts,
	}, nil
}

func computeSignature(secret, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignatureHeaders holds the signature and timestamp extracted from an
// incoming webhook request, ready for VerifySignature.
type SignatureHeaders struct {
	Signature string
	Timestamp string
}

// ExtractSignatureHeaders pulls the signature and timestamp out of a header
// map, as produced by reading the relevant keys from an http.Header.
func ExtractSignatureHeaders(headers map[string]string) (SignatureHeaders, error) {
	sig, ts := headers[signatureHeader], headers[timestampHeader]
	if sig == "" || ts == "" {
		return SignatureHeaders{}, ErrInvalidSignatureHeaders
	}
	return SignatureHeaders{Signature: sig, Timestamp: ts}, nil
}

// VerifySignature checks sig against payload signed with secret, rejecting
// timestamps older than tolerance to defeat replay of captured requests.
func VerifySignature(secret string, payload []byte, sig SignatureHeaders, tolerance time.Duration) error {
	ts, err := strconv.ParseInt(sig.Timestamp, 10, 64)
	if err != nil {
		return ErrInvalidSignatureHeaders
	}

	age := time.Since(time.Unix(ts, 0))
	if age < 0 {
		age = -age
	}
	if age > tolerance {
		return ErrSignatureExpired
	}

	expected := computeSignature(secret, sig.Timestamp, payload)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(sig.Signature)) != 1 {
		return ErrInvalidSignature
	}
	return nil
}
