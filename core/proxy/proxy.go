// Package proxy implements a streaming reverse proxy: forward a request to
// an upstream, stream the response back byte-for-byte without buffering,
// and guard the upstream with a core/circuitbreaker.Registry.
package proxy

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nexora/webkit/core/circuitbreaker"
)

// Config controls the Proxy's default behavior; per-call Options can
// override individual fields.
type Config struct {
	// ConnectTimeout bounds establishing the TCP/TLS connection.
	ConnectTimeout time.Duration
	// RequestTimeout bounds the entire round trip, header to last byte.
	RequestTimeout time.Duration
	// IdleTimeout bounds the gap between two consecutive body chunks once
	// streaming has started.
	IdleTimeout time.Duration

	// PreserveHostHeader keeps the inbound Host header instead of letting
	// it default to the upstream's.
	PreserveHostHeader bool
	// AddForwardedHeaders injects X-Forwarded-For/-Proto/-Host.
	AddForwardedHeaders bool

	// RemoveRequestHeaders/RemoveResponseHeaders name additional headers
	// (beyond the hop-by-hop set) stripped on every call.
	RemoveRequestHeaders  []string
	RemoveResponseHeaders []string

	// MaxResponseBytes caps the forwarded response body; 0 means unlimited.
	MaxResponseBytes int64

	// Breakers is the registry consulted per upstream authority. If nil, a
	// fresh registry with default thresholds is created.
	Breakers *circuitbreaker.Registry
}

// DefaultConfig returns conservative proxy timeouts.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 5 * time.Second,
		RequestTimeout: 30 * time.Second,
		IdleTimeout:    15 * time.Second,
	}
}

// Options customizes a single ProxyTo call.
type Options struct {
	// PathRewrite replaces the outgoing request path; empty keeps the
	// incoming request's path (or the upstream URL's explicit path, if set).
	PathRewrite string
	// RequestTimeout overrides Config.RequestTimeout for this call.
	RequestTimeout time.Duration
	// AdditionalRequestHeaders/AdditionalResponseHeaders are applied last,
	// after hop-by-hop stripping and forwarded-header injection.
	AdditionalRequestHeaders  http.Header
	AdditionalResponseHeaders http.Header
	// RemoveRequestHeaders names headers to drop for this call only.
	RemoveRequestHeaders []string
	// OnUpstreamResponse fires once response headers arrive, before the
	// body is streamed back. Returning an error aborts forwarding; the
	// upstream response body is closed and the call counts as a failure.
	OnUpstreamResponse func(*http.Response) error
}

// Proxy forwards requests to upstreams, streaming responses back.
type Proxy struct {
	cfg      Config
	client   *http.Client
	breakers *circuitbreaker.Registry
}

// New builds a Proxy from cfg, constructing a client whose transport
// honors ConnectTimeout for dialing.
func New(cfg Config) *Proxy {
	if cfg.Breakers == nil {
		cfg.Breakers = circuitbreaker.NewRegistry(circuitbreaker.DefaultConfig())
	}

	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.RequestTimeout,
	}

	return &Proxy{
		cfg:      cfg,
		client:   &http.Client{Transport: transport},
		breakers: cfg.Breakers,
	}
}

// ProxyTo forwards r to upstream and streams the response into w. It
// returns a *Error describing any forwarding failure; a nil return means
// the response was fully written (status, headers, and body).
func (p *Proxy) ProxyTo(w http.ResponseWriter, r *http.Request, upstream *url.URL, opts Options) error {
	authority := upstream.Scheme + "://" + upstream.Host
	breaker := p.breakers.Get(authority)

	if !breaker.AllowRequest() {
		return &Error{Kind: KindCircuitOpen, Upstream: authority}
	}

	target := p.buildTargetURL(r, upstream, opts)

	reqTimeout := p.cfg.RequestTimeout
	if opts.RequestTimeout > 0 {
		reqTimeout = opts.RequestTimeout
	}

	ctx := r.Context()
	var cancel context.CancelFunc
	if reqTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, reqTimeout)
		defer cancel()
	}

	outReq, err := http.NewRequestWithContext(ctx, r.Method, target.String(), r.Body)
	if err != nil {
		breaker.RecordFailure(string(KindInvalidResponse))
		return &Error{Kind: KindInvalidResponse, Upstream: authority, Cause: err}
	}
	outReq.Header = p.buildRequestHeaders(r, opts)
	if p.cfg.PreserveHostHeader {
		outReq.Host = r.Host
	}
	outReq.ContentLength = r.ContentLength

	resp, err := p.client.Do(outReq)
	if err != nil {
		kind := classifyRequestError(err)
		breaker.RecordFailure(string(kind))
		return &Error{Kind: kind, Upstream: authority, Cause: err}
	}

	if opts.OnUpstreamResponse != nil {
		if err := opts.OnUpstreamResponse(resp); err != nil {
			resp.Body.Close()
			breaker.RecordFailure(string(KindInvalidResponse))
			return &Error{Kind: KindInvalidResponse, Upstream: authority, Cause: err}
		}
	}
	defer resp.Body.Close()

	for k, vv := range filterHeaders(resp.Header, toSet(p.cfg.RemoveResponseHeaders)) {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	for k, vv := range opts.AdditionalResponseHeaders {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)

	body := io.Reader(resp.Body)
	if p.cfg.IdleTimeout > 0 {
		body = &idleTimeoutReader{r: resp.Body, timeout: p.cfg.IdleTimeout}
	}
	if p.cfg.MaxResponseBytes > 0 {
		body = io.LimitReader(body, p.cfg.MaxResponseBytes+1)
	}

	flusher, _ := w.(http.Flusher)
	written, err := copyStream(w, body, flusher)
	if err != nil {
		kind := classifyCopyError(err)
		breaker.RecordFailure(string(kind))
		return &Error{Kind: kind, Upstream: authority, Cause: err}
	}
	if p.cfg.MaxResponseBytes > 0 && written > p.cfg.MaxResponseBytes {
		breaker.RecordFailure(string(KindBodyTooLarge))
		return &Error{Kind: KindBodyTooLarge, Upstream: authority}
	}

	breaker.RecordSuccess()
	return nil
}

func (p *Proxy) buildTargetURL(r *http.Request, upstream *url.URL, opts Options) *url.URL {
	target := *upstream
	switch {
	case opts.PathRewrite != "":
		target.Path = opts.PathRewrite
	case upstream.Path != "":
		// explicit upstream path wins
	default:
		target.Path = r.URL.Path
	}
	if target.RawQuery == "" {
		target.RawQuery = r.URL.RawQuery
	}
	return &target
}

func (p *Proxy) buildRequestHeaders(r *http.Request, opts Options) http.Header {
	removeSets := []map[string]struct{}{toSet(p.cfg.RemoveRequestHeaders), toSet(opts.RemoveRequestHeaders)}
	headers := filterHeaders(r.Header, removeSets...)

	if !p.cfg.PreserveHostHeader {
		headers.Del("Host")
	}

	if p.cfg.AddForwardedHeaders {
		clientIP := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			clientIP = host
		}
		if prior := headers.Get("X-Forwarded-For"); prior != "" {
			headers.Set("X-Forwarded-For", prior+", "+clientIP)
		} else {
			headers.Set("X-Forwarded-For", clientIP)
		}
		proto := "http"
		if r.TLS != nil {
			proto = "https"
		}
		headers.Set("X-Forwarded-Proto", proto)
		headers.Set("X-Forwarded-Host", r.Host)
	}

	for k, vv := range opts.AdditionalRequestHeaders {
		for _, v := range vv {
			headers.Add(k, v)
		}
	}

	return headers
}

// copyStream forwards body to w, flushing after every chunk so SSE and
// chunked responses are not buffered.
func copyStream(w io.Writer, body io.Reader, flusher http.Flusher) (int64, error) {
	buf := make([]byte, 32*1024)
	var written int64
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return written, writeErr
			}
			written += int64(n)
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return written, nil
			}
			return written, readErr
		}
	}
}

func classifyRequestError(err error) ErrorKind {
	if errors.Is(err, context.Canceled) {
		return KindClientCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	var tlsErr *tls.CertificateVerificationError
	if errors.As(err, &tlsErr) {
		return KindTLS
	}
	if strings.Contains(err.Error(), "tls:") || strings.Contains(err.Error(), "certificate") {
		return KindTLS
	}
	if strings.Contains(err.Error(), "stopped after") && strings.Contains(err.Error(), "redirect") {
		return KindTooManyRedirects
	}
	return KindConnect
}

func classifyCopyError(err error) ErrorKind {
	if errors.Is(err, errIdleTimeout) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindClientCancelled
	}
	return KindInvalidResponse
}
