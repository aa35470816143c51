package proxy

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies why a proxied call failed, mirroring the upstream
// failure taxonomy that core/circuitbreaker accounts against.
type ErrorKind string

const (
	KindConnect          ErrorKind = "connect"
	KindTimeout          ErrorKind = "timeout"
	KindCircuitOpen      ErrorKind = "circuit_open"
	KindBodyTooLarge     ErrorKind = "body_too_large"
	KindTLS              ErrorKind = "tls"
	KindInvalidResponse  ErrorKind = "invalid_response"
	KindTooManyRedirects ErrorKind = "too_many_redirects"
	KindClientCancelled  ErrorKind = "client_cancelled"
)

// Error is returned by Proxy.ProxyTo on any forwarding failure.
type Error struct {
	Kind     ErrorKind
	Upstream string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("proxy: %s (%s): %v", e.Kind, e.Upstream, e.Cause)
	}
	return fmt.Sprintf("proxy: %s (%s)", e.Kind, e.Upstream)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusCode implements the statusCode interface core/router's default
// error handler looks for, so a *proxy.Error bubbles to the right HTTP
// status when it escapes ProxyTo uncaught.
func (e *Error) StatusCode() int {
	return StatusFor(e.Kind)
}

// StatusFor maps a failure kind to the outer HTTP status it should
// produce. KindClientCancelled has no status: the caller already
// disconnected, so nothing further is written.
func StatusFor(kind ErrorKind) int {
	switch kind {
	case KindConnect:
		return http.StatusBadGateway
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindCircuitOpen:
		return http.StatusServiceUnavailable
	case KindBodyTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindTLS:
		return http.StatusBadGateway
	case KindInvalidResponse:
		return http.StatusBadGateway
	case KindTooManyRedirects:
		return http.StatusBadGateway
	default:
		return 0
	}
}
