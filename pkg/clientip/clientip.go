package clientip

import (
	"net"
	"net/http"
	"strings"
)

// headerPriority lists the proxy headers checked before falling back to
// RemoteAddr, in the order that best reflects actual client origin.
var headerPriority = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP returns the real client IP address for r, checking proxy headers in
// priority order before falling back to the connection's RemoteAddr. It
// never returns an error: if no valid IP can be determined, the raw
// RemoteAddr is returned unchanged.
func GetIP(r *http.Request) string {
	for _, header := range headerPriority {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}

		if header == "X-Forwarded-For" {
			if ip := firstValidIP(value); ip != "" {
				return ip
			}
			continue
		}

		if ip := normalizeIP(value); ip != "" {
			return ip
		}
	}

	if ip := normalizeIP(r.RemoteAddr); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		if ip := normalizeIP(host); ip != "" {
			return ip
		}
	}

	return r.RemoteAddr
}

// firstValidIP scans a comma-separated X-Forwarded-For chain left to right
// and returns the first entry that parses as a valid, non-zero IP.
func firstValidIP(chain string) string {
	for _, candidate := range strings.Split(chain, ",") {
		if ip := normalizeIP(strings.TrimSpace(candidate)); ip != "" {
			return ip
		}
	}
	return ""
}

// normalizeIP validates and canonicalizes a single IP string, rejecting the
// unspecified address 0.0.0.0.
func normalizeIP(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed := net.ParseIP(raw)
	if parsed == nil {
		return ""
	}
	if parsed.IsUnspecified() {
		return ""
	}
	return parsed.String()
}
