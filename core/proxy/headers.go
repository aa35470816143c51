package proxy

import "net/http"

// hopByHopHeaders are per-connection headers that must never be forwarded,
// per RFC 7230 §6.1.
var hopByHopHeaders = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
}

// filterHeaders copies src into a new http.Header, dropping hop-by-hop
// headers and anything named in removeSets.
func filterHeaders(src http.Header, removeSets ...map[string]struct{}) http.Header {
	out := make(http.Header, len(src))
	for k, vv := range src {
		if _, drop := hopByHopHeaders[k]; drop {
			continue
		}
		dropped := false
		for _, set := range removeSets {
			if _, ok := set[k]; ok {
				dropped = true
				break
			}
		}
		if dropped {
			continue
		}
		out[k] = append([]string(nil), vv...)
	}
	return out
}

// toSet builds a canonical-header-name lookup set from a list of names.
func toSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[http.CanonicalHeaderKey(n)] = struct{}{}
	}
	return out
}
