package router

// Radix tree implementation based on the original work by
// Armon Dadgar in https://github.com/armon/go-radix/blob/master/radix.go
// (MIT licensed). Heavily modified for use as a generic, context-typed
// HTTP routing tree with path parameters.

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/nexora/webkit/core/handler"
)

type methodTyp uint

const (
	mSTUB methodTyp = 1 << iota
	mCONNECT
	mDELETE
	mGET
	mHEAD
	mOPTIONS
	mPATCH
	mPOST
	mPUT
	mTRACE
)

var mALL = mCONNECT | mDELETE | mGET | mHEAD |
	mOPTIONS | mPATCH | mPOST | mPUT | mTRACE

var methodMap = map[string]methodTyp{
	http.MethodConnect: mCONNECT,
	http.MethodDelete:  mDELETE,
	http.MethodGet:     mGET,
	http.MethodHead:    mHEAD,
	http.MethodOptions: mOPTIONS,
	http.MethodPatch:   mPATCH,
	http.MethodPost:    mPOST,
	http.MethodPut:     mPUT,
	http.MethodTrace:   mTRACE,
}

var reverseMethodMap = map[methodTyp]string{
	mCONNECT: http.MethodConnect,
	mDELETE:  http.MethodDelete,
	mGET:     http.MethodGet,
	mHEAD:    http.MethodHead,
	mOPTIONS: http.MethodOptions,
	mPATCH:   http.MethodPatch,
	mPOST:    http.MethodPost,
	mPUT:     http.MethodPut,
	mTRACE:   http.MethodTrace,
}

// routeParams holds URL parameters extracted from the route.
type routeParams struct {
	Keys   []string
	Values []string
}

type nodeTyp uint8

const (
	ntStatic   nodeTyp = iota // /home
	ntRegexp                  // /{id:[0-9]+}
	ntParam                   // /{user}
	ntCatchAll                // /api/v1/*
)

type node[C handler.Context] struct {
	// subroutes on the leaf node
	subroutes Router[C]

	// regexp matcher for regexp nodes
	rex *regexp.Regexp

	// HTTP handler endpoints on the leaf node
	endpoints endpoints[C]

	// prefix is the common prefix we ignore
	prefix string

	// paramName is the parameter name bound by this node, for ntParam/ntRegexp
	// nodes. Used to detect ambiguous (differently named) parameter siblings.
	paramName string

	// child nodes should be stored in-order for iteration,
	// in groups of the node type.
	children [ntCatchAll + 1]nodes[C]

	// first byte of the child prefix
	tail byte

	// node type: static, regexp, param, catchAll
	typ nodeTyp

	// first byte of the prefix
	label byte
}

// endpoints is a mapping of http method constants to handlers
// for a given route.
type endpoints[C handler.Context] map[methodTyp]*endpoint[C]

type endpoint[C handler.Context] struct {
	// endpoint handler
	handler handler.HandlerFunc[C]

	// pattern is the routing pattern for handler nodes
	pattern string

	// parameter keys recorded on handler nodes
	paramKeys []string
}

func (s endpoints[C]) value(method methodTyp) *endpoint[C] {
	mh, ok := s[method]
	if !ok {
		mh = &endpoint[C]{}
		s[method] = mh
	}
	return mh
}

// insertRoute inserts pattern into the tree rooted at n. It returns a
// structural-error fault (wrapping ErrAmbiguousParam) if pattern would
// attach a second, differently-named parameter child at a node that
// already has one, rejecting the route rather than silently overwriting it.
func (n *node[C]) insertRoute(method methodTyp, pattern string, h handler.HandlerFunc[C]) (*node[C], error) {
	var parent *node[C]
	search := pattern

	for {
		// Handle key exhaustion
		if len(search) == 0 {
			n.setEndpoint(method, h, pattern)
			return n, nil
		}

		var label = search[0]
		var segTail byte
		var segEndIdx int
		var segTyp nodeTyp
		var segRexpat string
		var segKey string
		if label == '{' || label == ':' || label == '*' {
			segTyp, segKey, segRexpat, segTail, _, segEndIdx = patNextSegment(search)
		}

		var prefix string
		if segTyp == ntRegexp {
			prefix = segRexpat
		}

		if segTyp == ntParam || segTyp == ntRegexp {
			if err := n.checkAmbiguousParam(segTyp, segTail, segKey); err != nil {
				return nil, err
			}
		}

		// Look for the edge to attach to
		parent = n
		n = n.getEdge(segTyp, label, segTail, prefix)

		// No edge, create one
		if n == nil {
			child := &node[C]{label: label, tail: segTail, prefix: search}
			hn := parent.addChild(child, search)
			hn.setEndpoint(method, h, pattern)

			return hn, nil
		}

		// Found an edge to match the pattern

		if n.typ > ntStatic {
			// We found a param node, trim the param from the search path and continue.
			search = search[segEndIdx:]
			continue
		}

		// Static nodes fall below here.
		commonPrefix := longestPrefix(search, n.prefix)
		if commonPrefix == len(n.prefix) {
			search = search[commonPrefix:]
			continue
		}

		// Split the node
		child := &node[C]{
			typ:    ntStatic,
			prefix: search[:commonPrefix],
		}
		parent.replaceChild(search[0], segTail, child)

		// Restore the existing node
		n.label = n.prefix[commonPrefix]
		n.prefix = n.prefix[commonPrefix:]
		child.addChild(n, n.prefix)

		search = search[commonPrefix:]
		if len(search) == 0 {
			child.setEndpoint(method, h, pattern)
			return child, nil
		}

		subchild := &node[C]{
			typ:    ntStatic,
			label:  search[0],
			prefix: search,
		}
		hn := child.addChild(subchild, search)
		hn.setEndpoint(method, h, pattern)
		return hn, nil
	}
}

// checkAmbiguousParam rejects a second, differently-named parameter child
// at the same node. Same name re-declarations (idempotent re-registration
// of the same route) and distinct regexp/tail combinations are allowed,
// matching the tree's existing disambiguation by (typ,label,tail).
func (n *node[C]) checkAmbiguousParam(segTyp nodeTyp, segTail byte, segKey string) error {
	for _, existing := range n.children[segTyp] {
		if existing.tail == segTail && existing.paramName != "" && existing.paramName != segKey {
			return fmt.Errorf("%w: node already has parameter ':%s', cannot add ':%s'",
				ErrAmbiguousParam, existing.paramName, segKey)
		}
	}
	return nil
}

// addChild appends the new `child` node to the tree using the `pattern` as the trie key.
func (n *node[C]) addChild(child *node[C], prefix string) *node[C] {
	search := prefix

	hn := child

	segTyp, segKey, segRexpat, segTail, segStartIdx, segEndIdx := patNextSegment(search)

	switch segTyp {

	case ntStatic:
		// noop

	default:
		if segTyp == ntRegexp {
			rex, err := regexp.Compile(segRexpat)
			if err != nil {
				panic(fmt.Errorf("%w: '%s'", ErrInvalidRegexp, segRexpat))
			}
			child.prefix = segRexpat
			child.rex = rex
		}

		if segStartIdx == 0 {
			// Route starts with a param
			child.typ = segTyp
			child.paramName = segKey

			if segTyp == ntCatchAll {
				segStartIdx = -1
			} else {
				segStartIdx = segEndIdx
			}
			if segStartIdx < 0 {
				segStartIdx = len(search)
			}
			child.tail = segTail

			if segStartIdx != len(search) {
				search = search[segStartIdx:]

				nn := &node[C]{
					typ:    ntStatic,
					label:  search[0],
					prefix: search,
				}
				hn = child.addChild(nn, search)
			}

		} else if segStartIdx > 0 {
			// starts with a static segment
			child.typ = ntStatic
			child.prefix = search[:segStartIdx]
			child.rex = nil

			search = search[segStartIdx:]

			nn := &node[C]{
				typ:       segTyp,
				label:     search[0],
				tail:      segTail,
				paramName: segKey,
			}
			hn = child.addChild(nn, search)
		}
	}

	n.children[child.typ] = append(n.children[child.typ], child)
	n.children[child.typ].sort()
	return hn
}

func (n *node[C]) replaceChild(label, tail byte, child *node[C]) {
	for i := range n.children[child.typ] {
		if n.children[child.typ][i].label == label && n.children[child.typ][i].tail == tail {
			n.children[child.typ][i] = child
			n.children[child.typ][i].label = label
			n.children[child.typ][i].tail = tail
			return
		}
	}
	panic(ErrMissingChild)
}

func (n *node[C]) getEdge(ntyp nodeTyp, label, tail byte, prefix string) *node[C] {
	nds := n.children[ntyp]
	for i := range nds {
		if nds[i].label == label && nds[i].tail == tail {
			if ntyp == ntRegexp && nds[i].prefix != prefix {
				continue
			}
			return nds[i]
		}
	}
	return nil
}

func (n *node[C]) setEndpoint(method methodTyp, h handler.HandlerFunc[C], pattern string) {
	if n.endpoints == nil {
		n.endpoints = make(endpoints[C])
	}

	paramKeys := patParamKeys(pattern)

	if method&mSTUB == mSTUB {
		n.endpoints.value(mSTUB).handler = h
	}
	if method&mALL == mALL {
		eh := n.endpoints.value(mALL)
		eh.handler = h
		eh.pattern = pattern
		eh.paramKeys = paramKeys
		for _, m := range methodMap {
			mh := n.endpoints.value(m)
			mh.handler = h
			mh.pattern = pattern
			mh.paramKeys = paramKeys
		}
	} else {
		eh := n.endpoints.value(method)
		eh.handler = h
		eh.pattern = pattern
		eh.paramKeys = paramKeys
	}
}

// findRoute locates the handler and bound path parameters for method+path.
// Literal edges are always preferred over parameter edges at the same node,
// giving deterministic literal-over-parameter precedence per spec.
func (n *node[C]) findRoute(method methodTyp, path string) (*node[C], endpoints[C], handler.HandlerFunc[C], routeParams) {
	rctx := &routeParams{
		Keys:   make([]string, 0),
		Values: make([]string, 0),
	}

	rn := n.findRouteRecursive(method, path, rctx)
	if rn == nil {
		return nil, nil, nil, *rctx
	}

	if rn.endpoints[method] != nil && rn.endpoints[method].handler != nil {
		return rn, rn.endpoints, rn.endpoints[method].handler, *rctx
	}

	return rn, rn.endpoints, nil, *rctx
}

// Recursive edge traversal by checking all nodeTyp groups along the way.
// Children are visited in nodeTyp order (static, regexp, param, catchAll)
// per iteration over n.children, so literal matches are attempted first.
func (n *node[C]) findRouteRecursive(method methodTyp, path string, rctx *routeParams) *node[C] {
	nn := n
	search := path

	for t, nds := range nn.children {
		ntyp := nodeTyp(t)
		if len(nds) == 0 {
			continue
		}

		var xn *node[C]
		xsearch := search

		var label byte
		if search != "" {
			label = search[0]
		}

		switch ntyp {
		case ntStatic:
			xn = nds.findEdge(label)
			if xn == nil || !strings.HasPrefix(xsearch, xn.prefix) {
				continue
			}
			xsearch = xsearch[len(xn.prefix):]

		case ntParam, ntRegexp:
			if xsearch == "" {
				continue
			}

			for idx := range nds {
				xn = nds[idx]

				p := strings.IndexByte(xsearch, xn.tail)

				if p < 0 {
					if xn.tail == '/' {
						p = len(xsearch)
					} else {
						continue
					}
				} else if ntyp == ntRegexp && p == 0 {
					continue
				}

				if ntyp == ntRegexp && xn.rex != nil {
					if !xn.rex.MatchString(xsearch[:p]) {
						continue
					}
				} else if strings.IndexByte(xsearch[:p], '/') != -1 {
					continue
				}

				prevlen := len(rctx.Values)
				rctx.Values = append(rctx.Values, xsearch[:p])
				xsearch = xsearch[p:]

				if len(xsearch) == 0 {
					if xn.isLeaf() {
						h := xn.endpoints[method]
						if h != nil && h.handler != nil {
							rctx.Keys = append(rctx.Keys, h.paramKeys...)
							return xn
						}
						return xn
					}
				}

				fin := xn.findRouteRecursive(method, xsearch, rctx)
				if fin != nil {
					return fin
				}

				rctx.Values = rctx.Values[:prevlen]
				xsearch = search
			}

			rctx.Values = append(rctx.Values, "")

		default:
			// catch-all nodes
			rctx.Values = append(rctx.Values, search)
			xn = nds[0]
			xsearch = ""
		}

		if xn == nil {
			continue
		}

		if len(xsearch) == 0 {
			if xn.isLeaf() {
				h := xn.endpoints[method]
				if h != nil && h.handler != nil {
					rctx.Keys = append(rctx.Keys, h.paramKeys...)
					return xn
				}
				return xn
			}
		}

		fin := xn.findRouteRecursive(method, xsearch, rctx)
		if fin != nil {
			return fin
		}

		if xn.typ > ntStatic {
			if len(rctx.Values) > 0 {
				rctx.Values = rctx.Values[:len(rctx.Values)-1]
			}
		}
	}

	return nil
}

func (n *node[C]) isLeaf() bool {
	return n.endpoints != nil
}

func (n *node[C]) routes() []Route {
	rts := []Route{}

	n.walk(func(eps endpoints[C], subroutes Router[C]) bool {
		if eps[mSTUB] != nil && eps[mSTUB].handler != nil && subroutes == nil {
			return false
		}

		pats := make(map[string]endpoints[C])

		for mt, h := range eps {
			if h.pattern == "" {
				continue
			}
			p, ok := pats[h.pattern]
			if !ok {
				p = endpoints[C]{}
				pats[h.pattern] = p
			}
			p[mt] = h
		}

		for p, mh := range pats {
			for mt := range mh {
				if mt == mALL || mt == mSTUB {
					continue
				}
				m := methodTypString(mt)
				if m == "" {
					continue
				}
				rts = append(rts, Route{Method: m, Pattern: p})
			}
		}

		return false
	})

	return rts
}

func (n *node[C]) walk(fn func(eps endpoints[C], subroutes Router[C]) bool) bool {
	if (n.endpoints != nil || n.subroutes != nil) && fn(n.endpoints, n.subroutes) {
		return true
	}

	for _, ns := range n.children {
		for _, cn := range ns {
			if cn.walk(fn) {
				return true
			}
		}
	}
	return false
}

// patNextSegment returns the next segment details from a pattern:
// node type, param key, regexp string, param tail byte, param starting index, param ending index.
// Accepts both `{name}`/`{name:regexp}` (chi-style) and `:name` (spec-style) param
// prefixes, plus `*` as a trailing catch-all.
func patNextSegment(pattern string) (nodeTyp, string, string, byte, int, int) {
	cs := strings.IndexByte(pattern, ':')
	ps := strings.Index(pattern, "{")
	ws := strings.Index(pattern, "*")

	// `:name` shorthand — only honored when it introduces a segment (preceded by '/'
	// or start-of-string) and there's no earlier `{` form.
	if cs >= 0 && (ps < 0 || cs < ps) {
		if cs == 0 || pattern[cs-1] == '/' {
			end := strings.IndexByte(pattern[cs:], '/')
			var key string
			var tail byte = '/'
			if end < 0 {
				key = pattern[cs+1:]
				return ntParam, key, "", tail, cs, len(pattern)
			}
			key = pattern[cs+1 : cs+end]
			tail = pattern[cs+end]
			return ntParam, key, "", tail, cs, cs + end
		}
	}

	if ps < 0 && ws < 0 {
		return ntStatic, "", "", 0, 0, len(pattern)
	}

	if ps >= 0 && ws >= 0 && ws < ps {
		panic(ErrWildcardPosition)
	}

	var tail byte = '/'

	if ps >= 0 {
		nt := ntParam

		cc := 0
		pe := ps
		for i, c := range pattern[ps:] {
			if c == '{' {
				cc++
			} else if c == '}' {
				cc--
				if cc == 0 {
					pe = ps + i
					break
				}
			}
		}
		if pe == ps {
			panic(ErrParamDelimiter)
		}

		key := pattern[ps+1 : pe]
		pe++

		if pe < len(pattern) {
			tail = pattern[pe]
		}

		key, rexpat, isRegexp := strings.Cut(key, ":")
		if isRegexp {
			nt = ntRegexp
		}

		if len(rexpat) > 0 {
			if rexpat[0] != '^' {
				rexpat = "^" + rexpat
			}
			if rexpat[len(rexpat)-1] != '$' {
				rexpat += "$"
			}
		}

		return nt, key, rexpat, tail, ps, pe
	}

	if ws < len(pattern)-1 {
		panic(ErrWildcardPosition)
	}
	return ntCatchAll, "*", "", 0, ws, len(pattern)
}

func patParamKeys(pattern string) []string {
	pat := pattern
	paramKeys := []string{}
	for {
		ptyp, paramKey, _, _, _, e := patNextSegment(pat)
		if ptyp == ntStatic {
			return paramKeys
		}
		for i := range paramKeys {
			if paramKeys[i] == paramKey {
				panic(fmt.Errorf("%w: '%s' has duplicate key '%s'", ErrDuplicateParam, pattern, paramKey))
			}
		}
		paramKeys = append(paramKeys, paramKey)
		pat = pat[e:]
	}
}

// longestPrefix finds the length of the shared prefix of two strings
func longestPrefix(k1, k2 string) int {
	max := len(k1)
	if l := len(k2); l < max {
		max = l
	}
	var i int
	for i = 0; i < max; i++ {
		if k1[i] != k2[i] {
			break
		}
	}
	return i
}

func methodTypString(method methodTyp) string {
	for s, t := range methodMap {
		if method == t {
			return s
		}
	}
	return ""
}

type nodes[C handler.Context] []*node[C]

func (ns nodes[C]) sort()              { sort.Sort(ns); ns.tailSort() }
func (ns nodes[C]) Len() int           { return len(ns) }
func (ns nodes[C]) Swap(i, j int)      { ns[i], ns[j] = ns[j], ns[i] }
func (ns nodes[C]) Less(i, j int) bool { return ns[i].label < ns[j].label }

// tailSort pushes nodes with '/' as the tail to the end of the list for param nodes.
func (ns nodes[C]) tailSort() {
	for i := len(ns) - 1; i >= 0; i-- {
		if ns[i].typ > ntStatic && ns[i].tail == '/' {
			ns.Swap(i, len(ns)-1)
			return
		}
	}
}

func (ns nodes[C]) findEdge(label byte) *node[C] {
	num := len(ns)
	idx := 0
	i, j := 0, num-1
	for i <= j {
		idx = i + (j-i)/2
		if label > ns[idx].label {
			i = idx + 1
		} else if label < ns[idx].label {
			j = idx - 1
		} else {
			i = num
		}
	}
	if ns[idx].label != label {
		return nil
	}
	return ns[idx]
}
