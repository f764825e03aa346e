package ratelimit

import "strings"

// Rule overrides the default allowance for one route.
type Rule struct {
	Method    string
	Path      string // a trailing "/" matches by prefix
	PerMinute int    // negative means unlimited
	Burst     int
}

// Unlimited reports whether the rule disables limiting for its route.
func (r Rule) Unlimited() bool {
	return r.PerMinute < 0
}

// DefaultRules returns the route overrides used by the ranking server.
// Probes are never limited and index rebuilds get a small allowance.
func DefaultRules() []Rule {
	return []Rule{
		{Method: "GET", Path: "/health", PerMinute: -1},
		{Method: "GET", Path: "/metrics", PerMinute: -1},
		{Method: "POST", Path: "/admin/", PerMinute: 6, Burst: 2},
	}
}

// Match returns the rule for a request, preferring exact paths over prefixes.
// It returns nil when the default allowance applies.
func Match(path, method string, rules []Rule) *Rule {
	for i := range rules {
		if rules[i].Method == method && rules[i].Path == path {
			return &rules[i]
		}
	}
	for i := range rules {
		r := &rules[i]
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r
		}
	}
	return nil
}
