package device

import (
	"strings"

	"github.com/damianoneill/ncops/netconf/common"
)

type matchMode int

const (
	matchExact matchMode = iota
	matchPrefix
	matchSuffix
	matchContains
)

// ExemptMatcher recognises a known-benign error by its message.
//
// Patterns are case insensitive. A leading and/or trailing '*' turns the pattern into a
// suffix, prefix or substring match; otherwise the whole message must match.
type ExemptMatcher struct {
	pattern string
	mode    matchMode
}

// NewExemptMatcher compiles pattern into a matcher.
func NewExemptMatcher(pattern string) ExemptMatcher {
	p := strings.ToLower(strings.TrimSpace(pattern))
	lead, trail := strings.HasPrefix(p, "*"), strings.HasSuffix(p, "*") && len(p) > 1
	p = strings.TrimSuffix(strings.TrimPrefix(p, "*"), "*")

	m := ExemptMatcher{pattern: p, mode: matchExact}
	switch {
	case lead && trail:
		m.mode = matchContains
	case lead:
		m.mode = matchSuffix
	case trail:
		m.mode = matchPrefix
	}
	return m
}

// Match reports whether the error message matches the pattern.
func (m ExemptMatcher) Match(message string) bool {
	msg := strings.ToLower(strings.TrimSpace(message))
	switch m.mode {
	case matchContains:
		return strings.Contains(msg, m.pattern)
	case matchSuffix:
		return strings.HasSuffix(msg, m.pattern)
	case matchPrefix:
		return strings.HasPrefix(msg, m.pattern)
	default:
		return msg == m.pattern
	}
}

// MatchError reports whether the rpc error is exempted by the matcher.
func (m ExemptMatcher) MatchError(e *common.RPCError) bool {
	return e != nil && m.Match(e.Message)
}
