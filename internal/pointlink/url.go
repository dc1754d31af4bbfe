package pointlink

import (
	"net/url"
	"regexp"
	"strconv"
)

// DefaultScheme is the link scheme recognized when none is configured.
const DefaultScheme = "textedit"

// LinkRef is the source location a link URL encodes.
type LinkRef struct {
	Path   string // percent-decoded file path
	Line   int    // 1-based
	Column int    // 0-based
}

// Matcher recognizes link URLs of a single scheme and extracts the
// location triple. The accepted shape is
//
//	scheme://<percent-encoded-path>:<line>:<column>
//
// with an optional trailing :digits group, anchored at both ends. The
// path group is non-greedy, so the trailing numeric groups win ties
// against paths that themselves end in ":<digits>".
type Matcher struct {
	scheme string
	re     *regexp.Regexp
}

// NewMatcher builds a matcher for the given scheme, or DefaultScheme if
// empty.
func NewMatcher(scheme string) *Matcher {
	if scheme == "" {
		scheme = DefaultScheme
	}
	return &Matcher{
		scheme: scheme,
		re:     regexp.MustCompile(`^` + regexp.QuoteMeta(scheme) + `://(.*?):(\d+):(\d+)(?::\d+)?$`),
	}
}

// Scheme returns the scheme this matcher accepts.
func (m *Matcher) Scheme() string {
	return m.scheme
}

// Match parses a link URL. Non-matching or malformed URLs report ok
// false; they are never errors, table scans skip them silently.
func (m *Matcher) Match(raw string) (LinkRef, bool) {
	groups := m.re.FindStringSubmatch(raw)
	if groups == nil {
		return LinkRef{}, false
	}

	path, err := url.PathUnescape(groups[1])
	if err != nil {
		return LinkRef{}, false
	}
	line, err := strconv.Atoi(groups[2])
	if err != nil || line < 1 {
		return LinkRef{}, false
	}
	column, err := strconv.Atoi(groups[3])
	if err != nil {
		return LinkRef{}, false
	}

	return LinkRef{Path: path, Line: line, Column: column}, true
}
