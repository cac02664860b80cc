package primitive

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/32bitkid/blam/errs"
)

// TagPath is a backslash-separated path to a tag, without the extension.
type TagPath struct {
	path string
}

const forbiddenPathChars = `<>:"|?*`

func isSeparator(c byte) bool {
	return c == '\\' || c == '/' || c == os.PathSeparator
}

// NewTagPath canonicalizes p: separators become single backslashes, a
// leading or trailing separator is dropped and ASCII is lowercased, so
// `levels\a10\` and `Levels/A10` name the same tag. Paths with forbidden
// or non-ASCII characters, or "." and ".." segments, are rejected. The
// empty path is allowed.
func NewTagPath(p string) (TagPath, error) {
	var b strings.Builder
	b.Grow(len(p))
	lastSep := true
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch {
		case isSeparator(c):
			if !lastSep {
				b.WriteByte('\\')
			}
			lastSep = true
			continue
		case c >= 0x80:
			return TagPath{}, errs.Invalidf("tag path %q contains non-ASCII characters", p)
		case c < 0x20:
			return TagPath{}, errs.Invalidf("tag path %q contains control characters", p)
		case strings.IndexByte(forbiddenPathChars, c) >= 0:
			return TagPath{}, errs.Invalidf("tag path %q contains forbidden character %q", p, c)
		case c >= 'A' && c <= 'Z':
			c += 'a' - 'A'
		}
		b.WriteByte(c)
		lastSep = false
	}
	out := strings.TrimSuffix(b.String(), `\`)
	for _, seg := range strings.Split(out, `\`) {
		if seg == "." || seg == ".." {
			return TagPath{}, errs.Invalidf("tag path %q contains a relative segment", p)
		}
	}
	return TagPath{path: out}, nil
}

// MustTagPath is NewTagPath for constants; it panics on invalid input.
func MustTagPath(p string) TagPath {
	tp, err := NewTagPath(p)
	if err != nil {
		panic(err)
	}
	return tp
}

// RawTagPath keeps p exactly as stored in a tag file so that rewriting the
// tag reproduces the original bytes. p must be valid UTF-8.
func RawTagPath(p string) (TagPath, error) {
	if !utf8.ValidString(p) {
		return TagPath{}, errs.Malformed("tag path is not valid UTF-8")
	}
	return TagPath{path: p}, nil
}

func (p TagPath) String() string { return p.path }

func (p TagPath) IsEmpty() bool { return p.path == "" }

// Native returns the path with the host's separator.
func (p TagPath) Native() string {
	if os.PathSeparator == '\\' {
		return p.path
	}
	return strings.ReplaceAll(p.path, `\`, string(os.PathSeparator))
}

// Canonical returns p in canonical form, or p itself when it cannot be
// canonicalized.
func (p TagPath) Canonical() TagPath {
	c, err := NewTagPath(p.path)
	if err != nil {
		return p
	}
	return c
}

// Equal compares canonical forms.
func (p TagPath) Equal(o TagPath) bool {
	return p.Canonical().path == o.Canonical().path
}

func (p TagPath) Base() string {
	if i := strings.LastIndexByte(p.path, '\\'); i >= 0 {
		return p.path[i+1:]
	}
	return p.path
}

func (p TagPath) Join(elem string) (TagPath, error) {
	if p.path == "" {
		return NewTagPath(elem)
	}
	return NewTagPath(p.path + `\` + elem)
}

// Match reports whether path matches pattern. '*' matches any run of
// characters, '?' matches exactly one, and '/', '\' and the native separator
// are interchangeable.
func Match(path, pattern string) bool {
	norm := func(c byte) byte {
		if isSeparator(c) {
			return '\\'
		}
		return c
	}
	// star backtracking over bytes
	p, s := 0, 0
	starP, starS := -1, 0
	for s < len(path) {
		switch {
		case p < len(pattern) && pattern[p] == '*':
			starP, starS = p, s
			p++
		case p < len(pattern) && (pattern[p] == '?' || norm(pattern[p]) == norm(path[s])):
			p++
			s++
		case starP >= 0:
			starS++
			s = starS
			p = starP + 1
		default:
			return false
		}
	}
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}
