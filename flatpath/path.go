package flatpath

import (
	"strconv"
	"strings"
)

// DefaultDelimiter joins path segments into flat keys.
const DefaultDelimiter = "."

// Segment is one step of a Path: an object key or a list index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a segment addressing an object key.
func Key(k string) Segment { return Segment{key: k} }

// Index returns a segment addressing a list position.
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

// IsIndex reports whether s addresses a list position.
func (s Segment) IsIndex() bool { return s.isIndex }

// Int returns the list position of an index segment.
func (s Segment) Int() int { return s.index }

// String returns the textual form of the segment.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path locates a leaf inside a nested value.
type Path []Segment

// Join renders p with the given delimiter.
func (p Path) Join(delim string) string {
	var sb strings.Builder
	for i, s := range p {
		if i > 0 {
			sb.WriteString(delim)
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}

// String renders p with DefaultDelimiter.
func (p Path) String() string { return p.Join(DefaultDelimiter) }

// Split parses a flat key back into segments. Canonical non-negative
// integers ("0", "17", not "01" or "-1") become index segments.
func Split(key, delim string) Path {
	if delim == "" {
		delim = DefaultDelimiter
	}
	parts := strings.Split(key, delim)
	p := make(Path, len(parts))
	for i, part := range parts {
		if n, ok := parseIndex(part); ok {
			p[i] = Index(n)
		} else {
			p[i] = Key(part)
		}
	}
	return p
}

func parseIndex(s string) (int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
