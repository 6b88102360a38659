package graph

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stoewer/go-strcase"
)

// VertexLabel formats a vertex label: the first letter is upper-cased and
// the rest is kept as given ("person" becomes "Person").
func VertexLabel(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// EdgeLabel formats an edge label as upper snake case ("worksAt" and
// "works at" both become "WORKS_AT").
func EdgeLabel(name string) string {
	return strcase.UpperSnakeCase(strings.TrimSpace(name))
}
