package normalize

import (
	"log/slog"

	"github.com/zero-day-ai/graphprops/flatpath"
	"github.com/zero-day-ai/graphprops/value"
)

// rootKey wraps list and dictionary roots so the tree handed to Unflatten
// is always an object.
const rootKey = "$root"

// Option configures Normalize.
type Option func(*options)

type options struct {
	maxPasses int
	logger    *slog.Logger
}

// MaxPasses caps the number of flatten/rebuild passes. By default the cap
// is the length of the longest dictionary chain plus one, which is always
// enough to reach the fixpoint. Values below 1 are ignored.
func MaxPasses(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxPasses = n
		}
	}
}

// WithLogger sets the logger for per-pass debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Normalize returns v with every dictionary replaced by a plain object.
// Key order and list order are preserved. Undefined, Null and scalars are
// returned unchanged, and so is a tree that holds no dictionaries.
func Normalize(v value.Value, opts ...Option) value.Value {
	depth := dictDepth(v)
	if depth == 0 {
		return v
	}

	o := options{maxPasses: depth + 1, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	wrapped := v.Kind() != value.KindObject
	cur := v
	if wrapped {
		cur = value.Obj(value.NewObject().Set(rootKey, v))
	}

	pass := 0
	for ; pass < o.maxPasses; pass++ {
		flat := flatpath.Flatten(cur)
		replaced := 0
		for _, e := range flat.Entries() {
			if e.Value.Kind() == value.KindDict {
				flat.Replace(e.Key, value.Shallow(e.Value))
				replaced++
			}
		}
		if replaced == 0 {
			break
		}
		cur = flatpath.Unflatten(flat)
		o.logger.Debug("normalize pass", "pass", pass+1, "replaced", replaced)
	}
	if pass == o.maxPasses && dictDepth(cur) > 0 {
		o.logger.Debug("normalize stopped at pass limit", "passes", pass)
	}

	if wrapped {
		out, _ := cur.Object().Get(rootKey)
		return out
	}
	return cur
}

// dictDepth returns the largest number of dictionaries on any root-to-leaf
// path of v.
func dictDepth(v value.Value) int {
	deepest := 0
	switch v.Kind() {
	case value.KindList:
		for _, item := range v.Items() {
			deepest = max(deepest, dictDepth(item))
		}
	case value.KindObject, value.KindDict:
		v.Object().Range(func(_ string, item value.Value) bool {
			deepest = max(deepest, dictDepth(item))
			return true
		})
	}
	if v.Kind() == value.KindDict {
		deepest++
	}
	return deepest
}
