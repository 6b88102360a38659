package flatpath

// Option configures Flatten and Unflatten.
type Option func(*options)

type options struct {
	delimiter    string
	atomicArrays bool
}

func newOptions(opts []Option) options {
	o := options{delimiter: DefaultDelimiter}
	for _, opt := range opts {
		opt(&o)
	}
	if o.delimiter == "" {
		o.delimiter = DefaultDelimiter
	}
	return o
}

// Delimiter sets the string used to join and split path segments.
func Delimiter(d string) Option {
	return func(o *options) {
		o.delimiter = d
	}
}

// AtomicArrays stops Flatten at nested lists, keeping each list as a
// single leaf instead of exploding it into indexed keys.
func AtomicArrays() Option {
	return func(o *options) {
		o.atomicArrays = true
	}
}
