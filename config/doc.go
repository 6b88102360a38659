// Package config loads graphprops.yaml files.
// A configuration selects the store backend and tunes the codec, the
// normalizer and logging. Every field is optional; the Get accessors return
// defaults for unset or invalid values.
package config
