package graphprops

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for property marshalling and store operations.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrInvalidProps indicates that a property bag passed to Encode is not an
	// object. This is the only condition the codec reports as an error; all
	// other anomalies degrade to best-effort output.
	//
	// Example:
	//	_, err := codec.Encode(value.String("oops"), value.Undefined(), graphprops.Vertex)
	//	if errors.Is(err, graphprops.ErrInvalidProps) {
	//	    return fmt.Errorf("bad request: %w", err)
	//	}
	ErrInvalidProps = errors.New("props must be an object")

	// ErrUnknownKind indicates an element kind other than Vertex or Edge.
	ErrUnknownKind = errors.New("unknown element kind")

	// ErrMalformedRecord indicates a raw query record that does not have the
	// expected wire shape.
	ErrMalformedRecord = errors.New("malformed raw record")

	// ErrElementNotFound indicates that a vertex or edge does not exist in the
	// store.
	ErrElementNotFound = errors.New("element not found")

	// ErrInstanceNotFound indicates that a property instance id does not exist
	// on the element.
	ErrInstanceNotFound = errors.New("property instance not found")

	// ErrNilMutator indicates that Apply was called without a mutator.
	ErrNilMutator = errors.New("mutator is nil")
)

// Error kinds categorize errors by their type.
const (
	// KindValidation represents errors caused by invalid caller input.
	KindValidation = "validation"

	// KindNotFound represents errors where an element or instance was not found.
	KindNotFound = "not_found"

	// KindStorage represents errors returned by a store backend.
	KindStorage = "storage"
)

// Error wraps an underlying error with the operation that failed and the
// category of failure. It supports errors.Is and errors.As.
type Error struct {
	// Op is the operation that failed (e.g., "Codec.Encode", "Client.UpdateProps").
	Op string

	// Kind categorizes the error (KindValidation, KindNotFound, KindStorage).
	Kind string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("graphprops: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("graphprops: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind (and Op when the target sets one), and
// otherwise delegates to the wrapped error.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok && t.Kind != "" && e.Kind == t.Kind {
		if t.Op == "" || e.Op == t.Op {
			return true
		}
	}
	return errors.Is(e.Err, target)
}

// NewValidationError creates an Error with KindValidation.
func NewValidationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindValidation, Err: err}
}

// NewNotFoundError creates an Error with KindNotFound.
func NewNotFoundError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindNotFound, Err: err}
}

// NewStorageError creates an Error with KindStorage.
func NewStorageError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindStorage, Err: err}
}

// IsValidation reports whether err carries KindValidation.
func IsValidation(err error) bool {
	return errors.Is(err, &Error{Kind: KindValidation})
}

// IsNotFound reports whether err carries KindNotFound or wraps one of the
// not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, &Error{Kind: KindNotFound}) ||
		errors.Is(err, ErrElementNotFound) ||
		errors.Is(err, ErrInstanceNotFound)
}

// CloseWithLog closes the resource and logs a failure at warning level.
// It is meant for defer statements. If logger is nil, slog.Default() is used.
//
//	defer graphprops.CloseWithLog(store, logger, "redis store")
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
