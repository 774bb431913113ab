// Package gravelerr defines the sentinel errors returned from every public
// entry point of the codec packages (varframe, escape, propcodec,
// elemcodec). Callers should use errors.Is against these sentinels; wrapped
// context is added with fmt.Errorf("...: %w", sentinel).
package gravelerr

import "errors"

var (
	// ErrUnknownGroup is returned when decode encounters a group not present
	// in the schema.
	ErrUnknownGroup = errors.New("gravel: unknown group")

	// ErrSerializationFailed is returned when an underlying property or
	// vertex serializer fails.
	ErrSerializationFailed = errors.New("gravel: serialization failed")

	// ErrCorruptRecord is returned for truncated length prefixes, lengths
	// exceeding the remaining buffer, or an unexpected row-split segment
	// count.
	ErrCorruptRecord = errors.New("gravel: corrupt record")

	// ErrInvalidFlags is a CorruptRecord sub-case: the flags byte of an edge
	// row key doesn't match any known layout/directionality combination.
	ErrInvalidFlags = errors.New("gravel: invalid flags byte")

	// ErrEncodingUnsupported is returned for inputs the codec has no
	// encoding for: a group name containing the row-key delimiter byte.
	// A nil vertex identity is not checked for; it is passed to the
	// vertex serializer like any other value.
	ErrEncodingUnsupported = errors.New("gravel: encoding unsupported")

	// ErrSchemaFrozen is the panic value for mutating a Schema (or reusing
	// a Builder) after it has already been frozen. It is never returned as
	// an error: every caller-facing entry point that can hit this path
	// panics with it instead, since it indicates a programmer error, not a
	// bad input.
	ErrSchemaFrozen = errors.New("gravel: schema already frozen")
)
