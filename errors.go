package bmserial

import (
	"errors"
	"fmt"

	"github.com/hupe1980/bmserial/bitio"
	"github.com/hupe1980/bmserial/blockcodec"
	"github.com/hupe1980/bmserial/streamop"
)

// FormatError reports a malformed stream, such as an unrecognized
// block-type byte or a truncated header, or a header mode this decoder does
// not support (ID_LIST).
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type FormatError struct {
	Reason string
	cause  error
}

func (e *FormatError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("bmserial: format error: %s: %v", e.Reason, e.cause)
	}
	return fmt.Sprintf("bmserial: format error: %s", e.Reason)
}

func (e *FormatError) Unwrap() error { return e.cause }

// CapacityError reports that Serialize was asked to write into a buffer
// too small for the stream, a programmer error per spec.md §7 (callers are
// expected to size the buffer from a prior SerializeIntoResizable call or
// their own statistics pass).
type CapacityError struct {
	cause error
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("bmserial: capacity error: %v", e.cause)
}

func (e *CapacityError) Unwrap() error { return e.cause }

// translateError normalizes errors surfaced by the internal codec packages
// into this package's exported error taxonomy, matching the teacher's own
// translateError boundary between its internal packages and its public API.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ce *bitio.CapacityError
	if errors.As(err, &ce) {
		return &CapacityError{cause: err}
	}

	var bfe *blockcodec.FormatError
	if errors.As(err, &bfe) {
		return &FormatError{Reason: "unrecognized block type", cause: err}
	}
	var sfe *streamop.FormatError
	if errors.As(err, &sfe) {
		return &FormatError{Reason: "unrecognized stream tag", cause: err}
	}

	return err
}
