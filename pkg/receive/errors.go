package receive

import (
	"errors"
	"fmt"
)

// AddressError reports a malformed or unrecognized addressing topology.
// It is fatal for the whole decode: no partial record is usable and the
// caller should drop or nack the stanza.
type AddressError struct {
	Reason string
}

func (e *AddressError) Error() string {
	return "receive: " + e.Reason
}

func addressErrorf(format string, args ...any) error {
	return &AddressError{Reason: fmt.Sprintf(format, args...)}
}

// noMessageFoundText is the stub parameter used when a node carries no
// encrypted or plaintext elements at all.
const noMessageFoundText = "message absent from node"

// Per-element failures are absorbed into the record's stub fields rather
// than returned; these are the fixed ones.
var (
	errUnknownEncType  = errors.New("receive: unknown encryption type")
	errMissingTargetID = errors.New("receive: message secret edit without target id")
	errMissingEditID   = errors.New("receive: message secret edit without edit target id")
	errMissingSecret   = errors.New("receive: message secret absent from stored message")
	errTargetNotStored = errors.New("receive: edit target message not found")
)
