package nmea

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedSentence means no supported message code was found.
	ErrUnrecognizedSentence = errors.New("nmea: unrecognized sentence")
	// ErrChecksumFailed means the transmitted checksum did not match, or the
	// line had no $...*hh sentence to check.
	ErrChecksumFailed = errors.New("nmea: checksum failed")
	// ErrMalformedSentence means the sentence shape or a required field could
	// not be decoded. No partial record accompanies it.
	ErrMalformedSentence = errors.New("nmea: malformed sentence")
	// ErrNotFound means the line has no '$' ... '*hh' sentence.
	ErrNotFound = errors.New("nmea: no sentence found")
)

// FieldError names the required field that stopped a decode.
type FieldError struct {
	Type  MessageType
	Field string
	Index int
	Raw   string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("nmea: %s field %d (%s) %q: %v", e.Type, e.Index, e.Field, e.Raw, e.Err)
}

// Unwrap lets errors.Is match both ErrMalformedSentence and the cause.
func (e *FieldError) Unwrap() []error {
	return []error{ErrMalformedSentence, e.Err}
}
