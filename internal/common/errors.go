package common

import "errors"

// Retrieval errors. Both are retried by the poller.
var (
	ErrNetwork           = errors.New("network error")
	ErrMalformedResponse = errors.New("malformed response")
)

// Per-transaction decode errors. The offending transaction is skipped.
var (
	ErrDecode       = errors.New("decode error")
	ErrMissingField = errors.New("missing field")
)

// Storage errors.
var (
	ErrIO               = errors.New("io error")
	ErrCorruptCursor    = errors.New("corrupt cursor")
	ErrInvalidContentID = errors.New("invalid content id")
	ErrBlobNotFound     = errors.New("blob not found")
)

// IsSkippable reports whether err only affects a single transaction.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrDecode) || errors.Is(err, ErrMissingField)
}
