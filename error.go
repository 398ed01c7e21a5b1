// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txcache

import "fmt"

// ErrorCode identifies a kind of error returned by the cache.
type ErrorCode int

// These constants identify the error kinds a TxCacheError can carry.
const (
	// ErrNotInDatabase indicates that NtxidHeight was asked about an
	// ntxid with no matching rows.
	ErrNotInDatabase ErrorCode = iota

	// ErrOutdatedFormat indicates that Load saw the retired snapshot
	// magic number.
	ErrOutdatedFormat

	// ErrUnknownHeader indicates that Load saw a magic number it does
	// not recognize at all.
	ErrUnknownHeader

	// ErrTruncated indicates that Load reached the end of the input
	// while still expecting more of a record.
	ErrTruncated

	// ErrUnknownRecord indicates that Load saw a record-kind byte other
	// than the one tx records are tagged with.
	ErrUnknownRecord
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrNotInDatabase:  "ErrNotInDatabase",
	ErrOutdatedFormat: "ErrOutdatedFormat",
	ErrUnknownHeader:  "ErrUnknownHeader",
	ErrTruncated:      "ErrTruncated",
	ErrUnknownRecord:  "ErrUnknownRecord",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// TxCacheError provides a single type for errors that can happen during
// cache operation.
type TxCacheError struct {
	ErrorCode   ErrorCode // Describes the kind of error.
	Description string    // Human readable description of the issue.
	Err         error     // Underlying error, if any.
}

// Error satisfies the error interface and prints a human-readable error.
func (e TxCacheError) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the underlying error, if any, so that TxCacheError
// interoperates with errors.Is and errors.As.
func (e TxCacheError) Unwrap() error {
	return e.Err
}

// txCacheError creates a TxCacheError given a set of arguments.
func txCacheError(c ErrorCode, desc string, err error) TxCacheError {
	return TxCacheError{ErrorCode: c, Description: desc, Err: err}
}
