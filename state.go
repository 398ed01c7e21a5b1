// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txcache

// TxState describes whether a stored transaction has been seen confirmed
// in a block.
type TxState uint8

const (
	// StateUnconfirmed marks a transaction that has not been observed
	// confirmed in any block the cache knows about.
	StateUnconfirmed TxState = iota

	// StateConfirmed marks a transaction observed confirmed at
	// TxRow.BlockHeight.
	StateConfirmed
)

// String returns a human-readable name for the state.
func (s TxState) String() string {
	switch s {
	case StateUnconfirmed:
		return "unconfirmed"
	case StateConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}
