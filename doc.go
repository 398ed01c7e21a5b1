// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txcache implements an in-memory, persistable store of Bitcoin
// transactions for a lightweight (SPV) wallet.  It tracks each transaction's
// confirmation state, detects double-spends across the transaction graph,
// tolerates malleated transaction identifiers, and reports the set of
// unspent outputs belonging to a caller-supplied set of addresses.
//
// A TxDatabase is safe for concurrent use by network, UI, and persistence
// goroutines.  It does not fetch blocks or transactions, manage keys or
// addresses, or parse configuration; those are the responsibility of the
// wallet that embeds it.
package txcache
