// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txcache

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// Codec is the external collaborator the cache consumes to serialize and
// parse transactions, compute the two identifier hashes described in the
// data model, and pull a payment address out of an input or output script.
// txcache never implements script execution itself; ExtractAddress is
// best-effort and returns fn.None when a script does not resolve to a
// single recognizable payment address.
//
// A concrete implementation lives in the sibling btcdcodec package.
type Codec interface {
	// Encode serializes a transaction to its wire representation.
	Encode(tx *wire.MsgTx) ([]byte, error)

	// Decode parses a transaction from its wire representation and
	// reports how many bytes of data were consumed.
	Decode(data []byte) (tx *wire.MsgTx, consumed int, err error)

	// Txid computes the ordinary transaction hash: it changes if any
	// byte of the encoded transaction changes, including signature
	// scripts and witness data.
	Txid(tx *wire.MsgTx) chainhash.Hash

	// Ntxid computes the malleation-invariant hash: a hash of the
	// transaction with every input's signature script (and witness)
	// blanked out, so that two transactions differing only by malleated
	// signatures share one Ntxid.
	Ntxid(tx *wire.MsgTx) chainhash.Hash

	// ExtractAddress returns the payment address a script pays to, if
	// the script decodes to exactly one recognizable address.
	ExtractAddress(script []byte) fn.Option[btcutil.Address]
}
