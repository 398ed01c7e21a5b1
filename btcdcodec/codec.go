// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package btcdcodec implements txcache.Codec on top of btcd's own
// transaction wire type and script utilities. It is the one concrete
// stand-in for the "external collaborator" the cache treats as a
// contract-only dependency (see SPEC_FULL.md §6).
package btcdcodec

import (
	"bytes"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// Codec encodes, parses, and hashes transactions using btcd's wire format,
// and extracts payment addresses using txscript against a fixed network.
type Codec struct {
	params *chaincfg.Params
}

// New returns a Codec that extracts addresses for the given network.
func New(params *chaincfg.Params) *Codec {
	return &Codec{params: params}
}

// Encode serializes tx using btcd's standard wire encoding.
func (c *Codec) Encode(tx *wire.MsgTx) ([]byte, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a transaction from the front of data and reports how many
// bytes it consumed, leaving any trailing bytes (e.g. the rest of a
// snapshot stream) untouched.
func (c *Codec) Decode(data []byte) (*wire.MsgTx, int, error) {
	tx := new(wire.MsgTx)
	r := bytes.NewReader(data)
	if err := tx.Deserialize(r); err == nil && tx.HasWitness() {
		return tx, len(data) - r.Len(), nil
	}

	// Encode writes the segwit marker only for transactions carrying
	// witness data. A transaction with no inputs begins with the same 0x00
	// byte, so when the witness-aware parse fails or finds no witness the
	// data is parsed again in the legacy encoding.
	tx = new(wire.MsgTx)
	r = bytes.NewReader(data)
	if err := tx.DeserializeNoWitness(r); err != nil {
		return nil, 0, err
	}
	return tx, len(data) - r.Len(), nil
}

// Txid returns tx's ordinary hash. Because SignatureScript is part of the
// hashed pre-witness transaction, this hash changes when a transaction is
// malleated.
func (c *Codec) Txid(tx *wire.MsgTx) chainhash.Hash {
	return tx.TxHash()
}

// Ntxid returns tx's malleation-invariant hash: the hash of tx with every
// input's SignatureScript and witness stack blanked. Two transactions
// differing only by malleated signatures share this hash.
//
// The blanking rule is specified directly in SPEC_FULL.md §3/§6; the
// original C++ implementation's makeNtxid (referenced from
// abcd/bitcoin/TxDatabase.cpp but defined elsewhere and not present in the
// retrieved source) is grounds for the sentinel name only.
func (c *Codec) Ntxid(tx *wire.MsgTx) chainhash.Hash {
	stripped := tx.Copy()
	for _, in := range stripped.TxIn {
		in.SignatureScript = nil
		in.Witness = nil
	}

	var buf bytes.Buffer
	// Serializing a transaction copied from one that already serialized
	// successfully cannot fail.
	_ = stripped.Serialize(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// ExtractAddress returns the single payment address script decodes to, if
// any.
func (c *Codec) ExtractAddress(script []byte) fn.Option[btcutil.Address] {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(script, c.params)
	if err != nil || len(addrs) != 1 {
		return fn.None[btcutil.Address]()
	}
	return fn.Some(addrs[0])
}
