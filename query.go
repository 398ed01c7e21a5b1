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

// TxidLookup returns the stored transaction body for txid, if any.
func (db *TxDatabase) TxidLookup(txid chainhash.Hash) fn.Option[*wire.MsgTx] {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	row, ok := db.rows[txid]
	if !ok {
		return fn.None[*wire.MsgTx]()
	}
	return fn.Some(row.Tx)
}

// NtxidLookup returns a representative transaction for an Ntxid cluster.
// When several rows share the Ntxid, the row with MasterConfirm set wins;
// failing that, any confirmed row wins; failing that, any row in the
// cluster is returned.
func (db *TxDatabase) NtxidLookup(ntxid chainhash.Hash) fn.Option[*wire.MsgTx] {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	rows := db.ntxidLookupAllLocked(ntxid)
	if len(rows) == 0 {
		return fn.None[*wire.MsgTx]()
	}

	var (
		tx      *wire.MsgTx
		foundTx bool
	)
	for _, row := range rows {
		if !foundTx {
			tx = row.Tx
			foundTx = true
		} else if row.State == StateConfirmed {
			tx = row.Tx
		}

		if row.MasterConfirm {
			return fn.Some(row.Tx)
		}
	}
	return fn.Some(tx)
}

// TxidHeight returns 0 if txid is unknown or unconfirmed, otherwise the
// row's confirmed block height.
func (db *TxDatabase) TxidHeight(txid chainhash.Hash) int64 {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	row, ok := db.rows[txid]
	if !ok || row.State != StateConfirmed {
		return 0
	}
	return row.BlockHeight
}

// NtxidHeight returns the maximum confirmed block height across an Ntxid
// cluster. It fails with ErrNotInDatabase if the cluster is empty. If no
// row in a multi-row cluster is confirmed, it returns the sentinel -1
// (malleated and unconfirmed).
func (db *TxDatabase) NtxidHeight(ntxid chainhash.Hash) (int64, error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	rows := db.ntxidLookupAllLocked(ntxid)
	if len(rows) == 0 {
		return 0, txCacheError(ErrNotInDatabase,
			"tx isn't in the database", nil)
	}

	var height int64
	for _, row := range rows {
		if row.State == StateConfirmed && row.BlockHeight > height {
			height = row.BlockHeight
		}
	}

	if len(rows) > 1 && height == 0 {
		height = -1
	}
	return height, nil
}

// HasHistory reports whether any output of any stored transaction pays
// address.
func (db *TxDatabase) HasHistory(address string) bool {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	for _, row := range db.rows {
		for _, output := range row.Tx.TxOut {
			if addr, ok := scriptAddress(db.codec, output.PkScript); ok &&
				addr == address {
				return true
			}
		}
	}
	return false
}

// scriptAddress extracts the encoded address string for a script, if the
// codec can resolve one.
func scriptAddress(codec Codec, script []byte) (string, bool) {
	var (
		encoded string
		ok      bool
	)
	codec.ExtractAddress(script).WhenSome(func(a btcutil.Address) {
		encoded = a.EncodeAddress()
		ok = true
	})
	return encoded, ok
}
