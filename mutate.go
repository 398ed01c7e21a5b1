// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txcache

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Insert records tx as belonging to the cache. It returns true if a new row
// was created, or false if a row with tx's Txid already exists (a no-op).
//
// If other rows share the new row's Ntxid, the new row inherits their
// state and block height, and every row in the cluster (including the new
// one) is marked Malleated.
func (db *TxDatabase) Insert(tx *wire.MsgTx) bool {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	txid := db.codec.Txid(tx)
	if _, exists := db.rows[txid]; exists {
		return false
	}

	ntxid := db.codec.Ntxid(tx)

	var (
		state     = StateUnconfirmed
		height    int64
		malleated bool
	)
	for _, sibling := range db.ntxidLookupAllLocked(ntxid) {
		if sibling.Txid == txid {
			continue
		}
		height = sibling.BlockHeight
		state = sibling.State
		sibling.Malleated = true
		malleated = true
	}

	row := &TxRow{
		Tx:          tx,
		Txid:        txid,
		Ntxid:       ntxid,
		State:       state,
		BlockHeight: height,
		Timestamp:   db.clock.Now(),
		Malleated:   malleated,
	}
	db.rows[txid] = row
	db.ntxIndex.add(ntxid, txid)

	log.Debugf("Inserted tx %v (ntxid %v, malleated=%v)", txid, ntxid,
		malleated)

	return true
}

// Confirmed marks txid confirmed at height, promoting every row in its
// Ntxid cluster to the same height and state. txid must already be
// present; calling Confirmed on an unknown txid is a programmer error and
// panics.
//
// If the row was already confirmed at a different height, the fork
// detector runs against the row's old height before the new height is
// recorded, since that combination means the chain has reorganized under
// us.
func (db *TxDatabase) Confirmed(txid chainhash.Hash, height int64) {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	row, ok := db.rows[txid]
	if !ok {
		panic(fmt.Sprintf("txcache: Confirmed called on unknown txid %v", txid))
	}

	if row.State == StateConfirmed && row.BlockHeight != height {
		db.checkForkLocked(row.BlockHeight)
	}

	siblings := db.ntxidLookupAllLocked(row.Ntxid)

	row.State = StateConfirmed
	row.BlockHeight = height
	row.MasterConfirm = true

	for _, sibling := range siblings {
		if sibling.Txid == txid {
			continue
		}
		sibling.BlockHeight = height
		sibling.State = StateConfirmed
		sibling.Malleated = true
		// Invariant 4: at most one row per cluster carries
		// MasterConfirm. The freshly confirmed txid is the new
		// master.
		sibling.MasterConfirm = false
		row.Malleated = true
	}

	log.Debugf("Confirmed tx %v at height %d", txid, height)
}

// Unconfirmed demotes txid back to unconfirmed. txid must already be
// present; calling Unconfirmed on an unknown txid is a programmer error and
// panics.
//
// If the row was confirmed, every sibling in its Ntxid cluster is
// inspected: a sibling carrying MasterConfirm supplies the height and
// state the primary row inherits, and every other sibling is demoted to
// unconfirmed with the malleated-unconfirmed sentinel height -1. The fork
// detector always runs against the row's former height on a demotion (see
// SPEC_FULL.md §4.4).
func (db *TxDatabase) Unconfirmed(txid chainhash.Hash) {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	row, ok := db.rows[txid]
	if !ok {
		panic(fmt.Sprintf("txcache: Unconfirmed called on unknown txid %v", txid))
	}

	var (
		height    int64
		state     = StateUnconfirmed
		malleated = row.Malleated
	)

	if row.State == StateConfirmed {
		oldHeight := row.BlockHeight

		for _, sibling := range db.ntxidLookupAllLocked(row.Ntxid) {
			if sibling.Txid == txid {
				continue
			}
			if sibling.MasterConfirm {
				height = sibling.BlockHeight
				state = sibling.State
				continue
			}
			sibling.BlockHeight = -1
			sibling.State = StateUnconfirmed
			sibling.Malleated = true
			malleated = true
		}

		db.checkForkLocked(oldHeight)
	}

	row.BlockHeight = height
	row.State = state
	row.Malleated = malleated

	log.Debugf("Unconfirmed tx %v", txid)
}

// AtHeight records the highest block height the cache has been told about
// and runs the fork detector against it.
func (db *TxDatabase) AtHeight(height int64) {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	db.lastHeight = height
	db.checkForkLocked(height)
}
