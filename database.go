// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txcache

import (
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/clock"
)

// Config bundles TxDatabase's tunables.  There is deliberately no support
// for loading this from a file or from flags here: parsing configuration is
// an external collaborator's job (see doc.go).
type Config struct {
	// UnconfirmedTimeout is how long an unconfirmed row may sit without
	// being touched before Serialize purges it from the snapshot.
	UnconfirmedTimeout time.Duration

	// Clock supplies the notion of "now" used for row timestamps and the
	// stale-unconfirmed purge policy. If nil, New substitutes
	// clock.NewDefaultClock(). Tests substitute clock.NewTestClock to
	// make the purge policy deterministic.
	Clock clock.Clock
}

// TxDatabase is an in-memory, mutex-guarded store of transactions and their
// confirmation state.  All exported methods are safe for concurrent use by
// multiple goroutines (network I/O, UI, and a periodic persistence loop).
//
// The zero value is not usable; construct one with New.
type TxDatabase struct {
	mtx sync.Mutex

	rows     map[chainhash.Hash]*TxRow
	ntxIndex ntxIndex

	lastHeight int64

	codec Codec
	clock clock.Clock
	cfg   Config
}

// New constructs an empty TxDatabase. codec is the transaction codec used
// to compute a row's Txid/Ntxid on Insert.
func New(codec Codec, cfg Config) *TxDatabase {
	if cfg.Clock == nil {
		cfg.Clock = clock.NewDefaultClock()
	}

	return &TxDatabase{
		rows:     make(map[chainhash.Hash]*TxRow),
		ntxIndex: newNtxIndex(),
		codec:    codec,
		clock:    cfg.Clock,
		cfg:      cfg,
	}
}

// LastHeight returns the highest block height the cache has been told
// about via AtHeight.
func (db *TxDatabase) LastHeight() int64 {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	return db.lastHeight
}

// TxidExists reports whether a row with the given Txid is stored.
func (db *TxDatabase) TxidExists(txid chainhash.Hash) bool {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	_, ok := db.rows[txid]
	return ok
}

// NtxidExists reports whether any row shares the given Ntxid.
func (db *TxDatabase) NtxidExists(ntxid chainhash.Hash) bool {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	return len(db.ntxidLookupAllLocked(ntxid)) > 0
}

// ResetTimestamp refreshes a row's Timestamp to now.  It is a no-op if the
// row does not exist.
func (db *TxDatabase) ResetTimestamp(txid chainhash.Hash) {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	if row, ok := db.rows[txid]; ok {
		row.Timestamp = db.clock.Now()
	}
}

// ForeachUnconfirmed invokes fn(txid) for every row whose state is not
// StateConfirmed. fn runs under the database lock and must not call back
// into the database.
func (db *TxDatabase) ForeachUnconfirmed(fn func(chainhash.Hash)) {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	for txid, row := range db.rows {
		if row.State != StateConfirmed {
			fn(txid)
		}
	}
}

// ForeachForked invokes fn(txid) for every confirmed row flagged NeedCheck
// by the fork detector. fn runs under the database lock and must not call
// back into the database.
func (db *TxDatabase) ForeachForked(fn func(chainhash.Hash)) {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	for txid, row := range db.rows {
		if row.State == StateConfirmed && row.NeedCheck {
			fn(txid)
		}
	}
}

// Clear forgets all rows and resets LastHeight to zero.
func (db *TxDatabase) Clear() {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	db.rows = make(map[chainhash.Hash]*TxRow)
	db.ntxIndex.clear()
	db.lastHeight = 0
}

// ntxidLookupAllLocked returns every row sharing ntxid. Callers must hold
// db.mtx.
func (db *TxDatabase) ntxidLookupAllLocked(ntxid chainhash.Hash) []*TxRow {
	txids := db.ntxIndex.members(ntxid)
	if len(txids) == 0 {
		return nil
	}
	out := make([]*TxRow, 0, len(txids))
	for _, txid := range txids {
		if row, ok := db.rows[txid]; ok {
			out = append(out, row)
		}
	}
	return out
}
