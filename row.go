// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txcache

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// TxRow is the cache's record for a single stored transaction, keyed by its
// Txid.
type TxRow struct {
	// Tx is the transaction body itself.
	Tx *wire.MsgTx

	// Txid is the ordinary transaction hash; it is also the row's key in
	// TxDatabase.rows.
	Txid chainhash.Hash

	// Ntxid is the malleation-invariant hash.  Rows sharing an Ntxid
	// belong to the same malleation cluster.
	Ntxid chainhash.Hash

	// State is StateUnconfirmed or StateConfirmed.
	State TxState

	// BlockHeight is meaningful only when State is StateConfirmed. It
	// may also hold the sentinel -1 on an unconfirmed row to signal
	// "known malleated and currently unconfirmed".
	BlockHeight int64

	// Timestamp is the wall-clock time this row was last touched while
	// unconfirmed. It drives the stale-unconfirmed purge policy in
	// Serialize.
	Timestamp time.Time

	// NeedCheck is set by the fork detector to flag a confirmed row
	// whose confirmation should be re-verified by an external validator.
	NeedCheck bool

	// Malleated is set once two or more rows are known to share an
	// Ntxid.
	Malleated bool

	// MasterConfirm is set on the one row within an Ntxid cluster that
	// was itself observed confirming on-chain, as opposed to a sibling
	// that merely inherited the confirmation.
	MasterConfirm bool
}

// clone returns a shallow copy of the row with its own Tx pointer, suitable
// for handing to a caller without granting write access to the row the
// database owns internally.
func (r *TxRow) clone() *TxRow {
	cp := *r
	if r.Tx != nil {
		cp.Tx = r.Tx.Copy()
	}
	return &cp
}
