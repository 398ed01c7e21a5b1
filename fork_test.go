// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txcache

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

// TestCheckForkFlagsPriorConfirmation exercises the REDESIGN FLAG behavior:
// demoting a confirmed row back to unconfirmed always runs the fork
// detector against the row's former height, even when that demotion has
// nothing to do with a reorg by itself.
func TestCheckForkFlagsPriorConfirmation(t *testing.T) {
	db, _ := newTestDB(t, time.Hour)

	txA := mkTx([]byte("a"), nil, []mkOutputSpec{{Addr: "a", Value: 1}})
	txB := mkTx([]byte("b"), nil, []mkOutputSpec{{Addr: "b", Value: 2}})
	db.Insert(txA)
	db.Insert(txB)

	txidA := fakeCodec{}.Txid(txA)
	txidB := fakeCodec{}.Txid(txB)

	db.Confirmed(txidA, 100)
	db.Confirmed(txidB, 150)

	// Demote the later transaction. checkForkLocked(150) should find
	// txA at height 100 as the greatest confirmed height strictly below
	// 150, and flag it NeedCheck.
	db.Unconfirmed(txidB)

	var forked []struct{}
	db.ForeachForked(func(_ chainhash.Hash) { forked = append(forked, struct{}{}) })
	require.Len(t, forked, 1)

	require.Equal(t, int64(100), db.TxidHeight(txidA))
	require.Equal(t, int64(0), db.TxidHeight(txidB))
}

func TestCheckForkNoopWithoutLowerConfirmation(t *testing.T) {
	db, _ := newTestDB(t, time.Hour)

	tx := mkTx([]byte("a"), nil, []mkOutputSpec{{Addr: "a", Value: 1}})
	db.Insert(tx)
	txid := fakeCodec{}.Txid(tx)

	db.Confirmed(txid, 100)
	db.Unconfirmed(txid)

	var forked int
	db.ForeachForked(func(_ chainhash.Hash) { forked++ })
	require.Zero(t, forked)
}
