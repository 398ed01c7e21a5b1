// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txcache

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// AddressSet is a caller-supplied set of encoded payment addresses, used to
// scope Utxos and the change-detection filter.
type AddressSet map[string]struct{}

// NewAddressSet builds an AddressSet from a list of encoded addresses.
func NewAddressSet(addrs ...string) AddressSet {
	set := make(AddressSet, len(addrs))
	for _, a := range addrs {
		set[a] = struct{}{}
	}
	return set
}

// UtxoInfo describes one spendable output.
type UtxoInfo struct {
	Outpoint wire.OutPoint
	Value    int64
}

// doubleSpendAnalyzer builds the set of contested outpoints for the current
// row table and answers the recursive "is this txid safe to spend from"
// question, memoizing results for the lifetime of a single Utxos call. It
// must never outlive that call: rerunning it after the row table changes
// with a stale memo would give wrong answers (see SPEC_FULL.md §4.2).
type doubleSpendAnalyzer struct {
	rows         map[chainhash.Hash]*TxRow
	doubleSpends map[wire.OutPoint]struct{}
	addresses    AddressSet
	codec        Codec
	visited      map[chainhash.Hash]bool
}

func newDoubleSpendAnalyzer(rows map[chainhash.Hash]*TxRow,
	doubleSpends map[wire.OutPoint]struct{}, addresses AddressSet,
	codec Codec) *doubleSpendAnalyzer {

	return &doubleSpendAnalyzer{
		rows:         rows,
		doubleSpends: doubleSpends,
		addresses:    addresses,
		codec:        codec,
		visited:      make(map[chainhash.Hash]bool),
	}
}

// isSafe recursively checks the transaction graph for double-spends. It
// returns true if txid never sources a double-spend. Transactions the
// cache cannot see, and confirmed transactions, are trusted unconditionally.
//
// The memo entry for txid is written before recursing into its inputs so
// that a cyclic reference (which should not occur in a real transaction
// DAG, but which the cache must not assume away) terminates instead of
// looping forever; the conservative in-progress value is true, matching
// the "assume missing/foreign transactions are safe" default used
// elsewhere in this function.
func (a *doubleSpendAnalyzer) isSafe(txid chainhash.Hash) bool {
	if v, ok := a.visited[txid]; ok {
		return v
	}

	row, ok := a.rows[txid]
	if !ok {
		a.visited[txid] = true
		return true
	}

	if row.State == StateConfirmed {
		a.visited[txid] = true
		return true
	}

	// Guard against cycles before recursing.
	a.visited[txid] = true

	for _, input := range row.Tx.TxIn {
		if _, contested := a.doubleSpends[input.PreviousOutPoint]; contested {
			a.visited[txid] = false
			return false
		}
		if !a.isSafe(input.PreviousOutPoint.Hash) {
			a.visited[txid] = false
			return false
		}
	}

	a.visited[txid] = true
	return true
}

// check reports whether a row's output(s) are safe to spend. When filter is
// true and the row is not confirmed, every input must resolve to an
// address the caller controls (i.e. the row looks like our own change),
// otherwise the row is rejected outright regardless of isSafe.
func (a *doubleSpendAnalyzer) check(txid chainhash.Hash, row *TxRow, filter bool) bool {
	if filter && row.State != StateConfirmed {
		for _, input := range row.Tx.TxIn {
			addr, ok := scriptAddress(a.codec, input.SignatureScript)
			if !ok {
				return false
			}
			if _, isOurs := a.addresses[addr]; !isOurs {
				return false
			}
		}
	}
	return a.isSafe(txid)
}

// Utxos returns every unspent output belonging to addresses that passes the
// double-spend safety check. When filter is true, unconfirmed outputs that
// do not look like our own change are excluded.
//
// The returned order is not defined; callers must not rely on it.
func (db *TxDatabase) Utxos(addresses AddressSet, filter bool) []UtxoInfo {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	spends := make(map[wire.OutPoint]struct{})
	doubleSpends := make(map[wire.OutPoint]struct{})
	for _, row := range db.rows {
		for _, input := range row.Tx.TxIn {
			op := input.PreviousOutPoint
			if _, seen := spends[op]; seen {
				doubleSpends[op] = struct{}{}
			} else {
				spends[op] = struct{}{}
			}
		}
	}

	analyzer := newDoubleSpendAnalyzer(db.rows, doubleSpends, addresses, db.codec)

	var out []UtxoInfo
	for txid, row := range db.rows {
		for i, output := range row.Tx.TxOut {
			point := wire.OutPoint{Hash: txid, Index: uint32(i)}
			if _, spent := spends[point]; spent {
				continue
			}

			addr, ok := scriptAddress(db.codec, output.PkScript)
			if !ok {
				continue
			}
			if _, wanted := addresses[addr]; !wanted {
				continue
			}

			if !analyzer.check(txid, row, filter) {
				continue
			}

			out = append(out, UtxoInfo{Outpoint: point, Value: output.Value})
		}
	}
	return out
}
