// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txcache

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// ntxIndex maps an Ntxid to the set of Txids sharing it. Reference semantics
// are a linear scan over all rows; this index is a performance optimization
// (see DESIGN.md) that must be kept consistent with rows across Insert,
// Load, and Clear, the only operations that add or replace rows wholesale.
// Expected cluster size is 1; malleation is rare.
type ntxIndex map[chainhash.Hash]map[chainhash.Hash]struct{}

func newNtxIndex() ntxIndex {
	return make(ntxIndex)
}

// add records that txid belongs to ntxid's cluster.
func (idx ntxIndex) add(ntxid, txid chainhash.Hash) {
	set, ok := idx[ntxid]
	if !ok {
		set = make(map[chainhash.Hash]struct{})
		idx[ntxid] = set
	}
	set[txid] = struct{}{}
}

// members returns the Txids sharing ntxid. The returned slice is a fresh
// copy safe for the caller to range over while the database continues to
// mutate the index.
func (idx ntxIndex) members(ntxid chainhash.Hash) []chainhash.Hash {
	set, ok := idx[ntxid]
	if !ok {
		return nil
	}
	out := make([]chainhash.Hash, 0, len(set))
	for txid := range set {
		out = append(out, txid)
	}
	return out
}

func (idx ntxIndex) clear() {
	for k := range idx {
		delete(idx, k)
	}
}
