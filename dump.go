// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txcache

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

// dumpFlags is the small subset of a TxRow's bookkeeping flags worth
// spew-dumping together; formatted separately from the address lines below
// because it is the only part of a row without an obvious plain-text
// rendering.
type dumpFlags struct {
	Malleated     bool
	MasterConfirm bool
	NeedCheck     bool
}

// Dump writes a human-readable snapshot of the cache to w: the last known
// height, then per row its state, height or timestamp, flags, and the
// addresses touched by its inputs and outputs. It is meant for interactive
// debugging, not for machine parsing.
func (db *TxDatabase) Dump(w io.Writer) {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	fmt.Fprintf(w, "height: %d\n", db.lastHeight)

	for txid, row := range db.rows {
		fmt.Fprintf(w, "================\n")
		fmt.Fprintf(w, "hash: %v\n", txid)

		switch row.State {
		case StateUnconfirmed:
			fmt.Fprintf(w, "state: unconfirmed\n")
			fmt.Fprintf(w, "timestamp: %v\n", row.Timestamp)
		case StateConfirmed:
			fmt.Fprintf(w, "state: confirmed\n")
			fmt.Fprintf(w, "height: %d\n", row.BlockHeight)
		}

		if row.Malleated || row.MasterConfirm || row.NeedCheck {
			spew.Fdump(w, dumpFlags{
				Malleated:     row.Malleated,
				MasterConfirm: row.MasterConfirm,
				NeedCheck:     row.NeedCheck,
			})
		}

		for _, input := range row.Tx.TxIn {
			if addr, ok := scriptAddress(db.codec, input.SignatureScript); ok {
				fmt.Fprintf(w, "input: %s\n", addr)
			}
		}
		for _, output := range row.Tx.TxOut {
			if addr, ok := scriptAddress(db.codec, output.PkScript); ok {
				fmt.Fprintf(w, "output: %s %d\n", addr, output.Value)
			}
		}
	}
}
