// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txcache

// checkForkLocked marks every confirmed row at the greatest confirmed
// height strictly below height as needing re-verification by an external
// validator. It is a no-op if no confirmed row exists below height.
//
// Callers must hold db.mtx.
func (db *TxDatabase) checkForkLocked(height int64) {
	var (
		prevHeight int64
		found      bool
	)
	for _, row := range db.rows {
		if row.State != StateConfirmed || row.BlockHeight >= height {
			continue
		}
		if !found || row.BlockHeight > prevHeight {
			prevHeight = row.BlockHeight
			found = true
		}
	}
	if !found {
		return
	}

	for _, row := range db.rows {
		if row.State == StateConfirmed && row.BlockHeight == prevHeight {
			row.NeedCheck = true
			log.Debugf("Flagged tx %v at height %d for fork "+
				"re-verification", row.Txid, prevHeight)
		}
	}
}
