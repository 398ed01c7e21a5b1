// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txcache

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Snapshot format constants (see SPEC_FULL.md §4.5).
const (
	// currentMagic identifies the snapshot format this package writes
	// and reads.
	currentMagic uint32 = 0xFECDB763

	// outdatedMagic identifies the retired snapshot format used by an
	// earlier watcher; Load reports ErrOutdatedFormat for it instead of
	// trying to parse it.
	outdatedMagic uint32 = 0x3EAB61C3

	// recordKindTx tags every record in the snapshot body. It is the
	// only kind Load understands.
	recordKindTx byte = 0x42
)

// Serialize returns a byte-for-byte snapshot of the cache, in the format
// described in SPEC_FULL.md §4.5. Rows that are unconfirmed and have not
// been touched within UnconfirmedTimeout are silently omitted. Serialize
// cannot fail: it only ever writes to an in-memory buffer.
func (db *TxDatabase) Serialize() []byte {
	db.mtx.Lock()
	defer db.mtx.Unlock()

	var buf bytes.Buffer

	writeUint32(&buf, currentMagic)
	writeUint64(&buf, uint64(db.lastHeight))

	now := db.clock.Now()
	for txid, row := range db.rows {
		if row.State == StateUnconfirmed &&
			row.Timestamp.Add(db.cfg.UnconfirmedTimeout).Before(now) {

			log.Debugf("Purging stale unconfirmed tx %v", txid)
			continue
		}

		heightOrTimestamp := row.BlockHeight
		if row.State == StateUnconfirmed {
			heightOrTimestamp = row.Timestamp.Unix()
		}

		encoded, err := db.codec.Encode(row.Tx)
		if err != nil {
			log.Errorf("Skipping tx %v: failed to encode: %v", txid, err)
			continue
		}

		buf.WriteByte(recordKindTx)
		buf.Write(txid[:])
		buf.Write(encoded)
		buf.WriteByte(byte(row.State))
		writeInt64(&buf, heightOrTimestamp)
		buf.WriteByte(boolByte(row.NeedCheck))
		buf.Write(row.Txid[:])
		buf.Write(row.Ntxid[:])
		buf.WriteByte(boolByte(row.Malleated))
		buf.WriteByte(boolByte(row.MasterConfirm))
	}

	return buf.Bytes()
}

// Load parses a snapshot produced by Serialize and, on success, atomically
// replaces the cache's rows and LastHeight. On any error the cache is left
// unchanged.
//
// The parse runs unlocked: it only reads db.clock and db.codec, both fixed
// at New and never reassigned, and builds its result into locals. db.mtx is
// acquired only to install that result.
func (db *TxDatabase) Load(data []byte) error {
	r := &byteReader{data: data}

	magic, err := r.readUint32()
	if err != nil {
		return txCacheError(ErrTruncated,
			"truncated transaction database header", err)
	}
	switch magic {
	case currentMagic:
		// Current format, keep going.
	case outdatedMagic:
		return txCacheError(ErrOutdatedFormat,
			"outdated transaction database format", nil)
	default:
		return txCacheError(ErrUnknownHeader,
			fmt.Sprintf("unknown transaction database header 0x%08x",
				magic), nil)
	}

	lastHeight, err := r.readUint64()
	if err != nil {
		return txCacheError(ErrTruncated,
			"truncated transaction database", err)
	}

	rows := make(map[chainhash.Hash]*TxRow)
	idx := newNtxIndex()
	now := db.clock.Now()

	for r.remaining() > 0 {
		kind, err := r.readByte()
		if err != nil {
			return txCacheError(ErrTruncated,
				"truncated transaction database", err)
		}
		if kind != recordKindTx {
			return txCacheError(ErrUnknownRecord,
				fmt.Sprintf("unknown record kind 0x%02x", kind), nil)
		}

		key, err := r.readHash()
		if err != nil {
			return txCacheError(ErrTruncated,
				"truncated transaction database", err)
		}

		tx, consumed, err := db.codec.Decode(r.rest())
		if err != nil {
			return txCacheError(ErrTruncated,
				"truncated transaction encoding", err)
		}
		if err := r.advance(consumed); err != nil {
			return txCacheError(ErrTruncated,
				"truncated transaction database", err)
		}

		stateByte, err := r.readByte()
		if err != nil {
			return txCacheError(ErrTruncated,
				"truncated transaction database", err)
		}

		heightOrTimestamp, err := r.readInt64()
		if err != nil {
			return txCacheError(ErrTruncated,
				"truncated transaction database", err)
		}

		needCheckByte, err := r.readByte()
		if err != nil {
			return txCacheError(ErrTruncated,
				"truncated transaction database", err)
		}

		txid, err := r.readHash()
		if err != nil {
			return txCacheError(ErrTruncated,
				"truncated transaction database", err)
		}
		ntxid, err := r.readHash()
		if err != nil {
			return txCacheError(ErrTruncated,
				"truncated transaction database", err)
		}

		malleatedByte, err := r.readByte()
		if err != nil {
			return txCacheError(ErrTruncated,
				"truncated transaction database", err)
		}
		masterConfirmByte, err := r.readByte()
		if err != nil {
			return txCacheError(ErrTruncated,
				"truncated transaction database", err)
		}

		row := &TxRow{
			Tx:            tx,
			Txid:          txid,
			Ntxid:         ntxid,
			State:         TxState(stateByte),
			NeedCheck:     needCheckByte != 0,
			Malleated:     malleatedByte != 0,
			MasterConfirm: masterConfirmByte != 0,
		}
		if row.State == StateUnconfirmed {
			row.Timestamp = time.Unix(heightOrTimestamp, 0)
		} else {
			row.BlockHeight = heightOrTimestamp
			row.Timestamp = now
		}

		rows[key] = row
		idx.add(ntxid, key)
	}

	db.mtx.Lock()
	defer db.mtx.Unlock()
	db.rows = rows
	db.ntxIndex = idx
	db.lastHeight = int64(lastHeight)

	log.Debugf("Loaded transaction database at height %d with %d rows",
		lastHeight, len(rows))

	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeInt64(buf *bytes.Buffer, v int64) {
	writeUint64(buf, uint64(v))
}

// byteReader is a minimal bounds-checked cursor over a snapshot byte slice.
// It exists because the snapshot format's tx_encoding field has no length
// prefix of its own; Codec.Decode reports how many bytes it consumed, and
// the reader simply advances past them.
type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) remaining() int { return len(r.data) - r.pos }

func (r *byteReader) rest() []byte { return r.data[r.pos:] }

func (r *byteReader) advance(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return io.ErrUnexpectedEOF
	}
	r.pos += n
	return nil
}

func (r *byteReader) readN(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *byteReader) readByte() (byte, error) {
	b, err := r.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *byteReader) readHash() (chainhash.Hash, error) {
	var h chainhash.Hash
	b, err := r.readN(chainhash.HashSize)
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

func (r *byteReader) readUint32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *byteReader) readUint64() (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *byteReader) readInt64() (int64, error) {
	v, err := r.readUint64()
	return int64(v), err
}
