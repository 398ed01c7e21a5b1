// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txcache

import (
	"bytes"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// fakeAddress is the minimal btcutil.Address implementation needed to
// exercise the cache without pulling txscript's real address grammar into
// every test: the fake codec below treats a script's raw bytes as an
// address's encoded form directly.
type fakeAddress string

func (a fakeAddress) EncodeAddress() string          { return string(a) }
func (a fakeAddress) ScriptAddress() []byte          { return []byte(a) }
func (a fakeAddress) IsForNet(*chaincfg.Params) bool { return true }
func (a fakeAddress) String() string                 { return string(a) }

// fakeCodec implements Codec using btcd's real wire encoding for
// Encode/Decode/Txid/Ntxid (the same rules btcdcodec.Codec uses) but treats
// a script's bytes as a literal address string, so tests can build
// transactions without constructing real pkScripts.
type fakeCodec struct{}

func (fakeCodec) Encode(tx *wire.MsgTx) ([]byte, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (fakeCodec) Decode(data []byte) (*wire.MsgTx, int, error) {
	tx := new(wire.MsgTx)
	r := bytes.NewReader(data)
	if err := tx.Deserialize(r); err == nil && tx.HasWitness() {
		return tx, len(data) - r.Len(), nil
	}
	tx = new(wire.MsgTx)
	r = bytes.NewReader(data)
	if err := tx.DeserializeNoWitness(r); err != nil {
		return nil, 0, err
	}
	return tx, len(data) - r.Len(), nil
}

func (fakeCodec) Txid(tx *wire.MsgTx) chainhash.Hash {
	return tx.TxHash()
}

func (fakeCodec) Ntxid(tx *wire.MsgTx) chainhash.Hash {
	stripped := tx.Copy()
	for _, in := range stripped.TxIn {
		in.SignatureScript = nil
		in.Witness = nil
	}
	var buf bytes.Buffer
	_ = stripped.Serialize(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

func (fakeCodec) ExtractAddress(script []byte) fn.Option[btcutil.Address] {
	if len(script) == 0 {
		return fn.None[btcutil.Address]()
	}
	return fn.Some[btcutil.Address](fakeAddress(script))
}

// mkOutPoint is a small convenience constructor for outpoints in tests.
func mkOutPoint(hash chainhash.Hash, index uint32) wire.OutPoint {
	return wire.OutPoint{Hash: hash, Index: index}
}

// mkOutput is a small convenience constructor for outputs in tests.
type mkOutputSpec struct {
	Addr  string
	Value int64
}

func mkTx(sigScript []byte, inputs []wire.OutPoint, outputs []mkOutputSpec) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	for _, op := range inputs {
		op := op
		tx.AddTxIn(&wire.TxIn{PreviousOutPoint: op, SignatureScript: sigScript})
	}
	for _, o := range outputs {
		tx.AddTxOut(&wire.TxOut{Value: o.Value, PkScript: []byte(o.Addr)})
	}
	return tx
}

func newTestDB(t *testing.T, timeout time.Duration) (*TxDatabase, *clock.TestClock) {
	t.Helper()

	tc := clock.NewTestClock(time.Unix(1_700_000_000, 0))
	db := New(fakeCodec{}, Config{
		UnconfirmedTimeout: timeout,
		Clock:              tc,
	})
	return db, tc
}
