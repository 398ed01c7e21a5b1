// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txcache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSerializeLoadRoundTrip(t *testing.T) {
	db, _ := newTestDB(t, time.Hour)

	tx1 := mkTx([]byte("a"), nil, []mkOutputSpec{{Addr: "addr1", Value: 100}})
	tx2 := mkTx([]byte("b"), nil, []mkOutputSpec{{Addr: "addr2", Value: 200}})
	db.Insert(tx1)
	db.Insert(tx2)

	txid1 := fakeCodec{}.Txid(tx1)
	db.Confirmed(txid1, 42)
	db.AtHeight(42)

	blob := db.Serialize()
	require.NotEmpty(t, blob)

	loaded, _ := newTestDB(t, time.Hour)
	require.NoError(t, loaded.Load(blob))

	require.Equal(t, int64(42), loaded.LastHeight())
	require.Equal(t, int64(42), loaded.TxidHeight(txid1))
	require.True(t, loaded.TxidExists(fakeCodec{}.Txid(tx2)))
}

func TestSerializePurgesStaleUnconfirmed(t *testing.T) {
	db, tc := newTestDB(t, time.Minute)

	tx := mkTx([]byte("stale"), nil, []mkOutputSpec{{Addr: "x", Value: 1}})
	db.Insert(tx)

	// Push the clock far enough forward that the row's timestamp is
	// older than UnconfirmedTimeout.
	tc.SetTime(tc.Now().Add(time.Hour))

	blob := db.Serialize()

	loaded, _ := newTestDB(t, time.Minute)
	require.NoError(t, loaded.Load(blob))
	require.False(t, loaded.TxidExists(fakeCodec{}.Txid(tx)))
}

func TestSerializeKeepsFreshUnconfirmed(t *testing.T) {
	db, tc := newTestDB(t, time.Hour)

	tx := mkTx([]byte("fresh"), nil, []mkOutputSpec{{Addr: "y", Value: 1}})
	db.Insert(tx)

	tc.SetTime(tc.Now().Add(time.Minute))

	blob := db.Serialize()

	loaded, _ := newTestDB(t, time.Hour)
	require.NoError(t, loaded.Load(blob))
	require.True(t, loaded.TxidExists(fakeCodec{}.Txid(tx)))
}

func TestLoadRejectsOutdatedFormat(t *testing.T) {
	db, _ := newTestDB(t, time.Hour)

	blob := []byte{0xC3, 0x61, 0xAB, 0x3E, 0, 0, 0, 0, 0, 0, 0, 0}
	err := db.Load(blob)

	var cacheErr TxCacheError
	require.True(t, errors.As(err, &cacheErr))
	require.Equal(t, ErrOutdatedFormat, cacheErr.ErrorCode)
}

func TestLoadRejectsUnknownHeader(t *testing.T) {
	db, _ := newTestDB(t, time.Hour)

	blob := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 0, 0, 0, 0, 0}
	err := db.Load(blob)

	var cacheErr TxCacheError
	require.True(t, errors.As(err, &cacheErr))
	require.Equal(t, ErrUnknownHeader, cacheErr.ErrorCode)
}

func TestLoadRejectsTruncatedInput(t *testing.T) {
	db, _ := newTestDB(t, time.Hour)

	blob := []byte{0x63, 0xB7, 0xCD, 0xFE, 0, 0}
	err := db.Load(blob)

	var cacheErr TxCacheError
	require.True(t, errors.As(err, &cacheErr))
	require.Equal(t, ErrTruncated, cacheErr.ErrorCode)
}

func TestLoadLeavesDatabaseUnchangedOnError(t *testing.T) {
	db, _ := newTestDB(t, time.Hour)

	tx := mkTx([]byte("keep"), nil, []mkOutputSpec{{Addr: "z", Value: 1}})
	db.Insert(tx)
	db.AtHeight(7)

	err := db.Load([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 0, 0, 0, 0, 0})
	require.Error(t, err)

	require.Equal(t, int64(7), db.LastHeight())
	require.True(t, db.TxidExists(fakeCodec{}.Txid(tx)))
}
