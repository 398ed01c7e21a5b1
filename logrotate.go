// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txcache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"
)

// InitLogRotator initializes a rolling file logger backed by
// jrick/logrotate.  txcache itself never opens this file; the returned
// rotator implements io.WriteCloser and is meant to be handed to
// btclog.NewBackend by an embedding application, then passed to UseLogger.
//
// This lives in the ambient logging surface of the package (see
// UseLogger/DisableLog) rather than in the cache proper: the cache is a
// pure in-memory data structure and has no file-system footprint of its
// own (see Serialize/Load).
func InitLogRotator(logFile string) (*rotator.Rotator, error) {
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to create file rotator: %w", err)
	}
	return r, nil
}
