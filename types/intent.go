// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"crypto/sha256"
	"encoding/binary"
)

// Fingerprint is the deterministic primary key of a proposal, derived
// from (destination, payload, value, source chain, nonce).
type Fingerprint [32]byte

// ID is a generic 32-byte identifier, used for chain tags and similar
// opaque handles.
type ID [32]byte

// Intent is an immutable candidate transaction captured at Submitted.
type Intent struct {
	Caller      ID
	Destination ID
	Value       uint64
	Payload     []byte
	SourceChain ID
	DestChain   *ID // optional; nil when intra-chain
	Nonce       uint64
}

// FingerprintOf derives the transaction fingerprint deterministically
// from (destination, payload, value, source chain, nonce) per spec §3.
func (i Intent) FingerprintOf() Fingerprint {
	h := sha256.New()
	h.Write(i.Destination[:])
	h.Write(i.Payload)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], i.Value)
	h.Write(buf[:])
	h.Write(i.SourceChain[:])
	binary.BigEndian.PutUint64(buf[:], i.Nonce)
	h.Write(buf[:])
	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp
}

// IsEmptyDestination reports whether the destination is the zero ID,
// used by the orchestrator's pre-flight check.
func (i Intent) IsEmptyDestination() bool {
	return i.Destination == ID{}
}
