// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package frost

import (
	"crypto/rand"
	"encoding/binary"

	"filippo.io/edwards25519"
	"github.com/zeebo/blake3"
)

const (
	domainNonce     = "github.com/luxfi/airlock/frost 2025 nonce"
	domainBinding   = "github.com/luxfi/airlock/frost 2025 binding-factor"
	domainChallenge = "github.com/luxfi/airlock/frost 2025 challenge"
)

// wideHash produces a 64-byte uniformly-distributed digest suitable
// for reduction into an Ed25519 scalar, matching the "hash, then
// reduce mod l" construction every scalar derivation in this package
// relies on.
func wideHash(domain string, parts ...[]byte) ([]byte, error) {
	h := blake3.New()
	h.Write([]byte(domain))
	for _, p := range parts {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(p)))
		h.Write(lenBuf[:])
		h.Write(p)
	}
	out := make([]byte, 64)
	if _, err := h.Digest().Read(out); err != nil {
		return nil, err
	}
	return out, nil
}

func hashToScalar(domain string, parts ...[]byte) (*edwards25519.Scalar, error) {
	wide, err := wideHash(domain, parts...)
	if err != nil {
		return nil, err
	}
	return new(edwards25519.Scalar).SetUniformBytes(wide)
}

func randomScalar() (*edwards25519.Scalar, error) {
	var raw [64]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return nil, err
	}
	return new(edwards25519.Scalar).SetUniformBytes(raw[:])
}

func scalarFromUint(v uint32) *edwards25519.Scalar {
	var buf [32]byte
	binary.LittleEndian.PutUint32(buf[:4], v)
	s, err := new(edwards25519.Scalar).SetCanonicalBytes(buf[:])
	if err != nil {
		// v < 2^32 is always far smaller than the group order l, so
		// its little-endian encoding is always a canonical scalar.
		panic(err)
	}
	return s
}

func scalarOne() *edwards25519.Scalar {
	return scalarFromUint(1)
}

// deriveNonces produces the two per-signer nonce scalars (d, e) used
// in round one. Like the reference round1 implementation, it hedges a
// fresh random value through a key derived from the signer's secret
// share rather than sampling (d, e) directly, so a broken RNG alone
// can't leak the secret.
func deriveNonces(secret *edwards25519.Scalar, msg []byte) (*edwards25519.Scalar, *edwards25519.Scalar, error) {
	hashKey := make([]byte, 32)
	blake3.DeriveKey(domainNonce, secret.Bytes(), hashKey)

	var fresh [32]byte
	if _, err := rand.Read(fresh[:]); err != nil {
		return nil, nil, err
	}

	hasher, err := blake3.NewKeyed(hashKey)
	if err != nil {
		return nil, nil, err
	}
	hasher.Write(msg)
	hasher.Write(fresh[:])
	wide := make([]byte, 128)
	if _, err := hasher.Digest().Read(wide); err != nil {
		return nil, nil, err
	}

	d, err := new(edwards25519.Scalar).SetUniformBytes(wide[:64])
	if err != nil {
		return nil, nil, err
	}
	e, err := new(edwards25519.Scalar).SetUniformBytes(wide[64:])
	if err != nil {
		return nil, nil, err
	}
	return d, e, nil
}

// encodeCommitmentList serializes the participating slots' nonce
// commitments in the rounds' (already canonical) order, forming the
// transcript every binding factor is computed over.
func encodeCommitmentList(rounds []nonceRound) []byte {
	var out []byte
	for _, r := range rounds {
		var slotBuf [4]byte
		binary.BigEndian.PutUint32(slotBuf[:], uint32(r.slot))
		out = append(out, slotBuf[:]...)
		out = append(out, r.D.Bytes()...)
		out = append(out, r.Ecap.Bytes()...)
	}
	return out
}

// bindingFactor computes rho_i = H(slot_i, msg, commitment_list), the
// per-signer binding factor FROST uses to tie every signer's share to
// the full set of commitments in the round (spec calls this out
// explicitly as the replay-safety property of the signing round).
func bindingFactor(slot Slot, msg, commitmentList []byte) *edwards25519.Scalar {
	var slotBuf [4]byte
	binary.BigEndian.PutUint32(slotBuf[:], uint32(slot))
	s, err := hashToScalar(domainBinding, slotBuf[:], msg, commitmentList)
	if err != nil {
		panic(err) // blake3 output reads never fail
	}
	return s
}

// schnorrChallenge computes c = H(R, Y, msg), the Fiat-Shamir
// challenge binding the group commitment and group public key into
// the final signature equation z*G = R + c*Y.
func schnorrChallenge(R, Y *edwards25519.Point, msg []byte) *edwards25519.Scalar {
	c, err := hashToScalar(domainChallenge, R.Bytes(), Y.Bytes(), msg)
	if err != nil {
		panic(err)
	}
	return c
}
