// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package frost implements the FROST threshold Schnorr signature
// scheme (Ed25519 ciphersuite) the airlock orchestrator uses to
// assemble a guardian-committee signature over a proposal's outcome
// tag (approved, rejected or delayed-approved) (spec §4.2). Key generation
// uses a trusted-dealer Shamir split rather than an interactive DKG
// round: the airlock core runs inside a single trust boundary, so the
// network rounds a fully peer-to-peer DKG would need are out of scope
// (spec §1 excludes guardian transport).
package frost

import (
	"fmt"
	"sort"

	"filippo.io/edwards25519"

	"github.com/luxfi/airlock/log"
	"github.com/luxfi/airlock/metrics"
	"github.com/luxfi/airlock/types"
)

// Slot is a guardian's position in the committee, 1-indexed so slot 0
// is never a valid participant (it collides with the dealer's secret
// index during Lagrange interpolation).
type Slot uint32

// Share is one guardian's secret key share plus its public
// verification share, produced by DKG.
type Share struct {
	Slot      Slot
	Secret    *edwards25519.Scalar
	PublicKey *edwards25519.Point
}

// GroupKey is the committee's aggregate public key, against which
// assembled signatures verify.
type GroupKey struct {
	Point *edwards25519.Point
}

// Bytes returns the group key's compressed point encoding.
func (g GroupKey) Bytes() [32]byte {
	var out [32]byte
	copy(out[:], g.Point.Bytes())
	return out
}

// DKG runs a trusted-dealer t-of-n keygen: it samples a degree-(t-1)
// polynomial, evaluates it at slots 1..n for the secret shares, and
// returns the implied group public key alongside every share.
func DKG(n, t int) (GroupKey, []Share, error) {
	if t <= 0 || n <= 0 || t > n {
		return GroupKey{}, nil, fmt.Errorf("frost: invalid threshold %d of %d", t, n)
	}

	coeffs := make([]*edwards25519.Scalar, t)
	for i := range coeffs {
		s, err := randomScalar()
		if err != nil {
			return GroupKey{}, nil, err
		}
		coeffs[i] = s
	}

	groupPoint := new(edwards25519.Point).ScalarBaseMult(coeffs[0])

	shares := make([]Share, n)
	for i := 1; i <= n; i++ {
		secret := evalPolynomial(coeffs, uint32(i))
		shares[i-1] = Share{
			Slot:      Slot(i),
			Secret:    secret,
			PublicKey: new(edwards25519.Point).ScalarBaseMult(secret),
		}
	}

	return GroupKey{Point: groupPoint}, shares, nil
}

// evalPolynomial computes f(x) = sum coeffs[k] * x^k via Horner's method.
func evalPolynomial(coeffs []*edwards25519.Scalar, x uint32) *edwards25519.Scalar {
	xs := scalarFromUint(x)
	acc := new(edwards25519.Scalar).Set(coeffs[len(coeffs)-1])
	for k := len(coeffs) - 2; k >= 0; k-- {
		acc.Multiply(acc, xs)
		acc.Add(acc, coeffs[k])
	}
	return acc
}

// Engine runs signing rounds over a fixed set of guardian shares.
type Engine struct {
	group     GroupKey
	shares    map[Slot]Share
	threshold int
	log       log.Logger
	metrics   *metrics.Metrics
}

// NewEngine builds a signing Engine for a committee holding shares,
// requiring at least threshold signers to participate in any one round.
func NewEngine(group GroupKey, shares []Share, threshold int, logger log.Logger, m *metrics.Metrics) *Engine {
	byID := make(map[Slot]Share, len(shares))
	for _, s := range shares {
		byID[s.Slot] = s
	}
	return &Engine{group: group, shares: byID, threshold: threshold, log: logger, metrics: m}
}

// GroupKey returns the committee's aggregate public key.
func (e *Engine) GroupKey() GroupKey { return e.group }

type nonceRound struct {
	slot    Slot
	d, e    *edwards25519.Scalar
	D, Ecap *edwards25519.Point
}

// Sign runs a two-round FROST signature over msg with exactly the
// participating slots, in the teacher's two-phase shape: a nonce
// commitment round followed by a share-emission round, both executed
// here since the airlock core simulates the guardian committee inside
// one process rather than across a network.
func (e *Engine) Sign(msg []byte, slots []Slot) (types.ThresholdSignature, error) {
	e.metrics.SigningRounds.Inc()
	sig, err := e.sign(msg, slots)
	if err != nil {
		e.metrics.SigningFailures.Inc()
		e.log.Warn("frost signing round failed", "err", err)
	}
	return sig, err
}

func (e *Engine) sign(msg []byte, slots []Slot) (types.ThresholdSignature, error) {
	if len(slots) < e.threshold {
		return types.ThresholdSignature{}, fmt.Errorf("%w: need at least %d participants, got %d", types.ErrInsufficientParticipants, e.threshold, len(slots))
	}
	ordered, err := canonicalize(slots)
	if err != nil {
		return types.ThresholdSignature{}, err
	}

	// Round 1: nonce commitments.
	rounds := make([]nonceRound, len(ordered))
	for i, slot := range ordered {
		share, ok := e.shares[slot]
		if !ok {
			return types.ThresholdSignature{}, fmt.Errorf("%w: slot %d", types.ErrInvalidShare, slot)
		}
		d, eScalar, err := deriveNonces(share.Secret, msg)
		if err != nil {
			return types.ThresholdSignature{}, err
		}
		rounds[i] = nonceRound{
			slot: slot,
			d:    d,
			e:    eScalar,
			D:    new(edwards25519.Point).ScalarBaseMult(d),
			Ecap: new(edwards25519.Point).ScalarBaseMult(eScalar),
		}
	}

	// Round 2: binding factors, group commitment, per-participant shares.
	bindingFactors := make(map[Slot]*edwards25519.Scalar, len(rounds))
	commitmentEncoding := encodeCommitmentList(rounds)
	groupCommitment := edwards25519.NewIdentityPoint()
	for _, r := range rounds {
		rho := bindingFactor(r.slot, msg, commitmentEncoding)
		bindingFactors[r.slot] = rho

		term := new(edwards25519.Point).ScalarMult(rho, r.Ecap)
		term.Add(term, r.D)
		groupCommitment.Add(groupCommitment, term)
	}

	challenge := schnorrChallenge(groupCommitment, e.group.Point, msg)

	z := edwards25519.NewScalar()
	for _, r := range rounds {
		share := e.shares[r.slot]
		lambda := lagrangeCoefficient(r.slot, ordered)
		rho := bindingFactors[r.slot]

		zi := new(edwards25519.Scalar).Multiply(r.e, rho)
		zi.Add(zi, r.d)
		term := new(edwards25519.Scalar).Multiply(lambda, share.Secret)
		term.Multiply(term, challenge)
		zi.Add(zi, term)

		// Local share verification: z_i*G == D_i + rho_i*E_i + (lambda_i*c)*Y_i.
		want := new(edwards25519.Point).ScalarMult(rho, r.Ecap)
		want.Add(want, r.D)
		lc := new(edwards25519.Scalar).Multiply(lambda, challenge)
		want.Add(want, new(edwards25519.Point).ScalarMult(lc, share.PublicKey))
		if new(edwards25519.Point).ScalarBaseMult(zi).Equal(want) != 1 {
			return types.ThresholdSignature{}, fmt.Errorf("%w: slot %d", types.ErrInvalidShare, r.slot)
		}

		z.Add(z, zi)
	}

	var sig types.ThresholdSignature
	copy(sig.R[:], groupCommitment.Bytes())
	copy(sig.Z[:], z.Bytes())
	return sig, nil
}

// Verify checks a FROST-assembled Schnorr signature against the
// committee's group public key.
func Verify(group GroupKey, msg []byte, sig types.ThresholdSignature) bool {
	R, err := new(edwards25519.Point).SetBytes(sig.R[:])
	if err != nil {
		return false
	}
	z, err := new(edwards25519.Scalar).SetCanonicalBytes(sig.Z[:])
	if err != nil {
		return false
	}

	c := schnorrChallenge(R, group.Point, msg)

	lhs := new(edwards25519.Point).ScalarBaseMult(z)
	rhs := new(edwards25519.Point).ScalarMult(c, group.Point)
	rhs.Add(rhs, R)

	return lhs.Equal(rhs) == 1
}

// canonicalize sorts slots ascending and rejects duplicates, matching
// the canonical participant ordering every binding-factor and
// Lagrange computation in this package assumes.
func canonicalize(slots []Slot) ([]Slot, error) {
	out := append([]Slot(nil), slots...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	for i := 1; i < len(out); i++ {
		if out[i] == out[i-1] {
			return nil, fmt.Errorf("%w: slot %d", types.ErrDuplicateSlot, out[i])
		}
	}
	return out, nil
}

func lagrangeCoefficient(i Slot, all []Slot) *edwards25519.Scalar {
	num := edwards25519.NewScalar().Set(scalarOne())
	den := edwards25519.NewScalar().Set(scalarOne())
	iScalar := scalarFromUint(uint32(i))
	for _, j := range all {
		if j == i {
			continue
		}
		jScalar := scalarFromUint(uint32(j))
		num.Multiply(num, jScalar)
		diff := new(edwards25519.Scalar).Subtract(jScalar, iScalar)
		den.Multiply(den, diff)
	}
	return num.Multiply(num, den.Invert(den))
}
