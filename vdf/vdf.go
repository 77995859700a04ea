// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vdf implements the Wesolowski verifiable delay function the
// airlock orchestrator races against guardian voting (spec §4.1).
// Sequential squaring runs on a background goroutine per job; the
// proof it produces lets anyone verify the delay was actually paid in
// time independent of the iteration count.
package vdf

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/zeebo/blake3"

	"github.com/luxfi/airlock/log"
	"github.com/luxfi/airlock/metrics"
	"github.com/luxfi/airlock/types"
)

// State is the lifecycle state of a VDF job.
type State string

const (
	StatePending   State = "pending"
	StateComputing State = "computing"
	StateReady     State = "ready"
	StateFailed    State = "failed"
	StateBypassed  State = "bypassed"
)

// Job is a snapshot of one VDF computation. Fields are copied out of
// the engine under lock; callers never see a Job mutate underneath them.
type Job struct {
	ID         string
	Challenge  [32]byte
	Iterations uint64
	State      State
	Progress   uint64 // squarings completed so far
	Proof      types.VDFProof
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

type jobState struct {
	Job
	cancel context.CancelFunc
	done   chan struct{}
}

// Engine runs and tracks VDF jobs.
type Engine struct {
	mu              sync.Mutex
	jobs            map[string]*jobState
	checkpointEvery uint64
	log             log.Logger
	metrics         *metrics.Metrics
	seq             uint64
}

// New returns an Engine that checkpoints progress every checkpointEvery
// squarings and reports through logger/m.
func New(checkpointEvery uint64, logger log.Logger, m *metrics.Metrics) *Engine {
	if checkpointEvery == 0 {
		checkpointEvery = 1 << 20
	}
	return &Engine{
		jobs:            make(map[string]*jobState),
		checkpointEvery: checkpointEvery,
		log:             logger,
		metrics:         m,
	}
}

// Request starts a new VDF job over challenge for the given iteration
// count and returns its job ID immediately; the computation runs
// asynchronously.
func (e *Engine) Request(challenge [32]byte, iterations uint64) (string, error) {
	if iterations == 0 {
		return "", fmt.Errorf("vdf: iterations must be positive")
	}

	e.mu.Lock()
	e.seq++
	id := fmt.Sprintf("vdf-%d-%x", e.seq, challenge[:4])
	ctx, cancel := context.WithCancel(context.Background())
	js := &jobState{
		Job: Job{
			ID:         id,
			Challenge:  challenge,
			Iterations: iterations,
			State:      StatePending,
			StartedAt:  time.Now(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	e.jobs[id] = js
	e.mu.Unlock()

	e.metrics.VDFJobsStarted.Inc()
	e.log.Info("vdf job requested", "job_id", id, "iterations", iterations)

	go e.run(ctx, js)
	return id, nil
}

func (e *Engine) run(ctx context.Context, js *jobState) {
	defer close(js.done)

	e.setState(js.ID, StateComputing, nil)

	x := challengeToBase(js.Challenge)
	start := time.Now()
	y, completed := squareChain(x, js.Iterations, e.checkpointEvery,
		func(done uint64) {
			e.setProgress(js.ID, done)
			e.metrics.VDFProgress.WithLabelValues(js.ID).Set(100 * float64(done) / float64(js.Iterations))
		},
		func() bool { return ctx.Err() != nil },
	)
	if !completed {
		// Stopped by Bypass, which records the terminal state once this
		// goroutine returns; nothing more to do.
		return
	}

	l := hashToPrime(x, y, js.Iterations)
	pi := proveWesolowski(x, l, js.Iterations)

	proof := types.VDFProof{
		Output:     blake3.Sum256(y.Bytes()),
		Witness:    encodeWitness(y, pi),
		Iterations: js.Iterations,
	}

	e.metrics.VDFDuration.Observe(time.Since(start).Seconds())
	e.metrics.VDFProgress.DeleteLabelValues(js.ID)
	e.finish(js.ID, StateReady, proof, nil)
}

func (e *Engine) setState(id string, s State, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if js, ok := e.jobs[id]; ok {
		js.State = s
		js.Err = err
	}
}

func (e *Engine) setProgress(id string, done uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if js, ok := e.jobs[id]; ok {
		js.Progress = done
	}
}

func (e *Engine) finish(id string, s State, proof types.VDFProof, err error) {
	e.mu.Lock()
	js, ok := e.jobs[id]
	if ok {
		js.State = s
		js.Proof = proof
		js.Err = err
		js.FinishedAt = time.Now()
	}
	e.mu.Unlock()

	if !ok {
		return
	}
	switch s {
	case StateReady:
		e.log.Info("vdf job ready", "job_id", id)
	case StateFailed:
		e.metrics.VDFJobsFailed.Inc()
		e.log.Warn("vdf job failed", "job_id", id, "err", err)
	case StateBypassed:
		e.metrics.VDFJobsBypassed.Inc()
		e.log.Info("vdf job bypassed", "job_id", id)
	}
}

// Poll returns a point-in-time snapshot of job without blocking.
func (e *Engine) Poll(id string) (Job, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	js, ok := e.jobs[id]
	if !ok {
		return Job{}, types.ErrUnknownJob
	}
	return js.Job, nil
}

// Await blocks until job reaches a terminal state (ready, failed or
// bypassed) or ctx is cancelled first.
func (e *Engine) Await(ctx context.Context, id string) (Job, error) {
	e.mu.Lock()
	js, ok := e.jobs[id]
	e.mu.Unlock()
	if !ok {
		return Job{}, types.ErrUnknownJob
	}

	select {
	case <-js.done:
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return js.Job, nil
}

// Bypass cancels job's squaring loop (if still running) and replaces
// its proof with the distinguished zero-proof. It is idempotent: a job
// already bypassed, ready or failed is left untouched and Bypass
// returns nil.
func (e *Engine) Bypass(id string) error {
	e.mu.Lock()
	js, ok := e.jobs[id]
	if !ok {
		e.mu.Unlock()
		return types.ErrUnknownJob
	}
	switch js.State {
	case StateReady, StateFailed, StateBypassed:
		e.mu.Unlock()
		return nil
	}
	js.cancel()
	e.mu.Unlock()

	<-js.done

	e.mu.Lock()
	defer e.mu.Unlock()
	if js.State == StateComputing || js.State == StatePending {
		js.State = StateBypassed
		js.Proof = types.VDFProof{}
		js.FinishedAt = time.Now()
		e.metrics.VDFJobsBypassed.Inc()
		e.metrics.VDFProgress.DeleteLabelValues(id)
		e.log.Info("vdf job bypassed", "job_id", id)
	}
	return nil
}

// Verify checks that proof is a valid Wesolowski proof of iterations
// sequential squarings of challenge's group element. A zero-proof
// (spec §4.1 V3, produced by Bypass) never verifies.
func Verify(challenge [32]byte, iterations uint64, proof types.VDFProof) bool {
	if proof.IsZero() || proof.Iterations != iterations {
		return false
	}
	y, pi, err := decodeWitness(proof.Witness)
	if err != nil {
		return false
	}
	if blake3.Sum256(y.Bytes()) != proof.Output {
		return false
	}
	x := challengeToBase(challenge)
	return verifyWesolowski(x, y, pi, iterations)
}

func encodeWitness(y, pi *big.Int) []byte {
	yb := y.Bytes()
	pib := pi.Bytes()
	out := make([]byte, 4+len(yb)+len(pib))
	binary.BigEndian.PutUint32(out[:4], uint32(len(yb)))
	copy(out[4:], yb)
	copy(out[4+len(yb):], pib)
	return out
}

func decodeWitness(w []byte) (*big.Int, *big.Int, error) {
	if len(w) < 4 {
		return nil, nil, errors.New("vdf: truncated witness")
	}
	n := binary.BigEndian.Uint32(w[:4])
	rest := w[4:]
	if uint32(len(rest)) < n {
		return nil, nil, errors.New("vdf: truncated witness body")
	}
	y := new(big.Int).SetBytes(rest[:n])
	pi := new(big.Int).SetBytes(rest[n:])
	return y, pi, nil
}
