// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command airlock runs the six end-to-end scenarios of the
// transaction airlock core's test plan against an in-memory guardian
// committee, so the state machine's behavior can be watched end to
// end without any real chain, scorer, or guardian transport.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/airlock/config"
	"github.com/luxfi/airlock/executor"
	"github.com/luxfi/airlock/frost"
	"github.com/luxfi/airlock/guardiannet"
	airlocklog "github.com/luxfi/airlock/log"
	"github.com/luxfi/airlock/metrics"
	"github.com/luxfi/airlock/orchestrator"
	"github.com/luxfi/airlock/scorer"
	"github.com/luxfi/airlock/store"
	"github.com/luxfi/airlock/types"
	"github.com/luxfi/airlock/vdf"
	"github.com/luxfi/airlock/zkvote"
)

func main() {
	logLevel := flag.String("log-level", "info", "zap log level: debug, info, warn, error")
	flag.Parse()

	logger, err := airlocklog.NewZap(parseLevel(*logLevel))
	if err != nil {
		fmt.Fprintln(os.Stderr, "build logger:", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		logger.Error("build metrics", "err", err)
		os.Exit(1)
	}

	cfg := config.Demo()

	group, shares, err := frost.DKG(cfg.GuardianCount, cfg.SigningThreshold)
	if err != nil {
		logger.Error("dkg", "err", err)
		os.Exit(1)
	}
	frostEngine := frost.NewEngine(group, shares, cfg.SigningThreshold, logger, m)

	ctx := context.Background()

	// Scenario 1: unflagged pass.
	run(ctx, logger, m, cfg, frostEngine, "unflagged-pass",
		scorer.NewStatic(types.RiskScore{Score: 15, Verdict: types.VerdictSafe}), nil,
		types.Intent{Caller: guardianID(101), Destination: guardianID(201), Value: 10},
		map[int]types.Vote{
			1: types.VoteApprove, 2: types.VoteApprove, 3: types.VoteApprove, 4: types.VoteApprove,
			5: types.VoteApprove, 6: types.VoteApprove, 7: types.VoteApprove, 8: types.VoteApprove,
			9: types.VoteReject, 10: types.VoteAbstain,
		})

	// Scenario 2: flagged, approval arrives before the VDF.
	run(ctx, logger, m, cfg, frostEngine, "flagged-approve-before-vdf",
		scorer.NewStatic(types.RiskScore{Score: 75, Verdict: types.VerdictDangerous}), nil,
		types.Intent{Caller: guardianID(102), Destination: guardianID(202), Value: 500},
		map[int]types.Vote{
			1: types.VoteApprove, 2: types.VoteApprove, 3: types.VoteApprove, 4: types.VoteApprove,
			5: types.VoteApprove, 6: types.VoteApprove, 7: types.VoteApprove,
		})

	// Scenario 3: flagged, rejection. Seven rejects so the rejection
	// signature has SigningThreshold reject reveals to draw from.
	run(ctx, logger, m, cfg, frostEngine, "flagged-reject",
		scorer.NewStatic(types.RiskScore{Score: 95, Verdict: types.VerdictDangerous}), nil,
		types.Intent{Caller: guardianID(103), Destination: guardianID(203), Value: 1000},
		map[int]types.Vote{
			1: types.VoteReject, 2: types.VoteReject, 3: types.VoteReject, 4: types.VoteReject,
			5: types.VoteReject, 6: types.VoteReject, 7: types.VoteReject,
		})

	// Scenario 4: flagged, the VDF wins because voting never clears a
	// threshold. A shorter VDF than the demo default keeps the CLI run
	// quick; seven guardians (the signing threshold) still reveal so the
	// delayed-approved signature has a quorum to draw from.
	vdfWinsCfg := cfg
	vdfWinsCfg.VDFIterations = 2_000
	run(ctx, logger, m, vdfWinsCfg, frostEngine, "flagged-vdf-wins",
		scorer.NewStatic(types.RiskScore{Score: 60, Verdict: types.VerdictDangerous}), nil,
		types.Intent{Caller: guardianID(104), Destination: guardianID(204), Value: 200},
		map[int]types.Vote{
			1: types.VoteApprove, 2: types.VoteApprove, 3: types.VoteApprove,
			4: types.VoteAbstain, 5: types.VoteAbstain, 6: types.VoteAbstain, 7: types.VoteAbstain,
		})

	// Scenario 5: expiry. No guardian ever votes, and the deadline is
	// shortened so the demo doesn't have to wait out the real 5 minutes.
	expiryCfg := cfg
	expiryCfg.ProposalDeadline = 2 * time.Second
	run(ctx, logger, m, expiryCfg, frostEngine, "expiry",
		scorer.NewStatic(types.RiskScore{Score: 80, Verdict: types.VerdictDangerous}), nil,
		types.Intent{Caller: guardianID(105), Destination: guardianID(205), Value: 300},
		nil)

	// Scenario 6: blacklisted sender, blocked pre-flight.
	blacklistedCaller := guardianID(106)
	policy := orchestrator.StaticPolicy{Blacklist: map[types.ID]bool{blacklistedCaller: true}}
	run(ctx, logger, m, cfg, frostEngine, "blacklisted-sender",
		scorer.NewStatic(types.RiskScore{Score: 10, Verdict: types.VerdictSafe}), policy,
		types.Intent{Caller: blacklistedCaller, Destination: guardianID(206), Value: 1},
		nil)
}

// run wires a fresh proposal store, VDF engine, and executor around
// the shared guardian committee (frostEngine), submits intent, and
// simulates guardian voting from votes while the submission races.
func run(
	ctx context.Context,
	logger airlocklog.Logger,
	m *metrics.Metrics,
	cfg config.Config,
	frostEngine *frost.Engine,
	name string,
	sc scorer.Scorer,
	policy orchestrator.PolicyGate,
	intent types.Intent,
	votes map[int]types.Vote,
) {
	logger.Info("scenario starting", "scenario", name)

	st := store.New(cfg.GuardianCount, logger)
	ps := zkvote.NewProofSystem()
	net := guardiannet.New(st, ps, logger)
	vdfEngine := vdf.New(cfg.CheckpointEvery, logger, m)
	exec := executor.NewRecording()
	orch := orchestrator.New(cfg, st, sc, vdfEngine, frostEngine, exec, policy, logger, m)

	resultCh := make(chan orchestrator.Result, 1)
	go func() {
		result, err := orch.Submit(ctx, intent)
		if err != nil {
			logger.Error("submit errored", "scenario", name, "err", err)
		}
		resultCh <- result
	}()

	if len(votes) > 0 {
		fp := intent.FingerprintOf()
		for {
			if _, err := st.Snapshot(fp); err == nil {
				break
			}
			time.Sleep(time.Millisecond)
		}
		if err := simulateGuardians(ctx, st, net, fp, votes); err != nil {
			logger.Warn("guardian simulation error", "scenario", name, "err", err)
		}
	}

	result := <-resultCh
	logger.Info("scenario complete",
		"scenario", name,
		"status", result.Status,
		"outcome_tag", result.Envelope.OutcomeTag,
		"vdf_iterations", result.Envelope.VDFProof.Iterations,
	)
}

// simulateGuardians fans out the commit round, then the reveal round,
// across every voting guardian concurrently, mirroring how an actual
// guardian committee would submit in parallel rather than one at a
// time.
func simulateGuardians(ctx context.Context, st *store.Store, net *guardiannet.Network, fp types.Fingerprint, votes map[int]types.Vote) error {
	commitGroup, _ := errgroup.WithContext(ctx)
	for slot, vote := range votes {
		slot, vote := slot, vote
		commitGroup.Go(func() error {
			_, err := net.Commit(fp, slot, vote)
			return err
		})
	}
	if err := commitGroup.Wait(); err != nil {
		return err
	}

	if _, err := st.AdvanceToReveal(fp); err != nil {
		return err
	}

	revealGroup, _ := errgroup.WithContext(ctx)
	for slot := range votes {
		slot := slot
		revealGroup.Go(func() error {
			_, err := net.Reveal(fp, slot)
			return err
		})
	}
	return revealGroup.Wait()
}

func guardianID(b byte) types.ID {
	var id types.ID
	id[0] = b
	return id
}

func parseLevel(s string) zapcore.Level {
	var level zapcore.Level
	if err := level.Set(s); err != nil {
		return zapcore.InfoLevel
	}
	return level
}
