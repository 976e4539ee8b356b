package lifecycle

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/citizenwallet/governance/internal/logger"
	"github.com/citizenwallet/governance/pkg/governance"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
)

type Step string

const (
	StepPropose Step = "propose"
	StepVote    Step = "vote"
	StepQueue   Step = "queue"
	StepExecute Step = "execute"
)

var (
	DefaultVoteDelay = big.NewInt(10)
	DefaultVotePower = big.NewInt(1)
)

// Governor is the GovernanceProtocol surface driven by the orchestrator
type Governor interface {
	Address() common.Address

	Propose(opts *bind.TransactOpts, target common.Address, value *big.Int, data []byte, voteDelay *big.Int) (*types.Transaction, error)
	Vote(opts *bind.TransactOpts, id *big.Int, support bool, power *big.Int) (*types.Transaction, error)
	Queue(opts *bind.TransactOpts, id *big.Int) (*types.Transaction, error)
	Execute(opts *bind.TransactOpts, id *big.Int) (*types.Transaction, error)
	TimelockDelay(opts *bind.CallOpts) (*big.Int, error)

	ProposalID(logs []*types.Log) (*big.Int, error)
	DecodeEvents(logs []*types.Log) ([]governance.Event, error)
}

// ConfirmFunc blocks until tx is mined and fails when it reverted
type ConfirmFunc func(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)

// StepObserver counts step outcomes, metrics.GovernanceMetrics implements it
type StepObserver interface {
	ObserveStep(step string, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveStep(string, error) {}

// Recorder persists the proposal trace after every step
type Recorder interface {
	SaveProposal(ctx context.Context, rec *governance.ProposalRecord) error
}

// Params describe the proposal to walk through the lifecycle
type Params struct {
	Target    common.Address
	Value     *big.Int
	Data      []byte
	VoteDelay *big.Int
	VotePower *big.Int
	Support   bool
}

// NoopParams proposes a zero value call with empty data to target
func NoopParams(target common.Address) Params {
	return Params{
		Target:    target,
		Value:     big.NewInt(0),
		Data:      []byte{},
		VoteDelay: new(big.Int).Set(DefaultVoteDelay),
		VotePower: new(big.Int).Set(DefaultVotePower),
		Support:   true,
	}
}

type StepResult struct {
	Step        Step               `json:"step"`
	TxHash      string             `json:"tx_hash"`
	BlockNumber uint64             `json:"block_number"`
	Events      []governance.Event `json:"events"`
}

type Result struct {
	RunID      string       `json:"run_id"`
	ProposalID *big.Int     `json:"proposal_id"`
	Steps      []StepResult `json:"steps"`
}

type Orchestrator struct {
	gov      Governor
	opts     *bind.TransactOpts
	confirm  ConfirmFunc
	advancer governance.TimeAdvancer
	recorder Recorder
	metrics  StepObserver
	lggr     logger.Logger
}

type Option func(*Orchestrator)

// WithAdvancer enables the clock jumps before queue and execute. Only pass one on local networks.
func WithAdvancer(a governance.TimeAdvancer) Option {
	return func(o *Orchestrator) {
		o.advancer = a
	}
}

func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		o.lggr = l
	}
}

func WithMetrics(m StepObserver) Option {
	return func(o *Orchestrator) {
		if m != nil {
			o.metrics = m
		}
	}
}

func New(gov Governor, opts *bind.TransactOpts, confirm ConfirmFunc, options ...Option) *Orchestrator {
	o := &Orchestrator{
		gov:     gov,
		opts:    opts,
		confirm: confirm,
		lggr:    logger.Nop(),
		metrics: nopObserver{},
	}

	for _, opt := range options {
		opt(o)
	}

	return o
}

// Run walks one proposal through propose, vote, queue and execute.
// Every step waits for the previous confirmation. The first failure aborts and nothing is rolled back.
func (o *Orchestrator) Run(ctx context.Context, p Params) (*Result, error) {
	now := time.Now().UTC()
	res := &Result{RunID: uuid.NewString()}

	rec := &governance.ProposalRecord{
		Governor:  o.gov.Address().Hex(),
		Proposer:  o.opts.From.Hex(),
		Target:    p.Target.Hex(),
		Value:     p.Value.String(),
		Calldata:  hexutil.Encode(p.Data),
		RunID:     res.RunID,
		TxHashes:  map[string]string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	lggr := o.lggr.With("governor", rec.Governor, "run_id", res.RunID)

	// propose
	var id *big.Int
	_, err := o.send(ctx, StepPropose, res, rec, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return o.gov.Propose(opts, p.Target, p.Value, p.Data, p.VoteDelay)
	}, func(rcpt *types.Receipt) error {
		var err error
		id, err = o.gov.ProposalID(rcpt.Logs)
		return err
	})
	if err != nil {
		return res, err
	}

	res.ProposalID = id
	rec.ProposalId = id.String()
	lggr = lggr.With("proposal_id", rec.ProposalId)
	lggr.Infow("proposal created", "tx", rec.TxHashes[string(StepPropose)])

	if err := o.record(ctx, rec, governance.ProposalStateCreated); err != nil {
		return res, err
	}

	// vote
	_, err = o.send(ctx, StepVote, res, rec, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return o.gov.Vote(opts, id, p.Support, p.VotePower)
	})
	if err != nil {
		return res, err
	}

	lggr.Infow("voted", "support", p.Support, "power", p.VotePower.String())

	if err := o.record(ctx, rec, governance.ProposalStateVoted); err != nil {
		return res, err
	}

	// queue
	if o.advancer != nil {
		if err := o.advance(ctx, new(big.Int).Add(p.VoteDelay, common.Big1)); err != nil {
			return res, o.fail(ctx, StepQueue, rec, err)
		}
	}

	_, err = o.send(ctx, StepQueue, res, rec, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return o.gov.Queue(opts, id)
	})
	if err != nil {
		return res, err
	}

	lggr.Info("queued")

	if err := o.record(ctx, rec, governance.ProposalStateQueued); err != nil {
		return res, err
	}

	// execute
	if o.advancer != nil {
		delay, err := o.gov.TimelockDelay(&bind.CallOpts{Context: ctx})
		if err != nil {
			return res, o.fail(ctx, StepExecute, rec, fmt.Errorf("timelockDelay: %w", err))
		}

		if err := o.advance(ctx, new(big.Int).Add(delay, common.Big1)); err != nil {
			return res, o.fail(ctx, StepExecute, rec, err)
		}
	}

	_, err = o.send(ctx, StepExecute, res, rec, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return o.gov.Execute(opts, id)
	})
	if err != nil {
		return res, err
	}

	lggr.Info("executed")

	if err := o.record(ctx, rec, governance.ProposalStateExecuted); err != nil {
		return res, err
	}

	return res, nil
}

// send issues one state changing call and waits for its confirmation.
// The step only counts as successful once every check of the receipt passed.
func (o *Orchestrator) send(ctx context.Context, step Step, res *Result, rec *governance.ProposalRecord, call func(opts *bind.TransactOpts) (*types.Transaction, error), checks ...func(rcpt *types.Receipt) error) (*types.Receipt, error) {
	tx, err := call(o.txOpts(ctx))
	if err != nil {
		return nil, o.fail(ctx, step, rec, err)
	}

	rec.TxHashes[string(step)] = tx.Hash().Hex()

	rcpt, err := o.confirm(ctx, tx)
	if err != nil {
		return nil, o.fail(ctx, step, rec, err)
	}

	for _, check := range checks {
		if err := check(rcpt); err != nil {
			return nil, o.fail(ctx, step, rec, err)
		}
	}

	events, err := o.gov.DecodeEvents(rcpt.Logs)
	if err != nil {
		return nil, o.fail(ctx, step, rec, err)
	}

	var block uint64
	if rcpt.BlockNumber != nil {
		block = rcpt.BlockNumber.Uint64()
	}

	res.Steps = append(res.Steps, StepResult{
		Step:        step,
		TxHash:      tx.Hash().Hex(),
		BlockNumber: block,
		Events:      events,
	})

	o.metrics.ObserveStep(string(step), nil)

	return rcpt, nil
}

func (o *Orchestrator) advance(ctx context.Context, seconds *big.Int) error {
	if !seconds.IsUint64() {
		return fmt.Errorf("invalid time advance: %s", seconds)
	}

	o.lggr.Debugw("advancing time", "seconds", seconds.Uint64())

	return o.advancer.AdvanceTime(ctx, seconds.Uint64())
}

func (o *Orchestrator) txOpts(ctx context.Context) *bind.TransactOpts {
	opts := *o.opts
	opts.Context = ctx
	return &opts
}

func (o *Orchestrator) fail(ctx context.Context, step Step, rec *governance.ProposalRecord, err error) error {
	err = fmt.Errorf("%s: %w", step, err)

	o.metrics.ObserveStep(string(step), err)

	rec.Error = err.Error()
	if rerr := o.record(ctx, rec, governance.ProposalStateFailed); rerr != nil {
		o.lggr.Warnw("could not record failed proposal", "error", rerr)
	}

	return err
}

func (o *Orchestrator) record(ctx context.Context, rec *governance.ProposalRecord, state governance.ProposalState) error {
	rec.State = state
	rec.UpdatedAt = time.Now().UTC()

	if o.recorder == nil {
		return nil
	}

	if err := o.recorder.SaveProposal(ctx, rec); err != nil {
		return fmt.Errorf("record %s: %w", state, err)
	}

	return nil
}
