package deploy

import (
	"context"
	"fmt"
	"time"

	"github.com/citizenwallet/governance/internal/logger"
	"github.com/citizenwallet/governance/internal/metrics"
	"github.com/citizenwallet/governance/pkg/governance"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

const (
	ERC20Token           = "ERC20Token"
	GovernanceProtocol   = "GovernanceProtocol"
	GovernanceProtocolV2 = "GovernanceProtocolV2"
	ProposalManager      = "ProposalManager"
)

type Contract struct {
	Name    string
	Address common.Address
	TxHash  common.Hash
}

type Deployer struct {
	evm          governance.EVMRequester
	auth         *bind.TransactOpts
	artifactsDir string
	network      string

	metrics *metrics.GovernanceMetrics
	lggr    logger.Logger
	now     func() time.Time
}

type Option func(*Deployer)

func WithLogger(l logger.Logger) Option {
	return func(d *Deployer) {
		d.lggr = l
	}
}

func WithMetrics(m *metrics.GovernanceMetrics) Option {
	return func(d *Deployer) {
		d.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Deployer) {
		d.now = now
	}
}

func New(evm governance.EVMRequester, auth *bind.TransactOpts, artifactsDir, network string, opts ...Option) *Deployer {
	d := &Deployer{
		evm:          evm,
		auth:         auth,
		artifactsDir: artifactsDir,
		network:      network,
		lggr:         logger.Nop(),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Deployer returns the signing account
func (d *Deployer) Deployer() common.Address {
	return d.auth.From
}

// LogAccount logs the deployer address and balance
func (d *Deployer) LogAccount(ctx context.Context) error {
	balance, err := d.evm.BalanceAt(ctx, d.auth.From)
	if err != nil {
		return fmt.Errorf("balance: %w", err)
	}

	d.lggr.Infow("deploying contracts", "account", d.auth.From.Hex(), "balance", balance.String(), "network", d.network)

	return nil
}

// Deploy sends the creation tx of the named artifact and waits until the code is on chain
func (d *Deployer) Deploy(ctx context.Context, name string, args ...any) (*Contract, error) {
	c, err := d.deploy(ctx, name, args...)
	d.metrics.ObserveDeployment(name, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	d.lggr.Infow("contract deployed", "contract", name, "address", c.Address.Hex(), "tx", c.TxHash.Hex())

	return c, nil
}

func (d *Deployer) deploy(ctx context.Context, name string, args ...any) (*Contract, error) {
	a, err := LoadArtifact(d.artifactsDir, name)
	if err != nil {
		return nil, err
	}

	opts := *d.auth
	opts.Context = ctx

	_, tx, _, err := bind.DeployContract(&opts, *a.ABI, a.Bytecode, d.evm.Backend(), args...)
	if err != nil {
		return nil, err
	}

	addr, err := d.evm.WaitDeployed(ctx, tx)
	if err != nil {
		return nil, err
	}

	return &Contract{Name: name, Address: addr, TxHash: tx.Hash()}, nil
}
