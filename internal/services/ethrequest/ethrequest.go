package ethrequest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/rpc"
)

const (
	EVMIncreaseTime = "evm_increaseTime"
	EVMMine         = "evm_mine"

	DefaultTxTimeout = 2 * time.Minute
)

var (
	ErrTxFailed = errors.New("tx failed")
	ErrNoRPC    = errors.New("raw rpc client not available")
)

// Client is the part of ethclient.Client used by the tools. simulated.Client satisfies it too.
type Client interface {
	bind.ContractBackend
	bind.DeployBackend
	ethereum.ChainIDReader

	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

type EthService struct {
	rpc    *rpc.Client
	client Client
	sim    *simulated.Backend
	ctx    context.Context

	txTimeout time.Duration
}

func NewEthService(ctx context.Context, endpoint string) (*EthService, error) {
	rpc, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	client := ethclient.NewClient(rpc)

	return &EthService{rpc: rpc, client: client, ctx: ctx, txTimeout: DefaultTxTimeout}, nil
}

// NewSimulatedEthService wraps an in-process chain. Blocks are committed when a tx is awaited.
func NewSimulatedEthService(ctx context.Context, sim *simulated.Backend) *EthService {
	return &EthService{client: sim.Client(), sim: sim, ctx: ctx, txTimeout: DefaultTxTimeout}
}

func (e *EthService) Context() context.Context {
	return e.ctx
}

func (e *EthService) SetTxTimeout(d time.Duration) {
	if d > 0 {
		e.txTimeout = d
	}
}

func (e *EthService) Close() {
	if e.rpc != nil {
		e.rpc.Close()
	}
}

func (e *EthService) Backend() bind.ContractBackend {
	return e.client
}

func (e *EthService) ChainID() (*big.Int, error) {
	return Retry(e.ctx, func(ctx context.Context) (*big.Int, error) {
		return e.client.ChainID(ctx)
	})
}

func (e *EthService) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	return Retry(ctx, func(ctx context.Context) (*big.Int, error) {
		return e.client.BalanceAt(ctx, account, nil)
	})
}

func (e *EthService) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return e.client.CodeAt(ctx, account, blockNumber)
}

func (e *EthService) BlockTime(number *big.Int) (uint64, error) {
	h, err := e.client.HeaderByNumber(e.ctx, number)
	if err != nil {
		return 0, err
	}

	return h.Time, nil
}

// WaitForTx waits for tx to be mined within the tx timeout and fails on a reverted receipt
func (e *EthService) WaitForTx(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if e.sim != nil {
		e.sim.Commit()
	}

	ctx, cancel := context.WithTimeout(ctx, e.txTimeout)
	defer cancel()

	rcpt, err := bind.WaitMined(ctx, e.client, tx)
	if err != nil {
		return nil, fmt.Errorf("waiting for %s: %w", tx.Hash().Hex(), err)
	}

	if rcpt.Status != types.ReceiptStatusSuccessful {
		return rcpt, fmt.Errorf("%w: %s", ErrTxFailed, tx.Hash().Hex())
	}

	return rcpt, nil
}

func (e *EthService) WaitDeployed(ctx context.Context, tx *types.Transaction) (common.Address, error) {
	if e.sim != nil {
		e.sim.Commit()
	}

	ctx, cancel := context.WithTimeout(ctx, e.txTimeout)
	defer cancel()

	return bind.WaitDeployed(ctx, e.client, tx)
}

// AdvanceTime moves the chain clock forward and mines a block.
// Only local development networks support this.
func (e *EthService) AdvanceTime(ctx context.Context, seconds uint64) error {
	if e.sim != nil {
		if err := e.sim.AdjustTime(time.Duration(seconds) * time.Second); err != nil {
			return err
		}
		e.sim.Commit()
		return nil
	}

	if e.rpc == nil {
		return ErrNoRPC
	}

	var increased any
	if err := e.rpc.CallContext(ctx, &increased, EVMIncreaseTime, seconds); err != nil {
		return fmt.Errorf("%s: %w", EVMIncreaseTime, err)
	}

	if err := e.rpc.CallContext(ctx, nil, EVMMine); err != nil {
		return fmt.Errorf("%s: %w", EVMMine, err)
	}

	return nil
}
