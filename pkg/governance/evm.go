package governance

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type EVMRequester interface {
	Context() context.Context
	Backend() bind.ContractBackend

	ChainID() (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)

	// WaitForTx blocks until tx is mined and fails when it reverted
	WaitForTx(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
	WaitDeployed(ctx context.Context, tx *types.Transaction) (common.Address, error)

	Close()
}

// TimeAdvancer moves the clock of a local test network forward and mines a block
type TimeAdvancer interface {
	AdvanceTime(ctx context.Context, seconds uint64) error
}

type WebhookMessager interface {
	Notify(ctx context.Context, message string) error
	NotifyWarning(ctx context.Context, errorMessage error) error
	NotifyError(ctx context.Context, errorMessage error) error
}
