package report

import (
	"context"
	"fmt"

	"github.com/citizenwallet/governance/pkg/governance"
	"github.com/citizenwallet/smartcontracts/pkg/contracts/erc20"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// tokenContext reads the governance token symbol and supply
func tokenContext(ctx context.Context, addr common.Address, caller bind.ContractCaller) (*Object, error) {
	token, err := erc20.NewErc20Caller(addr, caller)
	if err != nil {
		return nil, err
	}

	opts := &bind.CallOpts{Context: ctx}

	symbol, err := token.Symbol(opts)
	if err != nil {
		return nil, fmt.Errorf("symbol: %w", err)
	}

	decimals, err := token.Decimals(opts)
	if err != nil {
		return nil, fmt.Errorf("decimals: %w", err)
	}

	supply, err := token.TotalSupply(opts)
	if err != nil {
		return nil, fmt.Errorf("totalSupply: %w", err)
	}

	o := newObject()
	o.Set("address", addr.Hex())
	o.Set("symbol", symbol)
	o.Set("decimals", int(decimals))
	o.Set("totalSupply", governance.Normalize(supply))

	return o, nil
}
