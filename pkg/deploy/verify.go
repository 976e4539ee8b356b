package deploy

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/citizenwallet/governance/pkg/governance"
	"github.com/citizenwallet/smartcontracts/pkg/contracts/erc20"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

var ErrVerifyMismatch = errors.New("deployed value mismatch")

// Verify reads back a variant A deployment and compares it with the parameters it was deployed with
func Verify(ctx context.Context, backend bind.ContractBackend, s *Summary, p VariantAParams) error {
	gov, err := governance.NewProtocolV2(common.HexToAddress(s.Governance), backend)
	if err != nil {
		return err
	}

	opts := &bind.CallOpts{Context: ctx}

	var errs []error

	addrs := []struct {
		name string
		read func(*bind.CallOpts) (common.Address, error)
		want string
	}{
		{"owner", gov.Owner, s.Owner},
		{"token", gov.Token, s.GovernanceToken},
	}
	for _, a := range addrs {
		got, err := a.read(opts)
		if err != nil {
			return fmt.Errorf("%s: %w", a.name, err)
		}
		if got != common.HexToAddress(a.want) {
			errs = append(errs, fmt.Errorf("%w: %s is %s, expected %s", ErrVerifyMismatch, a.name, got.Hex(), a.want))
		}
	}

	values := []struct {
		name string
		read func(*bind.CallOpts) (*big.Int, error)
		want *big.Int
	}{
		{"quorumThreshold", gov.QuorumThreshold, new(big.Int).SetUint64(p.QuorumThreshold)},
		{"votingDelay", gov.VotingDelay, new(big.Int).SetUint64(p.VotingDelay)},
		{"votingPeriod", gov.VotingPeriod, new(big.Int).SetUint64(p.VotingPeriod)},
		{"proposalThreshold", gov.ProposalThreshold, p.ProposalThreshold},
	}
	for _, v := range values {
		got, err := v.read(opts)
		if err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
		if got.Cmp(v.want) != 0 {
			errs = append(errs, fmt.Errorf("%w: %s is %s, expected %s", ErrVerifyMismatch, v.name, got, v.want))
		}
	}

	token, err := erc20.NewErc20Caller(common.HexToAddress(s.GovernanceToken), backend)
	if err != nil {
		return err
	}

	symbol, err := token.Symbol(opts)
	if err != nil {
		return fmt.Errorf("symbol: %w", err)
	}
	if symbol != p.TokenSymbol {
		errs = append(errs, fmt.Errorf("%w: symbol is %s, expected %s", ErrVerifyMismatch, symbol, p.TokenSymbol))
	}

	return errors.Join(errs...)
}
