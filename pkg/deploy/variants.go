package deploy

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// VariantA deploys the governance token and a GovernanceProtocolV2 using it
func (d *Deployer) VariantA(ctx context.Context, p VariantAParams) (*Summary, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if err := d.LogAccount(ctx); err != nil {
		return nil, err
	}

	token, err := d.Deploy(ctx, ERC20Token, p.TokenName, p.TokenSymbol)
	if err != nil {
		return nil, err
	}

	gov, err := d.Deploy(ctx, GovernanceProtocolV2, p.constructorArgs(token.Address)...)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Governance:      gov.Address.Hex(),
		GovernanceToken: token.Address.Hex(),
		Owner:           d.auth.From.Hex(),
	}, nil
}

// VariantB deploys a parameterless GovernanceProtocol.
// A ProposalManager is deployed first when possible, any failure only skips it.
func (d *Deployer) VariantB(ctx context.Context) (*Deployments, error) {
	if err := d.LogAccount(ctx); err != nil {
		return nil, err
	}

	chainID, err := d.evm.ChainID()
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}

	contracts := map[string]string{}

	pm, err := d.Deploy(ctx, ProposalManager)
	if err != nil {
		d.lggr.Warnw("skipped", "contract", ProposalManager, "error", err)
	} else {
		contracts[ProposalManager] = pm.Address.Hex()
	}

	gov, err := d.Deploy(ctx, GovernanceProtocol)
	if err != nil {
		return nil, err
	}
	contracts[GovernanceProtocol] = gov.Address.Hex()

	return &Deployments{
		Network:   d.network,
		ChainID:   chainID.Int64(),
		Deployer:  d.auth.From.Hex(),
		Timestamp: d.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Contracts: contracts,
	}, nil
}

// Governor returns the GovernanceProtocol address of a variant B deployment
func (d *Deployments) Governor() (common.Address, error) {
	return d.Address(GovernanceProtocol)
}
