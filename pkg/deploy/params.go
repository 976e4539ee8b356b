package deploy

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

// VariantAParams are the GovernanceProtocolV2 constructor parameters and the token metadata
type VariantAParams struct {
	TokenName   string `validate:"required"`
	TokenSymbol string `validate:"required,alphanum,max=11"`

	// QuorumThreshold is in basis points, 1000 is 10%
	QuorumThreshold uint64 `validate:"gt=0,lte=10000"`
	// VotingDelay and VotingPeriod are in seconds
	VotingDelay  uint64 `validate:"gte=0"`
	VotingPeriod uint64 `validate:"gt=0"`
	// ProposalThreshold is the token amount in wei needed to propose
	ProposalThreshold *big.Int `validate:"required"`
}

func DefaultVariantAParams() VariantAParams {
	return VariantAParams{
		TokenName:         "Governance Token",
		TokenSymbol:       "GOV",
		QuorumThreshold:   1000,
		VotingDelay:       86400,
		VotingPeriod:      604800,
		ProposalThreshold: new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18)),
	}
}

func (p VariantAParams) Validate() error {
	v := validator.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		cur := sl.Current().Interface().(VariantAParams)
		if cur.ProposalThreshold != nil && cur.ProposalThreshold.Sign() < 0 {
			sl.ReportError(cur.ProposalThreshold, "ProposalThreshold", "ProposalThreshold", "gte", "0")
		}
	}, VariantAParams{})

	return v.Struct(p)
}

func (p VariantAParams) constructorArgs(token common.Address) []any {
	return []any{
		token,
		new(big.Int).SetUint64(p.QuorumThreshold),
		new(big.Int).SetUint64(p.VotingDelay),
		new(big.Int).SetUint64(p.VotingPeriod),
		p.ProposalThreshold,
	}
}
