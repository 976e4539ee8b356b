package deploy

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadArtifact(t *testing.T) {
	dir := t.TempDir()

	writeArtifact(t, dir, ERC20Token, tokenABI, stubCode)
	writeArtifact(t, dir, GovernanceProtocol, noCtorABI, "0x")
	writeArtifact(t, dir, ProposalManager, noCtorABI, "0xzz")

	a, err := LoadArtifact(dir, ERC20Token)
	require.NoError(t, err)
	assert.Equal(t, ERC20Token, a.Name)
	assert.Len(t, a.Bytecode, 13)
	assert.Len(t, a.ABI.Constructor.Inputs, 2)

	_, err = LoadArtifact(dir, GovernanceProtocol)
	require.ErrorIs(t, err, ErrMissingArtifact)

	_, err = LoadArtifact(dir, ProposalManager)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingArtifact)

	_, err = LoadArtifact(dir, GovernanceProtocolV2)
	require.ErrorIs(t, err, ErrMissingArtifact)
}

func TestVariantAParams(t *testing.T) {
	require.NoError(t, DefaultVariantAParams().Validate())

	tests := []struct {
		name   string
		modify func(p *VariantAParams)
	}{
		{"missing token name", func(p *VariantAParams) { p.TokenName = "" }},
		{"symbol with spaces", func(p *VariantAParams) { p.TokenSymbol = "G O V" }},
		{"zero quorum", func(p *VariantAParams) { p.QuorumThreshold = 0 }},
		{"quorum above 100%", func(p *VariantAParams) { p.QuorumThreshold = 10001 }},
		{"zero voting period", func(p *VariantAParams) { p.VotingPeriod = 0 }},
		{"missing proposal threshold", func(p *VariantAParams) { p.ProposalThreshold = nil }},
		{"negative proposal threshold", func(p *VariantAParams) { p.ProposalThreshold = big.NewInt(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultVariantAParams()
			tt.modify(&p)
			require.Error(t, p.Validate())
		})
	}
}
