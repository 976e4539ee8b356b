package lifecycle

import (
	"context"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/citizenwallet/governance/internal/logger"
	"github.com/citizenwallet/governance/internal/services/ethrequest"
	"github.com/citizenwallet/governance/pkg/governance"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoGovernorCode deploys a contract that answers every call with a zero word
// and emits Proposed(id=1, proposer=0, voteDelay=0).
func echoGovernorCode() []byte {
	runtime := "6000" + "6001" + "7f" + hex.EncodeToString(governance.ProposedID.Bytes()) + "6020" + "6000" + "a3" + "6020" + "6000" + "f3"
	initcode := "602f" + "600c" + "6000" + "39" + "602f" + "6000" + "f3"

	b, _ := hex.DecodeString(initcode + runtime)
	return b
}

func TestRunSimulated(t *testing.T) {
	ctx := context.Background()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	auth, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(1337))
	require.NoError(t, err)

	balance, _ := new(big.Int).SetString("1000000000000000000000", 10)
	sim := simulated.NewBackend(types.GenesisAlloc{auth.From: {Balance: balance}}, simulated.WithBlockGasLimit(50000000))
	defer sim.Close()

	evm := ethrequest.NewSimulatedEthService(ctx, sim)

	parsed, err := governance.ProtocolABI()
	require.NoError(t, err)

	code := echoGovernorCode()
	require.Len(t, code, 12+47)

	addr, tx, _, err := bind.DeployContract(auth, *parsed, code, evm.Backend())
	require.NoError(t, err)

	_, err = evm.WaitDeployed(ctx, tx)
	require.NoError(t, err)

	gov, err := governance.NewProtocol(addr, evm.Backend())
	require.NoError(t, err)

	before, err := evm.BlockTime(nil)
	require.NoError(t, err)

	o := New(gov, auth, evm.WaitForTx, WithAdvancer(evm), WithLogger(logger.Test(t)))

	res, err := o.Run(ctx, NoopParams(auth.From))
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.ProposalID.Int64())
	require.Len(t, res.Steps, 4)
	require.NotEmpty(t, res.Steps[0].Events)
	assert.Equal(t, "Proposed", res.Steps[0].Events[0].Name)

	for i := 1; i < len(res.Steps); i++ {
		assert.Greater(t, res.Steps[i].BlockNumber, res.Steps[i-1].BlockNumber)
	}

	// vote delay + 1 and timelock delay (0) + 1
	after, err := evm.BlockTime(nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, after, before+12)
}
