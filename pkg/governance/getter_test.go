package governance

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockCaller answers eth_call by method selector
type MockCaller struct {
	returns map[[4]byte][]byte
	errs    map[[4]byte]error
	calls   [][]byte
}

func NewMockCaller() *MockCaller {
	return &MockCaller{
		returns: map[[4]byte][]byte{},
		errs:    map[[4]byte]error{},
	}
}

func (m *MockCaller) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x00}, nil
}

func (m *MockCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	m.calls = append(m.calls, call.Data)

	var sel [4]byte
	copy(sel[:], call.Data[:4])

	if err, ok := m.errs[sel]; ok {
		return nil, err
	}

	return m.returns[sel], nil
}

func (m *MockCaller) Return(t *testing.T, g Getter, values ...any) {
	t.Helper()

	parsed, err := g.ABI()
	require.NoError(t, err)

	method := parsed.Methods[g.Method]
	out, err := method.Outputs.Pack(values...)
	require.NoError(t, err)

	var sel [4]byte
	copy(sel[:], method.ID)
	m.returns[sel] = out
}

func (m *MockCaller) Fail(t *testing.T, g Getter, err error) {
	t.Helper()

	parsed, perr := g.ABI()
	require.NoError(t, perr)

	var sel [4]byte
	copy(sel[:], parsed.Methods[g.Method].ID)
	m.errs[sel] = err
}

func TestGetterABI(t *testing.T) {
	g := Getter{
		Method:  "getRecentProposals",
		Inputs:  []Param{{Name: "count", Type: "uint256"}},
		Outputs: []Param{{Name: "proposalIds", Type: "uint256[]"}},
	}

	parsed, err := g.ABI()
	require.NoError(t, err)
	assert.Equal(t, "getRecentProposals(uint256)", parsed.Methods[g.Method].Sig)

	for _, typ := range []string{"uint257", "int7", "uint0", "bytes33", "bytes0", "uint12[]"} {
		_, err = Getter{Method: "bad", Outputs: []Param{{Name: "x", Type: typ}}}.ABI()
		require.ErrorIs(t, err, ErrInvalidType, typ)
	}

	for _, typ := range []string{"uint8", "int256", "uint", "bytes32", "bytes", "uint256[]", "bool", "string", "address[]"} {
		_, err = Getter{Method: "good", Outputs: []Param{{Name: "x", Type: typ}}}.ABI()
		require.NoError(t, err, typ)
	}
}

func TestReaderRead(t *testing.T) {
	caller := NewMockCaller()
	r := NewReader(testGovernor, caller)

	stats := Getter{
		Method: "getUserStats",
		Outputs: []Param{
			{Name: "totalUsers", Type: "uint256"},
			{Name: "activeUsers", Type: "uint256"},
			{Name: "avgVotingPower", Type: "uint256"},
		},
	}
	caller.Return(t, stats, big.NewInt(120), big.NewInt(80), big.NewInt(5))

	values, err := r.Read(context.Background(), stats)
	require.NoError(t, err)
	assert.Equal(t, "120", Normalize(values["totalUsers"]))
	assert.Equal(t, "80", Normalize(values["activeUsers"]))
	assert.Equal(t, "5", Normalize(values["avgVotingPower"]))

	recent := Getter{
		Method:  "getRecentProposals",
		Inputs:  []Param{{Name: "count", Type: "uint256"}},
		Outputs: []Param{{Name: "proposalIds", Type: "uint256[]"}},
	}
	caller.Return(t, recent, []*big.Int{big.NewInt(4), big.NewInt(3)})

	values, err = r.Read(context.Background(), recent, big.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, []any{"4", "3"}, Normalize(values["proposalIds"]))

	// the argument is encoded after the selector
	last := caller.calls[len(caller.calls)-1]
	assert.Equal(t, big.NewInt(5), new(big.Int).SetBytes(last[4:36]))

	failing := Getter{Method: "getQuorum", Outputs: []Param{{Name: "quorum", Type: "uint256"}}}
	caller.Fail(t, failing, errors.New("execution reverted"))

	_, err = r.Read(context.Background(), failing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getQuorum")
}
