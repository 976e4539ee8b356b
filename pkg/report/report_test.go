package report

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/citizenwallet/governance/internal/logger"
	"github.com/citizenwallet/smartcontracts/pkg/contracts/erc20"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	govAddr   = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	tokenAddr = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	fixedTime = time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

	errReverted = errors.New("execution reverted")
)

// MockCaller answers eth_call by method selector
type MockCaller struct {
	returns  map[[4]byte][]byte
	errs     map[[4]byte]error
	fallback error
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
	var sel [4]byte
	copy(sel[:], call.Data[:4])

	if err, ok := m.errs[sel]; ok {
		return nil, err
	}

	if out, ok := m.returns[sel]; ok {
		return out, nil
	}

	return nil, m.fallback
}

func (m *MockCaller) returnMethod(t *testing.T, parsed abi.ABI, name string, values ...any) {
	t.Helper()

	method, ok := parsed.Methods[name]
	require.True(t, ok, name)

	out, err := method.Outputs.Pack(values...)
	require.NoError(t, err)

	var sel [4]byte
	copy(sel[:], method.ID)
	m.returns[sel] = out
}

// Return packs values as the outputs of the category getter
func (m *MockCaller) Return(t *testing.T, c Category, values ...any) {
	t.Helper()

	parsed, err := c.GetterABI().ABI()
	require.NoError(t, err)

	m.returnMethod(t, parsed, c.Getter, values...)
}

func (m *MockCaller) Fail(t *testing.T, c Category, err error) {
	t.Helper()

	parsed, perr := c.GetterABI().ABI()
	require.NoError(t, perr)

	var sel [4]byte
	copy(sel[:], parsed.Methods[c.Getter].ID)
	m.errs[sel] = err
}

func (m *MockCaller) Token(t *testing.T, symbol string, decimals uint8, supply *big.Int) {
	t.Helper()

	parsed, err := abi.JSON(strings.NewReader(erc20.Erc20MetaData.ABI))
	require.NoError(t, err)

	m.returnMethod(t, parsed, "symbol", symbol)
	m.returnMethod(t, parsed, "decimals", decimals)
	m.returnMethod(t, parsed, "totalSupply", supply)
}

func category(t *testing.T, def Definition, getter string) Category {
	t.Helper()

	for _, c := range def.Categories {
		if c.Getter == getter {
			return c
		}
	}

	t.Fatalf("%s has no getter %s", def.Kind, getter)
	return Category{}
}

func nums(values ...int64) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, big.NewInt(v))
	}
	return out
}

func bigs(values ...int64) []*big.Int {
	out := make([]*big.Int, 0, len(values))
	for _, v := range values {
		out = append(out, big.NewInt(v))
	}
	return out
}

func newGenerator(t *testing.T, caller *MockCaller, opts ...Option) *Generator {
	t.Helper()

	opts = append([]Option{
		WithClock(func() time.Time { return fixedTime }),
		WithLogger(logger.Test(t)),
		WithChainID(1337),
	}, opts...)

	return New(govAddr, caller, t.TempDir(), opts...)
}

func lookup(t *testing.T, doc *Document, path string) any {
	t.Helper()

	v, ok := doc.Lookup(path)
	require.True(t, ok, path)
	return v
}
