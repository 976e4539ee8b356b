package governance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Param is a named, Solidity typed getter argument or return value
type Param struct {
	Name string
	Type string
}

// Getter describes a view method that is not part of a shipped ABI.
// Its method ABI is derived from the declared inputs and outputs.
type Getter struct {
	Method  string
	Inputs  []Param
	Outputs []Param
}

var ErrInvalidType = errors.New("invalid solidity type")

// checkType rejects integer and fixed bytes sizes that solidity does not have.
// abi.NewType accepts them and would derive a wrong selector.
func checkType(typ string) error {
	base := typ
	if i := strings.Index(base, "["); i >= 0 {
		base = base[:i]
	}

	var (
		digits string
		lo, hi int
		step   int
	)

	switch {
	case strings.HasPrefix(base, "uint"):
		digits, lo, hi, step = base[len("uint"):], 8, 256, 8
	case strings.HasPrefix(base, "int"):
		digits, lo, hi, step = base[len("int"):], 8, 256, 8
	case strings.HasPrefix(base, "bytes"):
		digits, lo, hi, step = base[len("bytes"):], 1, 32, 1
	default:
		return nil
	}

	if digits == "" {
		return nil
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < lo || n > hi || n%step != 0 {
		return fmt.Errorf("%w: %s", ErrInvalidType, typ)
	}

	return nil
}

func (g Getter) arguments(params []Param) (abi.Arguments, error) {
	args := make(abi.Arguments, 0, len(params))
	for _, p := range params {
		if err := checkType(p.Type); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", g.Method, p.Name, err)
		}

		t, err := abi.NewType(p.Type, "", nil)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", g.Method, p.Name, err)
		}

		args = append(args, abi.Argument{Name: p.Name, Type: t})
	}

	return args, nil
}

// ABI returns a single method ABI for the getter
func (g Getter) ABI() (abi.ABI, error) {
	in, err := g.arguments(g.Inputs)
	if err != nil {
		return abi.ABI{}, err
	}

	out, err := g.arguments(g.Outputs)
	if err != nil {
		return abi.ABI{}, err
	}

	m := abi.NewMethod(g.Method, g.Method, abi.Function, "view", true, false, in, out)

	return abi.ABI{Methods: map[string]abi.Method{g.Method: m}}, nil
}

// Reader calls derived getters on a contract
type Reader struct {
	addr   common.Address
	caller bind.ContractCaller
}

func NewReader(addr common.Address, caller bind.ContractCaller) *Reader {
	return &Reader{addr: addr, caller: caller}
}

func (r *Reader) Address() common.Address {
	return r.addr
}

// Read calls the getter and returns its decoded outputs keyed by name
func (r *Reader) Read(ctx context.Context, g Getter, args ...any) (map[string]any, error) {
	parsed, err := g.ABI()
	if err != nil {
		return nil, err
	}

	c := bind.NewBoundContract(r.addr, parsed, r.caller, nil, nil)

	var out []interface{}
	err = c.Call(&bind.CallOpts{Context: ctx}, &out, g.Method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.Method, err)
	}

	if len(out) != len(g.Outputs) {
		return nil, fmt.Errorf("%s: expected %d outputs, got %d", g.Method, len(g.Outputs), len(out))
	}

	values := make(map[string]any, len(out))
	for i, p := range g.Outputs {
		values[p.Name] = out[i]
	}

	return values, nil
}
