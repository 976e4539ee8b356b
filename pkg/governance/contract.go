package governance

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Protocol binds the GovernanceProtocol contract used by the proposal lifecycle
type Protocol struct {
	addr common.Address
	abi  *abi.ABI
	c    *bind.BoundContract
}

func NewProtocol(addr common.Address, backend bind.ContractBackend) (*Protocol, error) {
	parsed, err := ProtocolABI()
	if err != nil {
		return nil, err
	}

	return &Protocol{
		addr: addr,
		abi:  parsed,
		c:    bind.NewBoundContract(addr, *parsed, backend, backend, backend),
	}, nil
}

func (p *Protocol) Address() common.Address {
	return p.addr
}

func (p *Protocol) Propose(opts *bind.TransactOpts, target common.Address, value *big.Int, data []byte, voteDelay *big.Int) (*types.Transaction, error) {
	return p.c.Transact(opts, "propose", target, value, data, voteDelay)
}

func (p *Protocol) Vote(opts *bind.TransactOpts, id *big.Int, support bool, power *big.Int) (*types.Transaction, error) {
	return p.c.Transact(opts, "vote", id, support, power)
}

func (p *Protocol) Queue(opts *bind.TransactOpts, id *big.Int) (*types.Transaction, error) {
	return p.c.Transact(opts, "queue", id)
}

func (p *Protocol) Execute(opts *bind.TransactOpts, id *big.Int) (*types.Transaction, error) {
	return p.c.Transact(opts, "execute", id)
}

func (p *Protocol) TimelockDelay(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	err := p.c.Call(opts, &out, "timelockDelay")
	if err != nil {
		return nil, err
	}

	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

// ProposalID returns the id carried by the Proposed event in logs
func (p *Protocol) ProposalID(logs []*types.Log) (*big.Int, error) {
	return proposalIDFromLogs(p.addr, ProposedID, logs)
}

func (p *Protocol) DecodeEvents(logs []*types.Log) ([]Event, error) {
	return decodeEvents(p.abi, p.addr, logs)
}

// ProtocolV2 binds GovernanceProtocolV2, the shape deployed by variant A and read by the reports
type ProtocolV2 struct {
	addr common.Address
	abi  *abi.ABI
	c    *bind.BoundContract
}

func NewProtocolV2(addr common.Address, backend bind.ContractBackend) (*ProtocolV2, error) {
	parsed, err := ProtocolV2ABI()
	if err != nil {
		return nil, err
	}

	return &ProtocolV2{
		addr: addr,
		abi:  parsed,
		c:    bind.NewBoundContract(addr, *parsed, backend, backend, backend),
	}, nil
}

func (p *ProtocolV2) Address() common.Address {
	return p.addr
}

func (p *ProtocolV2) Propose(opts *bind.TransactOpts, calldatas [][]byte, description string, proposalType uint8, metadata string) (*types.Transaction, error) {
	if calldatas == nil {
		calldatas = [][]byte{}
	}
	return p.c.Transact(opts, "propose", calldatas, description, proposalType, metadata)
}

func (p *ProtocolV2) Vote(opts *bind.TransactOpts, id *big.Int, support bool) (*types.Transaction, error) {
	return p.c.Transact(opts, "vote", id, support)
}

func (p *ProtocolV2) Owner(opts *bind.CallOpts) (common.Address, error) {
	return callAddress(p.c, opts, "owner")
}

func (p *ProtocolV2) Token(opts *bind.CallOpts) (common.Address, error) {
	return callAddress(p.c, opts, "token")
}

func (p *ProtocolV2) QuorumThreshold(opts *bind.CallOpts) (*big.Int, error) {
	return callBig(p.c, opts, "quorumThreshold")
}

func (p *ProtocolV2) VotingDelay(opts *bind.CallOpts) (*big.Int, error) {
	return callBig(p.c, opts, "votingDelay")
}

func (p *ProtocolV2) VotingPeriod(opts *bind.CallOpts) (*big.Int, error) {
	return callBig(p.c, opts, "votingPeriod")
}

func (p *ProtocolV2) ProposalThreshold(opts *bind.CallOpts) (*big.Int, error) {
	return callBig(p.c, opts, "proposalThreshold")
}

func (p *ProtocolV2) ProposalID(logs []*types.Log) (*big.Int, error) {
	return proposalIDFromLogs(p.addr, ProposalCreatedID, logs)
}

func (p *ProtocolV2) DecodeEvents(logs []*types.Log) ([]Event, error) {
	return decodeEvents(p.abi, p.addr, logs)
}

func callBig(c *bind.BoundContract, opts *bind.CallOpts, method string) (*big.Int, error) {
	var out []interface{}
	err := c.Call(opts, &out, method)
	if err != nil {
		return nil, err
	}

	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

func callAddress(c *bind.BoundContract, opts *bind.CallOpts, method string) (common.Address, error) {
	var out []interface{}
	err := c.Call(opts, &out, method)
	if err != nil {
		return common.Address{}, err
	}

	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}
