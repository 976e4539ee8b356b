package governance

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrProposalEventNotFound = errors.New("proposal event not found in receipt")

// Event is a decoded governance log
type Event struct {
	Name     string         `json:"name"`
	Contract string         `json:"contract"`
	TxHash   string         `json:"tx_hash"`
	LogIndex uint           `json:"log_index"`
	Args     map[string]any `json:"args"`
}

func proposalIDFromLogs(addr common.Address, topic common.Hash, logs []*types.Log) (*big.Int, error) {
	for _, l := range logs {
		if l == nil || l.Address != addr || len(l.Topics) < 2 {
			continue
		}

		if l.Topics[0] != topic {
			continue
		}

		return new(big.Int).SetBytes(l.Topics[1].Bytes()), nil
	}

	return nil, ErrProposalEventNotFound
}

// decodeEvents decodes every log emitted by addr that matches an event of the abi.
// Logs from other contracts and unknown topics are skipped.
func decodeEvents(a *abi.ABI, addr common.Address, logs []*types.Log) ([]Event, error) {
	events := []Event{}
	for _, l := range logs {
		if l == nil || l.Address != addr || len(l.Topics) == 0 {
			continue
		}

		ev, err := a.EventByID(l.Topics[0])
		if err != nil {
			continue
		}

		args := map[string]any{}
		if err := a.UnpackIntoMap(args, ev.Name, l.Data); err != nil {
			return nil, err
		}

		var indexed abi.Arguments
		for _, arg := range ev.Inputs {
			if arg.Indexed {
				indexed = append(indexed, arg)
			}
		}

		if err := abi.ParseTopicsIntoMap(args, indexed, l.Topics[1:]); err != nil {
			return nil, err
		}

		for k, v := range args {
			args[k] = Normalize(v)
		}

		events = append(events, Event{
			Name:     ev.Name,
			Contract: l.Address.Hex(),
			TxHash:   l.TxHash.Hex(),
			LogIndex: l.Index,
			Args:     args,
		})
	}

	return events, nil
}
