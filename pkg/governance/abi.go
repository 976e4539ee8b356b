package governance

import (
	"embed"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

//go:embed abi/*.json
var abiFiles embed.FS

const (
	// GovernanceProtocol lifecycle events
	EvProposed = "Proposed(uint256,address,uint256)"
	EvVoted    = "Voted(uint256,address,bool,uint256)"
	EvQueued   = "Queued(uint256,uint256)"
	EvExecuted = "Executed(uint256)"

	// GovernanceProtocolV2 events
	EvProposalCreated = "ProposalCreated(uint256,address,string,uint8)"
	EvVoteCast        = "VoteCast(uint256,address,bool,uint256)"
)

var (
	ProposedID = crypto.Keccak256Hash([]byte(EvProposed))
	VotedID    = crypto.Keccak256Hash([]byte(EvVoted))
	QueuedID   = crypto.Keccak256Hash([]byte(EvQueued))
	ExecutedID = crypto.Keccak256Hash([]byte(EvExecuted))

	ProposalCreatedID = crypto.Keccak256Hash([]byte(EvProposalCreated))
	VoteCastID        = crypto.Keccak256Hash([]byte(EvVoteCast))
)

// ParseArtifactABI reads the "abi" field of a Hardhat artifact
func ParseArtifactABI(contractBytes []byte) (*abi.ABI, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(contractBytes, &m); err != nil {
		return nil, err
	}

	ma := m["abi"]
	abiBytes, err := json.Marshal(ma)
	if err != nil {
		return nil, err
	}

	parsed, err := abi.JSON(strings.NewReader(string(abiBytes)))
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func extractContractABI(jsonFile string) (*abi.ABI, error) {
	contractBytes, err := abiFiles.ReadFile(jsonFile)
	if err != nil {
		return nil, err
	}

	return ParseArtifactABI(contractBytes)
}

func ProtocolABI() (*abi.ABI, error) {
	return extractContractABI("abi/GovernanceProtocol.json")
}

func ProtocolV2ABI() (*abi.ABI, error) {
	return extractContractABI("abi/GovernanceProtocolV2.json")
}
