package governance

import (
	"math/big"
	"strings"
)

var (
	localNetworks = map[string]bool{
		"hardhat":   true,
		"localhost": true,
		"anvil":     true,
		"simulated": true,
	}

	localChainIDs = map[int64]bool{
		31337: true,
		1337:  true,
	}
)

// IsLocalNetwork reports whether the network supports evm_increaseTime style clock control.
// The chain id decides; a configured name must not contradict it.
func IsLocalNetwork(name string, chainID *big.Int) bool {
	if chainID == nil || !chainID.IsInt64() || !localChainIDs[chainID.Int64()] {
		return false
	}

	return name == "" || localNetworks[strings.ToLower(name)]
}

// NetworkName returns the configured name, or one derived from the chain id when unset
func NetworkName(name string, chainID *big.Int) string {
	if name != "" {
		return name
	}

	if chainID == nil {
		return "unknown"
	}

	return "chain-" + chainID.String()
}
