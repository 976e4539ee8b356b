package common

import (
	"github.com/ethereum/go-ethereum/common"
)

func ChecksumAddress(addr string) string {
	address := common.HexToAddress(addr)

	return address.Hex()
}
