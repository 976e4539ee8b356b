package common

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseBigInt accepts decimal or 0x prefixed hex
func ParseBigInt(s string) (*big.Int, error) {
	if strings.HasPrefix(s, "0x") {
		i, ok := new(big.Int).SetString(s[2:], 16)
		if !ok {
			return nil, fmt.Errorf("invalid hex integer: %s", s)
		}
		return i, nil
	}

	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer: %s", s)
	}
	return i, nil
}
