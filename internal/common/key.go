package common

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// HexToPrivateKey parses a signer key as found in PRIVATE_KEY, the 0x prefix is optional
func HexToPrivateKey(s string) (*ecdsa.PrivateKey, error) {
	return crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
}

// GenerateHexPrivateKey returns a fresh hex encoded private key and its address
func GenerateHexPrivateKey() (string, string, error) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		return "", "", err
	}

	return hex.EncodeToString(crypto.FromECDSA(pk)), crypto.PubkeyToAddress(pk.PublicKey).Hex(), nil
}
