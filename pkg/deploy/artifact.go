package deploy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/citizenwallet/governance/pkg/governance"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var ErrMissingArtifact = errors.New("missing artifact")

// Artifact is a compiled contract as written by hardhat
type Artifact struct {
	Name     string
	ABI      *abi.ABI
	Bytecode []byte
}

// ArtifactPath returns <dir>/contracts/<name>.sol/<name>.json
func ArtifactPath(dir, name string) string {
	return filepath.Join(dir, "contracts", name+".sol", name+".json")
}

func LoadArtifact(dir, name string) (*Artifact, error) {
	path := ArtifactPath(dir, name)

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, path)
	}
	if err != nil {
		return nil, err
	}

	parsed, err := governance.ParseArtifactABI(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var a struct {
		Bytecode string `json:"bytecode"`
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if a.Bytecode == "" || a.Bytecode == "0x" {
		return nil, fmt.Errorf("%w: %s has no bytecode", ErrMissingArtifact, path)
	}

	code, err := hexutil.Decode(a.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("%s: bytecode: %w", path, err)
	}

	return &Artifact{Name: name, ABI: parsed, Bytecode: code}, nil
}
