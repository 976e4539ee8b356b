package deploy

import (
	"errors"
	"fmt"

	"github.com/citizenwallet/governance/internal/storage"
	"github.com/ethereum/go-ethereum/common"
)

var ErrMissingContract = errors.New("contract not found in deployments")

// Summary is the variant A output
type Summary struct {
	Governance      string `json:"governance"`
	GovernanceToken string `json:"governanceToken"`
	Owner           string `json:"owner"`
}

func (s *Summary) Save(path string) error {
	return storage.SaveJSON(path, s)
}

func ReadSummary(path string) (*Summary, error) {
	var s Summary
	if err := storage.ReadJSON(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Deployments is the variant B output, contracts are keyed by name
type Deployments struct {
	Network   string            `json:"network"`
	ChainID   int64             `json:"chainId"`
	Deployer  string            `json:"deployer"`
	Timestamp string            `json:"timestamp"`
	Contracts map[string]string `json:"contracts"`
}

func (d *Deployments) Save(path string) error {
	return storage.SaveJSON(path, d)
}

func ReadDeployments(path string) (*Deployments, error) {
	var d Deployments
	if err := storage.ReadJSON(path, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Address returns the deployed address of the named contract
func (d *Deployments) Address(name string) (common.Address, error) {
	addr, ok := d.Contracts[name]
	if !ok || !common.IsHexAddress(addr) {
		return common.Address{}, fmt.Errorf("%w: %s", ErrMissingContract, name)
	}
	return common.HexToAddress(addr), nil
}

// ResolveGovernance picks the governance contract to read: the configured address, then the
// variant A summary, then the variant B deployments file
func ResolveGovernance(configured, summaryPath, deploymentsPath string) (common.Address, error) {
	if common.IsHexAddress(configured) {
		return common.HexToAddress(configured), nil
	}

	if storage.Exists(summaryPath) {
		s, err := ReadSummary(summaryPath)
		if err != nil {
			return common.Address{}, err
		}

		if common.IsHexAddress(s.Governance) {
			return common.HexToAddress(s.Governance), nil
		}
	}

	d, err := ReadDeployments(deploymentsPath)
	if err != nil {
		return common.Address{}, fmt.Errorf("no governance address configured: %w", err)
	}

	return d.Governor()
}
