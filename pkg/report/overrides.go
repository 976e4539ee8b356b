package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadOverrides reads rule threshold overrides from a yaml file:
//
//	audit.findings.votingMetrics.participationRate: 25
//	compliance.violations.complianceData.quorum: 2000
func LoadOverrides(path string, c Catalog) (Overrides, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	o := Overrides{}
	err = yaml.Unmarshal(b, &o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	err = o.Validate(c)
	if err != nil {
		return nil, err
	}

	return o, nil
}
