package governance

import "time"

type ProposalState string

const (
	ProposalStateCreated  ProposalState = "created"
	ProposalStateVoted    ProposalState = "voted"
	ProposalStateQueued   ProposalState = "queued"
	ProposalStateExecuted ProposalState = "executed"
	ProposalStateFailed   ProposalState = "failed"
)

// ProposalRecord is the local trace of one orchestrated proposal
type ProposalRecord struct {
	Governor   string        `json:"governor"`
	ProposalId string        `json:"proposal_id"`
	Proposer   string        `json:"proposer"`
	State      ProposalState `json:"state"`

	Target   string `json:"target"`
	Value    string `json:"value"`
	Calldata string `json:"calldata"`

	RunID    string            `json:"run_id"`
	TxHashes map[string]string `json:"tx_hashes"`
	Error    string            `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReportEntry is an archived report document
type ReportEntry struct {
	RunID     string    `json:"run_id"`
	Kind      string    `json:"kind"`
	Governor  string    `json:"governor"`
	ChainID   int64     `json:"chain_id"`
	Path      string    `json:"path"`
	Document  []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
