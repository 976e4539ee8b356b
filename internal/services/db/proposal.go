package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/citizenwallet/governance/pkg/governance"
)

type ProposalDB struct {
	p *DB
}

func (pdb *ProposalDB) table() string {
	return pdb.p.tableName("proposals")
}

// Create creates the proposals table, one row per orchestrated run
func (pdb *ProposalDB) Create() error {
	_, err := pdb.p.db.Exec(fmt.Sprintf(`
	CREATE TABLE %s(
		governor text NOT NULL,
		run_id text NOT NULL,
		proposal_id text NOT NULL,
		proposer text NOT NULL,
		state text NOT NULL,
		target text NOT NULL,
		value text NOT NULL,
		calldata text NOT NULL,
		tx_hashes text NOT NULL,
		error text NOT NULL,
		created_at timestamp NOT NULL,
		updated_at timestamp NOT NULL,
		UNIQUE (governor, run_id)
	);
	`, pdb.table()))

	return err
}

func (pdb *ProposalDB) CreateIndexes() error {
	_, err := pdb.p.db.Exec(fmt.Sprintf(`
	CREATE INDEX idx_%s_governor_created_at ON %s (governor, created_at);
	`, pdb.table(), pdb.table()))

	return err
}

func (pdb *ProposalDB) ensureExists() error {
	exists, err := pdb.p.TableExists(pdb.table())
	if err != nil {
		return err
	}

	if !exists {
		if err = pdb.Create(); err != nil {
			return err
		}

		if err = pdb.CreateIndexes(); err != nil {
			return err
		}
	}

	return nil
}

// UpsertProposal inserts the record or updates the row of the same governor and run
func (pdb *ProposalDB) UpsertProposal(ctx context.Context, rec *governance.ProposalRecord) error {
	hashes, err := json.Marshal(rec.TxHashes)
	if err != nil {
		return err
	}

	_, err = pdb.p.db.ExecContext(ctx, pdb.p.rebind(fmt.Sprintf(`
	INSERT INTO %s (governor, run_id, proposal_id, proposer, state, target, value, calldata, tx_hashes, error, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (governor, run_id) DO UPDATE SET
		proposal_id = excluded.proposal_id,
		state = excluded.state,
		tx_hashes = excluded.tx_hashes,
		error = excluded.error,
		updated_at = excluded.updated_at
	`, pdb.table())),
		rec.Governor,
		rec.RunID,
		rec.ProposalId,
		rec.Proposer,
		string(rec.State),
		rec.Target,
		rec.Value,
		rec.Calldata,
		string(hashes),
		rec.Error,
		rec.CreatedAt.UTC(),
		rec.UpdatedAt.UTC(),
	)

	return err
}

const proposalColumns = `governor, run_id, proposal_id, proposer, state, target, value, calldata, tx_hashes, error, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProposal(row scanner) (*governance.ProposalRecord, error) {
	var (
		rec    governance.ProposalRecord
		state  string
		hashes string
	)

	err := row.Scan(
		&rec.Governor,
		&rec.RunID,
		&rec.ProposalId,
		&rec.Proposer,
		&state,
		&rec.Target,
		&rec.Value,
		&rec.Calldata,
		&hashes,
		&rec.Error,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.State = governance.ProposalState(state)

	if err := json.Unmarshal([]byte(hashes), &rec.TxHashes); err != nil {
		return nil, err
	}

	return &rec, nil
}

// GetProposal returns the record of one run
func (pdb *ProposalDB) GetProposal(ctx context.Context, governor, runID string) (*governance.ProposalRecord, error) {
	row := pdb.p.rdb.QueryRowContext(ctx, pdb.p.rebind(fmt.Sprintf(`
	SELECT %s
	FROM %s
	WHERE governor = $1 AND run_id = $2
	`, proposalColumns, pdb.table())), governor, runID)

	return scanProposal(row)
}

// GetProposals lists the runs against a governor, newest first
func (pdb *ProposalDB) GetProposals(ctx context.Context, governor string, limit, offset int) ([]*governance.ProposalRecord, error) {
	rows, err := pdb.p.rdb.QueryContext(ctx, pdb.p.rebind(fmt.Sprintf(`
	SELECT %s
	FROM %s
	WHERE governor = $1
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3
	`, proposalColumns, pdb.table())), governor, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []*governance.ProposalRecord{}
	for rows.Next() {
		rec, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}

		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// CountProposals returns how many records are stored for a governor
func (pdb *ProposalDB) CountProposals(ctx context.Context, governor string) (int, error) {
	var total int
	err := pdb.p.rdb.QueryRowContext(ctx, pdb.p.rebind(fmt.Sprintf(`
	SELECT COUNT(*)
	FROM %s
	WHERE governor = $1
	`, pdb.table())), governor).Scan(&total)

	return total, err
}

// AllProposals returns every stored record, oldest first
func (pdb *ProposalDB) AllProposals(ctx context.Context) ([]*governance.ProposalRecord, error) {
	rows, err := pdb.p.rdb.QueryContext(ctx, fmt.Sprintf(`
	SELECT %s
	FROM %s
	ORDER BY created_at ASC
	`, proposalColumns, pdb.table()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []*governance.ProposalRecord{}
	for rows.Next() {
		rec, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}

		recs = append(recs, rec)
	}

	return recs, rows.Err()
}
