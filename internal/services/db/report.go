package db

import (
	"context"
	"fmt"

	"github.com/citizenwallet/governance/pkg/governance"
)

type ReportDB struct {
	p *DB
}

func (rdb *ReportDB) table() string {
	return rdb.p.tableName("reports")
}

// Create creates the reports table
func (rdb *ReportDB) Create() error {
	_, err := rdb.p.db.Exec(fmt.Sprintf(`
	CREATE TABLE %s(
		run_id text NOT NULL PRIMARY KEY,
		kind text NOT NULL,
		governor text NOT NULL,
		chain_id integer NOT NULL,
		path text NOT NULL,
		document text NOT NULL,
		created_at timestamp NOT NULL
	);
	`, rdb.table()))

	return err
}

// CreateIndexes creates the indexes used to find the latest report of a kind
func (rdb *ReportDB) CreateIndexes() error {
	_, err := rdb.p.db.Exec(fmt.Sprintf(`
	CREATE INDEX idx_%s_kind_created_at ON %s (kind, created_at);
	`, rdb.table(), rdb.table()))

	return err
}

func (rdb *ReportDB) ensureExists() error {
	exists, err := rdb.p.TableExists(rdb.table())
	if err != nil {
		return err
	}

	if !exists {
		if err = rdb.Create(); err != nil {
			return err
		}

		if err = rdb.CreateIndexes(); err != nil {
			return err
		}
	}

	return nil
}

// AddReport inserts a report, the run id is unique
func (rdb *ReportDB) AddReport(ctx context.Context, e *governance.ReportEntry) error {
	_, err := rdb.p.db.ExecContext(ctx, rdb.p.rebind(fmt.Sprintf(`
	INSERT INTO %s (run_id, kind, governor, chain_id, path, document, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rdb.table())), e.RunID, e.Kind, e.Governor, e.ChainID, e.Path, string(e.Document), e.CreatedAt.UTC())

	return err
}

// GetReport returns the report with its document
func (rdb *ReportDB) GetReport(ctx context.Context, runID string) (*governance.ReportEntry, error) {
	var (
		e   governance.ReportEntry
		doc string
	)

	err := rdb.p.rdb.QueryRowContext(ctx, rdb.p.rebind(fmt.Sprintf(`
	SELECT run_id, kind, governor, chain_id, path, document, created_at
	FROM %s
	WHERE run_id = $1
	`, rdb.table())), runID).Scan(&e.RunID, &e.Kind, &e.Governor, &e.ChainID, &e.Path, &doc, &e.CreatedAt)
	if err != nil {
		return nil, err
	}

	e.Document = []byte(doc)

	return &e, nil
}

// GetLatestReport returns the most recent report of a kind with its document
func (rdb *ReportDB) GetLatestReport(ctx context.Context, kind string) (*governance.ReportEntry, error) {
	var (
		e   governance.ReportEntry
		doc string
	)

	err := rdb.p.rdb.QueryRowContext(ctx, rdb.p.rebind(fmt.Sprintf(`
	SELECT run_id, kind, governor, chain_id, path, document, created_at
	FROM %s
	WHERE kind = $1
	ORDER BY created_at DESC
	LIMIT 1
	`, rdb.table())), kind).Scan(&e.RunID, &e.Kind, &e.Governor, &e.ChainID, &e.Path, &doc, &e.CreatedAt)
	if err != nil {
		return nil, err
	}

	e.Document = []byte(doc)

	return &e, nil
}

// GetReports lists reports of a kind, newest first, without their documents
func (rdb *ReportDB) GetReports(ctx context.Context, kind string, limit, offset int) ([]*governance.ReportEntry, error) {
	rows, err := rdb.p.rdb.QueryContext(ctx, rdb.p.rebind(fmt.Sprintf(`
	SELECT run_id, kind, governor, chain_id, path, created_at
	FROM %s
	WHERE kind = $1
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3
	`, rdb.table())), kind, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*governance.ReportEntry{}
	for rows.Next() {
		var e governance.ReportEntry
		err = rows.Scan(&e.RunID, &e.Kind, &e.Governor, &e.ChainID, &e.Path, &e.CreatedAt)
		if err != nil {
			return nil, err
		}

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// CountReports returns how many reports of a kind are archived
func (rdb *ReportDB) CountReports(ctx context.Context, kind string) (int, error) {
	var total int
	err := rdb.p.rdb.QueryRowContext(ctx, rdb.p.rebind(fmt.Sprintf(`
	SELECT COUNT(*)
	FROM %s
	WHERE kind = $1
	`, rdb.table())), kind).Scan(&total)

	return total, err
}

// AllReports returns every archived report with its document, oldest first
func (rdb *ReportDB) AllReports(ctx context.Context) ([]*governance.ReportEntry, error) {
	rows, err := rdb.p.rdb.QueryContext(ctx, fmt.Sprintf(`
	SELECT run_id, kind, governor, chain_id, path, document, created_at
	FROM %s
	ORDER BY created_at ASC
	`, rdb.table()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*governance.ReportEntry{}
	for rows.Next() {
		var (
			e   governance.ReportEntry
			doc string
		)
		err = rows.Scan(&e.RunID, &e.Kind, &e.Governor, &e.ChainID, &e.Path, &doc, &e.CreatedAt)
		if err != nil {
			return nil, err
		}

		e.Document = []byte(doc)
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
