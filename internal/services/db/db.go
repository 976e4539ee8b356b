package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/citizenwallet/governance/internal/config"
	"github.com/citizenwallet/governance/internal/storage"
	"github.com/citizenwallet/governance/pkg/governance"
	_ "modernc.org/sqlite"
)

const (
	dbFileName     = "governance.db"
	dbConfigString = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_txlock=immediate"
)

var ErrUnknownDriver = errors.New("unknown db driver")

type DB struct {
	chainID *big.Int
	driver  string
	mu      sync.Mutex
	db      *sql.DB
	rdb     *sql.DB

	ReportDB   *ReportDB
	ProposalDB *ProposalDB
}

// NewDB opens the archive selected by the config
func NewDB(chainID *big.Int, c config.DBConfig) (*DB, error) {
	switch c.Driver {
	case config.DriverSQLite:
		return NewSQLiteDB(chainID, c.Path)
	case config.DriverPostgres:
		return NewPostgresDB(chainID, c.User, c.Password, c.Name, c.Host)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
}

// NewSQLiteDB opens or creates <folder>/governance.db
func NewSQLiteDB(chainID *big.Int, folderPath string) (*DB, error) {
	if !storage.Exists(folderPath) {
		err := storage.CreateDir(folderPath)
		if err != nil {
			return nil, err
		}
	}

	path := filepath.Join(folderPath, dbFileName)

	db, err := sql.Open(config.DriverSQLite, fmt.Sprintf("file:%s?%s", path, dbConfigString))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(1)

	return newDB(chainID, config.DriverSQLite, db, db)
}

func newDB(chainID *big.Int, driver string, db, rdb *sql.DB) (*DB, error) {
	d := &DB{
		chainID: chainID,
		driver:  driver,
		db:      db,
		rdb:     rdb,
	}

	d.ReportDB = &ReportDB{p: d}
	d.ProposalDB = &ProposalDB{p: d}

	if err := d.ReportDB.ensureExists(); err != nil {
		return nil, err
	}

	if err := d.ProposalDB.ensureExists(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *DB) ChainID() *big.Int {
	return d.chainID
}

func (d *DB) Driver() string {
	return d.driver
}

var placeholder = regexp.MustCompile(`\$\d+`)

// rebind rewrites $n placeholders for sqlite. Queries list them in increasing order.
func (d *DB) rebind(query string) string {
	if d.driver != config.DriverSQLite {
		return query
	}
	return placeholder.ReplaceAllString(query, "?")
}

func (d *DB) tableName(prefix string) string {
	return fmt.Sprintf("t_%s_%s", prefix, d.chainID.String())
}

// TableExists checks if a table exists in the database
func (d *DB) TableExists(tableName string) (bool, error) {
	query := "SELECT name FROM sqlite_master WHERE type='table' AND name=$1"
	if d.driver == config.DriverPostgres {
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1"
	}

	var name string
	err := d.db.QueryRow(d.rebind(query), tableName).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			// Table does not exist
			return false, nil
		}
		// A database error occurred
		return false, err
	}

	return true, nil
}

// SaveReport archives a generated report
func (d *DB) SaveReport(ctx context.Context, e *governance.ReportEntry) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.ReportDB.AddReport(ctx, e)
}

// SaveProposal stores the latest state of an orchestrated proposal
func (d *DB) SaveProposal(ctx context.Context, rec *governance.ProposalRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.ProposalDB.UpsertProposal(ctx, rec)
}

// Close closes the db
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rdb != d.db {
		if err := d.rdb.Close(); err != nil {
			return err
		}
	}

	return d.db.Close()
}
