package db

import (
	"database/sql"
	"fmt"
	"math/big"

	"github.com/citizenwallet/governance/internal/config"
	_ "github.com/lib/pq"
)

// NewPostgresDB connects to the archive and creates its tables when missing
func NewPostgresDB(chainID *big.Int, username, password, name, host string) (*DB, error) {
	connStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=5432 sslmode=disable", username, password, name, host)
	db, err := sql.Open(config.DriverPostgres, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return newDB(chainID, config.DriverPostgres, db, db)
}
