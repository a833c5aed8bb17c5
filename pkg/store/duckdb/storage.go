package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const ScansTableSchema = `
	CREATE TABLE IF NOT EXISTS scans (
		id VARCHAR NOT NULL PRIMARY KEY,
		region VARCHAR NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		total INTEGER NOT NULL,
		passed INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		errors INTEGER NOT NULL
	);
`

const ScanResultsTableSchema = `
	CREATE TABLE IF NOT EXISTS scan_results (
		scan_id VARCHAR NOT NULL,
		rule_id VARCHAR NOT NULL,
		title VARCHAR,
		severity VARCHAR,
		category VARCHAR,
		service VARCHAR,
		status VARCHAR NOT NULL,
		resource_id VARCHAR,
		details VARCHAR,
		remediation VARCHAR
	);
`

var bootQueries = []string{
	ScansTableSchema,
	ScanResultsTableSchema,
}

type Settings struct {
	DbPath string
}

// NewDB opens the scan history database, creating the schema on first
// use.
func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
