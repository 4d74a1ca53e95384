package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

type PostgresConnector struct {
	Database *sql.DB
}

func InitializePostgresConnector(databaseURL string) (*PostgresConnector, error) {
	databaseConnection, connectionError := sql.Open("postgres", databaseURL)
	if connectionError != nil {
		return nil, errors.Wrap(connectionError, "could not open database connection")
	}

	pingContext, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	pingError := databaseConnection.PingContext(pingContext)
	if pingError != nil {
		return nil, errors.Wrap(pingError, "could not reach PostgreSQL")
	}

	connector := &PostgresConnector{Database: databaseConnection}
	migrationError := connector.ensureSchema()
	if migrationError != nil {
		return nil, errors.Wrap(migrationError, "could not ensure database schema")
	}

	return connector, nil
}

func (connector *PostgresConnector) ensureSchema() error {
	schemaCreationSQL := `
CREATE TABLE IF NOT EXISTS order_history (
    id TEXT PRIMARY KEY,
    submitted_at TIMESTAMP WITH TIME ZONE NOT NULL,
    order_id BIGINT NOT NULL,
    symbol VARCHAR(20) NOT NULL,
    side VARCHAR(4) NOT NULL,
    order_type VARCHAR(10) NOT NULL,
    quantity NUMERIC(20,8) NOT NULL,
    price NUMERIC(20,8) NOT NULL DEFAULT 0,
    stop_price NUMERIC(20,8) NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL,
    executed_qty NUMERIC(20,8) NOT NULL DEFAULT 0,
    avg_price NUMERIC(20,8) NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS order_history_submitted_at_idx ON order_history (submitted_at DESC);
`

	_, executionError := connector.Database.Exec(schemaCreationSQL)
	return executionError
}

func (connector *PostgresConnector) Close() error {
	return connector.Database.Close()
}
