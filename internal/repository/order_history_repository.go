package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"futures-gateway/internal/domain"
)

type OrderHistoryRepository interface {
	AppendOrderHistoryItem(context.Context, domain.OrderHistoryItem) error
	ListRecentOrderHistory(context.Context, int) ([]domain.OrderHistoryItem, error)
}

type PostgresOrderHistoryRepository struct {
	Database *sql.DB
}

func NewPostgresOrderHistoryRepository(database *sql.DB) *PostgresOrderHistoryRepository {
	return &PostgresOrderHistoryRepository{Database: database}
}

func (repository *PostgresOrderHistoryRepository) AppendOrderHistoryItem(requestContext context.Context, historyItem domain.OrderHistoryItem) error {
	insertSQL := `INSERT INTO order_history(id, submitted_at, order_id, symbol, side, order_type, quantity, price, stop_price, status, executed_qty, avg_price) VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	statementContext, statementCancel := context.WithTimeout(requestContext, 5*time.Second)
	defer statementCancel()

	_, executionError := repository.Database.ExecContext(statementContext, insertSQL,
		historyItem.Identifier, historyItem.SubmittedAt, historyItem.OrderID, historyItem.Symbol,
		historyItem.Side, historyItem.OrderType, historyItem.Quantity, historyItem.Price,
		historyItem.StopPrice, historyItem.Status, historyItem.ExecutedQuantity, historyItem.AveragePrice)
	if executionError != nil {
		return errors.Wrap(executionError, "could not append order history item")
	}

	return nil
}

func (repository *PostgresOrderHistoryRepository) ListRecentOrderHistory(requestContext context.Context, limit int) ([]domain.OrderHistoryItem, error) {
	querySQL := `SELECT id, submitted_at, order_id, symbol, side, order_type, quantity, price, stop_price, status, executed_qty, avg_price FROM order_history ORDER BY submitted_at DESC LIMIT $1`
	queryContext, queryCancel := context.WithTimeout(requestContext, 5*time.Second)
	defer queryCancel()

	rows, queryError := repository.Database.QueryContext(queryContext, querySQL, limit)
	if queryError != nil {
		return nil, errors.Wrap(queryError, "could not list order history")
	}
	defer rows.Close()

	var historyItems []domain.OrderHistoryItem
	for rows.Next() {
		var historyItem domain.OrderHistoryItem
		scanError := rows.Scan(&historyItem.Identifier, &historyItem.SubmittedAt, &historyItem.OrderID,
			&historyItem.Symbol, &historyItem.Side, &historyItem.OrderType, &historyItem.Quantity,
			&historyItem.Price, &historyItem.StopPrice, &historyItem.Status,
			&historyItem.ExecutedQuantity, &historyItem.AveragePrice)
		if scanError != nil {
			return nil, errors.Wrap(scanError, "could not scan order history row")
		}
		historyItems = append(historyItems, historyItem)
	}

	return historyItems, rows.Err()
}
