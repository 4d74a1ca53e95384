package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futures-gateway/internal/domain"
)

func TestMemoryOrderHistoryRepository_ListsNewestFirst(t *testing.T) {
	historyRepository := NewMemoryOrderHistoryRepository()

	baseTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for index, identifier := range []string{"first", "second", "third"} {
		appendError := historyRepository.AppendOrderHistoryItem(context.Background(), domain.OrderHistoryItem{
			Identifier:  identifier,
			Symbol:      "BTCUSDT",
			SubmittedAt: baseTime.Add(time.Duration(index) * time.Second),
		})
		require.NoError(t, appendError)
	}

	historyItems, listError := historyRepository.ListRecentOrderHistory(context.Background(), 10)
	require.NoError(t, listError)

	require.Len(t, historyItems, 3)
	assert.Equal(t, "third", historyItems[0].Identifier)
	assert.Equal(t, "second", historyItems[1].Identifier)
	assert.Equal(t, "first", historyItems[2].Identifier)
}

func TestMemoryOrderHistoryRepository_RespectsLimit(t *testing.T) {
	historyRepository := NewMemoryOrderHistoryRepository()

	baseTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for index := 0; index < 5; index++ {
		appendError := historyRepository.AppendOrderHistoryItem(context.Background(), domain.OrderHistoryItem{
			SubmittedAt: baseTime.Add(time.Duration(index) * time.Second),
		})
		require.NoError(t, appendError)
	}

	historyItems, listError := historyRepository.ListRecentOrderHistory(context.Background(), 2)
	require.NoError(t, listError)
	assert.Len(t, historyItems, 2)
}

func TestMemoryOrderHistoryRepository_EmptyList(t *testing.T) {
	historyRepository := NewMemoryOrderHistoryRepository()

	historyItems, listError := historyRepository.ListRecentOrderHistory(context.Background(), 10)
	require.NoError(t, listError)
	assert.Empty(t, historyItems)
}
