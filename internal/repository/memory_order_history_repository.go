package repository

import (
	"context"
	"sort"
	"sync"

	"futures-gateway/internal/domain"
)

// MemoryOrderHistoryRepository keeps the history in process memory. Used when
// no database is configured (demo runs without external services) and in tests.
type MemoryOrderHistoryRepository struct {
	mutex        sync.RWMutex
	historyItems []domain.OrderHistoryItem
}

func NewMemoryOrderHistoryRepository() *MemoryOrderHistoryRepository {
	return &MemoryOrderHistoryRepository{}
}

func (repository *MemoryOrderHistoryRepository) AppendOrderHistoryItem(_ context.Context, historyItem domain.OrderHistoryItem) error {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	repository.historyItems = append(repository.historyItems, historyItem)
	return nil
}

func (repository *MemoryOrderHistoryRepository) ListRecentOrderHistory(_ context.Context, limit int) ([]domain.OrderHistoryItem, error) {
	repository.mutex.RLock()
	defer repository.mutex.RUnlock()

	sortedItems := make([]domain.OrderHistoryItem, len(repository.historyItems))
	copy(sortedItems, repository.historyItems)
	sort.SliceStable(sortedItems, func(left int, right int) bool {
		return sortedItems[left].SubmittedAt.After(sortedItems[right].SubmittedAt)
	})

	if limit > 0 && limit < len(sortedItems) {
		sortedItems = sortedItems[:limit]
	}

	return sortedItems, nil
}
