// Package history records pipeline runs so scores can be compared over time.
package history

import (
	"sync"

	"github.com/huangsam/opsreport/internal/contract"
)

// StoreManager holds the history store of the process.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.HistoryStore
}

var _ contract.HistoryManager = &StoreManager{} // Compile-time check

// GetHistoryStore returns the history store, or nil when tracking is not initialized.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}

// NewStoreManager wraps an existing store. Tests use it to inject a store.
func NewStoreManager(store contract.HistoryStore) *StoreManager {
	return &StoreManager{store: store}
}
