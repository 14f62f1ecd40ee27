package history

import (
	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// RecordIngestion implements the HistoryStore interface.
func (m *MockHistoryStore) RecordIngestion(run schema.IngestionRunRecord, totals []schema.PeriodTotalRecord) error {
	args := m.Called(run, totals)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllIngestionRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllIngestionRuns() ([]schema.IngestionRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.IngestionRunRecord)
	return runs, args.Error(1)
}

// GetAllPeriodTotals implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllPeriodTotals() ([]schema.PeriodTotalRecord, error) {
	args := m.Called()
	totals, _ := args.Get(0).([]schema.PeriodTotalRecord)
	return totals, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
