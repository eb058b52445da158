package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		want    Record
	}{
		{
			name:    "missing file yields empty record",
			content: nil,
			want:    Record{},
		},
		{
			name:    "empty file yields empty record",
			content: strPtr(""),
			want:    Record{},
		},
		{
			name:    "corrupt file yields empty record",
			content: strPtr(`{"metric_id": "m_1",`),
			want:    Record{},
		},
		{
			name:    "wrong shape yields empty record",
			content: strPtr(`["metric_id"]`),
			want:    Record{},
		},
		{
			name:    "wrong field type yields empty record",
			content: strPtr(`{"metric_id": 42}`),
			want:    Record{},
		},
		{
			name:    "valid file is decoded",
			content: strPtr(`{"metric_id": "m_123", "prices_by_tier": {"ultra": 10}}`),
			want:    Record{MetricID: "m_123", PricesByTier: map[string]int64{"ultra": 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "state.json")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0600))
			}

			assert.Equal(t, tt.want, Load(path))
			assert.Equal(t, tt.want, NewFileStore(path, nil).Load())
		})
	}
}

func TestReadFile_ReportsCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, err := ReadFile(path)
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	rec := Record{
		MetricID:     "m_123",
		RateCardID:   "rc_1",
		PricesByTier: map[string]int64{"standard": 2},
	}

	require.NoError(t, Save(path, rec))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"metric_id\": \"m_123\"")
	assert.NotContains(t, string(data), "customer_id")

	assert.Equal(t, rec, Load(path))
}

func TestSave_OverwritesWholeRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, Save(path, Record{MetricID: "m_1", ContractID: "c_1"}))
	require.NoError(t, Save(path, Record{MetricID: "m_2"}))

	assert.Equal(t, Record{MetricID: "m_2"}, Load(path))
}

func TestFileStore_GetSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path, nil)

	_, ok := store.Get(KeyMetricID)
	assert.False(t, ok)

	require.NoError(t, store.Set(KeyMetricID, "m_123"))
	require.NoError(t, store.Set(KeyCustomerID, "cust_1"))

	id, ok := store.Get(KeyMetricID)
	assert.True(t, ok)
	assert.Equal(t, "m_123", id)

	// A fresh store over the same file sees the persisted fields.
	assert.Equal(t, Record{MetricID: "m_123", CustomerID: "cust_1"}, NewFileStore(path, nil).Load())
}

func TestFileStore_SetUnknownKey(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "state.json"), nil)

	err := store.Set("nope", "value")
	assert.Error(t, err)
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr), "failed set must not create the file")
}

func TestFileStore_SetRecoversFromCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0600))
	store := NewFileStore(path, nil)

	require.NoError(t, store.Set(KeyProductID, "p_1"))

	assert.Equal(t, Record{ProductID: "p_1"}, Load(path))
}

func TestFileStore_DeletedFileIsFreshState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path, nil)
	require.NoError(t, store.Update(func(rec *Record) {
		rec.MetricID = "m_1"
		rec.PricesByTier = map[string]int64{"ultra": 10}
	}))

	require.NoError(t, os.Remove(path))

	assert.True(t, store.Load().IsEmpty())
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(Record{CustomerID: "cust_1"})

	require.NoError(t, store.Set(KeyContractID, "c_1"))
	rec := store.Load()
	assert.Equal(t, "cust_1", rec.CustomerID)
	assert.Equal(t, "c_1", rec.ContractID)
	assert.Equal(t, 1, store.Saves())

	// Mutating a loaded copy does not leak into the store.
	rec.PricesByTier = map[string]int64{"ultra": 99}
	assert.Nil(t, store.Load().PricesByTier)

	store.Reset()
	assert.True(t, store.Load().IsEmpty())
}

func strPtr(s string) *string { return &s }
