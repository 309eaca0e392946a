package store

import (
	"context"
	"testing"

	"ingredient-recipe/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGormStore(t *testing.T) *GormStore {
	t.Helper()
	s, err := NewGormStore("sqlite", ":memory:")
	require.NoError(t, err)
	s.now = tickingClock()
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGormStore(t *testing.T) {
	runStoreSuite(t, newTestGormStore(t))
}

func TestGormStoreRejectsUnknownDriver(t *testing.T) {
	_, err := NewGormStore("mysql", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported gorm driver")
}

func TestNewFromConfigSQLite(t *testing.T) {
	s, err := NewFromConfig(context.Background(), config.StoreConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &GormStore{}, s)
	assert.NoError(t, s.Ping(context.Background()))

	_, err = NewFromConfig(context.Background(), config.StoreConfig{Driver: "mongo"})
	assert.Error(t, err)
}

func TestStringArrayScan(t *testing.T) {
	var a StringArray
	require.NoError(t, a.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringArray{"a", "b"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Equal(t, StringArray{}, a)

	assert.Error(t, a.Scan(42))

	v, err := StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
