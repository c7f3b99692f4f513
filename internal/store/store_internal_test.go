package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nemora-backend/internal/models"
)

func pinnedStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

func TestSaveUpload_SameNameSameMillisecond(t *testing.T) {
	s := pinnedStore(t)

	nameA, err := s.SaveUpload("logo.png", strings.NewReader("customer-A"))
	require.NoError(t, err)
	nameB, err := s.SaveUpload("logo.png", strings.NewReader("customer-B"))
	require.NoError(t, err)

	assert.Equal(t, "1700000000000-logo.png", nameA)
	assert.NotEqual(t, nameA, nameB)

	dataA, err := os.ReadFile(s.UploadPath(nameA))
	require.NoError(t, err)
	assert.Equal(t, "customer-A", string(dataA))

	dataB, err := os.ReadFile(s.UploadPath(nameB))
	require.NoError(t, err)
	assert.Equal(t, "customer-B", string(dataB))
}

func TestSaveUpload_ConcurrentSameName(t *testing.T) {
	s := pinnedStore(t)

	const n = 10
	names := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name, err := s.SaveUpload("logo.png", strings.NewReader("x"))
			assert.NoError(t, err)
			names[i] = name
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, name := range names {
		assert.False(t, seen[name], "duplicate stored name %s", name)
		seen[name] = true
	}
}

func TestSaveUpload_GivesUpAfterBoundedAttempts(t *testing.T) {
	s := pinnedStore(t)
	for i := 0; i < uploadNameAttempts; i++ {
		_, err := s.SaveUpload("logo.png", strings.NewReader("x"))
		require.NoError(t, err)
	}

	_, err := s.SaveUpload("logo.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestCreateOrder_FallsBackWithoutHardLinks(t *testing.T) {
	s := pinnedStore(t)

	orig := linkFile
	linkFile = func(oldname, newname string) error {
		return &os.LinkError{Op: "link", Old: oldname, New: newname, Err: errors.New("operation not supported")}
	}
	t.Cleanup(func() { linkFile = orig })

	order := &models.Order{ID: "1700000000000-abc123", FileURL: "u"}
	require.NoError(t, s.CreateOrder(order))

	got, err := s.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "u", got.FileURL)

	entries, err := os.ReadDir(s.OrdersDir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, order.ID+".json", entries[0].Name())

	assert.ErrorIs(t, s.CreateOrder(order), ErrOrderExists)
	assert.FileExists(t, filepath.Join(s.OrdersDir(), order.ID+".json"))
}
