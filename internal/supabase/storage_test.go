package supabase_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nemora-backend/internal/supabase"
)

func TestNewStorageClient_RequiresURL(t *testing.T) {
	_, err := supabase.NewStorageClient("", "key", "uploads")
	assert.Error(t, err)
}

func TestStorageClient_GetPublicURL(t *testing.T) {
	client, err := supabase.NewStorageClient("https://proj.supabase.co/", "key", "uploads")
	require.NoError(t, err)

	assert.Equal(t,
		"https://proj.supabase.co/storage/v1/object/public/uploads/uploads/1-a.png",
		client.GetPublicURL("uploads/1-a.png"),
	)
}

func TestStorageClient_MirrorUpload(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		body   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path, body = r.Method, r.URL.Path, string(data)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Key":"uploads/uploads/1700000000000-logo.png"}`))
	}))
	defer srv.Close()

	local := filepath.Join(t.TempDir(), "1700000000000-logo.png")
	require.NoError(t, os.WriteFile(local, []byte("png-bytes"), 0o644))

	client, err := supabase.NewStorageClient(srv.URL, "service-key", "uploads")
	require.NoError(t, err)

	publicURL, err := client.MirrorUpload("1700000000000-logo.png", local)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/uploads/uploads/1700000000000-logo.png", publicURL)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/storage/v1/object/uploads/uploads/1700000000000-logo.png", path)
	assert.Contains(t, body, "png-bytes")
}

func TestStorageClient_MirrorUploadMissingFile(t *testing.T) {
	client, err := supabase.NewStorageClient("https://proj.supabase.co", "key", "uploads")
	require.NoError(t, err)

	_, err = client.MirrorUpload("gone.png", filepath.Join(t.TempDir(), "gone.png"))
	assert.Error(t, err)
}
