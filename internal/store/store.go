package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"nemora-backend/internal/models"
)

// linkFile publishes a finished order file. Overridden in tests.
var linkFile = os.Link

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrOrderExists   = errors.New("order already exists")
)

const (
	uploadNameAttempts = 16
	idSuffixLength     = 6
	base36             = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Store keeps uploaded files and order documents on the local filesystem.
// The directory contents are the only record: there is no index.
type Store struct {
	uploadsDir string
	ordersDir  string
	now        func() time.Time
}

func NewStore(dataDir string) (*Store, error) {
	s := &Store{
		uploadsDir: filepath.Join(dataDir, "uploads"),
		ordersDir:  filepath.Join(dataDir, "orders"),
		now:        time.Now,
	}
	for _, dir := range []string{s.uploadsDir, s.ordersDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return s, nil
}

func (s *Store) UploadsDir() string { return s.uploadsDir }
func (s *Store) OrdersDir() string  { return s.ordersDir }

// SanitizeFilename replaces every character outside [a-zA-Z0-9._-] with '_'.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// SaveUpload writes the body under {unix_ms}-{sanitized name} and returns the
// stored name. An existing upload is never replaced: on a name clash the
// millisecond is bumped and the create retried.
func (s *Store) SaveUpload(originalName string, body io.Reader) (string, error) {
	safeName := SanitizeFilename(originalName)
	ms := s.now().UnixMilli()

	var (
		storedName string
		f          *os.File
	)
	for attempt := 0; ; attempt++ {
		storedName = fmt.Sprintf("%d-%s", ms+int64(attempt), safeName)
		var err error
		f, err = os.OpenFile(filepath.Join(s.uploadsDir, storedName), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) || attempt == uploadNameAttempts-1 {
			return "", fmt.Errorf("failed to create upload file: %w", err)
		}
	}

	dst := f.Name()
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to close upload file: %w", err)
	}
	return storedName, nil
}

// UploadPath is the local path of a stored upload name.
func (s *Store) UploadPath(storedName string) string {
	return filepath.Join(s.uploadsDir, filepath.Base(storedName))
}

// ResolveUpload maps a file URL (absolute or a bare path) to the local upload
// with the same base name and reports whether that file still exists.
func (s *Store) ResolveUpload(fileURL string) (string, bool) {
	if fileURL == "" {
		return "", false
	}
	pathname := fileURL
	if u, err := url.Parse(fileURL); err == nil && u.Path != "" {
		pathname = u.Path
	}
	base := path.Base(pathname)
	if base == "" || base == "." || base == "/" || base == ".." {
		return "", false
	}
	local := filepath.Join(s.uploadsDir, base)
	info, err := os.Stat(local)
	if err != nil || info.IsDir() {
		return "", false
	}
	return local, true
}

// NewOrderID returns {unix_ms}-{6 random base36 chars}.
func NewOrderID(now time.Time) (string, error) {
	suffix := make([]byte, idSuffixLength)
	max := big.NewInt(int64(len(base36)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate order id: %w", err)
		}
		suffix[i] = base36[n.Int64()]
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + string(suffix), nil
}

func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}

func (s *Store) orderPath(id string) string {
	return filepath.Join(s.ordersDir, id+".json")
}

// CreateOrder writes the whole document to a temp file in the orders
// directory and renames it into place, so readers see either nothing or the
// complete document. An existing id is never overwritten.
func (s *Store) CreateOrder(order *models.Order) error {
	if !validID(order.ID) {
		return fmt.Errorf("invalid order id %q", order.ID)
	}

	data, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}

	final := s.orderPath(order.ID)
	if _, err := os.Stat(final); err == nil {
		return ErrOrderExists
	}

	tmp, err := os.CreateTemp(s.ordersDir, ".tmp-"+order.ID+"-*")
	if err != nil {
		return fmt.Errorf("failed to create order file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write order file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close order file: %w", err)
	}
	// Link refuses to replace an existing name, unlike Rename.
	err = linkFile(tmpName, final)
	switch {
	case err == nil:
		os.Remove(tmpName)
	case errors.Is(err, os.ErrExist):
		os.Remove(tmpName)
		return ErrOrderExists
	default:
		// Filesystems without hard links: the Stat above is the only
		// overwrite guard left.
		if err := os.Rename(tmpName, final); err != nil {
			os.Remove(tmpName)
			return fmt.Errorf("failed to store order file: %w", err)
		}
	}
	return nil
}

func (s *Store) GetOrder(id string) (*models.Order, error) {
	if !validID(id) {
		return nil, ErrOrderNotFound
	}
	data, err := os.ReadFile(s.orderPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to read order: %w", err)
	}

	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order %s: %w", id, err)
	}
	return &order, nil
}

// ListOrders scans the orders directory, newest first. Unreadable documents are skipped.
func (s *Store) ListOrders() ([]models.Order, error) {
	entries, err := os.ReadDir(s.ordersDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]models.Order, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		order, err := s.GetOrder(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		orders = append(orders, *order)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt > orders[j].CreatedAt
	})
	return orders, nil
}
