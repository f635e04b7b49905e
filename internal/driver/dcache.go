package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when CachedResult format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты анализа пар документов по ключу из содержимого.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedResult is one analysed pair. Spans are stored as offsets into the
// before (File 0) or after (File 1) document.
type CachedResult struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Session  string
	Provider string
	Created  int64 // unix seconds

	Diagnostics []CachedDiagnostic
	Outcomes    []CachedOutcome
}

type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	File     uint8
	Start    uint32
	End      uint32
	Detached bool
	Arg      string
	Message  string
	Category uint8
}

type CachedOutcome struct {
	ID       int
	Leaf     bool
	State    uint8
	BStart   uint32
	BEnd     uint32
	Start    uint32
	End      uint32
	HasAfter bool
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as the cache root.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первому байту, чтобы не плодить тысячи файлов в одном месте
	return filepath.Join(c.dir, "pairs", hexKey[:2], hexKey+".mp.zst")
}

// Put serializes, compresses and atomically writes a payload.
func (c *DiskCache) Put(key Digest, payload *CachedResult) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(zw).Encode(payload); err != nil {
		_ = zw.Close()
		return err
	}
	if err = zw.Close(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or a payload of another schema is a miss.
func (c *DiskCache) Get(key Digest, out *CachedResult) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return false, err
	}
	defer zr.Close()
	if err := msgpack.NewDecoder(zr).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
