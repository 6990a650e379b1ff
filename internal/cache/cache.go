package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"StockDesk/internal/model"
)

// DefaultTTL is the validity duration of a cached entry.
const DefaultTTL = 600 * time.Second

// entry is the on-disk and in-memory representation of one cached fetch.
type entry struct {
	FetchedAt time.Time          `json:"fetched_at"`
	Data      *model.FetchResult `json:"data"`
}

// probe is the on-disk representation of a validation marker. It lives in a
// separate namespace from full fetches so a probe can never be read back as
// real payload data.
type probe struct {
	FetchedAt time.Time `json:"fetched_at"`
	Valid     bool      `json:"valid"`
}

// Cache memoizes fetch results per (symbol, period) with a TTL. Two tiers:
// a mutex-guarded in-memory map, and a best-effort per-key JSON file mirror
// that survives process restarts. The in-memory tier is authoritative; disk
// write failures are logged and swallowed.
type Cache struct {
	mu     sync.Mutex
	mem    map[string]entry
	probes map[string]time.Time
	dir    string
	ttl    time.Duration
	now    func() time.Time
}

// New creates a Cache backed by the given directory, creating it if needed.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{
		mem:    make(map[string]entry),
		probes: make(map[string]time.Time),
		dir:    dir,
		ttl:    DefaultTTL,
		now:    time.Now,
	}, nil
}

// sanitize maps a symbol onto a safe file name component. Symbols reach the
// cache straight from user search input; anything outside the ticker
// alphabet is replaced so a key can never traverse out of the cache dir.
func sanitize(symbol string) string {
	var b strings.Builder
	for _, r := range symbol {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '^', r == '&', r == '=':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func key(symbol string, period model.Period) string {
	return sanitize(symbol) + "_" + string(period)
}

func (c *Cache) entryPath(symbol string, period model.Period) string {
	return filepath.Join(c.dir, key(symbol, period)+".json")
}

func (c *Cache) probePath(symbol string) string {
	return filepath.Join(c.dir, sanitize(symbol)+".valid.json")
}

func (c *Cache) fresh(fetchedAt time.Time) bool {
	return c.now().Sub(fetchedAt) < c.ttl
}

// Get returns the cached result for (symbol, period) if a fresh entry exists
// in memory or on disk. A fresh disk entry is promoted into memory.
func (c *Cache) Get(symbol string, period model.Period) (*model.FetchResult, bool) {
	k := key(symbol, period)

	c.mu.Lock()
	if e, ok := c.mem[k]; ok && c.fresh(e.FetchedAt) {
		c.mu.Unlock()
		return e.Data, true
	}
	c.mu.Unlock()

	data, err := os.ReadFile(c.entryPath(symbol, period))
	if err != nil {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		log.Printf("[WARN] corrupt cache entry for %s: %v", k, err)
		return nil, false
	}
	if e.Data == nil || !c.fresh(e.FetchedAt) {
		return nil, false
	}

	c.mu.Lock()
	c.mem[k] = e
	c.mu.Unlock()
	return e.Data, true
}

// Put stores a result under (symbol, period), superseding any previous
// entry. Memory is always updated; the disk mirror is best-effort.
func (c *Cache) Put(symbol string, period model.Period, res *model.FetchResult) {
	if res == nil {
		return
	}
	e := entry{FetchedAt: c.now(), Data: res}

	c.mu.Lock()
	c.mem[key(symbol, period)] = e
	c.mu.Unlock()

	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("[WARN] marshal cache entry for %s: %v", symbol, err)
		return
	}
	if err := os.WriteFile(c.entryPath(symbol, period), data, 0o644); err != nil {
		log.Printf("[WARN] write cache entry for %s: %v", symbol, err)
	}
}

// IsValid reports whether a fresh validation probe exists for the symbol.
func (c *Cache) IsValid(symbol string) bool {
	k := sanitize(symbol)

	c.mu.Lock()
	if at, ok := c.probes[k]; ok && c.fresh(at) {
		c.mu.Unlock()
		return true
	}
	c.mu.Unlock()

	data, err := os.ReadFile(c.probePath(symbol))
	if err != nil {
		return false
	}
	var p probe
	if err := json.Unmarshal(data, &p); err != nil || !p.Valid || !c.fresh(p.FetchedAt) {
		return false
	}

	c.mu.Lock()
	c.probes[k] = p.FetchedAt
	c.mu.Unlock()
	return true
}

// MarkValid records a successful existence check for the symbol.
func (c *Cache) MarkValid(symbol string) {
	at := c.now()

	c.mu.Lock()
	c.probes[sanitize(symbol)] = at
	c.mu.Unlock()

	data, err := json.Marshal(probe{FetchedAt: at, Valid: true})
	if err != nil {
		return
	}
	if err := os.WriteFile(c.probePath(symbol), data, 0o644); err != nil {
		log.Printf("[WARN] write validation probe for %s: %v", symbol, err)
	}
}

// Clear purges the in-memory tier and deletes every on-disk entry. Used for
// operator-triggered cache resets and schema changes.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.mem = make(map[string]entry)
	c.probes = make(map[string]time.Time)
	c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read cache dir: %w", err)
	}
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, de.Name())); err != nil {
			log.Printf("[WARN] remove cache file %s: %v", de.Name(), err)
		}
	}
	return nil
}
