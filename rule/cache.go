package rule

import (
	"context"
	"fmt"

	"github.com/minio/highwayhash"
	"github.com/viant/afs"
	"github.com/viant/wasmlint/wasm"
)

var digestKey = []byte("0123456789ABCDEF0123456789ABCDEF")

func digest(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(digestKey)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}

// Stats counts cache activity.
type Stats struct {
	Stats   int // existence checks
	Reads   int // file reads
	Decodes int // decoded buffers
}

type module struct {
	exists    bool
	statErr   error
	checked   bool
	loaded    bool
	exports   *wasm.ExportTable
	decodeErr error
}

type decoded struct {
	exports *wasm.ExportTable
	err     error
}

// Cache memoizes existence checks and decoded export tables for one lint run.
// Paths are stat'ed and read at most once; identical contents found at
// different paths are decoded once. A Cache is not safe for concurrent use.
type Cache struct {
	fs       afs.Service
	validate bool
	modules  map[string]*module
	digests  map[uint64]*decoded
	stats    Stats
}

// NewCache creates an empty cache reading through fs.
func NewCache(fs afs.Service, validate bool) *Cache {
	if fs == nil {
		fs = afs.New()
	}
	return &Cache{
		fs:       fs,
		validate: validate,
		modules:  make(map[string]*module),
		digests:  make(map[uint64]*decoded),
	}
}

// Stats returns activity counters.
func (c *Cache) Stats() Stats {
	return c.stats
}

func (c *Cache) module(path string) *module {
	m, ok := c.modules[path]
	if !ok {
		m = &module{}
		c.modules[path] = m
	}
	return m
}

// Exists reports whether a file exists at path.
func (c *Cache) Exists(ctx context.Context, path string) (bool, error) {
	m := c.module(path)
	if !m.checked {
		m.checked = true
		c.stats.Stats++
		m.exists, m.statErr = c.fs.Exists(ctx, path)
		if m.statErr != nil {
			m.statErr = fmt.Errorf("failed to check %s: %w", path, m.statErr)
		}
	}
	return m.exists, m.statErr
}

// Exports reads and decodes the module at path.
func (c *Cache) Exports(ctx context.Context, path string) (*wasm.ExportTable, error) {
	m := c.module(path)
	if m.loaded {
		return m.exports, m.decodeErr
	}
	m.loaded = true
	m.exports, m.decodeErr = c.load(ctx, path)
	return m.exports, m.decodeErr
}

func (c *Cache) load(ctx context.Context, path string) (*wasm.ExportTable, error) {
	c.stats.Reads++
	data, err := c.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	sum, err := digest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	if shared, ok := c.digests[sum]; ok {
		return shared.exports, shared.err
	}
	c.stats.Decodes++
	result := &decoded{}
	result.exports, result.err = wasm.Decode(data)
	if result.err == nil && c.validate {
		if result.err = wasm.Validate(ctx, data); result.err != nil {
			result.exports = nil
		}
	}
	c.digests[sum] = result
	return result.exports, result.err
}
