package zen

import (
	"fmt"
	"os"

	"github.com/dgraph-io/ristretto"
)

// includeCache memoizes parsed include scripts. Entries are keyed by path,
// modification time and size, so an edited file is parsed again.
type includeCache struct {
	cache *ristretto.Cache
}

func newIncludeCache(maxCost int64) (*includeCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("include cache: %w", err)
	}
	return &includeCache{cache: cache}, nil
}

// load returns the parsed program at path and whether it came from cache.
func (c *includeCache) load(path string) (*Program, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}
	key := fmt.Sprintf("%s|%d|%d", path, info.ModTime().UnixNano(), info.Size())
	if cached, ok := c.cache.Get(key); ok {
		if program, ok := cached.(*Program); ok {
			return program, true, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	program, err := Parse(string(data))
	if err != nil {
		return nil, false, err
	}
	program.path = path
	c.cache.Set(key, program, int64(len(data))+1)
	return program, false, nil
}

func (c *includeCache) close() {
	c.cache.Close()
}
