// Package cache stores rendered public responses for a fixed TTL.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hidromont/site-backend/config"
)

// Cache is a byte store with a fixed time-to-live. Get never returns an
// entry older than the TTL.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Purge() error
}

const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverNone   = "none"
)

// Key hashes an operation name and its parameters into a stable cache key.
func Key(op string, params ...any) string {
	encoded, err := json.Marshal(params)
	if err != nil {
		encoded = []byte(fmt.Sprint(params...))
	}
	sum := sha1.Sum(append([]byte(op+"|"), encoded...))
	return op + "_" + hex.EncodeToString(sum[:])
}

// FromConfig builds the cache selected by CACHE_DRIVER. A TTL of zero
// disables caching.
func FromConfig(c map[string]string) (Cache, error) {
	ttl := time.Duration(config.GetInt(c, "CACHE_TTL", 120)) * time.Second
	if ttl <= 0 {
		return Nop{}, nil
	}

	switch driver := strings.ToLower(config.GetString(c, "CACHE_DRIVER", DriverFile)); driver {
	case DriverFile:
		return NewFile(config.GetString(c, "CACHE_DIR", "./cache"), ttl)
	case DriverMemory:
		return NewMemory(ttl), nil
	case DriverNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown CACHE_DRIVER %q", driver)
	}
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(string) ([]byte, bool) { return nil, false }
func (Nop) Put(string, []byte) error  { return nil }
func (Nop) Purge() error              { return nil }
