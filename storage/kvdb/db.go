package kvdb

import (
	"fmt"

	"github.com/sat20-labs/l2asset/common"
)

const (
	ENGINE_PEBBLE  = "pebble"
	ENGINE_LEVELDB = "leveldb"
)

type Options struct {
	Engine      string
	Path        string
	CacheSizeMB int
}

// NewKVDB opens the engine named in opts, pebble when empty.
func NewKVDB(opts Options) (common.KVDB, error) {
	switch opts.Engine {
	case "", ENGINE_PEBBLE:
		return NewPebbleDB(opts.Path, opts.CacheSizeMB)
	case ENGINE_LEVELDB:
		return NewLevelDB(opts.Path, opts.CacheSizeMB)
	}
	return nil, fmt.Errorf("unsupported kv engine: %s", opts.Engine)
}

type compacter interface {
	Compact() error
}

// Compact opens the store described by opts, compacts the whole key space
// and closes it again.
func Compact(opts Options) error {
	db, err := NewKVDB(opts)
	if err != nil {
		return err
	}
	defer db.Close()
	c, ok := db.(compacter)
	if !ok {
		return fmt.Errorf("kv engine %s can't compact", opts.Engine)
	}
	return c.Compact()
}
