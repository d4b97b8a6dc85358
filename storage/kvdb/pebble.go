package kvdb

import (
	"errors"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
	"github.com/sat20-labs/l2asset/common"
)

type pebbleDB struct {
	path string
	db   *pebble.DB
}

// 元数据读多写少，点查为主：适中的 cache + bloom
func pebbleOptions(cacheSizeMB int) *pebble.Options {
	if cacheSizeMB <= 0 {
		cacheSizeMB = 64
	}
	cache := pebble.NewCache(int64(cacheSizeMB) << 20)

	o := &pebble.Options{
		Cache:        cache,
		MaxOpenFiles: 1000,
		MemTableSize: 16 << 20,
		Levels: func() []pebble.LevelOptions {
			lvls := make([]pebble.LevelOptions, 7)
			for i := range lvls {
				lvls[i].BlockSize = 8 << 10
				lvls[i].FilterPolicy = bloom.FilterPolicy(10)
				lvls[i].FilterType = pebble.TableFilter
			}
			return lvls
		}(),
	}
	return o
}

func NewPebbleDB(path string, cacheSizeMB int) (common.KVDB, error) {
	if path == "" {
		path = "./data/objstore"
	}
	o := pebbleOptions(cacheSizeMB)
	db, err := pebble.Open(path, o)
	// Open 持有自己的 cache 引用
	o.Cache.Unref()
	if err != nil {
		common.Log.Errorf("open pebble db %s failed, %v", path, err)
		return nil, err
	}
	return &pebbleDB{path: path, db: db}, nil
}

func (p *pebbleDB) Read(key []byte) ([]byte, error) {
	val, closer, err := p.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, common.ErrKeyNotFound
		}
		return nil, err
	}
	defer closer.Close()
	return append([]byte{}, val...), nil
}

func (p *pebbleDB) Write(key, value []byte) error {
	return p.db.Set(key, value, pebble.Sync)
}

func (p *pebbleDB) Delete(key []byte) error {
	return p.db.Delete(key, pebble.Sync)
}

func (p *pebbleDB) Close() error {
	return p.db.Close()
}

// nextPrefix 返回“字典序上紧邻 prefix 的下界”，可作为 UpperBound（开区间）。
// 若 prefix 全为 0xFF，返回 nil（表示无上界）。
// key 都是 ascii 前缀
func (p *pebbleDB) Compact() error {
	return p.db.Compact([]byte{0x00}, []byte{0xff}, true)
}

func nextPrefix(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	out := append([]byte{}, prefix...)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] != 0xFF {
			out[i]++
			return out[:i+1]
		}
	}
	return nil
}

func (p *pebbleDB) BatchRead(prefix []byte, reverse bool, r func(k, v []byte) error) error {
	opts := &pebble.IterOptions{}
	if len(prefix) > 0 {
		opts.LowerBound = prefix
		opts.UpperBound = nextPrefix(prefix)
	}
	it, err := p.db.NewIter(opts)
	if err != nil {
		return err
	}
	defer it.Close()

	var ok bool
	if reverse {
		ok = it.Last()
	} else {
		ok = it.First()
	}
	for ok {
		if err := r(append([]byte{}, it.Key()...), append([]byte{}, it.Value()...)); err != nil {
			return err
		}
		if reverse {
			ok = it.Prev()
		} else {
			ok = it.Next()
		}
	}
	return it.Error()
}

type pebbleReadBatch struct {
	snap *pebble.Snapshot
}

func (p *pebbleReadBatch) Get(key []byte) ([]byte, error) {
	val, closer, err := p.snap.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, common.ErrKeyNotFound
		}
		return nil, err
	}
	defer closer.Close()
	return append([]byte{}, val...), nil
}

func (p *pebbleReadBatch) MultiGet(keys [][]byte) ([][]byte, error) {
	result := make([][]byte, len(keys))
	for i, key := range keys {
		val, err := p.Get(key)
		if err == common.ErrKeyNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		result[i] = val
	}
	return result, nil
}

func (p *pebbleDB) View(fn func(common.ReadBatch) error) error {
	snap := p.db.NewSnapshot()
	defer snap.Close()
	return fn(&pebbleReadBatch{snap: snap})
}
