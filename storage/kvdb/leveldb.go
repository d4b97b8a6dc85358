package kvdb

import (
	"github.com/sat20-labs/l2asset/common"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

type levelDB struct {
	path string
	db   *leveldb.DB
}

func NewLevelDB(path string, cacheSizeMB int) (common.KVDB, error) {
	if path == "" {
		path = "./data/objstore"
	}
	o := &opt.Options{}
	if cacheSizeMB > 0 {
		o.BlockCacheCapacity = cacheSizeMB * opt.MiB
	}
	db, err := leveldb.OpenFile(path, o)
	if err != nil {
		common.Log.Errorf("open leveldb %s failed, %v", path, err)
		return nil, err
	}
	return &levelDB{path: path, db: db}, nil
}

func (p *levelDB) Read(key []byte) ([]byte, error) {
	val, err := p.db.Get(key, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, common.ErrKeyNotFound
		}
		return nil, err
	}
	return append([]byte{}, val...), nil
}

func (p *levelDB) Write(key, value []byte) error {
	return p.db.Put(key, value, &opt.WriteOptions{Sync: true})
}

func (p *levelDB) Delete(key []byte) error {
	return p.db.Delete(key, &opt.WriteOptions{Sync: true})
}

func (p *levelDB) Close() error {
	return p.db.Close()
}

func (p *levelDB) Compact() error {
	return p.db.CompactRange(util.Range{})
}

func (p *levelDB) BatchRead(prefix []byte, reverse bool, r func(k, v []byte) error) error {
	var rng *util.Range
	if len(prefix) > 0 {
		rng = util.BytesPrefix(prefix)
	}
	it := p.db.NewIterator(rng, nil)
	defer it.Release()

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

type levelReadBatch struct {
	snap *leveldb.Snapshot
}

func (p *levelReadBatch) Get(key []byte) ([]byte, error) {
	val, err := p.snap.Get(key, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, common.ErrKeyNotFound
		}
		return nil, err
	}
	return append([]byte{}, val...), nil
}

func (p *levelReadBatch) MultiGet(keys [][]byte) ([][]byte, error) {
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

func (p *levelDB) View(fn func(common.ReadBatch) error) error {
	snap, err := p.db.GetSnapshot()
	if err != nil {
		return err
	}
	defer snap.Release()
	return fn(&levelReadBatch{snap: snap})
}
