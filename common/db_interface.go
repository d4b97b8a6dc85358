package common

import "errors"

var (
	ErrKeyNotFound = errors.New("Key not found")
)

type ReadBatch interface {
	Get(key []byte) ([]byte, error)           // 获得数据的新copy
	MultiGet(keys [][]byte) ([][]byte, error) // 不存在的key对应nil
}

// 每个调用都是完整的transaction
type KVDB interface {
	Read(key []byte) ([]byte, error)
	Write(key, value []byte) error
	Delete(key []byte) error
	Close() error

	// 遍历读
	BatchRead(prefix []byte, reverse bool, r func(k, v []byte) error) error

	// 多次读，同一个快照
	View(func(ReadBatch) error) error
}
