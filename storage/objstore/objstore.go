package objstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sat20-labs/l2asset/common"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	DB_PREFIX_METADATA = "m-"
	DB_PREFIX_BLOB     = "b-"
	DB_PREFIX_MINT_SIG = "s-"
)

func GetMetadataKey(pk common.PublicKey) []byte {
	return []byte(DB_PREFIX_METADATA + pk.String())
}

func GetBlobKey(pk common.PublicKey) []byte {
	return []byte(DB_PREFIX_BLOB + pk.String())
}

func GetMintSignatureKey(pk common.PublicKey) []byte {
	return []byte(DB_PREFIX_MINT_SIG + pk.String())
}

type blobInDB struct {
	Mime string `msgpack:"mime"`
	Data []byte `msgpack:"data"`
}

// Store keeps asset metadata json and binary blobs in a kv database.
// A missing entry is reported through the ok result, never as an error.
type Store struct {
	db common.KVDB
}

func NewStore(db common.KVDB) *Store {
	return &Store{db: db}
}

func (p *Store) PutJson(ctx context.Context, pk common.PublicKey, metadata string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := p.db.Write(GetMetadataKey(pk), []byte(metadata))
	if err != nil {
		return errors.Wrapf(err, "put metadata of %s", pk)
	}
	return nil
}

func (p *Store) GetJson(ctx context.Context, pk common.PublicKey) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	val, err := p.db.Read(GetMetadataKey(pk))
	if err == common.ErrKeyNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "get metadata of %s", pk)
	}
	return string(val), true, nil
}

// GetJsonBatch reads all keys from one snapshot. Missing keys are absent
// from the result.
func (p *Store) GetJsonBatch(ctx context.Context, pks []common.PublicKey) (map[common.PublicKey]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := make(map[common.PublicKey]string, len(pks))
	if len(pks) == 0 {
		return result, nil
	}
	keys := make([][]byte, len(pks))
	for i, pk := range pks {
		keys[i] = GetMetadataKey(pk)
	}
	err := p.db.View(func(rb common.ReadBatch) error {
		vals, err := rb.MultiGet(keys)
		if err != nil {
			return err
		}
		for i, v := range vals {
			if v != nil {
				result[pks[i]] = string(v)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "get metadata batch")
	}
	return result, nil
}

func (p *Store) PutBinary(ctx context.Context, pk common.PublicKey, data []byte, mime string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	buf, err := msgpack.Marshal(&blobInDB{Mime: mime, Data: data})
	if err != nil {
		return err
	}
	err = p.db.Write(GetBlobKey(pk), buf)
	if err != nil {
		return errors.Wrapf(err, "put blob of %s", pk)
	}
	return nil
}

func (p *Store) GetBinary(ctx context.Context, pk common.PublicKey) ([]byte, string, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", false, err
	}
	val, err := p.db.Read(GetBlobKey(pk))
	if err == common.ErrKeyNotFound {
		return nil, "", false, nil
	}
	if err != nil {
		return nil, "", false, errors.Wrapf(err, "get blob of %s", pk)
	}
	var blob blobInDB
	if err := msgpack.Unmarshal(val, &blob); err != nil {
		return nil, "", false, errors.Wrapf(err, "decode blob of %s", pk)
	}
	return blob.Data, blob.Mime, true, nil
}

// PutMintSignature keeps the signature of a sent mint transaction whose
// attempt row could not be written, so a later sweep can still reconcile it.
func (p *Store) PutMintSignature(ctx context.Context, pk common.PublicKey, signature string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.db.Write(GetMintSignatureKey(pk), []byte(signature)); err != nil {
		return errors.Wrapf(err, "put mint signature of %s", pk)
	}
	return nil
}

func (p *Store) GetMintSignature(ctx context.Context, pk common.PublicKey) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	val, err := p.db.Read(GetMintSignatureKey(pk))
	if err == common.ErrKeyNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "get mint signature of %s", pk)
	}
	return string(val), true, nil
}

func (p *Store) DeleteMintSignature(ctx context.Context, pk common.PublicKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.db.Delete(GetMintSignatureKey(pk)); err != nil {
		return errors.Wrapf(err, "delete mint signature of %s", pk)
	}
	return nil
}

// Count returns the number of metadata documents. It walks the whole prefix.
func (p *Store) Count() (int, error) {
	count := 0
	err := p.db.BatchRead([]byte(DB_PREFIX_METADATA), false, func(k, v []byte) error {
		count++
		return nil
	})
	return count, err
}

func (p *Store) Close() error {
	return p.db.Close()
}
