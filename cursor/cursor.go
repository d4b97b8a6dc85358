// Package cursor encodes the opaque keyset pagination token: base64 (no
// padding) of an 8 byte big endian millisecond timestamp followed by
// the 32 byte asset pubkey.
package cursor

import (
	"encoding/base64"
	"encoding/binary"
	"time"

	"github.com/sat20-labs/l2asset/common"
)

const (
	TIMESTAMP_LEN = 8
	CURSOR_LEN    = TIMESTAMP_LEN + common.PUBKEY_LEN
)

var encoding = base64.RawStdEncoding

func Encode(ms int64, pk common.PublicKey) string {
	buf := make([]byte, CURSOR_LEN)
	binary.BigEndian.PutUint64(buf[:TIMESTAMP_LEN], uint64(ms))
	copy(buf[TIMESTAMP_LEN:], pk[:])
	return encoding.EncodeToString(buf)
}

func EncodeTime(t time.Time, pk common.PublicKey) string {
	return Encode(t.UnixMilli(), pk)
}

func Decode(s string) (int64, common.PublicKey, error) {
	var pk common.PublicKey
	raw, err := encoding.DecodeString(s)
	if err != nil {
		return 0, pk, common.ErrInvalidCursor.Wrap(err)
	}
	if len(raw) < TIMESTAMP_LEN {
		return 0, pk, common.ErrInvalidCursor.With("cursor too short: %d bytes", len(raw))
	}
	ms := int64(binary.BigEndian.Uint64(raw[:TIMESTAMP_LEN]))
	pk, err = common.PublicKeyFromBytes(raw[TIMESTAMP_LEN:])
	if err != nil {
		return 0, pk, common.ErrInvalidCursor.With("cursor pubkey must be %d bytes, got %d",
			common.PUBKEY_LEN, len(raw)-TIMESTAMP_LEN)
	}
	return ms, pk, nil
}

// DecodeTime decodes s and returns the timestamp in UTC.
func DecodeTime(s string) (time.Time, common.PublicKey, error) {
	ms, pk, err := Decode(s)
	if err != nil {
		return time.Time{}, pk, err
	}
	return time.UnixMilli(ms).UTC(), pk, nil
}
