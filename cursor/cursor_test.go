package cursor

import (
	"encoding/base64"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/sat20-labs/l2asset/common"
	"github.com/stretchr/testify/assert"
)

func randomPubkey(r *rand.Rand) common.PublicKey {
	var pk common.PublicKey
	r.Read(pk[:])
	return pk
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	timestamps := []int64{0, 1, 1_700_000_000_123, math.MaxInt64, math.MinInt64, -1}
	for i := 0; i < 200; i++ {
		timestamps = append(timestamps, r.Int63())
	}
	for _, ts := range timestamps {
		pk := randomPubkey(r)
		s := Encode(ts, pk)
		gotTs, gotPk, err := Decode(s)
		assert.NoError(t, err)
		assert.Equal(t, ts, gotTs)
		assert.Equal(t, pk, gotPk)
	}
}

func TestEncodeLayout(t *testing.T) {
	var pk common.PublicKey
	for i := range pk {
		pk[i] = 0xAA
	}
	s := Encode(0x0102030405060708, pk)
	raw, err := base64.RawStdEncoding.DecodeString(s)
	assert.NoError(t, err)
	assert.Len(t, raw, 40)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, raw[:8])
	assert.Equal(t, pk[:], raw[8:])
	// no padding
	assert.NotContains(t, s, "=")
}

func TestTimeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	pk := randomPubkey(r)
	now := time.Date(2026, 3, 4, 5, 6, 7, 891_000_000, time.UTC)
	got, gotPk, err := DecodeTime(EncodeTime(now, pk))
	assert.NoError(t, err)
	assert.True(t, now.Equal(got))
	assert.Equal(t, pk, gotPk)
}

func TestDecodeInvalid(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	pk := randomPubkey(r)
	full, _ := base64.RawStdEncoding.DecodeString(Encode(42, pk))

	cases := map[string]string{
		"empty":          "",
		"not base64":     "!!!not-base64!!!",
		"padded":         base64.StdEncoding.EncodeToString(full),
		"short":          base64.RawStdEncoding.EncodeToString(full[:7]),
		"timestamp only": base64.RawStdEncoding.EncodeToString(full[:8]),
		"truncated key":  base64.RawStdEncoding.EncodeToString(full[:39]),
		"long key":       base64.RawStdEncoding.EncodeToString(append(full, 0)),
	}
	for name, s := range cases {
		_, _, err := Decode(s)
		assert.Error(t, err, name)
		assert.True(t, errors.Is(err, common.ErrInvalidCursor), name)
		assert.True(t, common.IsKind(err, common.KIND_VALIDATION), name)
	}
}
