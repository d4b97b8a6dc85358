package common

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDerivationValues(t *testing.T) {
	cases := []struct {
		seq     uint64
		account uint32
		address uint32
	}{
		{0, 0, 0},
		{1, 0, 1},
		{math.MaxUint32, 0, math.MaxUint32},
		{1 + math.MaxUint32, 1, 0},
		{2 + math.MaxUint32, 1, 1},
		{math.MaxUint64, math.MaxUint32, math.MaxUint32},
	}
	for _, c := range cases {
		v := NewDerivationValues(c.seq)
		assert.Equal(t, c.account, v.Account, "seq %d", c.seq)
		assert.Equal(t, c.address, v.Address, "seq %d", c.seq)
	}
}

func TestNewDerivationValues_Distinct(t *testing.T) {
	seen := make(map[DerivationValues]bool)
	start := uint64(math.MaxUint32 - 500)
	for i := uint64(0); i < 1000; i++ {
		v := NewDerivationValues(start + i)
		assert.False(t, seen[v], "pair %s issued twice", v)
		seen[v] = true
	}
}

func TestPublicKeyBase58(t *testing.T) {
	var pk PublicKey
	for i := range pk {
		pk[i] = byte(i + 1)
	}
	s := pk.String()
	back, err := PublicKeyFromBase58(s)
	assert.NoError(t, err)
	assert.Equal(t, pk, back)
	assert.True(t, SamePubkey(s, pk))

	_, err = PublicKeyFromBase58("")
	assert.True(t, errors.Is(err, ErrInvalidPubkey))

	// valid base58, wrong length
	_, err = PublicKeyFromBase58("3yZe7d")
	assert.True(t, IsKind(err, KIND_VALIDATION))

	// '0' is outside the alphabet
	_, err = PublicKeyFromBase58("0000")
	assert.Error(t, err)
	assert.False(t, SamePubkey("0000", pk))
}

func TestErrorKinds(t *testing.T) {
	err := ErrWrongName.With("expected %s, got %s", "A", "B")
	assert.True(t, errors.Is(err, ErrWrongName))
	assert.False(t, errors.Is(err, ErrWrongOwner))
	assert.Equal(t, KIND_VALIDATION, KindOf(err))
	assert.Equal(t, "wrong_name", CodeOf(err))

	wrapped := fmt.Errorf("mint: %w", ErrMintInFlight)
	assert.True(t, IsKind(wrapped, KIND_CONFLICT))
	assert.True(t, errors.Is(wrapped, ErrMintInFlight))

	cause := errors.New("connection refused")
	up := ErrLedger.Wrap(cause)
	assert.True(t, errors.Is(up, cause))
	assert.Equal(t, KIND_UPSTREAM, KindOf(up))
	assert.Contains(t, up.Error(), "connection refused")

	assert.Equal(t, KIND_INTERNAL, KindOf(errors.New("x")))
	assert.False(t, IsKind(nil, KIND_INTERNAL))
}

func TestParseSorting(t *testing.T) {
	by, err := ParseSortBy("none")
	assert.NoError(t, err)
	assert.Equal(t, SORT_BY_CREATED, by)
	by, err = ParseSortBy("Updated")
	assert.NoError(t, err)
	assert.Equal(t, SORT_BY_UPDATED, by)
	_, err = ParseSortBy("recent")
	assert.True(t, IsKind(err, KIND_VALIDATION))

	dir, err := ParseSortDirection("")
	assert.NoError(t, err)
	assert.Equal(t, SORT_DESC, dir)
	dir, err = ParseSortDirection("asc")
	assert.NoError(t, err)
	assert.Equal(t, SORT_ASC, dir)
}

func TestMetadataUri(t *testing.T) {
	var pk PublicKey
	pk[0] = 7
	assert.Equal(t, "http://localhost:8080/asset/"+pk.String()+"/metadata.json",
		MetadataUri("http://localhost:8080", pk))
}
