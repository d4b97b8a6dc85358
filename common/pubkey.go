package common

import (
	"bytes"

	"github.com/btcsuite/btcd/btcutil/base58"
)

const PUBKEY_LEN = 32

// ed25519 public key, also the asset id
type PublicKey [PUBKEY_LEN]byte

func PublicKeyFromBase58(s string) (PublicKey, error) {
	var pk PublicKey
	if s == "" {
		return pk, ErrInvalidPubkey.With("empty public key")
	}
	raw := base58.Decode(s)
	if len(raw) != PUBKEY_LEN {
		return pk, ErrInvalidPubkey.With("%s is invalid", s)
	}
	copy(pk[:], raw)
	return pk, nil
}

func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PUBKEY_LEN {
		return pk, ErrInvalidPubkey.With("public key must be %d bytes, got %d", PUBKEY_LEN, len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

func (p PublicKey) String() string {
	return base58.Encode(p[:])
}

func (p PublicKey) Bytes() []byte {
	return append([]byte{}, p[:]...)
}

func (p PublicKey) IsZero() bool {
	return p == PublicKey{}
}

func (p PublicKey) Compare(o PublicKey) int {
	return bytes.Compare(p[:], o[:])
}

// SamePubkey reports whether s is the base58 form of pk.
func SamePubkey(s string, pk PublicKey) bool {
	other, err := PublicKeyFromBase58(s)
	if err != nil {
		return false
	}
	return other == pk
}
