package wallet

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/sat20-labs/l2asset/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	hardenedOffset   = uint32(0x80000000)
	seedIterations   = 2048
	seedLen          = 64
	ed25519CurveSeed = "ed25519 seed"
)

// HdWalletProducer derives asset keypairs from an immutable master seed.
// It keeps no other state, so one value can be shared by any number of
// goroutines.
type HdWalletProducer struct {
	seed []byte
}

// NewHdWalletProducer builds the seed the way bip39 wallets do:
// PBKDF2-HMAC-SHA512(phrase, "mnemonic"+passphrase, 2048).
func NewHdWalletProducer(seedPhrase, passphrase string) *HdWalletProducer {
	seed := pbkdf2.Key([]byte(seedPhrase), []byte("mnemonic"+passphrase), seedIterations, seedLen, sha512.New)
	return &HdWalletProducer{seed: seed}
}

func NewHdWalletProducerFromSeed(seed []byte) *HdWalletProducer {
	return &HdWalletProducer{seed: append([]byte{}, seed...)}
}

func NewHdWalletProducerFromHex(seedHex string) (*HdWalletProducer, error) {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("invalid seed hex: %w", err)
	}
	if len(seed) < 16 || len(seed) > 64 {
		return nil, fmt.Errorf("seed must be 16..64 bytes, got %d", len(seed))
	}
	return NewHdWalletProducerFromSeed(seed), nil
}

// DerivationPath for the given pair. Every level is hardened.
func DerivationPath(account, address uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'/0'/%d'", common.SOLANA_COIN, account, address)
}

func pathIndexes(account, address uint32) []uint32 {
	return []uint32{44, common.SOLANA_COIN, account, 0, address}
}

// MakeHdWallet derives the keypair at m/44'/501'/account'/0'/address'.
func (p *HdWalletProducer) MakeHdWallet(account, address uint32) ed25519.PrivateKey {
	key, chainCode := masterKey(p.seed)
	for _, index := range pathIndexes(account, address) {
		key, chainCode = childKey(key, chainCode, index)
	}
	return ed25519.NewKeyFromSeed(key)
}

func (p *HdWalletProducer) PublicKey(account, address uint32) common.PublicKey {
	var pk common.PublicKey
	copy(pk[:], p.MakeHdWallet(account, address).Public().(ed25519.PublicKey))
	return pk
}

func masterKey(seed []byte) ([]byte, []byte) {
	mac := hmac.New(sha512.New, []byte(ed25519CurveSeed))
	mac.Write(seed)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

// ed25519 only has hardened children
func childKey(key, chainCode []byte, index uint32) ([]byte, []byte) {
	data := make([]byte, 0, 37)
	data = append(data, 0)
	data = append(data, key...)
	data = binary.BigEndian.AppendUint32(data, index|hardenedOffset)

	mac := hmac.New(sha512.New, chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}
