package wallet

import (
	"crypto/ed25519"
	"encoding/hex"
	"sync"
	"testing"

	"github.com/sat20-labs/l2asset/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SLIP-0010 ed25519 test vector 1
func TestSlip10Vector(t *testing.T) {
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")

	key, chainCode := masterKey(seed)
	assert.Equal(t, "2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7", hex.EncodeToString(key))
	assert.Equal(t, "90046a93de5380a72b5e45010748567d5ea02bbf6522f979e05c0d8d8ca9fffb", hex.EncodeToString(chainCode))
	pub := ed25519.NewKeyFromSeed(key).Public().(ed25519.PublicKey)
	assert.Equal(t, "a4b2856bfec510abab89753fac1ac0e1112364e7d250545963f135f2a33188ed", hex.EncodeToString(pub))

	key, chainCode = childKey(key, chainCode, 0)
	assert.Equal(t, "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3", hex.EncodeToString(key))
	assert.Equal(t, "8b59aa11380b624e81507a27fedda59fea6d0b779a778918a2fd3590e16e9c69", hex.EncodeToString(chainCode))
}

func TestMakeHdWallet_Deterministic(t *testing.T) {
	p1 := NewHdWalletProducer("", "")
	p2 := NewHdWalletProducer("", "")

	for _, pair := range [][2]uint32{{1, 1}, {1, 5}, {999, 999}, {0, 0}, {0xffffffff, 0xffffffff}} {
		k1 := p1.MakeHdWallet(pair[0], pair[1])
		k2 := p2.MakeHdWallet(pair[0], pair[1])
		assert.Equal(t, k1, k2)
		assert.Equal(t, k1, p1.MakeHdWallet(pair[0], pair[1]))
		assert.Len(t, k1, ed25519.PrivateKeySize)
	}
}

func TestMakeHdWallet_DistinctPairs(t *testing.T) {
	p := NewHdWalletProducer("abandon abandon abandon", "secret")
	seen := make(map[common.PublicKey][2]uint32)
	for account := uint32(0); account < 4; account++ {
		for address := uint32(0); address < 16; address++ {
			pk := p.PublicKey(account, address)
			prev, ok := seen[pk]
			assert.False(t, ok, "%v collides with %v", [2]uint32{account, address}, prev)
			seen[pk] = [2]uint32{account, address}
		}
	}
	// 调换 account 和 address 不应得到同一个 key
	assert.NotEqual(t, p.PublicKey(1, 2), p.PublicKey(2, 1))
}

func TestMakeHdWallet_SeedMatters(t *testing.T) {
	a := NewHdWalletProducer("phrase", "")
	b := NewHdWalletProducer("phrase", "pass")
	assert.NotEqual(t, a.PublicKey(0, 1), b.PublicKey(0, 1))
}

func TestMakeHdWallet_Concurrent(t *testing.T) {
	p := NewHdWalletProducer("concurrent", "")
	want := p.PublicKey(7, 42)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, p.PublicKey(7, 42))
		}()
	}
	wg.Wait()
}

func TestMakeHdWallet_SignVerify(t *testing.T) {
	p := NewHdWalletProducer("sign", "")
	key := p.MakeHdWallet(3, 9)
	msg := []byte("mint")
	sig := ed25519.Sign(key, msg)
	pk := p.PublicKey(3, 9)
	assert.True(t, ed25519.Verify(ed25519.PublicKey(pk[:]), msg, sig))
}

func TestNewHdWalletProducerFromHex(t *testing.T) {
	p, err := NewHdWalletProducerFromHex("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	assert.Equal(t, NewHdWalletProducerFromSeed(seed).PublicKey(0, 0), p.PublicKey(0, 0))

	_, err = NewHdWalletProducerFromHex("zz")
	assert.Error(t, err)
	_, err = NewHdWalletProducerFromHex("00")
	assert.Error(t, err)
}

func TestDerivationPath(t *testing.T) {
	assert.Equal(t, "m/44'/501'/1'/0'/5'", DerivationPath(1, 5))
}
