package ledger

import (
	"context"
	"crypto/ed25519"

	"github.com/sat20-labs/l2asset/common"
)

type MintStatus int

const (
	MINT_INCONCLUSIVE MintStatus = iota // 未找到或仍在处理
	MINT_CONFIRMED
	MINT_REJECTED
)

func (s MintStatus) String() string {
	switch s {
	case MINT_CONFIRMED:
		return "confirmed"
	case MINT_REJECTED:
		return "rejected"
	}
	return "inconclusive"
}

// ParsedMint is what a client built mpl-core CreateV1 transaction says
// about the asset. Optional accounts are nil when the instruction passes
// the program id in their place.
type ParsedMint struct {
	Asset      common.PublicKey
	Collection *common.PublicKey
	Authority  *common.PublicKey
	Payer      common.PublicKey
	Owner      *common.PublicKey
	Name       string
	Uri        string
}

type Gateway interface {
	// ParseMintTransaction checks raw holds exactly one CreateV1
	// instruction and extracts its accounts and arguments.
	ParseMintTransaction(raw []byte) (*ParsedMint, error)

	// ExecuteMintTransaction adds the asset signature to the partially
	// signed transaction and submits it, returning the base58 signature.
	ExecuteMintTransaction(ctx context.Context, raw []byte, assetKey ed25519.PrivateKey) (string, error)

	// IsAssetMinted reports the ledger status of a submitted mint. RPC
	// failures are returned together with MINT_INCONCLUSIVE.
	IsAssetMinted(ctx context.Context, signature string) (MintStatus, error)
}
