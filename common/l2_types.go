package common

import (
	"fmt"
	"strings"
	"time"
)

type AssetState string

const (
	ASSET_STATE_L2      AssetState = "L2"
	ASSET_STATE_MINTING AssetState = "MINTING"
	ASSET_STATE_L1      AssetState = "L1_SOLANA"
)

const ROYALTY_BASIS_POINTS_MAX = 10_000

// L2Asset is one off-chain asset record.
type L2Asset struct {
	Pubkey             PublicKey
	Name               string
	Owner              string
	Creator            string
	Authority          string
	Collection         *PublicKey
	RoyaltyBasisPoints uint16
	CreateTimestamp    time.Time
	UpdateTimestamp    time.Time
	Bip44AccountNum    uint32
	Bip44AddressNum    uint32
	State              AssetState
}

func (p *L2Asset) String() string {
	return p.Pubkey.String()
}

// MintAttempt mirrors the asset state while a mint is live.
type MintAttempt struct {
	AssetPubkey PublicKey
	Signature   string
	State       AssetState
}

// MintingAsset is an asset left in MINTING, Attempt is nil when no
// signature was recorded.
type MintingAsset struct {
	Asset   *L2Asset
	Attempt *MintAttempt
}

type AssetSortBy int

const (
	SORT_BY_CREATED AssetSortBy = iota
	SORT_BY_UPDATED
)

type AssetSortDirection int

const (
	SORT_DESC AssetSortDirection = iota
	SORT_ASC
)

type AssetSorting struct {
	SortBy        AssetSortBy
	SortDirection AssetSortDirection
}

func ParseSortBy(s string) (AssetSortBy, error) {
	switch strings.ToLower(s) {
	case "", "created", "none":
		return SORT_BY_CREATED, nil
	case "updated":
		return SORT_BY_UPDATED, nil
	}
	return SORT_BY_CREATED, ErrInvalidRequest.With("unknown sort field %s", s)
}

func ParseSortDirection(s string) (AssetSortDirection, error) {
	switch strings.ToLower(s) {
	case "", "desc":
		return SORT_DESC, nil
	case "asc":
		return SORT_ASC, nil
	}
	return SORT_DESC, ErrInvalidRequest.With("unknown sort direction %s", s)
}

// SortTimestamp is the timestamp the sorting orders by.
func (s AssetSorting) SortTimestamp(asset *L2Asset) time.Time {
	if s.SortBy == SORT_BY_UPDATED {
		return asset.UpdateTimestamp
	}
	return asset.CreateTimestamp
}

// DerivationValues is a bip44 (account, address) index pair.
type DerivationValues struct {
	Account uint32
	Address uint32
}

// NewDerivationValues splits a sequence value: high 32 bits are the
// account, low 32 bits the address.
func NewDerivationValues(seq uint64) DerivationValues {
	return DerivationValues{
		Account: uint32(seq >> 32),
		Address: uint32(seq & 0xffffffff),
	}
}

func (p DerivationValues) String() string {
	return fmt.Sprintf("%d/%d", p.Account, p.Address)
}

// Now returns the current time in the precision timestamps are stored with.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
