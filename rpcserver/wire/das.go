package wire

import "encoding/json"

const JSONRPC_VERSION = "2.0"

// json-rpc error codes
const (
	RPC_PARSE_ERROR      = -32700
	RPC_INVALID_REQUEST  = -32600
	RPC_METHOD_NOT_FOUND = -32601
	RPC_INVALID_PARAMS   = -32602
	RPC_INTERNAL_ERROR   = -32603
	RPC_SERVER_ERROR     = -32000
)

type RpcRequest struct {
	JsonRpc string          `json:"jsonrpc"`
	Id      json.RawMessage `json:"id,omitempty" swaggertype:"string"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params" swaggertype:"object"`
}

type RpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

type RpcResponse struct {
	JsonRpc string          `json:"jsonrpc"`
	Id      json.RawMessage `json:"id" swaggertype:"string"`
	Result  any             `json:"result,omitempty"`
	Error   *RpcError       `json:"error,omitempty"`
}

type GetAssetParams struct {
	Id string `json:"id"`
}

type GetAssetBatchParams struct {
	Ids []string `json:"ids"`
}

type SortingParams struct {
	SortBy        string  `json:"sortBy"`
	SortDirection *string `json:"sortDirection,omitempty"`
}

type ListParams struct {
	SortBy *SortingParams `json:"sortBy,omitempty"`
	Limit  *uint32        `json:"limit,omitempty"`
	Page   *uint32        `json:"page,omitempty"`
	Before *string        `json:"before,omitempty"`
	After  *string        `json:"after,omitempty"`
	Cursor *string        `json:"cursor,omitempty"`
}

type GetAssetsByOwnerParams struct {
	OwnerAddress string `json:"ownerAddress"`
	ListParams
}

type GetAssetsByCreatorParams struct {
	CreatorAddress string `json:"creatorAddress"`
	OnlyVerified   *bool  `json:"onlyVerified,omitempty"`
	ListParams
}

type AssetList struct {
	Total  uint32      `json:"total"`
	Limit  uint32      `json:"limit"`
	Page   *uint32     `json:"page,omitempty"`
	Before *string     `json:"before,omitempty"`
	After  *string     `json:"after,omitempty"`
	Items  []*DasAsset `json:"items"`
	Cursor *string     `json:"cursor,omitempty"`
}

// DasAsset is the asset as the digital asset standard api renders an
// mpl-core asset.
type DasAsset struct {
	Interface   string       `json:"interface"`
	Id          string       `json:"id"`
	Content     *Content     `json:"content,omitempty"`
	Authorities []*Authority `json:"authorities,omitempty"`
	Compression *Compression `json:"compression,omitempty"`
	Grouping    []*Group     `json:"grouping,omitempty"`
	Royalty     *Royalty     `json:"royalty,omitempty"`
	Creators    []*Creator   `json:"creators,omitempty"`
	Ownership   Ownership    `json:"ownership"`
	Supply      *Supply      `json:"supply"`
	Mutable     bool         `json:"mutable"`
	Burnt       bool         `json:"burnt"`
}

type Content struct {
	Schema   string         `json:"$schema"`
	JsonUri  string         `json:"json_uri"`
	Files    []*File        `json:"files,omitempty"`
	Metadata map[string]any `json:"metadata"`
	Links    map[string]any `json:"links,omitempty"`
}

type File struct {
	Uri  string `json:"uri,omitempty"`
	Mime string `json:"mime,omitempty"`
}

type Authority struct {
	Address string   `json:"address"`
	Scopes  []string `json:"scopes"`
}

type Compression struct {
	Eligible    bool   `json:"eligible"`
	Compressed  bool   `json:"compressed"`
	DataHash    string `json:"data_hash"`
	CreatorHash string `json:"creator_hash"`
	AssetHash   string `json:"asset_hash"`
	Tree        string `json:"tree"`
	Seq         int64  `json:"seq"`
	LeafId      int64  `json:"leaf_id"`
}

type Group struct {
	GroupKey   string  `json:"group_key"`
	GroupValue *string `json:"group_value"`
	Verified   *bool   `json:"verified,omitempty"`
}

type Royalty struct {
	RoyaltyModel        string  `json:"royalty_model"`
	Target              *string `json:"target"`
	Percent             float64 `json:"percent"`
	BasisPoints         uint32  `json:"basis_points"`
	PrimarySaleHappened bool    `json:"primary_sale_happened"`
	Locked              bool    `json:"locked"`
}

type Creator struct {
	Address  string `json:"address"`
	Share    int32  `json:"share"`
	Verified bool   `json:"verified"`
}

type Ownership struct {
	Frozen         bool    `json:"frozen"`
	Delegated      bool    `json:"delegated"`
	Delegate       *string `json:"delegate"`
	OwnershipModel string  `json:"ownership_model"`
	Owner          string  `json:"owner"`
}

type Supply struct {
	PrintMaxSupply     *uint64 `json:"print_max_supply"`
	PrintCurrentSupply uint64  `json:"print_current_supply"`
	EditionNonce       *uint64 `json:"edition_nonce"`
}
