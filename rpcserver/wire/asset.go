package wire

import "encoding/json"

type CreateAssetReq struct {
	Name               string  `json:"name" example:"Hat"`
	MetadataJson       string  `json:"metadata_json" example:"{\"name\":\"Hat\"}"`
	Owner              string  `json:"owner"`
	Creator            string  `json:"creator"`
	Authority          string  `json:"authority"`
	RoyaltyBasisPoints uint16  `json:"royalty_basis_points" example:"250"`
	Collection         *string `json:"collection,omitempty"`
}

// UpdateAssetReq: collection absent leaves it unchanged, null clears it.
type UpdateAssetReq struct {
	Name         *string         `json:"name,omitempty"`
	MetadataJson *string         `json:"metadata_json,omitempty"`
	Owner        *string         `json:"owner,omitempty"`
	Creator      *string         `json:"creator,omitempty"`
	Authority    *string         `json:"authority,omitempty"`
	Collection   json.RawMessage `json:"collection,omitempty" swaggertype:"string"`
}

type AssetInfo struct {
	Pubkey             string  `json:"pubkey"`
	Name               string  `json:"name"`
	Owner              string  `json:"owner"`
	Creator            string  `json:"creator"`
	Authority          string  `json:"authority"`
	Collection         *string `json:"collection"`
	RoyaltyBasisPoints uint16  `json:"royalty_basis_points"`
	CreateTimestamp    string  `json:"create_timestamp" example:"2024-05-01T10:00:00.000Z"`
	UpdateTimestamp    string  `json:"update_timestamp" example:"2024-05-01T10:00:00.000Z"`
	State              string  `json:"state" example:"L2"`
	MetadataUri        string  `json:"metadata_uri"`
	MetadataJson       *string `json:"metadata_json"`
}

type AssetResp struct {
	BaseResp
	Data *AssetInfo `json:"data"`
}

type MintReq struct {
	// base64 encoded wire transaction
	Tx       string  `json:"tx" binding:"required"`
	Callback *string `json:"callback,omitempty"`
}

type MintResp struct {
	BaseResp
	Signature string `json:"signature"`
}

type MintStatusResp struct {
	BaseResp
	Status    string  `json:"status" example:"MINTING"`
	Signature *string `json:"signature,omitempty"`
}
