package asset

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/rpcserver/utils"
	"github.com/sat20-labs/l2asset/rpcserver/wire"
	"github.com/sat20-labs/l2asset/service"
)

type Model struct {
	service *service.AssetService
}

func NewModel(s *service.AssetService) *Model {
	return &Model{
		service: s,
	}
}

func (s *Model) toResp(info *service.AssetInfo) *wire.AssetResp {
	return &wire.AssetResp{
		BaseResp: wire.BaseResp{Code: 0, Msg: "ok"},
		Data:     utils.ToAssetInfo(info, s.service.MetadataUri(info.Asset.Pubkey)),
	}
}

func (s *Model) createAsset(ctx context.Context, req *wire.CreateAssetReq) (*wire.AssetResp, error) {
	params := &service.CreateParams{
		MetadataJson:       req.MetadataJson,
		Name:               req.Name,
		Owner:              req.Owner,
		Creator:            req.Creator,
		Authority:          req.Authority,
		RoyaltyBasisPoints: req.RoyaltyBasisPoints,
	}
	if req.Collection != nil {
		collection, err := common.PublicKeyFromBase58(*req.Collection)
		if err != nil {
			return nil, common.ErrInvalidRequest.With("collection contains malformed public key")
		}
		params.Collection = &collection
	}
	info, err := s.service.CreateAsset(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.toResp(info), nil
}

// parseCollection tells an absent collection from an explicit null.
func parseCollection(raw json.RawMessage) (bool, *common.PublicKey, error) {
	if len(raw) == 0 {
		return false, nil, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return true, nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, nil, common.ErrInvalidRequest.With("collection must be a string or null")
	}
	collection, err := common.PublicKeyFromBase58(s)
	if err != nil {
		return false, nil, common.ErrInvalidRequest.With("collection contains malformed public key")
	}
	return true, &collection, nil
}

func (s *Model) updateAsset(ctx context.Context, pk common.PublicKey, req *wire.UpdateAssetReq) (*wire.AssetResp, error) {
	set, collection, err := parseCollection(req.Collection)
	if err != nil {
		return nil, err
	}
	info, err := s.service.UpdateAsset(ctx, pk, &service.UpdateParams{
		MetadataJson:  req.MetadataJson,
		Name:          req.Name,
		Owner:         req.Owner,
		Creator:       req.Creator,
		Authority:     req.Authority,
		SetCollection: set,
		Collection:    collection,
	})
	if err != nil {
		return nil, err
	}
	return s.toResp(info), nil
}

func (s *Model) getAsset(ctx context.Context, pk common.PublicKey) (*wire.AssetResp, error) {
	info, err := s.service.FetchAsset(ctx, pk)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, common.ErrAssetNotFound.With("no asset found with id %s", pk)
	}
	return s.toResp(info), nil
}

func (s *Model) getMetadata(ctx context.Context, pk common.PublicKey) (string, error) {
	metadata, ok, err := s.service.FetchMetadata(ctx, pk)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", common.ErrAssetNotFound.With("no metadata found for %s", pk)
	}
	return metadata, nil
}

func (s *Model) mint(ctx context.Context, req *wire.MintReq, execSync bool) (*wire.MintResp, error) {
	raw, err := base64.StdEncoding.DecodeString(req.Tx)
	if err != nil {
		return nil, common.ErrMalformedTransaction.With("tx is not valid base64: %v", err)
	}
	if req.Callback != nil {
		common.Log.Debugf("mint callback %s is not supported, ignored", *req.Callback)
	}
	signature, err := s.service.ExecuteAssetL1Mint(ctx, raw, execSync)
	if err != nil {
		return nil, err
	}
	return &wire.MintResp{
		BaseResp:  wire.BaseResp{Code: 0, Msg: "ok"},
		Signature: signature,
	}, nil
}

func (s *Model) getMintStatus(ctx context.Context, pk common.PublicKey) (*wire.MintStatusResp, error) {
	state, signature, err := s.service.GetMintStatus(ctx, pk)
	if err != nil {
		return nil, err
	}
	resp := &wire.MintStatusResp{
		BaseResp: wire.BaseResp{Code: 0, Msg: "ok"},
		Status:   string(state),
	}
	if signature != "" {
		resp.Signature = &signature
	}
	return resp, nil
}
