package das

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/cursor"
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

// decodeParams 不接受未知字段
func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return common.ErrInvalidRequest.With("missing params")
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return common.ErrInvalidRequest.With("invalid params, %v", err)
	}
	return nil
}

func (s *Model) toDas(info *service.AssetInfo) *wire.DasAsset {
	return ToDasAsset(info, s.service.MetadataUri(info.Asset.Pubkey))
}

func (s *Model) getAsset(ctx context.Context, raw json.RawMessage) (any, error) {
	var params wire.GetAssetParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	pk, err := common.PublicKeyFromBase58(params.Id)
	if err != nil {
		return nil, err
	}
	info, err := s.service.FetchAsset(ctx, pk)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, common.ErrAssetNotFound.With("asset %s not found", params.Id)
	}
	return s.toDas(info), nil
}

func (s *Model) getAssetBatch(ctx context.Context, raw json.RawMessage) (any, error) {
	var params wire.GetAssetBatchParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	pks := make([]common.PublicKey, len(params.Ids))
	for i, id := range params.Ids {
		pk, err := common.PublicKeyFromBase58(id)
		if err != nil {
			return nil, err
		}
		pks[i] = pk
	}
	infos, err := s.service.FetchAssets(ctx, pks)
	if err != nil {
		return nil, err
	}
	result := make([]*wire.DasAsset, len(infos))
	for i, info := range infos {
		if info != nil {
			result[i] = s.toDas(info)
		}
	}
	return result, nil
}

func (s *Model) getAssetsByOwner(ctx context.Context, raw json.RawMessage) (any, error) {
	var params wire.GetAssetsByOwnerParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	return s.listAssets(ctx, &params.ListParams, func(sorting common.AssetSorting, limit int, before, after string) ([]*service.AssetInfo, error) {
		return s.service.FetchAssetsByOwner(ctx, params.OwnerAddress, sorting, limit, before, after)
	})
}

// onlyVerified is accepted, every creator of an L2 asset is reported verified
func (s *Model) getAssetsByCreator(ctx context.Context, raw json.RawMessage) (any, error) {
	var params wire.GetAssetsByCreatorParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	return s.listAssets(ctx, &params.ListParams, func(sorting common.AssetSorting, limit int, before, after string) ([]*service.AssetInfo, error) {
		return s.service.FetchAssetsByCreator(ctx, params.CreatorAddress, sorting, limit, before, after)
	})
}

type fetchFunc func(sorting common.AssetSorting, limit int, before, after string) ([]*service.AssetInfo, error)

func verifyLimit(limit *uint32) (uint32, error) {
	if limit == nil {
		return common.DEFAULT_LIMIT_FOR_PAGE, nil
	}
	if *limit >= common.DEFAULT_LIMIT_FOR_PAGE {
		return 0, common.ErrLimitTooBig.With("limit must be less than %d", common.DEFAULT_LIMIT_FOR_PAGE)
	}
	return *limit, nil
}

func verifyPage(page *uint32) (*uint32, error) {
	if page != nil && *page >= common.DEFAULT_MAX_PAGE_LIMIT {
		return nil, common.ErrPageTooBig.With("page must be less than %d", common.DEFAULT_MAX_PAGE_LIMIT)
	}
	return page, nil
}

func parseSorting(p *wire.SortingParams) (common.AssetSorting, error) {
	var sorting common.AssetSorting
	if p == nil {
		return sorting, nil
	}
	var err error
	sorting.SortBy, err = common.ParseSortBy(p.SortBy)
	if err != nil {
		return sorting, err
	}
	if p.SortDirection != nil {
		sorting.SortDirection, err = common.ParseSortDirection(*p.SortDirection)
	}
	return sorting, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// listAssets: without before, after and page the cursor works as after and
// the response carries the cursor of the last item. With page the page is
// echoed. Otherwise the response carries the first and last items as
// before and after.
func (s *Model) listAssets(ctx context.Context, params *wire.ListParams, fetch fetchFunc) (*wire.AssetList, error) {
	sorting, err := parseSorting(params.SortBy)
	if err != nil {
		return nil, err
	}
	limit, err := verifyLimit(params.Limit)
	if err != nil {
		return nil, err
	}
	page, err := verifyPage(params.Page)
	if err != nil {
		return nil, err
	}

	cursorEnabled := params.Before == nil && params.After == nil && page == nil
	after := deref(params.After)
	if cursorEnabled {
		after = deref(params.Cursor)
	}

	infos, err := fetch(sorting, int(limit), deref(params.Before), after)
	if err != nil {
		return nil, err
	}

	boundary := func(info *service.AssetInfo) *string {
		c := cursor.EncodeTime(sorting.SortTimestamp(info.Asset), info.Asset.Pubkey)
		return &c
	}
	ret := &wire.AssetList{
		Total: uint32(len(infos)),
		Limit: limit,
		Items: make([]*wire.DasAsset, 0, len(infos)),
	}
	for _, info := range infos {
		ret.Items = append(ret.Items, s.toDas(info))
	}
	switch {
	case cursorEnabled:
		if len(infos) > 0 {
			ret.Cursor = boundary(infos[len(infos)-1])
		}
	case page != nil:
		ret.Page = page
	default:
		if len(infos) > 0 {
			ret.Before = boundary(infos[0])
			ret.After = boundary(infos[len(infos)-1])
		}
	}
	return ret, nil
}
