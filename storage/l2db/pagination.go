package l2db

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/cursor"
	"gorm.io/gorm"
)

func (p *AssetStore) FindByOwner(ctx context.Context, owner string, sorting common.AssetSorting,
	limit int, before, after string) ([]*common.L2Asset, error) {
	return p.findPage(ctx, "asset_owner", owner, sorting, limit, before, after)
}

func (p *AssetStore) FindByCreator(ctx context.Context, creator string, sorting common.AssetSorting,
	limit int, before, after string) ([]*common.L2Asset, error) {
	return p.findPage(ctx, "asset_creator", creator, sorting, limit, before, after)
}

func sortColumn(sortBy common.AssetSortBy) string {
	if sortBy == common.SORT_BY_UPDATED {
		return "asset_last_update_timestamp"
	}
	return "asset_create_timestamp"
}

// keyset condition: rows strictly past (ts, pk) in the direction of cmp
func keysetWhere(q *gorm.DB, field, cmp, c string) (*gorm.DB, error) {
	ts, pk, err := cursor.Decode(c)
	if err != nil {
		return nil, err
	}
	cond := fmt.Sprintf("(%s %s ? OR (%s = ? AND asset_pubkey %s ?))", field, cmp, field, cmp)
	return q.Where(cond, ts, ts, pk.Bytes()), nil
}

// findPage lists L2 assets with keyset pagination over (sort field, pubkey).
// after keeps rows following the cursor in display order, before keeps rows
// preceding it; both together intersect. With only before the query runs
// reversed so the limit takes the rows nearest to the cursor. A zero limit
// yields an empty page, a negative one the default page size.
func (p *AssetStore) findPage(ctx context.Context, column, value string, sorting common.AssetSorting,
	limit int, before, after string) ([]*common.L2Asset, error) {
	if limit < 0 {
		limit = common.DEFAULT_LIMIT_FOR_PAGE
	}
	field := sortColumn(sorting.SortBy)
	asc := sorting.SortDirection == common.SORT_ASC

	afterCmp, beforeCmp := "<", ">"
	if asc {
		afterCmp, beforeCmp = ">", "<"
	}

	q := p.db.WithContext(ctx).
		Where(column+" = ? AND current_state = ?", value, string(common.ASSET_STATE_L2))
	var err error
	if after != "" {
		if q, err = keysetWhere(q, field, afterCmp, after); err != nil {
			return nil, err
		}
	}
	if before != "" {
		if q, err = keysetWhere(q, field, beforeCmp, before); err != nil {
			return nil, err
		}
	}

	if limit == 0 {
		return []*common.L2Asset{}, nil
	}

	reversed := before != "" && after == ""
	queryAsc := asc != reversed
	dir := "DESC"
	if queryAsc {
		dir = "ASC"
	}

	var models []AssetModel
	err = q.Order(field + " " + dir).Order("asset_pubkey " + dir).Limit(limit).Find(&models).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find assets by %s", column)
	}
	assets, err := toAssets(models)
	if err != nil {
		return nil, err
	}
	if reversed {
		for i, j := 0, len(assets)-1; i < j; i, j = i+1, j-1 {
			assets[i], assets[j] = assets[j], assets[i]
		}
	}
	return assets, nil
}
