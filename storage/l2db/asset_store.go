package l2db

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sat20-labs/l2asset/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssetStore keeps asset records and mint attempts. State transitions are
// guarded updates, never read-then-write.
type AssetStore struct {
	db *gorm.DB
}

func NewAssetStore(db *gorm.DB) *AssetStore {
	return &AssetStore{db: db}
}

// Save inserts the asset, or updates its mutable fields while the stored
// row is still L2.
func (p *AssetStore) Save(ctx context.Context, asset *common.L2Asset) error {
	m := newAssetModel(asset)
	m.CurrentState = string(common.ASSET_STATE_L2)
	res := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "asset_pubkey"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"asset_name",
			"asset_owner",
			"asset_creator",
			"asset_authority",
			"asset_collection",
			"royalty_basis_points",
			"asset_last_update_timestamp",
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("l2_assets_v1.current_state = ?", string(common.ASSET_STATE_L2)),
		}},
	}).Create(m)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "save asset %s", asset.Pubkey)
	}
	if res.RowsAffected == 0 {
		return common.ErrAssetImmutable.With("asset %s is not in L2 state", asset.Pubkey)
	}
	return nil
}

func (p *AssetStore) findOne(ctx context.Context, pk common.PublicKey, onlyL2 bool) (*common.L2Asset, error) {
	q := p.db.WithContext(ctx).Where("asset_pubkey = ?", pk.Bytes())
	if onlyL2 {
		q = q.Where("current_state = ?", string(common.ASSET_STATE_L2))
	}
	var models []AssetModel
	if err := q.Limit(1).Find(&models).Error; err != nil {
		return nil, errors.Wrapf(err, "find asset %s", pk)
	}
	if len(models) == 0 {
		return nil, nil
	}
	return models[0].toAsset()
}

// Find returns the asset while it is L2, nil otherwise.
func (p *AssetStore) Find(ctx context.Context, pk common.PublicKey) (*common.L2Asset, error) {
	return p.findOne(ctx, pk, true)
}

// FindAny returns the asset in any state, nil when absent.
func (p *AssetStore) FindAny(ctx context.Context, pk common.PublicKey) (*common.L2Asset, error) {
	return p.findOne(ctx, pk, false)
}

// FindBatch returns the L2 assets among pks, in no particular order.
func (p *AssetStore) FindBatch(ctx context.Context, pks []common.PublicKey) ([]*common.L2Asset, error) {
	if len(pks) == 0 {
		return nil, nil
	}
	ids := make([]interface{}, len(pks))
	for i, pk := range pks {
		ids[i] = pk.Bytes()
	}
	var models []AssetModel
	err := p.db.WithContext(ctx).
		Where("asset_pubkey IN ? AND current_state = ?", ids, string(common.ASSET_STATE_L2)).
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "find asset batch")
	}
	return toAssets(models)
}

func toAssets(models []AssetModel) ([]*common.L2Asset, error) {
	result := make([]*common.L2Asset, 0, len(models))
	for i := range models {
		asset, err := models[i].toAsset()
		if err != nil {
			return nil, err
		}
		result = append(result, asset)
	}
	return result, nil
}

// LockBeforeMinting moves the asset L2 -> MINTING. Exactly one of any
// number of concurrent callers gets true.
func (p *AssetStore) LockBeforeMinting(ctx context.Context, pk common.PublicKey) (bool, error) {
	res := p.db.WithContext(ctx).Model(&AssetModel{}).
		Where("asset_pubkey = ? AND current_state = ?", pk.Bytes(), string(common.ASSET_STATE_L2)).
		Updates(map[string]interface{}{
			"current_state":               string(common.ASSET_STATE_MINTING),
			"asset_last_update_timestamp": common.Now().UnixMilli(),
		})
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "lock asset %s", pk)
	}
	return res.RowsAffected == 1, nil
}

func (p *AssetStore) AddMintAttempt(ctx context.Context, pk common.PublicKey, signature string) error {
	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset_pubkey"}},
		DoUpdates: clause.AssignmentColumns([]string{"signature", "current_state"}),
	}).Create(&MintAttemptModel{
		AssetPubkey:  pk.Bytes(),
		Signature:    signature,
		CurrentState: string(common.ASSET_STATE_MINTING),
	}).Error
	if err != nil {
		return errors.Wrapf(err, "add mint attempt of %s", pk)
	}
	return nil
}

// FinalizeMint commits MINTING -> L1 on the asset and its attempt in one
// transaction.
func (p *AssetStore) FinalizeMint(ctx context.Context, pk common.PublicKey) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&MintAttemptModel{}).Where("asset_pubkey = ?", pk.Bytes()).Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return common.ErrNoMintAttempt.With("asset %s has no mint attempt", pk)
		}

		res := tx.Model(&AssetModel{}).
			Where("asset_pubkey = ? AND current_state = ?", pk.Bytes(), string(common.ASSET_STATE_MINTING)).
			Updates(map[string]interface{}{
				"current_state":               string(common.ASSET_STATE_L1),
				"asset_last_update_timestamp": common.Now().UnixMilli(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return common.ErrNotMinting.With("asset %s is not minting", pk)
		}

		return tx.Model(&MintAttemptModel{}).Where("asset_pubkey = ?", pk.Bytes()).
			Update("current_state", string(common.ASSET_STATE_L1)).Error
	})
}

// MintDidntHappen rolls the asset back MINTING -> L2 and drops its attempt.
func (p *AssetStore) MintDidntHappen(ctx context.Context, pk common.PublicKey) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&AssetModel{}).
			Where("asset_pubkey = ? AND current_state = ?", pk.Bytes(), string(common.ASSET_STATE_MINTING)).
			Updates(map[string]interface{}{
				"current_state":               string(common.ASSET_STATE_L2),
				"asset_last_update_timestamp": common.Now().UnixMilli(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return common.ErrNotMinting.With("asset %s is not minting", pk)
		}
		return tx.Where("asset_pubkey = ?", pk.Bytes()).Delete(&MintAttemptModel{}).Error
	})
}

func (p *AssetStore) FindMintAttempt(ctx context.Context, pk common.PublicKey) (*common.MintAttempt, error) {
	var models []MintAttemptModel
	err := p.db.WithContext(ctx).Where("asset_pubkey = ?", pk.Bytes()).Limit(1).Find(&models).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find mint attempt of %s", pk)
	}
	if len(models) == 0 {
		return nil, nil
	}
	return models[0].toAttempt()
}

// GetMintStatus returns the asset state and the signature of its attempt,
// empty when there is none.
func (p *AssetStore) GetMintStatus(ctx context.Context, pk common.PublicKey) (common.AssetState, string, error) {
	asset, err := p.FindAny(ctx, pk)
	if err != nil {
		return "", "", err
	}
	if asset == nil {
		return "", "", common.ErrAssetNotFound.With("asset %s not found", pk)
	}
	attempt, err := p.FindMintAttempt(ctx, pk)
	if err != nil {
		return "", "", err
	}
	if attempt == nil {
		return asset.State, "", nil
	}
	return asset.State, attempt.Signature, nil
}

// FindMinting lists the assets left in MINTING with their attempts.
func (p *AssetStore) FindMinting(ctx context.Context) ([]*common.MintingAsset, error) {
	var models []AssetModel
	err := p.db.WithContext(ctx).
		Where("current_state = ?", string(common.ASSET_STATE_MINTING)).
		Order("asset_last_update_timestamp").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "find minting assets")
	}
	assets, err := toAssets(models)
	if err != nil {
		return nil, err
	}

	result := make([]*common.MintingAsset, 0, len(assets))
	for _, asset := range assets {
		attempt, err := p.FindMintAttempt(ctx, asset.Pubkey)
		if err != nil {
			return nil, err
		}
		result = append(result, &common.MintingAsset{Asset: asset, Attempt: attempt})
	}
	return result, nil
}
