package l2db

import (
	"time"

	"github.com/sat20-labs/l2asset/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DERIVATION_SEQUENCE_NAME = "l2_assets"

type AssetModel struct {
	AssetPubkey        []byte `gorm:"column:asset_pubkey;primaryKey;index:idx_owner_created,priority:3;index:idx_owner_updated,priority:3;index:idx_creator_created,priority:3;index:idx_creator_updated,priority:3"`
	AssetName          string `gorm:"column:asset_name;not null"`
	AssetOwner         string `gorm:"column:asset_owner;not null;index:idx_owner_created,priority:1;index:idx_owner_updated,priority:1"`
	AssetCreator       string `gorm:"column:asset_creator;not null;index:idx_creator_created,priority:1;index:idx_creator_updated,priority:1"`
	AssetAuthority     string `gorm:"column:asset_authority;not null"`
	AssetCollection    []byte `gorm:"column:asset_collection"`
	RoyaltyBasisPoints int32  `gorm:"column:royalty_basis_points;not null"`
	CreateTimestamp    int64  `gorm:"column:asset_create_timestamp;not null;index:idx_owner_created,priority:2;index:idx_creator_created,priority:2"`
	UpdateTimestamp    int64  `gorm:"column:asset_last_update_timestamp;not null;index:idx_owner_updated,priority:2;index:idx_creator_updated,priority:2"`
	Bip44AccountNum    int64  `gorm:"column:bip44_account_num;not null"`
	Bip44AddressNum    int64  `gorm:"column:bip44_address_num;not null"`
	CurrentState       string `gorm:"column:current_state;not null;index:idx_asset_state"`
}

func (AssetModel) TableName() string { return "l2_assets_v1" }

type MintAttemptModel struct {
	AssetPubkey  []byte `gorm:"column:asset_pubkey;primaryKey"`
	Signature    string `gorm:"column:signature;not null"`
	CurrentState string `gorm:"column:current_state;not null"`
}

func (MintAttemptModel) TableName() string { return "asset_minting_status" }

type SequenceModel struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value int64  `gorm:"column:value;not null"`
}

func (SequenceModel) TableName() string { return "l2_bip44_sequence" }

type DbMetaModel struct {
	Key   string `gorm:"column:meta_key;primaryKey"`
	Value string `gorm:"column:meta_value;not null"`
}

func (DbMetaModel) TableName() string { return "l2_db_meta" }

const META_KEY_DB_VERSION = "db_version"

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&AssetModel{}, &MintAttemptModel{}, &SequenceModel{}, &DbMetaModel{})
	if err != nil {
		return err
	}
	err = db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&SequenceModel{Name: DERIVATION_SEQUENCE_NAME, Value: 0}).Error
	if err != nil {
		return err
	}
	return checkDbVersion(db)
}

// schema 已由 AutoMigrate 升级，这里只记录版本
func checkDbVersion(db *gorm.DB) error {
	var meta DbMetaModel
	err := db.Where("meta_key = ?", META_KEY_DB_VERSION).Limit(1).Find(&meta).Error
	if err != nil {
		return err
	}
	if meta.Value == common.L2_DB_VERSION {
		return nil
	}
	if meta.Value != "" {
		common.Log.Warnf("l2 db version %s upgraded to %s", meta.Value, common.L2_DB_VERSION)
	}
	return db.Save(&DbMetaModel{Key: META_KEY_DB_VERSION, Value: common.L2_DB_VERSION}).Error
}

// DbVersion returns the schema version recorded in db.
func DbVersion(db *gorm.DB) (string, error) {
	var meta DbMetaModel
	err := db.Where("meta_key = ?", META_KEY_DB_VERSION).Limit(1).Find(&meta).Error
	return meta.Value, err
}

func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func newAssetModel(asset *common.L2Asset) *AssetModel {
	m := &AssetModel{
		AssetPubkey:        asset.Pubkey.Bytes(),
		AssetName:          asset.Name,
		AssetOwner:         asset.Owner,
		AssetCreator:       asset.Creator,
		AssetAuthority:     asset.Authority,
		RoyaltyBasisPoints: int32(asset.RoyaltyBasisPoints),
		CreateTimestamp:    asset.CreateTimestamp.UnixMilli(),
		UpdateTimestamp:    asset.UpdateTimestamp.UnixMilli(),
		Bip44AccountNum:    int64(asset.Bip44AccountNum),
		Bip44AddressNum:    int64(asset.Bip44AddressNum),
		CurrentState:       string(asset.State),
	}
	if asset.Collection != nil {
		m.AssetCollection = asset.Collection.Bytes()
	}
	return m
}

func (m *AssetModel) toAsset() (*common.L2Asset, error) {
	pk, err := common.PublicKeyFromBytes(m.AssetPubkey)
	if err != nil {
		return nil, err
	}
	asset := &common.L2Asset{
		Pubkey:             pk,
		Name:               m.AssetName,
		Owner:              m.AssetOwner,
		Creator:            m.AssetCreator,
		Authority:          m.AssetAuthority,
		RoyaltyBasisPoints: uint16(m.RoyaltyBasisPoints),
		CreateTimestamp:    msToTime(m.CreateTimestamp),
		UpdateTimestamp:    msToTime(m.UpdateTimestamp),
		Bip44AccountNum:    uint32(m.Bip44AccountNum),
		Bip44AddressNum:    uint32(m.Bip44AddressNum),
		State:              common.AssetState(m.CurrentState),
	}
	if len(m.AssetCollection) != 0 {
		collection, err := common.PublicKeyFromBytes(m.AssetCollection)
		if err != nil {
			return nil, err
		}
		asset.Collection = &collection
	}
	return asset, nil
}

func (m *MintAttemptModel) toAttempt() (*common.MintAttempt, error) {
	pk, err := common.PublicKeyFromBytes(m.AssetPubkey)
	if err != nil {
		return nil, err
	}
	return &common.MintAttempt{
		AssetPubkey: pk,
		Signature:   m.Signature,
		State:       common.AssetState(m.CurrentState),
	}, nil
}
