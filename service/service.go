package service

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"sync"
	"time"

	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/ledger"

	cmap "github.com/orcaman/concurrent-map/v2"
)

type Storage interface {
	Save(ctx context.Context, asset *common.L2Asset) error
	Find(ctx context.Context, pk common.PublicKey) (*common.L2Asset, error)
	FindAny(ctx context.Context, pk common.PublicKey) (*common.L2Asset, error)
	FindBatch(ctx context.Context, pks []common.PublicKey) ([]*common.L2Asset, error)
	FindByOwner(ctx context.Context, owner string, sorting common.AssetSorting, limit int, before, after string) ([]*common.L2Asset, error)
	FindByCreator(ctx context.Context, creator string, sorting common.AssetSorting, limit int, before, after string) ([]*common.L2Asset, error)

	LockBeforeMinting(ctx context.Context, pk common.PublicKey) (bool, error)
	AddMintAttempt(ctx context.Context, pk common.PublicKey, signature string) error
	FinalizeMint(ctx context.Context, pk common.PublicKey) error
	MintDidntHappen(ctx context.Context, pk common.PublicKey) error
	FindMintAttempt(ctx context.Context, pk common.PublicKey) (*common.MintAttempt, error)
	GetMintStatus(ctx context.Context, pk common.PublicKey) (common.AssetState, string, error)
	FindMinting(ctx context.Context) ([]*common.MintingAsset, error)
}

type Sequence interface {
	NextAccountAndAddress(ctx context.Context) (common.DerivationValues, error)
}

// ObjectStore reports a missing entry through ok, not through err.
type ObjectStore interface {
	PutJson(ctx context.Context, pk common.PublicKey, metadata string) error
	GetJson(ctx context.Context, pk common.PublicKey) (string, bool, error)
	GetJsonBatch(ctx context.Context, pks []common.PublicKey) (map[common.PublicKey]string, error)
	PutBinary(ctx context.Context, pk common.PublicKey, data []byte, mime string) error
	GetBinary(ctx context.Context, pk common.PublicKey) ([]byte, string, bool, error)

	// 发出但未能写入 attempt 的交易签名
	PutMintSignature(ctx context.Context, pk common.PublicKey, signature string) error
	GetMintSignature(ctx context.Context, pk common.PublicKey) (string, bool, error)
	DeleteMintSignature(ctx context.Context, pk common.PublicKey) error
}

type WalletProducer interface {
	MakeHdWallet(account, address uint32) ed25519.PrivateKey
}

type Config struct {
	MetadataBaseUrl string
	PollInterval    time.Duration
	PollAttempts    int
	SyncTimeout     time.Duration
}

const (
	DEFAULT_POLL_INTERVAL = 10 * time.Second
	DEFAULT_POLL_ATTEMPTS = 18
	SYNC_TIMEOUT_MARGIN   = 30 * time.Second
)

// AssetInfo is an asset with its metadata json, empty when none is stored.
type AssetInfo struct {
	Asset    *common.L2Asset
	Metadata string
}

type AssetService struct {
	cfg      Config
	wallet   WalletProducer
	sequence Sequence
	storage  Storage
	objects  ObjectStore
	ledger   ledger.Gateway

	// 每个资产最多一个对账协程, value 是它要跟踪的最新签名
	reconcilers cmap.ConcurrentMap[string, string]
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

func NewAssetService(cfg Config, wallet WalletProducer, sequence Sequence, storage Storage,
	objects ObjectStore, gateway ledger.Gateway) *AssetService {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DEFAULT_POLL_INTERVAL
	}
	if cfg.PollAttempts <= 0 {
		cfg.PollAttempts = DEFAULT_POLL_ATTEMPTS
	}
	if cfg.SyncTimeout <= 0 {
		// 轮询窗口之外留出 rpc 延迟的余量
		cfg.SyncTimeout = cfg.PollInterval*time.Duration(cfg.PollAttempts+1) + SYNC_TIMEOUT_MARGIN
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AssetService{
		cfg:         cfg,
		wallet:      wallet,
		sequence:    sequence,
		storage:     storage,
		objects:     objects,
		ledger:      gateway,
		reconcilers: cmap.New[string](),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Close stops the reconcilers and waits for them. Assets they leave in
// MINTING are picked up by the next startup sweep.
func (p *AssetService) Close() {
	p.cancel()
	p.wg.Wait()
}

func (p *AssetService) MetadataUri(pk common.PublicKey) string {
	return common.MetadataUri(p.cfg.MetadataBaseUrl, pk)
}

type CreateParams struct {
	MetadataJson       string
	Name               string
	Owner              string
	Creator            string
	Authority          string
	RoyaltyBasisPoints uint16
	Collection         *common.PublicKey
}

func (c *CreateParams) validate() error {
	if c.Owner == "" {
		return common.ErrInvalidRequest.With("owner is required")
	}
	if c.Creator == "" {
		return common.ErrInvalidRequest.With("creator is required")
	}
	if c.Authority == "" {
		return common.ErrInvalidRequest.With("authority is required")
	}
	if c.RoyaltyBasisPoints > common.ROYALTY_BASIS_POINTS_MAX {
		return common.ErrInvalidRequest.With("royalty_basis_points %d exceeds %d",
			c.RoyaltyBasisPoints, common.ROYALTY_BASIS_POINTS_MAX)
	}
	return validateMetadata(c.MetadataJson)
}

func validateMetadata(metadata string) error {
	if !json.Valid([]byte(metadata)) {
		return common.ErrInvalidRequest.With("metadata_json is not valid json")
	}
	return nil
}

func (p *AssetService) CreateAsset(ctx context.Context, params *CreateParams) (*AssetInfo, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	idx, err := p.sequence.NextAccountAndAddress(ctx)
	if err != nil {
		common.Log.Errorf("NextAccountAndAddress failed, %v", err)
		return nil, err
	}
	key := p.wallet.MakeHdWallet(idx.Account, idx.Address)
	pk, err := common.PublicKeyFromBytes(key.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}

	if err := p.objects.PutJson(ctx, pk, params.MetadataJson); err != nil {
		return nil, common.ErrObjectStore.Wrap(err)
	}

	now := common.Now()
	asset := &common.L2Asset{
		Pubkey:             pk,
		Name:               params.Name,
		Owner:              params.Owner,
		Creator:            params.Creator,
		Authority:          params.Authority,
		Collection:         params.Collection,
		RoyaltyBasisPoints: params.RoyaltyBasisPoints,
		CreateTimestamp:    now,
		UpdateTimestamp:    now,
		Bip44AccountNum:    idx.Account,
		Bip44AddressNum:    idx.Address,
		State:              common.ASSET_STATE_L2,
	}
	if err := p.storage.Save(ctx, asset); err != nil {
		return nil, err
	}
	common.Log.Infof("asset %s created at %s", pk, idx)
	return &AssetInfo{Asset: asset, Metadata: params.MetadataJson}, nil
}

// UpdateParams leaves a field unchanged when it is nil. SetCollection with
// a nil Collection clears the collection.
type UpdateParams struct {
	MetadataJson  *string
	Name          *string
	Owner         *string
	Creator       *string
	Authority     *string
	SetCollection bool
	Collection    *common.PublicKey
}

func (u *UpdateParams) validate() error {
	for name, v := range map[string]*string{"owner": u.Owner, "creator": u.Creator, "authority": u.Authority} {
		if v != nil && *v == "" {
			return common.ErrInvalidRequest.With("%s can not be empty", name)
		}
	}
	if u.MetadataJson != nil {
		return validateMetadata(*u.MetadataJson)
	}
	return nil
}

// UpdateAsset changes an L2 asset. The record is saved before the metadata
// so an asset that stopped being mutable keeps its metadata.
func (p *AssetService) UpdateAsset(ctx context.Context, pk common.PublicKey, params *UpdateParams) (*AssetInfo, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	asset, err := p.storage.Find(ctx, pk)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, common.ErrAssetNotFound.With("asset %s not found", pk)
	}

	if params.Name != nil {
		asset.Name = *params.Name
	}
	if params.Owner != nil {
		asset.Owner = *params.Owner
	}
	if params.Creator != nil {
		asset.Creator = *params.Creator
	}
	if params.Authority != nil {
		asset.Authority = *params.Authority
	}
	if params.SetCollection {
		asset.Collection = params.Collection
	}
	asset.UpdateTimestamp = common.Now()
	if err := p.storage.Save(ctx, asset); err != nil {
		return nil, err
	}

	var metadata string
	if params.MetadataJson != nil {
		metadata = *params.MetadataJson
		if err := p.objects.PutJson(ctx, pk, metadata); err != nil {
			return nil, common.ErrObjectStore.Wrap(err)
		}
	} else {
		metadata, _, err = p.objects.GetJson(ctx, pk)
		if err != nil {
			return nil, common.ErrObjectStore.Wrap(err)
		}
	}
	return &AssetInfo{Asset: asset, Metadata: metadata}, nil
}

// FetchAsset returns the asset while it is L2, nil otherwise.
func (p *AssetService) FetchAsset(ctx context.Context, pk common.PublicKey) (*AssetInfo, error) {
	asset, err := p.storage.Find(ctx, pk)
	if err != nil || asset == nil {
		return nil, err
	}
	metadata, _, err := p.objects.GetJson(ctx, pk)
	if err != nil {
		return nil, common.ErrObjectStore.Wrap(err)
	}
	return &AssetInfo{Asset: asset, Metadata: metadata}, nil
}

// FetchAssets returns one entry per requested key, in request order, nil
// for keys with no L2 asset.
func (p *AssetService) FetchAssets(ctx context.Context, pks []common.PublicKey) ([]*AssetInfo, error) {
	assets, err := p.storage.FindBatch(ctx, pks)
	if err != nil {
		return nil, err
	}
	infos, err := p.withMetadata(ctx, assets)
	if err != nil {
		return nil, err
	}
	byKey := make(map[common.PublicKey]*AssetInfo, len(infos))
	for _, info := range infos {
		byKey[info.Asset.Pubkey] = info
	}
	result := make([]*AssetInfo, len(pks))
	for i, pk := range pks {
		result[i] = byKey[pk]
	}
	return result, nil
}

func (p *AssetService) withMetadata(ctx context.Context, assets []*common.L2Asset) ([]*AssetInfo, error) {
	pks := make([]common.PublicKey, len(assets))
	for i, asset := range assets {
		pks[i] = asset.Pubkey
	}
	metadata, err := p.objects.GetJsonBatch(ctx, pks)
	if err != nil {
		return nil, common.ErrObjectStore.Wrap(err)
	}
	result := make([]*AssetInfo, len(assets))
	for i, asset := range assets {
		result[i] = &AssetInfo{Asset: asset, Metadata: metadata[asset.Pubkey]}
	}
	return result, nil
}

func (p *AssetService) FetchMetadata(ctx context.Context, pk common.PublicKey) (string, bool, error) {
	metadata, ok, err := p.objects.GetJson(ctx, pk)
	if err != nil {
		return "", false, common.ErrObjectStore.Wrap(err)
	}
	return metadata, ok, nil
}

func (p *AssetService) FetchAssetsByOwner(ctx context.Context, owner string, sorting common.AssetSorting,
	limit int, before, after string) ([]*AssetInfo, error) {
	assets, err := p.storage.FindByOwner(ctx, owner, sorting, limit, before, after)
	if err != nil {
		return nil, err
	}
	return p.withMetadata(ctx, assets)
}

func (p *AssetService) FetchAssetsByCreator(ctx context.Context, creator string, sorting common.AssetSorting,
	limit int, before, after string) ([]*AssetInfo, error) {
	assets, err := p.storage.FindByCreator(ctx, creator, sorting, limit, before, after)
	if err != nil {
		return nil, err
	}
	return p.withMetadata(ctx, assets)
}

// PutImage stores the image of an L2 asset.
func (p *AssetService) PutImage(ctx context.Context, pk common.PublicKey, data []byte, mime string) error {
	if len(data) == 0 {
		return common.ErrInvalidRequest.With("image is empty")
	}
	asset, err := p.storage.Find(ctx, pk)
	if err != nil {
		return err
	}
	if asset == nil {
		return common.ErrAssetNotFound.With("asset %s not found", pk)
	}
	if err := p.objects.PutBinary(ctx, pk, data, mime); err != nil {
		return common.ErrObjectStore.Wrap(err)
	}
	return nil
}

func (p *AssetService) GetImage(ctx context.Context, pk common.PublicKey) ([]byte, string, bool, error) {
	data, mime, ok, err := p.objects.GetBinary(ctx, pk)
	if err != nil {
		return nil, "", false, common.ErrObjectStore.Wrap(err)
	}
	return data, mime, ok, nil
}

func (p *AssetService) GetMintStatus(ctx context.Context, pk common.PublicKey) (common.AssetState, string, error) {
	return p.storage.GetMintStatus(ctx, pk)
}
