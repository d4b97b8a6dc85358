package service

import (
	"context"
	"errors"

	"github.com/avast/retry-go"
	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/ledger"
)

// ExecuteAssetL1Mint promotes an L2 asset to the ledger using the client's
// partially signed CreateV1 transaction. The returned signature is the
// ledger transaction id. With execSync the call waits for a definitive
// ledger answer, otherwise a reconciler settles the asset in background.
func (p *AssetService) ExecuteAssetL1Mint(ctx context.Context, rawTx []byte, execSync bool) (string, error) {
	parsed, err := p.ledger.ParseMintTransaction(rawTx)
	if err != nil {
		return "", err
	}
	pk := parsed.Asset

	asset, err := p.storage.FindAny(ctx, pk)
	if err != nil {
		return "", err
	}
	if asset == nil {
		return "", common.ErrAssetNotFound.With("asset %s not found", pk)
	}
	if err := p.validateMint(parsed, asset); err != nil {
		return "", err
	}

	if err := p.lockForMint(ctx, pk); err != nil {
		return "", err
	}

	// 锁定之后不再跟随请求的取消，保证回滚或者对账一定会执行
	bg := p.ctx
	key := p.wallet.MakeHdWallet(asset.Bip44AccountNum, asset.Bip44AddressNum)
	signature, err := p.ledger.ExecuteMintTransaction(ctx, rawTx, key)
	if err != nil {
		common.Log.Errorf("ExecuteMintTransaction %s failed, %v", pk, err)
		if rbErr := p.storage.MintDidntHappen(bg, pk); rbErr != nil {
			common.Log.Errorf("MintDidntHappen %s failed, %v", pk, rbErr)
		}
		if common.KindOf(err) == common.KIND_INTERNAL {
			err = common.ErrLedger.Wrap(err)
		}
		return "", err
	}
	common.Log.Infof("mint transaction %s of asset %s sent", signature, pk)

	err = retry.Do(func() error {
		return p.storage.AddMintAttempt(bg, pk, signature)
	}, retry.Attempts(3), retry.LastErrorOnly(true))
	if err != nil {
		// 交易已经发出，保持 MINTING，签名另存一份，启动时的清理据此对账
		common.Log.Errorf("AddMintAttempt failed after mint transaction %s of asset %s was sent, %v",
			signature, pk, err)
		if jErr := p.objects.PutMintSignature(bg, pk, signature); jErr != nil {
			common.Log.Errorf("asset %s stays MINTING without a record of mint transaction %s, "+
				"reconcile by hand, %v", pk, signature, jErr)
		}
		return "", err
	}

	if execSync {
		return signature, p.settleSync(pk, signature)
	}
	if !p.startReconcile(pk, signature) {
		common.Log.Infof("mint %s of asset %s handed to the running reconciler", signature, pk)
	}
	return signature, nil
}

func samePubkey(stored string, key *common.PublicKey) bool {
	return key != nil && common.SamePubkey(stored, *key)
}

func sameCollection(a, b *common.PublicKey) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// validateMint checks the transaction mints exactly what the record says.
func (p *AssetService) validateMint(parsed *ledger.ParsedMint, asset *common.L2Asset) error {
	expectedUri := p.MetadataUri(asset.Pubkey)
	if parsed.Uri != expectedUri {
		return common.ErrWrongMetadataUri.With("expected metadata uri %s, got %s", expectedUri, parsed.Uri)
	}
	if parsed.Name != asset.Name {
		return common.ErrWrongName.With("expected name %q, got %q", asset.Name, parsed.Name)
	}
	if parsed.Authority == nil {
		return common.ErrMissingAuthority
	}
	if !samePubkey(asset.Authority, parsed.Authority) {
		return common.ErrWrongAuthority
	}
	if parsed.Owner == nil {
		return common.ErrMissingOwner
	}
	if !samePubkey(asset.Owner, parsed.Owner) {
		return common.ErrWrongOwner
	}
	if !sameCollection(asset.Collection, parsed.Collection) {
		return common.ErrWrongCollection
	}
	return nil
}

// lockForMint takes the L2 -> MINTING lock. When it is already taken, an
// attempt the ledger definitively rejected is rolled back and the lock is
// tried once more.
func (p *AssetService) lockForMint(ctx context.Context, pk common.PublicKey) error {
	ok, err := p.storage.LockBeforeMinting(ctx, pk)
	if err != nil || ok {
		return err
	}

	attempt, err := p.storage.FindMintAttempt(ctx, pk)
	if err != nil {
		return err
	}
	if attempt == nil {
		return common.ErrMintInFlight.With("asset %s is being minted", pk)
	}
	if attempt.State == common.ASSET_STATE_L1 {
		return common.ErrAlreadySentForMint.With("asset %s has already been minted in %s", pk, attempt.Signature)
	}
	status, err := p.ledger.IsAssetMinted(ctx, attempt.Signature)
	if err != nil || status != ledger.MINT_REJECTED {
		return common.ErrAlreadySentForMint.With("asset %s has already been sent for mint in %s", pk, attempt.Signature)
	}

	common.Log.Infof("previous mint %s of asset %s was rejected, rolling back", attempt.Signature, pk)
	if err := p.storage.MintDidntHappen(ctx, pk); err != nil && !errors.Is(err, common.ErrNotMinting) {
		return err
	}
	ok, err = p.storage.LockBeforeMinting(ctx, pk)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrMintInFlight.With("asset %s is being minted", pk)
	}
	return nil
}

func (p *AssetService) settleSync(pk common.PublicKey, signature string) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.SyncTimeout)
	status := p.awaitMint(ctx, pk, signature)
	cancel()

	if err := p.settleMint(p.ctx, pk, signature, status); err != nil {
		return err
	}
	switch status {
	case ledger.MINT_CONFIRMED:
		return nil
	case ledger.MINT_REJECTED:
		return common.ErrMintRejected.With("mint transaction %s of asset %s was rejected", signature, pk)
	}
	return common.ErrMintUnconfirmed.With("mint transaction %s of asset %s was not confirmed in time", signature, pk)
}
