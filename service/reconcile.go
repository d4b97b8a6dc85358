package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/avast/retry-go"
	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/ledger"
)

var (
	errMintInconclusive = errors.New("mint status is not definitive yet")
	errMintSuperseded   = errors.New("mint attempt has been superseded")
)

// awaitMint polls the ledger up to PollAttempts+1 times, PollInterval apart,
// until the mint is confirmed or rejected. RPC failures count as
// inconclusive.
func (p *AssetService) awaitMint(ctx context.Context, pk common.PublicKey, signature string) ledger.MintStatus {
	status := ledger.MINT_INCONCLUSIVE
	_ = retry.Do(
		func() error {
			s, err := p.ledger.IsAssetMinted(ctx, signature)
			if err != nil {
				common.Log.Debugf("waiting for mint %s of asset %s, %v", signature, pk, err)
				return err
			}
			if s == ledger.MINT_INCONCLUSIVE {
				return errMintInconclusive
			}
			status = s
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(p.cfg.PollAttempts+1)),
		retry.Delay(p.cfg.PollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	return status
}

// settleMint commits a confirmed mint and rolls back anything else, as long
// as the stored attempt still carries signature.
func (p *AssetService) settleMint(ctx context.Context, pk common.PublicKey, signature string, status ledger.MintStatus) error {
	attempt, err := p.storage.FindMintAttempt(ctx, pk)
	if err != nil {
		return err
	}
	if attempt == nil || attempt.Signature != signature {
		common.Log.Infof("mint %s of asset %s superseded, leaving state as is", signature, pk)
		return fmt.Errorf("%s: %w", signature, errMintSuperseded)
	}

	if status == ledger.MINT_CONFIRMED {
		if err := p.storage.FinalizeMint(ctx, pk); err != nil {
			common.Log.Errorf("FinalizeMint %s failed, %v", pk, err)
			return err
		}
		common.Log.Infof("asset %s minted in %s", pk, signature)
		return nil
	}

	if err := p.storage.MintDidntHappen(ctx, pk); err != nil {
		common.Log.Errorf("MintDidntHappen %s failed, %v", pk, err)
		return err
	}
	common.Log.Infof("mint %s of asset %s %s, rolled back", signature, pk, status)
	return nil
}

// startReconcile settles the mint in a detached goroutine. When a
// reconciler for the asset is already running, signature is handed to it
// and false is returned.
func (p *AssetService) startReconcile(pk common.PublicKey, signature string) bool {
	started := false
	p.reconcilers.Upsert(pk.String(), signature, func(exist bool, _ string, newValue string) string {
		started = !exist
		return newValue
	})
	if !started {
		return false
	}
	p.wg.Add(1)
	go p.reconcile(pk, signature)
	return true
}

// reconcile settles signature, then every signature handed over in the
// meantime, and leaves the registry once the latest one is settled.
func (p *AssetService) reconcile(pk common.PublicKey, signature string) {
	defer p.wg.Done()
	key := pk.String()
	for {
		status := p.awaitMint(p.ctx, pk, signature)
		if p.ctx.Err() != nil {
			p.reconcilers.Remove(key)
			common.Log.Infof("reconciler of asset %s stopped", pk)
			return
		}
		p.settleMint(p.ctx, pk, signature, status)

		// 与 startReconcile 的 Upsert 在同一把分片锁下完成交接
		next := signature
		p.reconcilers.RemoveCb(key, func(_ string, latest string, exists bool) bool {
			if exists && latest != signature {
				next = latest
				return false
			}
			return true
		})
		if next == signature {
			return
		}
		common.Log.Infof("reconciler of asset %s moves on to mint %s", pk, next)
		signature = next
	}
}

// IsReconciling reports whether a reconciler for pk is running.
func (p *AssetService) IsReconciling(pk common.PublicKey) bool {
	return p.reconcilers.Has(pk.String())
}

// SweepMintingOnStartup handles assets a previous process left in MINTING:
// those with an attempt, or a signature kept aside when the attempt could
// not be written, get a reconciler. The rest roll back.
func (p *AssetService) SweepMintingOnStartup(ctx context.Context) error {
	minting, err := p.storage.FindMinting(ctx)
	if err != nil {
		return err
	}
	for _, m := range minting {
		pk := m.Asset.Pubkey
		if m.Attempt == nil {
			signature, ok, err := p.objects.GetMintSignature(ctx, pk)
			if err != nil {
				common.Log.Errorf("GetMintSignature %s failed, leaving it minting, %v", pk, err)
				continue
			}
			if ok {
				if err := p.recoverAttempt(ctx, pk, signature); err != nil {
					common.Log.Errorf("recover mint %s of asset %s failed, %v", signature, pk, err)
				}
				continue
			}
			common.Log.Infof("asset %s left minting without signature, rolling back", pk)
			if err := p.storage.MintDidntHappen(ctx, pk); err != nil {
				common.Log.Errorf("MintDidntHappen %s failed, %v", pk, err)
			}
			continue
		}
		p.startReconcile(pk, m.Attempt.Signature)
	}
	common.Log.Infof("startup sweep handled %d minting assets", len(minting))
	return nil
}

// recoverAttempt turns a signature kept aside by a failed mint into the
// attempt row and reconciles it.
func (p *AssetService) recoverAttempt(ctx context.Context, pk common.PublicKey, signature string) error {
	if err := p.storage.AddMintAttempt(ctx, pk, signature); err != nil {
		return err
	}
	if err := p.objects.DeleteMintSignature(ctx, pk); err != nil {
		common.Log.Warnf("DeleteMintSignature %s failed, %v", pk, err)
	}
	common.Log.Infof("asset %s: recovered mint %s", pk, signature)
	p.startReconcile(pk, signature)
	return nil
}
