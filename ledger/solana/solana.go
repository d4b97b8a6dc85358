package solana

import (
	"bytes"
	"context"
	"crypto/ed25519"

	bin "github.com/gagliardetto/binary"
	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/ledger"
)

var MplCoreProgramID = sol.MustPublicKeyFromBase58(common.MPL_CORE_PROGRAM_ID)

const (
	CREATE_V1_DISCRIMINATOR = 0
	CREATE_V1_MIN_ACCOUNTS  = 8
)

// CreateV1 account order:
// 0 asset, 1 collection, 2 authority, 3 payer, 4 owner,
// 5 update_authority, 6 system_program, 7 log_wrapper
// collection, authority and owner are the program id when omitted.
const (
	accountAsset = iota
	accountCollection
	accountAuthority
	accountPayer
	accountOwner
)

// CreateV1Args is the borsh layout of the instruction arguments after the
// discriminator. Plugins follow and are not read.
type CreateV1Args struct {
	DataState uint8
	Name      string
	Uri       string
}

type rpcClient interface {
	SendTransactionWithOpts(ctx context.Context, transaction *sol.Transaction, opts rpc.TransactionOpts) (sol.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...sol.Signature) (*rpc.GetSignatureStatusesResult, error)
}

type Options struct {
	RpcUrl        string
	SkipPreflight bool
	Commitment    string
}

type Gateway struct {
	client        rpcClient
	skipPreflight bool
	commitment    rpc.CommitmentType
}

func NewGateway(opts Options) *Gateway {
	return newGateway(rpc.New(opts.RpcUrl), opts)
}

func newGateway(client rpcClient, opts Options) *Gateway {
	commitment := rpc.CommitmentType(opts.Commitment)
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	return &Gateway{client: client, skipPreflight: opts.SkipPreflight, commitment: commitment}
}

func decodeTransaction(raw []byte) (*sol.Transaction, error) {
	tx, err := sol.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, common.ErrMalformedTransaction.Wrap(err)
	}
	return tx, nil
}

func toPubkey(key sol.PublicKey) common.PublicKey {
	var pk common.PublicKey
	copy(pk[:], key[:])
	return pk
}

func optionalPubkey(key sol.PublicKey) *common.PublicKey {
	if key.Equals(MplCoreProgramID) {
		return nil
	}
	pk := toPubkey(key)
	return &pk
}

func (p *Gateway) ParseMintTransaction(raw []byte) (*ledger.ParsedMint, error) {
	tx, err := decodeTransaction(raw)
	if err != nil {
		return nil, err
	}
	return parseMint(tx)
}

func parseMint(tx *sol.Transaction) (*ledger.ParsedMint, error) {
	instructions := tx.Message.Instructions
	if len(instructions) == 0 {
		return nil, common.ErrNoInstruction
	}
	if len(instructions) > 1 {
		return nil, common.ErrUnexpectedInstructions
	}
	ix := instructions[0]
	keys := tx.Message.AccountKeys

	if int(ix.ProgramIDIndex) >= len(keys) {
		return nil, common.ErrMalformedTransaction.With("program index %d out of %d accounts",
			ix.ProgramIDIndex, len(keys))
	}
	if !keys[ix.ProgramIDIndex].Equals(MplCoreProgramID) {
		return nil, common.ErrWrongProgramId.With("program %s is not mpl-core", keys[ix.ProgramIDIndex])
	}
	if len(ix.Accounts) < CREATE_V1_MIN_ACCOUNTS {
		return nil, common.ErrMalformedMintInstruction.With("instruction has %d accounts", len(ix.Accounts))
	}
	for _, idx := range ix.Accounts {
		if int(idx) >= len(keys) {
			return nil, common.ErrMalformedTransaction.With("account index %d out of %d accounts", idx, len(keys))
		}
	}

	data := []byte(ix.Data)
	if len(data) == 0 || data[0] != CREATE_V1_DISCRIMINATOR {
		return nil, common.ErrMalformedMintInstruction.With("not a create v1 instruction")
	}
	var args CreateV1Args
	if err := bin.NewBorshDecoder(data[1:]).Decode(&args); err != nil {
		return nil, common.ErrMalformedMintInstruction.Wrap(err)
	}

	account := func(i int) sol.PublicKey { return keys[ix.Accounts[i]] }
	return &ledger.ParsedMint{
		Asset:      toPubkey(account(accountAsset)),
		Collection: optionalPubkey(account(accountCollection)),
		Authority:  optionalPubkey(account(accountAuthority)),
		Payer:      toPubkey(account(accountPayer)),
		Owner:      optionalPubkey(account(accountOwner)),
		Name:       args.Name,
		Uri:        args.Uri,
	}, nil
}

// signAsAsset fills the signature slot of the asset key, leaving the
// signatures already made by the client as they are.
func signAsAsset(tx *sol.Transaction, assetKey ed25519.PrivateKey) error {
	signer := sol.PublicKeyFromBytes(assetKey.Public().(ed25519.PublicKey))
	numSigners := int(tx.Message.Header.NumRequiredSignatures)
	if numSigners > len(tx.Message.AccountKeys) {
		return common.ErrMalformedTransaction.With("%d signers but %d accounts", numSigners, len(tx.Message.AccountKeys))
	}

	slot := -1
	for i := 0; i < numSigners; i++ {
		if tx.Message.AccountKeys[i].Equals(signer) {
			slot = i
			break
		}
	}
	if slot < 0 {
		return common.ErrMalformedTransaction.With("asset %s is not a signer", signer)
	}

	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return common.ErrMalformedTransaction.Wrap(err)
	}
	if len(tx.Signatures) == 0 {
		tx.Signatures = make([]sol.Signature, numSigners)
	} else if len(tx.Signatures) != numSigners {
		return common.ErrMalformedTransaction.With("%d signatures for %d signers", len(tx.Signatures), numSigners)
	}
	copy(tx.Signatures[slot][:], ed25519.Sign(assetKey, message))
	return nil
}

func (p *Gateway) ExecuteMintTransaction(ctx context.Context, raw []byte, assetKey ed25519.PrivateKey) (string, error) {
	tx, err := decodeTransaction(raw)
	if err != nil {
		return "", err
	}
	if err := signAsAsset(tx, assetKey); err != nil {
		return "", err
	}
	sig, err := p.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       p.skipPreflight,
		PreflightCommitment: p.commitment,
	})
	if err != nil {
		return "", common.ErrLedger.Wrap(errors.Wrap(err, "send mint transaction"))
	}
	return sig.String(), nil
}

func (p *Gateway) IsAssetMinted(ctx context.Context, signature string) (ledger.MintStatus, error) {
	sig, err := sol.SignatureFromBase58(signature)
	if err != nil {
		return ledger.MINT_INCONCLUSIVE, errors.Wrapf(err, "invalid signature %s", signature)
	}
	out, err := p.client.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return ledger.MINT_INCONCLUSIVE, common.ErrLedger.Wrap(err)
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return ledger.MINT_INCONCLUSIVE, nil
	}
	status := out.Value[0]
	if status.Err != nil {
		return ledger.MINT_REJECTED, nil
	}
	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusFinalized:
		return ledger.MINT_CONFIRMED, nil
	case rpc.ConfirmationStatusConfirmed:
		if p.commitment != rpc.CommitmentFinalized {
			return ledger.MINT_CONFIRMED, nil
		}
	}
	return ledger.MINT_INCONCLUSIVE, nil
}

// EncodeCreateV1Data builds CreateV1 instruction data without plugins.
func EncodeCreateV1Data(name, uri string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(CREATE_V1_DISCRIMINATOR)
	if err := bin.NewBorshEncoder(&buf).Encode(&CreateV1Args{Name: name, Uri: uri}); err != nil {
		return nil, err
	}
	// plugins: None
	buf.WriteByte(0)
	return buf.Bytes(), nil
}
