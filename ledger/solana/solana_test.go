package solana

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"testing"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	sent     *sol.Transaction
	sendErr  error
	statuses []*rpc.SignatureStatusesResult
	rpcErr   error
}

func (f *fakeClient) SendTransactionWithOpts(ctx context.Context, tx *sol.Transaction, opts rpc.TransactionOpts) (sol.Signature, error) {
	if f.sendErr != nil {
		return sol.Signature{}, f.sendErr
	}
	f.sent = tx
	return tx.Signatures[0], nil
}

func (f *fakeClient) GetSignatureStatuses(ctx context.Context, search bool, sigs ...sol.Signature) (*rpc.GetSignatureStatusesResult, error) {
	if f.rpcErr != nil {
		return nil, f.rpcErr
	}
	return &rpc.GetSignatureStatusesResult{Value: f.statuses}, nil
}

type mintFixture struct {
	payer     sol.PrivateKey
	assetKey  ed25519.PrivateKey
	asset     sol.PublicKey
	owner     sol.PublicKey
	authority sol.PublicKey
}

func newFixture() *mintFixture {
	seed := make([]byte, ed25519.SeedSize)
	seed[0] = 42
	assetKey := ed25519.NewKeyFromSeed(seed)
	seed[0] = 43
	payer := sol.PrivateKey(ed25519.NewKeyFromSeed(seed))
	return &mintFixture{
		payer:     payer,
		assetKey:  assetKey,
		asset:     sol.PublicKeyFromBytes(assetKey.Public().(ed25519.PublicKey)),
		owner:     sol.PublicKeyFromBytes(append(make([]byte, 31), 2)),
		authority: sol.PublicKeyFromBytes(append(make([]byte, 31), 3)),
	}
}

// keys: 0 payer, 1 asset, 2 owner, 3 authority, 4 mpl-core, 5 system
func (f *mintFixture) tx(t *testing.T, mutate func(msg *sol.Message)) *sol.Transaction {
	data, err := EncodeCreateV1Data("My NFT", "https://l2.example/asset/x/metadata.json")
	require.NoError(t, err)
	tx := &sol.Transaction{
		Signatures: make([]sol.Signature, 2),
		Message: sol.Message{
			Header: sol.MessageHeader{
				NumRequiredSignatures:       2,
				NumReadonlySignedAccounts:   0,
				NumReadonlyUnsignedAccounts: 2,
			},
			AccountKeys: sol.PublicKeySlice{
				f.payer.PublicKey(), f.asset, f.owner, f.authority, MplCoreProgramID, sol.SystemProgramID,
			},
			RecentBlockhash: sol.Hash{9},
			Instructions: []sol.CompiledInstruction{{
				ProgramIDIndex: 4,
				Accounts:       []uint16{1, 4, 3, 0, 2, 3, 5, 4},
				Data:           data,
			}},
		},
	}
	if mutate != nil {
		mutate(&tx.Message)
	}
	return tx
}

func (f *mintFixture) raw(t *testing.T, mutate func(msg *sol.Message)) []byte {
	raw, err := f.tx(t, mutate).MarshalBinary()
	require.NoError(t, err)
	return raw
}

func TestParseMintTransaction(t *testing.T) {
	f := newFixture()
	g := newGateway(&fakeClient{}, Options{})

	parsed, err := g.ParseMintTransaction(f.raw(t, nil))
	require.NoError(t, err)
	assert.Equal(t, toPubkey(f.asset), parsed.Asset)
	assert.Equal(t, toPubkey(f.payer.PublicKey()), parsed.Payer)
	require.NotNil(t, parsed.Owner)
	assert.Equal(t, toPubkey(f.owner), *parsed.Owner)
	require.NotNil(t, parsed.Authority)
	assert.Equal(t, toPubkey(f.authority), *parsed.Authority)
	assert.Nil(t, parsed.Collection)
	assert.Equal(t, "My NFT", parsed.Name)
	assert.Equal(t, "https://l2.example/asset/x/metadata.json", parsed.Uri)
}

func TestParseMintTransaction_Errors(t *testing.T) {
	f := newFixture()
	g := newGateway(&fakeClient{}, Options{})

	cases := []struct {
		name   string
		mutate func(msg *sol.Message)
		want   error
	}{
		{"no instruction", func(m *sol.Message) { m.Instructions = nil }, common.ErrNoInstruction},
		{"two instructions", func(m *sol.Message) {
			m.Instructions = append(m.Instructions, m.Instructions[0])
		}, common.ErrUnexpectedInstructions},
		{"program index out of range", func(m *sol.Message) {
			m.Instructions[0].ProgramIDIndex = 17
		}, common.ErrMalformedTransaction},
		{"wrong program", func(m *sol.Message) {
			m.Instructions[0].ProgramIDIndex = 5
		}, common.ErrWrongProgramId},
		{"too few accounts", func(m *sol.Message) {
			m.Instructions[0].Accounts = m.Instructions[0].Accounts[:7]
		}, common.ErrMalformedMintInstruction},
		{"account index out of range", func(m *sol.Message) {
			m.Instructions[0].Accounts[4] = 6
		}, common.ErrMalformedTransaction},
		{"not create v1", func(m *sol.Message) {
			m.Instructions[0].Data = []byte{20, 0}
		}, common.ErrMalformedMintInstruction},
		{"truncated args", func(m *sol.Message) {
			m.Instructions[0].Data = []byte{0, 0, 200, 0, 0, 0, 'a'}
		}, common.ErrMalformedMintInstruction},
	}
	for _, c := range cases {
		_, err := g.ParseMintTransaction(f.raw(t, c.mutate))
		assert.ErrorIs(t, err, c.want, c.name)
		assert.True(t, common.IsKind(err, common.KIND_VALIDATION), c.name)
	}

	_, err := g.ParseMintTransaction([]byte{1, 2, 3})
	assert.ErrorIs(t, err, common.ErrMalformedTransaction)
}

func TestParseMintTransaction_OptionalAccounts(t *testing.T) {
	f := newFixture()
	g := newGateway(&fakeClient{}, Options{})
	raw := f.raw(t, func(m *sol.Message) {
		// collection = owner key, authority and owner omitted
		m.Instructions[0].Accounts = []uint16{1, 2, 4, 0, 4, 3, 5, 4}
	})
	parsed, err := g.ParseMintTransaction(raw)
	require.NoError(t, err)
	require.NotNil(t, parsed.Collection)
	assert.Equal(t, toPubkey(f.owner), *parsed.Collection)
	assert.Nil(t, parsed.Authority)
	assert.Nil(t, parsed.Owner)
}

func TestExecuteMintTransaction(t *testing.T) {
	f := newFixture()
	client := &fakeClient{}
	g := newGateway(client, Options{SkipPreflight: true})

	// client signs as payer first
	tx := f.tx(t, nil)
	msg, err := tx.Message.MarshalBinary()
	require.NoError(t, err)
	payerSig, err := f.payer.Sign(msg)
	require.NoError(t, err)
	tx.Signatures[0] = payerSig
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)

	sig, err := g.ExecuteMintTransaction(context.Background(), raw, f.assetKey)
	require.NoError(t, err)
	assert.Equal(t, payerSig.String(), sig)

	require.NotNil(t, client.sent)
	require.Len(t, client.sent.Signatures, 2)
	assert.Equal(t, payerSig, client.sent.Signatures[0])
	assert.True(t, ed25519.Verify(f.assetKey.Public().(ed25519.PublicKey), msg, client.sent.Signatures[1][:]))
}

func TestExecuteMintTransaction_Errors(t *testing.T) {
	f := newFixture()

	// asset key is not among the signers
	other := ed25519.NewKeyFromSeed(make([]byte, ed25519.SeedSize))
	g := newGateway(&fakeClient{}, Options{})
	_, err := g.ExecuteMintTransaction(context.Background(), f.raw(t, nil), other)
	assert.ErrorIs(t, err, common.ErrMalformedTransaction)

	g = newGateway(&fakeClient{sendErr: fmt.Errorf("blockhash not found")}, Options{})
	_, err = g.ExecuteMintTransaction(context.Background(), f.raw(t, nil), f.assetKey)
	assert.ErrorIs(t, err, common.ErrLedger)
	assert.True(t, common.IsKind(err, common.KIND_UPSTREAM))
}

func TestIsAssetMinted(t *testing.T) {
	sig := sol.Signature{1, 2, 3}.String()
	ctx := context.Background()

	cases := []struct {
		name       string
		client     *fakeClient
		commitment string
		want       ledger.MintStatus
		wantErr    bool
	}{
		{"not found", &fakeClient{statuses: []*rpc.SignatureStatusesResult{nil}}, "", ledger.MINT_INCONCLUSIVE, false},
		{"empty", &fakeClient{}, "", ledger.MINT_INCONCLUSIVE, false},
		{"rpc error", &fakeClient{rpcErr: fmt.Errorf("timeout")}, "", ledger.MINT_INCONCLUSIVE, true},
		{"processed", &fakeClient{statuses: []*rpc.SignatureStatusesResult{
			{ConfirmationStatus: rpc.ConfirmationStatusProcessed}}}, "", ledger.MINT_INCONCLUSIVE, false},
		{"confirmed", &fakeClient{statuses: []*rpc.SignatureStatusesResult{
			{ConfirmationStatus: rpc.ConfirmationStatusConfirmed}}}, "", ledger.MINT_CONFIRMED, false},
		{"confirmed, finalized wanted", &fakeClient{statuses: []*rpc.SignatureStatusesResult{
			{ConfirmationStatus: rpc.ConfirmationStatusConfirmed}}}, "finalized", ledger.MINT_INCONCLUSIVE, false},
		{"finalized", &fakeClient{statuses: []*rpc.SignatureStatusesResult{
			{ConfirmationStatus: rpc.ConfirmationStatusFinalized}}}, "finalized", ledger.MINT_CONFIRMED, false},
		{"failed", &fakeClient{statuses: []*rpc.SignatureStatusesResult{
			{ConfirmationStatus: rpc.ConfirmationStatusFinalized, Err: map[string]interface{}{"InstructionError": 1}}}},
			"", ledger.MINT_REJECTED, false},
	}
	for _, c := range cases {
		g := newGateway(c.client, Options{Commitment: c.commitment})
		got, err := g.IsAssetMinted(ctx, sig)
		assert.Equal(t, c.want, got, c.name)
		assert.Equal(t, c.wantErr, err != nil, c.name)
	}

	g := newGateway(&fakeClient{}, Options{})
	_, err := g.IsAssetMinted(ctx, "not-base58-0OIl")
	assert.Error(t, err)
}
