package rpcserver

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/config"
	"github.com/sat20-labs/l2asset/ledger"
	"github.com/sat20-labs/l2asset/rpcserver/wire"
	"github.com/sat20-labs/l2asset/service"
	"github.com/sat20-labs/l2asset/storage/kvdb"
	"github.com/sat20-labs/l2asset/storage/l2db"
	"github.com/sat20-labs/l2asset/storage/objstore"
	"github.com/sat20-labs/l2asset/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testApiKey  = "test-key"
	testBaseUrl = "https://l2.test"
)

type stubLedger struct {
	mu     sync.Mutex
	parsed *ledger.ParsedMint
	sent   int
}

func (f *stubLedger) ParseMintTransaction(raw []byte) (*ledger.ParsedMint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.parsed == nil {
		return nil, common.ErrNoInstruction
	}
	parsed := *f.parsed
	return &parsed, nil
}

func (f *stubLedger) ExecuteMintTransaction(ctx context.Context, raw []byte, key ed25519.PrivateKey) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent++
	return fmt.Sprintf("sig-%d", f.sent), nil
}

func (f *stubLedger) IsAssetMinted(ctx context.Context, signature string) (ledger.MintStatus, error) {
	return ledger.MINT_CONFIRMED, nil
}

type testServer struct {
	engine *gin.Engine
	svc    *service.AssetService
	ledger *stubLedger
}

func newTestServer(t *testing.T, api *config.API) *testServer {
	gin.SetMode(gin.TestMode)
	db, err := l2db.Open(l2db.Options{Driver: l2db.DRIVER_SQLITE, DSN: filepath.Join(t.TempDir(), "l2.db")})
	require.NoError(t, err)
	kv, err := kvdb.NewKVDB(kvdb.Options{Engine: kvdb.ENGINE_PEBBLE, Path: filepath.Join(t.TempDir(), "obj")})
	require.NoError(t, err)
	objects := objstore.NewStore(kv)

	stub := &stubLedger{}
	producer := wallet.NewHdWalletProducer("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", "")
	svc := service.NewAssetService(service.Config{
		MetadataBaseUrl: testBaseUrl,
		PollInterval:    5 * time.Millisecond,
		PollAttempts:    3,
	}, producer, l2db.NewSequence(db), l2db.NewAssetStore(db), objects, stub)
	t.Cleanup(func() {
		svc.Close()
		objects.Close()
		l2db.Close(db)
	})

	if api == nil {
		api = &config.API{APIKeyList: map[string]*config.APIKey{testApiKey: {UserName: "tester"}}}
	}
	rpc := NewRpc(svc, api)
	return &testServer{engine: rpc.NewEngine("/", nil), svc: svc, ledger: stub}
}

func key(b byte) common.PublicKey {
	var pk common.PublicKey
	for i := range pk {
		pk[i] = b
	}
	return pk
}

func (s *testServer) do(method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(v)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, _ := json.Marshal(v)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func withKey() map[string]string {
	return map[string]string{API_KEY_HEADER: testApiKey}
}

func (s *testServer) createAsset(t *testing.T, owner byte) *wire.AssetInfo {
	w := s.do(http.MethodPost, "/asset", &wire.CreateAssetReq{
		Name:               "Hat",
		MetadataJson:       `{"name":"Hat","description":"a hat","image":"https://img.test/hat.png"}`,
		Owner:              key(owner).String(),
		Creator:            key(2).String(),
		Authority:          key(3).String(),
		RoyaltyBasisPoints: 500,
	}, withKey())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp wire.AssetResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	var resp wire.ErrorResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", nil, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/secured_health", nil, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/secured_health", nil,
		map[string]string{API_KEY_HEADER: "wrong"}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/secured_health", nil, withKey()).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/secured_health", nil,
		map[string]string{AUTHORIZATION_HEADER: "Bearer " + testApiKey}).Code)
}

func TestAssetLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/asset", &wire.CreateAssetReq{MetadataJson: "{}"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	created := s.createAsset(t, 1)
	assert.Equal(t, "L2", created.State)
	assert.Equal(t, testBaseUrl+"/asset/"+created.Pubkey+"/metadata.json", created.MetadataUri)
	assert.Equal(t, uint16(500), created.RoyaltyBasisPoints)

	w = s.do(http.MethodGet, "/asset/"+created.Pubkey, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got wire.AssetResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created.Pubkey, got.Data.Pubkey)
	require.NotNil(t, got.Data.MetadataJson)
	assert.Contains(t, *got.Data.MetadataJson, "a hat")

	w = s.do(http.MethodGet, "/asset/"+created.Pubkey+"/metadata.json", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"Hat","description":"a hat","image":"https://img.test/hat.png"}`, w.Body.String())

	// set, keep, then clear the collection
	collection := key(7).String()
	w = s.do(http.MethodPut, "/asset/"+created.Pubkey, fmt.Sprintf(`{"name":"Cap","collection":"%s"}`, collection), withKey())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Cap", got.Data.Name)
	require.NotNil(t, got.Data.Collection)
	assert.Equal(t, collection, *got.Data.Collection)

	w = s.do(http.MethodPut, "/asset/"+created.Pubkey, `{"metadata_json":"{\"name\":\"Cap\"}"}`, withKey())
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.Data.Collection)

	w = s.do(http.MethodPut, "/asset/"+created.Pubkey, `{"collection":null}`, withKey())
	require.Equal(t, http.StatusOK, w.Code)
	got = wire.AssetResp{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Nil(t, got.Data.Collection)

	w = s.do(http.MethodPut, "/asset/"+created.Pubkey, `{"owner":""}`, withKey())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPut, "/asset/"+created.Pubkey, `{"collection":"nope"}`, withKey())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPut, "/asset/"+key(9).String(), `{"name":"x"}`, withKey())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssetErrors(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/asset/notakey", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_pubkey", decodeError(t, w))

	w = s.do(http.MethodGet, "/asset/"+key(9).String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "asset_not_found", decodeError(t, w))

	w = s.do(http.MethodGet, "/asset/mint/"+key(9).String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	cases := map[string]*wire.CreateAssetReq{
		"royalty":    {MetadataJson: "{}", Owner: "o", Creator: "c", Authority: "a", RoyaltyBasisPoints: 10_001},
		"no owner":   {MetadataJson: "{}", Creator: "c", Authority: "a"},
		"bad json":   {MetadataJson: "{", Owner: "o", Creator: "c", Authority: "a"},
		"collection": {MetadataJson: "{}", Owner: "o", Creator: "c", Authority: "a", Collection: new(string)},
	}
	for name, req := range cases {
		w := s.do(http.MethodPost, "/asset", req, withKey())
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestImage(t *testing.T) {
	s := newTestServer(t, nil)
	created := s.createAsset(t, 1)

	w := s.do(http.MethodGet, "/asset/"+created.Pubkey+"/image", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodPut, "/asset/"+created.Pubkey+"/image", bytes.NewReader([]byte("\x89PNG")))
	req.Header.Set("Content-Type", "image/png")
	req.Header.Set(API_KEY_HEADER, testApiKey)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	w = s.do(http.MethodGet, "/asset/"+created.Pubkey+"/image", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte("\x89PNG"), w.Body.Bytes())
}

func TestMint(t *testing.T) {
	s := newTestServer(t, nil)
	created := s.createAsset(t, 1)
	pk, err := common.PublicKeyFromBase58(created.Pubkey)
	require.NoError(t, err)

	owner, authority := key(1), key(3)
	s.ledger.parsed = &ledger.ParsedMint{
		Asset:     pk,
		Authority: &authority,
		Payer:     owner,
		Owner:     &owner,
		Name:      created.Name,
		Uri:       created.MetadataUri,
	}
	tx := base64.StdEncoding.EncodeToString([]byte("raw tx"))

	w := s.do(http.MethodPost, "/asset/mint", &wire.MintReq{Tx: "%%%"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/asset/mint", &wire.MintReq{Tx: tx}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var minted wire.MintResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &minted))
	assert.Equal(t, "sig-1", minted.Signature)

	w = s.do(http.MethodGet, "/asset/mint/"+created.Pubkey, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status wire.MintStatusResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "L1_SOLANA", status.Status)
	require.NotNil(t, status.Signature)
	assert.Equal(t, "sig-1", *status.Signature)

	// minted assets leave the L2 view and can not be minted again
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/asset/"+created.Pubkey, nil, nil).Code)
	w = s.do(http.MethodPost, "/asset/mint-async", &wire.MintReq{Tx: tx}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_sent_for_mint", decodeError(t, w))
}

func TestMintAsync(t *testing.T) {
	s := newTestServer(t, nil)
	created := s.createAsset(t, 1)
	pk, _ := common.PublicKeyFromBase58(created.Pubkey)
	owner, authority := key(1), key(3)
	s.ledger.parsed = &ledger.ParsedMint{
		Asset: pk, Authority: &authority, Payer: owner, Owner: &owner,
		Name: created.Name, Uri: created.MetadataUri,
	}

	w := s.do(http.MethodPost, "/asset/mint-async", &wire.MintReq{Tx: base64.StdEncoding.EncodeToString([]byte("tx"))}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Eventually(t, func() bool {
		state, _, err := s.svc.GetMintStatus(context.Background(), pk)
		return err == nil && state == common.ASSET_STATE_L1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCompression(t *testing.T) {
	s := newTestServer(t, nil)
	created := s.createAsset(t, 1)

	w := s.do(http.MethodGet, "/asset/"+created.Pubkey, nil, map[string]string{"Accept-Encoding": "gzip"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ENCODING_GZIP, w.Header().Get("Content-Encoding"))
	reader, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	raw, err := io.ReadAll(reader)
	require.NoError(t, err)
	var resp wire.AssetResp
	require.NoError(t, json.Unmarshal(raw, &resp))
	assert.Equal(t, created.Pubkey, resp.Data.Pubkey)

	w = s.do(http.MethodGet, "/asset/"+created.Pubkey, nil, map[string]string{"Accept-Encoding": "gzip, br"})
	assert.Equal(t, ENCODING_BROTLI, w.Header().Get("Content-Encoding"))

	w = s.do(http.MethodGet, "/asset/"+created.Pubkey, nil, nil)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, &config.API{
		APIKeyList: map[string]*config.APIKey{
			testApiKey: {UserName: "tester", RateLimit: &config.RateLimit{PerSecond: 100, PerDay: 2, Burst: 100}},
		},
	})
	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/secured_health", nil, withKey()).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodGet, "/secured_health", nil, withKey()).Code)
	// public routes are not limited
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", nil, nil).Code)
}

func TestAcceptedEncoding(t *testing.T) {
	assert.Equal(t, "", acceptedEncoding(""))
	assert.Equal(t, ENCODING_GZIP, acceptedEncoding("deflate, gzip;q=0.8"))
	assert.Equal(t, ENCODING_BROTLI, acceptedEncoding("gzip, br"))
}

func TestRateLimit_CountToday(t *testing.T) {
	p := &RateLimit{}
	day := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 1, p.countToday(day))
	assert.Equal(t, 2, p.countToday(day))
	assert.Equal(t, 1, p.countToday(day.Add(2*time.Minute)))

	// the day boundary is UTC midnight, not local midnight
	east := time.FixedZone("UTC+8", 8*3600)
	p = &RateLimit{}
	assert.Equal(t, 1, p.countToday(time.Date(2026, 3, 1, 23, 50, 0, 0, east)))
	assert.Equal(t, 2, p.countToday(time.Date(2026, 3, 2, 0, 10, 0, 0, east)))
	assert.Equal(t, 3, p.countToday(time.Date(2026, 3, 2, 7, 50, 0, 0, east)))
	assert.Equal(t, 1, p.countToday(time.Date(2026, 3, 2, 8, 10, 0, 0, east)))
}
