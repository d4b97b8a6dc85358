package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadYamlConf_Defaults(t *testing.T) {
	path := writeConf(t, `
wallet:
  seed_phrase: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
rpc_service:
  metadata_base_url: "https://l2.example/"
`)
	cfg, err := LoadYamlConf(path)
	require.NoError(t, err)

	assert.Equal(t, "devnet", cfg.Chain)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "./data/l2asset.db", cfg.DB.DSN)
	assert.Equal(t, "pebble", cfg.ObjStore.Engine)
	assert.Equal(t, "https://api.devnet.solana.com", cfg.Solana.RpcUrl)
	assert.Equal(t, "confirmed", cfg.Solana.Commitment)
	assert.Equal(t, 10*time.Second, cfg.Mint.PollInterval)
	assert.Equal(t, 18, cfg.Mint.PollAttempts)

	assert.Equal(t, "0.0.0.0:80", cfg.RPCService.Addr)
	assert.Equal(t, "/", cfg.RPCService.Proxy)
	assert.Equal(t, "https://l2.example", cfg.RPCService.MetadataBaseUrl)
	assert.Equal(t, []string{"http"}, cfg.RPCService.Swagger.Schemes)
	assert.NotNil(t, cfg.RPCService.API.APIKeyList)
}

func TestLoadYamlConf_Values(t *testing.T) {
	path := writeConf(t, `
chain: mainnet
log:
  level: debug
  path: /tmp/l2log
db:
  driver: postgres
  dsn: "host=db user=u dbname=d"
mint:
  poll_interval: 2s
  poll_attempts: 5
  sync_timeout: 1m
wallet:
  seed_hex: "000102030405060708090a0b0c0d0e0f"
rpc_service:
  addr: "127.0.0.1:8080"
  proxy: "l2"
  api:
    apikey_list:
      k1:
        user_name: alice
        rate_limit:
          per_second: 5
          per_day: 100
`)
	cfg, err := LoadYamlConf(path)
	require.NoError(t, err)

	assert.Equal(t, "mainnet", cfg.Chain)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.FromSlash("/tmp/l2log/"), cfg.Log.Path)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "https://api.mainnet-beta.solana.com", cfg.Solana.RpcUrl)
	assert.Equal(t, 2*time.Second, cfg.Mint.PollInterval)
	assert.Equal(t, 5, cfg.Mint.PollAttempts)
	assert.Equal(t, time.Minute, cfg.Mint.SyncTimeout)
	assert.Equal(t, "/l2", cfg.RPCService.Proxy)
	require.Contains(t, cfg.RPCService.API.APIKeyList, "k1")
	assert.Equal(t, "alice", cfg.RPCService.API.APIKeyList["k1"].UserName)
	assert.Equal(t, 100, cfg.RPCService.API.APIKeyList["k1"].RateLimit.PerDay)
}

func TestLoadYamlConf_Invalid(t *testing.T) {
	cases := map[string]string{
		"chain":        "chain: regtest\nwallet:\n  seed_hex: \"00\"\n",
		"driver":       "db:\n  driver: mysql\nwallet:\n  seed_hex: \"00\"\n",
		"postgres dsn": "db:\n  driver: postgres\nwallet:\n  seed_hex: \"00\"\n",
		"engine":       "objstore:\n  engine: badger\nwallet:\n  seed_hex: \"00\"\n",
		"no seed":      "chain: devnet\n",
		"not yaml":     "chain: [",
	}
	for name, content := range cases {
		_, err := LoadYamlConf(writeConf(t, content))
		assert.Error(t, err, name)
	}
	_, err := LoadYamlConf(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestSaveYamlConf_RoundTrip(t *testing.T) {
	cfg, err := NewDefaultYamlConf("testnet")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "default.yaml")
	require.NoError(t, SaveYamlConf(cfg, path))

	loaded, err := LoadYamlConf(path)
	require.NoError(t, err)
	assert.Equal(t, "testnet", loaded.Chain)
	assert.Equal(t, cfg.DB.DSN, loaded.DB.DSN)
	assert.Equal(t, cfg.Mint, loaded.Mint)
	assert.Equal(t, cfg.RPCService.API.NoLimitApiList, loaded.RPCService.API.NoLimitApiList)

	_, err = NewDefaultYamlConf("regtest")
	assert.Error(t, err)
}

func TestReleaseRes_Order(t *testing.T) {
	var order []int
	RegistReleaseFunc(func() { order = append(order, 1) })
	RegistReleaseFunc(func() { order = append(order, 2) })
	ReleaseRes()
	ReleaseRes()
	assert.Equal(t, []int{2, 1}, order)
}
