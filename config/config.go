package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/sirupsen/logrus"
)

type YamlConf struct {
	Chain      string     `yaml:"chain"`
	Log        Log        `yaml:"log"`
	DB         DB         `yaml:"db"`
	ObjStore   ObjStore   `yaml:"objstore"`
	Solana     Solana     `yaml:"solana"`
	Wallet     Wallet     `yaml:"wallet"`
	Mint       Mint       `yaml:"mint"`
	RPCService RPCService `yaml:"rpc_service"`
}

type Log struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// relational store
type DB struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// metadata and blob store
type ObjStore struct {
	Engine      string `yaml:"engine"`
	Path        string `yaml:"path"`
	CacheSizeMB int    `yaml:"cache_size_mb"`
}

type Solana struct {
	RpcUrl        string `yaml:"rpc_url"`
	SkipPreflight bool   `yaml:"skip_preflight"`
	Commitment    string `yaml:"commitment"`
}

// seed_hex takes precedence over seed_phrase
type Wallet struct {
	SeedPhrase string `yaml:"seed_phrase"`
	Passphrase string `yaml:"passphrase"`
	SeedHex    string `yaml:"seed_hex"`
}

type Mint struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	PollAttempts int           `yaml:"poll_attempts"`
	SyncTimeout  time.Duration `yaml:"sync_timeout"`
}

type RPCService struct {
	Addr            string  `yaml:"addr"`
	Proxy           string  `yaml:"proxy"`
	LogPath         string  `yaml:"log_path"`
	MetadataBaseUrl string  `yaml:"metadata_base_url"`
	Swagger         Swagger `yaml:"swagger"`
	API             API     `yaml:"api"`
}

type Swagger struct {
	Host    string   `yaml:"host"`
	Schemes []string `yaml:"schemes"`
}

type API struct {
	APIKeyList      map[string]*APIKey `yaml:"apikey_list"`
	NoLimitApiList  []string           `yaml:"nolimit_api_list"`
	NoLimitHostList []string           `yaml:"nolimit_host_list"`
}

type APIKey struct {
	UserName  string     `yaml:"user_name"`
	RateLimit *RateLimit `yaml:"rate_limit"`
}

type RateLimit struct {
	PerSecond int `yaml:"per_second"`
	PerDay    int `yaml:"per_day"`
	Max       int `yaml:"max"`
	Burst     int `yaml:"burst"`
}

func GetBaseDir() string {
	execPath, err := os.Executable()
	if err != nil {
		return "./."
	}
	return filepath.Dir(execPath)
}

func InitConfig(configFile string) *YamlConf {
	if configFile == "" {
		for i, item := range os.Args {
			if item == "-env" && i+1 < len(os.Args) {
				configFile = os.Args[i+1]
				break
			}
		}
		if configFile == "" {
			configFile = "./.env"
		}
	}
	if !strings.HasPrefix(configFile, "/") {
		configFile = filepath.Join(GetBaseDir(), configFile)
	}

	fmt.Printf("config file: %s\n", configFile)

	cfg, err := LoadYamlConf(configFile)
	if err != nil {
		fmt.Printf("%v\n", err)
		return nil
	}
	return cfg
}

func LoadYamlConf(cfgPath string) (*YamlConf, error) {
	confFile, err := os.Open(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cfg: %s, error: %s", cfgPath, err)
	}
	defer confFile.Close()

	ret := &YamlConf{}
	decoder := yaml.NewDecoder(confFile)
	err = decoder.Decode(ret)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cfg: %s, error: %s", cfgPath, err)
	}
	if err := ret.fillDefaults(); err != nil {
		return nil, fmt.Errorf("invalid cfg: %s, error: %s", cfgPath, err)
	}
	return ret, nil
}

func withTrailingSeparator(path string) string {
	path = filepath.FromSlash(path)
	if path[len(path)-1] != filepath.Separator {
		path += string(filepath.Separator)
	}
	return path
}

func (ret *YamlConf) fillDefaults() error {
	switch ret.Chain {
	case "":
		ret.Chain = "devnet"
	case "mainnet", "devnet", "testnet":
	default:
		return fmt.Errorf("unsupported chain: %s", ret.Chain)
	}

	_, err := logrus.ParseLevel(ret.Log.Level)
	if err != nil {
		ret.Log.Level = "info"
	}
	if ret.Log.Path == "" {
		ret.Log.Path = "log"
	}
	ret.Log.Path = withTrailingSeparator(ret.Log.Path)

	switch ret.DB.Driver {
	case "":
		ret.DB.Driver = "sqlite"
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db driver: %s", ret.DB.Driver)
	}
	if ret.DB.Driver == "postgres" && ret.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required for postgres")
	}
	if ret.DB.DSN == "" {
		ret.DB.DSN = "./data/l2asset.db"
	}
	if ret.DB.MaxOpenConns <= 0 {
		ret.DB.MaxOpenConns = 16
	}
	if ret.DB.MaxIdleConns <= 0 {
		ret.DB.MaxIdleConns = 4
	}
	if ret.DB.ConnMaxLifetime <= 0 {
		ret.DB.ConnMaxLifetime = time.Hour
	}

	switch ret.ObjStore.Engine {
	case "":
		ret.ObjStore.Engine = "pebble"
	case "pebble", "leveldb":
	default:
		return fmt.Errorf("unsupported objstore engine: %s", ret.ObjStore.Engine)
	}
	if ret.ObjStore.Path == "" {
		ret.ObjStore.Path = "data/objstore"
	}
	ret.ObjStore.Path = withTrailingSeparator(ret.ObjStore.Path)
	if ret.ObjStore.CacheSizeMB <= 0 {
		ret.ObjStore.CacheSizeMB = 64
	}

	if ret.Solana.RpcUrl == "" {
		ret.Solana.RpcUrl = DefaultSolanaRpcUrl(ret.Chain)
	}
	if ret.Solana.Commitment == "" {
		ret.Solana.Commitment = "confirmed"
	}

	if ret.Wallet.SeedHex == "" && ret.Wallet.SeedPhrase == "" {
		return fmt.Errorf("wallet.seed_phrase or wallet.seed_hex is required")
	}

	if ret.Mint.PollInterval <= 0 {
		ret.Mint.PollInterval = 10 * time.Second
	}
	if ret.Mint.PollAttempts <= 0 {
		ret.Mint.PollAttempts = 18
	}

	rpcService := &ret.RPCService
	if rpcService.Addr == "" {
		rpcService.Addr = "0.0.0.0:80"
	}
	if rpcService.Proxy == "" {
		rpcService.Proxy = "/"
	}
	if rpcService.Proxy[0] != '/' {
		rpcService.Proxy = "/" + rpcService.Proxy
	}
	if rpcService.LogPath == "" {
		rpcService.LogPath = "log"
	}
	rpcService.MetadataBaseUrl = strings.TrimSuffix(rpcService.MetadataBaseUrl, "/")
	if rpcService.MetadataBaseUrl == "" {
		rpcService.MetadataBaseUrl = "http://127.0.0.1"
	}
	if rpcService.Swagger.Host == "" {
		rpcService.Swagger.Host = "127.0.0.1"
	}
	if len(rpcService.Swagger.Schemes) == 0 {
		rpcService.Swagger.Schemes = []string{"http"}
	}
	if rpcService.API.APIKeyList == nil {
		rpcService.API.APIKeyList = make(map[string]*APIKey)
	}
	return nil
}

func DefaultSolanaRpcUrl(chain string) string {
	switch chain {
	case "mainnet":
		return "https://api.mainnet-beta.solana.com"
	case "testnet":
		return "https://api.testnet.solana.com"
	}
	return "https://api.devnet.solana.com"
}

func NewDefaultYamlConf(chain string) (*YamlConf, error) {
	switch chain {
	case "mainnet", "devnet", "testnet":
	default:
		return nil, fmt.Errorf("unsupported chain: %s", chain)
	}
	ret := &YamlConf{
		Chain: chain,
		Log: Log{
			Level: "info",
			Path:  "log",
		},
		DB: DB{
			Driver:          "postgres",
			DSN:             "host=127.0.0.1 user=l2asset password=l2asset dbname=l2asset port=5432 sslmode=disable",
			MaxOpenConns:    16,
			MaxIdleConns:    4,
			ConnMaxLifetime: time.Hour,
		},
		ObjStore: ObjStore{
			Engine:      "pebble",
			Path:        "data/objstore",
			CacheSizeMB: 64,
		},
		Solana: Solana{
			RpcUrl:     DefaultSolanaRpcUrl(chain),
			Commitment: "confirmed",
		},
		Wallet: Wallet{
			SeedPhrase: "seed phrase",
		},
		Mint: Mint{
			PollInterval: 10 * time.Second,
			PollAttempts: 18,
		},
		RPCService: RPCService{
			Addr:            "0.0.0.0:80",
			Proxy:           "/",
			LogPath:         "log",
			MetadataBaseUrl: "http://127.0.0.1",
			Swagger: Swagger{
				Host:    "127.0.0.1",
				Schemes: []string{"http"},
			},
			API: API{
				APIKeyList:      make(map[string]*APIKey),
				NoLimitApiList:  []string{"/health"},
				NoLimitHostList: []string{},
			},
		},
	}
	return ret, nil
}

func SaveYamlConf(conf *YamlConf, filePath string) error {
	data, err := yaml.Marshal(conf)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
