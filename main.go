package main

import (
	"context"
	"strings"
	"time"

	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/config"
	"github.com/sat20-labs/l2asset/ledger/solana"
	"github.com/sat20-labs/l2asset/rpcserver"
	"github.com/sat20-labs/l2asset/service"
	"github.com/sat20-labs/l2asset/storage/kvdb"
	"github.com/sat20-labs/l2asset/storage/l2db"
	"github.com/sat20-labs/l2asset/storage/objstore"
	"github.com/sat20-labs/l2asset/wallet"
)

const SHUTDOWN_TIMEOUT = 10 * time.Second

func init() {
	config.InitSigInt()
}

func main() {
	ParseCmdParams()

	yamlcfg := config.InitConfig("")
	if yamlcfg == nil {
		return
	}
	if err := config.InitLog(yamlcfg); err != nil {
		common.Log.Error(err)
		return
	}

	common.Log.Info("Starting...")
	defer func() {
		config.ReleaseRes()
		common.Log.Info("shut down")
	}()

	assetService, err := InitAssetService(yamlcfg)
	if err != nil {
		common.Log.Error(err)
		return
	}

	rpc, err := InitRpcService(yamlcfg, assetService)
	if err != nil {
		common.Log.Error(err)
		return
	}

	stopChan := make(chan bool)
	cb := func() {
		common.Log.Info("handle SIGINT for close rpc service")
		stopChan <- true
	}
	config.RegistSigIntFunc(cb)
	common.Log.Info("l2 asset service start...")
	<-stopChan

	common.Log.Info("prepare to release resource...")
	ctx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := rpc.Stop(ctx); err != nil {
		common.Log.Errorf("stop rpc service failed, %v", err)
	}
}

func newWalletProducer(conf *config.Wallet) (*wallet.HdWalletProducer, error) {
	if conf.SeedHex != "" {
		return wallet.NewHdWalletProducerFromHex(conf.SeedHex)
	}
	return wallet.NewHdWalletProducer(conf.SeedPhrase, conf.Passphrase), nil
}

// InitAssetService opens both stores and the ledger gateway, then resumes
// whatever mints a previous run left behind.
func InitAssetService(conf *config.YamlConf) (*service.AssetService, error) {
	db, err := l2db.Open(l2db.Options{
		Driver:          conf.DB.Driver,
		DSN:             conf.DB.DSN,
		MaxOpenConns:    conf.DB.MaxOpenConns,
		MaxIdleConns:    conf.DB.MaxIdleConns,
		ConnMaxLifetime: conf.DB.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	config.RegistReleaseFunc(func() { l2db.Close(db) })

	kv, err := kvdb.NewKVDB(kvdb.Options{
		Engine:      conf.ObjStore.Engine,
		Path:        conf.ObjStore.Path,
		CacheSizeMB: conf.ObjStore.CacheSizeMB,
	})
	if err != nil {
		return nil, err
	}
	objects := objstore.NewStore(kv)
	config.RegistReleaseFunc(func() { objects.Close() })
	if count, err := objects.Count(); err == nil {
		common.Log.Infof("objstore %s holds %d metadata documents", conf.ObjStore.Path, count)
	}

	producer, err := newWalletProducer(&conf.Wallet)
	if err != nil {
		return nil, err
	}

	gateway := solana.NewGateway(solana.Options{
		RpcUrl:        conf.Solana.RpcUrl,
		SkipPreflight: conf.Solana.SkipPreflight,
		Commitment:    conf.Solana.Commitment,
	})

	assetService := service.NewAssetService(service.Config{
		MetadataBaseUrl: conf.RPCService.MetadataBaseUrl,
		PollInterval:    conf.Mint.PollInterval,
		PollAttempts:    conf.Mint.PollAttempts,
		SyncTimeout:     conf.Mint.SyncTimeout,
	}, producer, l2db.NewSequence(db), l2db.NewAssetStore(db), objects, gateway)
	// 后注册先释放：先停掉 reconciler，再关存储
	config.RegistReleaseFunc(assetService.Close)

	if err := assetService.SweepMintingOnStartup(context.Background()); err != nil {
		return nil, err
	}
	common.Log.Infof("asset service ready on %s, solana %s", conf.Chain, conf.Solana.RpcUrl)
	return assetService, nil
}

func InitRpcService(conf *config.YamlConf, assetService *service.AssetService) (*rpcserver.Rpc, error) {
	rpcService := conf.RPCService
	scheme := strings.Join(rpcService.Swagger.Schemes, ",")

	rpc := rpcserver.NewRpc(assetService, &rpcService.API)
	err := rpc.Start(rpcService.Addr, rpcService.Swagger.Host, scheme,
		rpcService.Proxy, rpcService.LogPath)
	if err != nil {
		return rpc, err
	}
	common.Log.Info("rpc started")
	return rpc, nil
}
