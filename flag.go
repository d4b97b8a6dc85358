package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/config"
	"github.com/sat20-labs/l2asset/storage/kvdb"
)

func ParseCmdParams() {
	initChain := flag.String("init", "", "generate config file in current dir")
	_ = flag.String("env", ".env", "env config file, default ./.env")
	compact := flag.String("compact", "", "compact the metadata store")
	engine := flag.String("engine", kvdb.ENGINE_PEBBLE, "metadata store engine, used with -compact")
	help := flag.Bool("help", false, "show help.")
	flag.Parse()

	if *help {
		common.Log.Info("l2asset server help:")
		common.Log.Info("Usage: 'l2asset -init devnet' or 'l2asset -init mainnet'")
		common.Log.Info("Usage: 'l2asset -env default.yaml'")
		common.Log.Info("Usage: 'l2asset -env .env'")
		common.Log.Info("Usage: 'l2asset -compact ./data/objstore -engine pebble'")
		common.Log.Info("Options:")
		common.Log.Info("  run service ->")
		common.Log.Info("    -init: init config file in current dir, mainnet/devnet/testnet")
		common.Log.Info("    -env: config file, default ./.env")
		common.Log.Info("  run tool ->")
		common.Log.Info("    -compact: compact the metadata store, ex: l2asset -compact ./data/objstore")
		common.Log.Info("    -engine: pebble or leveldb, default pebble")
		os.Exit(0)
	}

	if *initChain != "" {
		err := generateDefaultCfg(*initChain)
		if err != nil {
			common.Log.Fatal(err)
		}
		os.Exit(0)
	}

	if *compact != "" {
		err := compactObjStore(*compact, *engine)
		if err != nil {
			common.Log.Fatal(err)
		}
		os.Exit(0)
	}
}

func generateDefaultCfg(chain string) error {
	cfg, err := config.NewDefaultYamlConf(chain)
	if err != nil {
		return err
	}
	cfgPath, err := os.Getwd()
	if err != nil {
		return err
	}
	return config.SaveYamlConf(cfg, filepath.Join(cfgPath, "default.yaml"))
}

func compactObjStore(dbDir, engine string) error {
	dbDir = filepath.Clean(dbDir)
	if _, err := os.Stat(dbDir); err != nil {
		return err
	}
	common.Log.Infof("compacting %s (%s)...", dbDir, engine)
	if err := kvdb.Compact(kvdb.Options{Engine: engine, Path: dbDir}); err != nil {
		return err
	}
	common.Log.Info("compaction done")
	return nil
}
