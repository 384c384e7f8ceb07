package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/halcyon-wallet/keyring-daemon/config"
	"github.com/halcyon-wallet/keyring-daemon/internal/core/application"
	"github.com/halcyon-wallet/keyring-daemon/internal/core/ports"
	"github.com/halcyon-wallet/keyring-daemon/internal/infrastructure/blockchain"
	dbbadger "github.com/halcyon-wallet/keyring-daemon/internal/infrastructure/storage/db/badger"
	"github.com/halcyon-wallet/keyring-daemon/internal/infrastructure/storage/db/inmemory"
)

func main() {
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
	if err := config.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	var repoManager ports.RepoManager
	dbDir := config.GetDbDir()
	if len(dbDir) > 0 {
		var err error
		repoManager, err = dbbadger.NewRepoManager(dbDir, nil)
		if err != nil {
			log.WithError(err).Fatal("error opening datadir")
		}
	} else {
		log.Warn("no datadir configured, running with in-memory storage")
		repoManager = inmemory.NewRepoManager()
	}
	defer repoManager.Close()

	probe := blockchain.NewRPCBalanceProbe(
		config.GetString(config.RPCEndpointKey),
		config.GetRPCRequestTimeout(),
	)

	keyringSvc, err := application.NewKeyringService(
		repoManager, probe, config.GetKDFParams(),
	)
	if err != nil {
		log.WithError(err).Fatal("error starting keyring service")
	}

	initialized, err := keyringSvc.IsInitialized(context.Background())
	if err != nil {
		log.WithError(err).Fatal("error checking wallet status")
	}
	if !initialized {
		log.Info("wallet is not initialized, waiting for initialization")
	} else {
		log.Info("wallet is locked, waiting for unlock")
	}

	log.Info("keyring daemon is ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down")
}
