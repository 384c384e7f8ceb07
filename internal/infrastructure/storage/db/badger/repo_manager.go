package dbbadger

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"

	"github.com/halcyon-wallet/keyring-daemon/internal/core/domain"
	"github.com/halcyon-wallet/keyring-daemon/internal/core/ports"
)

type repoManager struct {
	store *badgerhold.Store

	vaultRepository    domain.VaultRepository
	registryRepository domain.RegistryRepository
}

// NewRepoManager opens the keyring database under the provided directory
// and returns the repositories backed by it. An empty directory opens an
// in-memory database.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "keyring")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening keyring db: %w", err)
	}

	return &repoManager{
		store:              store,
		vaultRepository:    NewVaultRepositoryImpl(store),
		registryRepository: NewRegistryRepositoryImpl(store),
	}, nil
}

func (m *repoManager) VaultRepository() domain.VaultRepository {
	return m.vaultRepository
}

func (m *repoManager) RegistryRepository() domain.RegistryRepository {
	return m.registryRepository
}

func (m *repoManager) Close() {
	m.store.Close()
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			for {
				<-ticker.C
				if err := db.Badger().RunValueLogGC(0.5); err != nil &&
					err != badger.ErrNoRewrite {
					log.WithError(err).Debug("value log garbage collection")
				}
			}
		}()
	}

	return db, nil
}
