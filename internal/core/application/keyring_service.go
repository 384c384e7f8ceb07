package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"

	"github.com/halcyon-wallet/keyring-daemon/internal/core/domain"
	"github.com/halcyon-wallet/keyring-daemon/internal/core/ports"
	"github.com/halcyon-wallet/keyring-daemon/pkg/circuitbreaker"
	"github.com/halcyon-wallet/keyring-daemon/pkg/keyring"
)

// KeyringService is the single entry point for the wallet's account
// lifecycle: lock state machine, account CRUD, active account selection and
// the scan-before-import workflow.
type KeyringService interface {
	GenSeed(ctx context.Context) ([]string, error)
	IsInitialized(ctx context.Context) (bool, error)
	IsLocked(ctx context.Context) bool
	InitWallet(
		ctx context.Context, mnemonic, passphrase string,
	) (*domain.AccountInfo, error)
	Unlock(ctx context.Context, passphrase string) (*domain.AccountInfo, error)
	Lock(ctx context.Context) error
	ChangePassword(ctx context.Context, currentPassphrase, newPassphrase string) error
	Reset(ctx context.Context) error

	ListAccounts(ctx context.Context) ([]domain.AccountInfo, error)
	SetActiveAccount(ctx context.Context, id string) error
	ActiveAccount(ctx context.Context) (*domain.AccountInfo, error)
	RenameAccount(ctx context.Context, id, name string) error
	MoveAccount(ctx context.Context, id string, position int) error
	RemoveAccount(ctx context.Context, id string) error

	ImportMnemonic(ctx context.Context, mnemonic string) (*domain.AccountInfo, error)
	ImportPrivateKey(ctx context.Context, rawKey string) (*domain.AccountInfo, error)
	AddViewOnlyAccount(ctx context.Context, publicKey string) (*domain.AccountInfo, error)
	AddNextDerivedAccount(ctx context.Context) (*domain.AccountInfo, error)

	BeginMnemonicScan(ctx context.Context, mnemonic string) ([]DerivedAccountInfo, error)
	ResolveScan(ctx context.Context, selectedPublicKeys []string) ([]AccountImportResult, error)
	CancelScan(ctx context.Context)
}

type keyringService struct {
	repoManager ports.RepoManager
	probe       ports.BalanceProbe
	kdfParams   keyring.KDFParams

	vault           *domain.Vault
	activeAccountID string
	staged          *stagedSecret

	cb      *gobreaker.CircuitBreaker
	limiter ratelimit.Limiter
	lock    *sync.Mutex
}

// NewKeyringService returns the process-wide keyring facade. The vault, if
// one was initialized by a previous run, is loaded in locked state.
func NewKeyringService(
	repoManager ports.RepoManager,
	probe ports.BalanceProbe,
	kdfParams keyring.KDFParams,
) (KeyringService, error) {
	vault, err := repoManager.VaultRepository().GetVault(context.Background())
	if err != nil {
		return nil, err
	}

	return &keyringService{
		repoManager: repoManager,
		probe:       probe,
		kdfParams:   kdfParams,
		vault:       vault,
		cb:          circuitbreaker.NewCircuitBreaker(),
		limiter:     ratelimit.New(scanBatchesPerSecond),
		lock:        &sync.Mutex{},
	}, nil
}

// GenSeed returns a fresh mnemonic for a wallet to be initialized with. The
// phrase is not retained, callers must pass it back to InitWallet.
func (s *keyringService) GenSeed(ctx context.Context) ([]string, error) {
	return keyring.NewMnemonic(keyring.NewMnemonicOpts{})
}

func (s *keyringService) IsInitialized(ctx context.Context) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.vault != nil && s.vault.IsInitialized(), nil
}

func (s *keyringService) IsLocked(ctx context.Context) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.isLocked()
}

func (s *keyringService) InitWallet(
	ctx context.Context, mnemonic, passphrase string,
) (*domain.AccountInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.vault != nil && s.vault.IsInitialized() {
		return nil, ErrWalletAlreadyInitialized
	}
	if !keyring.IsMnemonicValid(mnemonic) {
		return nil, keyring.ErrInvalidMnemonic
	}

	account, secret, err := deriveAccountAtIndex(mnemonic, 0)
	if err != nil {
		return nil, err
	}

	vault, err := domain.NewVault(
		domain.SecretSet{account.ID: *secret}, passphrase, s.kdfParams,
	)
	if err != nil {
		return nil, err
	}
	if err := vault.Unlock(passphrase); err != nil {
		return nil, err
	}
	if err := s.repoManager.VaultRepository().AddVault(ctx, vault); err != nil {
		return nil, err
	}
	if err := s.repoManager.RegistryRepository().UpdateRegistry(
		ctx, func(r *domain.Registry) (*domain.Registry, error) {
			if err := r.AddAccount(*account); err != nil {
				return nil, err
			}
			return r, nil
		},
	); err != nil {
		return nil, err
	}

	s.vault = vault
	s.activeAccountID = account.ID
	log.WithField("account", account.ID).Debug("wallet initialized")
	return account, nil
}

// Unlock decrypts the vault and returns the active account metadata, or nil
// if the registry is empty. A missing vault fails the same way as a wrong
// passphrase.
func (s *keyringService) Unlock(
	ctx context.Context, passphrase string,
) (*domain.AccountInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	vault := s.vault
	if vault == nil {
		vault = &domain.Vault{}
	}
	if err := vault.Unlock(passphrase); err != nil {
		return nil, err
	}
	if err := s.persistVault(ctx); err != nil {
		return nil, err
	}

	registry, err := s.registry(ctx)
	if err != nil {
		return nil, err
	}
	if s.activeAccountID == "" && len(registry.Accounts) > 0 {
		s.activeAccountID = registry.Accounts[0].ID
	}
	log.Debug("wallet unlocked")

	if s.activeAccountID == "" {
		return nil, nil
	}
	account, err := registry.AccountByID(s.activeAccountID)
	if err != nil {
		return nil, nil
	}
	return &account, nil
}

// Lock discards the decrypted secrets, the active account selection and any
// staged import secret. Idempotent.
func (s *keyringService) Lock(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.staged = nil
	s.activeAccountID = ""
	if s.vault == nil || s.vault.IsLocked() {
		return nil
	}

	s.vault.Lock()
	log.Debug("wallet locked")
	return s.persistVault(ctx)
}

func (s *keyringService) ChangePassword(
	ctx context.Context, currentPassphrase, newPassphrase string,
) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.vault == nil || !s.vault.IsInitialized() {
		return ErrWalletNotInitialized
	}

	// work on a snapshot so a failed persist leaves memory and disk aligned
	snapshot := *s.vault
	if err := snapshot.ChangePassphrase(currentPassphrase, newPassphrase); err != nil {
		return err
	}
	if err := s.repoManager.VaultRepository().UpdateVault(
		ctx, func(*domain.Vault) (*domain.Vault, error) {
			return &snapshot, nil
		},
	); err != nil {
		return err
	}

	s.vault = &snapshot
	log.Debug("wallet passphrase changed")
	return nil
}

// Reset destroys the vault record and all account metadata. Irreversible.
func (s *keyringService) Reset(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repoManager.VaultRepository().DeleteVault(ctx); err != nil {
		return err
	}
	if err := s.repoManager.RegistryRepository().DeleteRegistry(ctx); err != nil {
		return err
	}

	s.vault = nil
	s.staged = nil
	s.activeAccountID = ""
	log.Debug("wallet reset")
	return nil
}

func (s *keyringService) ListAccounts(ctx context.Context) ([]domain.AccountInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	registry, err := s.registry(ctx)
	if err != nil {
		return nil, err
	}
	return registry.Accounts, nil
}

func (s *keyringService) SetActiveAccount(ctx context.Context, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.isLocked() {
		return ErrWalletIsLocked
	}
	registry, err := s.registry(ctx)
	if err != nil {
		return err
	}
	if _, err := registry.AccountByID(id); err != nil {
		return err
	}
	s.activeAccountID = id
	return nil
}

func (s *keyringService) ActiveAccount(ctx context.Context) (*domain.AccountInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.activeAccountID == "" {
		return nil, nil
	}
	registry, err := s.registry(ctx)
	if err != nil {
		return nil, err
	}
	account, err := registry.AccountByID(s.activeAccountID)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *keyringService) RenameAccount(ctx context.Context, id, name string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.isLocked() {
		return ErrWalletIsLocked
	}
	return s.repoManager.RegistryRepository().UpdateRegistry(
		ctx, func(r *domain.Registry) (*domain.Registry, error) {
			if err := r.RenameAccount(id, name); err != nil {
				return nil, err
			}
			return r, nil
		},
	)
}

func (s *keyringService) MoveAccount(ctx context.Context, id string, position int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.isLocked() {
		return ErrWalletIsLocked
	}
	return s.repoManager.RegistryRepository().UpdateRegistry(
		ctx, func(r *domain.Registry) (*domain.Registry, error) {
			if err := r.MoveAccount(id, position); err != nil {
				return nil, err
			}
			return r, nil
		},
	)
}

// RemoveAccount drops the account metadata and its secret. The derivation
// index of a removed derived account is never handed out again.
func (s *keyringService) RemoveAccount(ctx context.Context, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.isLocked() {
		return ErrWalletIsLocked
	}
	registry, err := s.registry(ctx)
	if err != nil {
		return err
	}
	if _, err := registry.AccountByID(id); err != nil {
		return err
	}

	secrets, err := s.vault.Secrets()
	if err != nil {
		return err
	}
	delete(secrets, id)
	if err := s.updateVaultSecrets(ctx, secrets); err != nil {
		return err
	}

	if err := s.repoManager.RegistryRepository().UpdateRegistry(
		ctx, func(r *domain.Registry) (*domain.Registry, error) {
			if err := r.RemoveAccount(id); err != nil {
				return nil, err
			}
			return r, nil
		},
	); err != nil {
		return err
	}

	if s.activeAccountID == id {
		s.activeAccountID = ""
	}
	log.WithField("account", id).Debug("account removed")
	return nil
}

func (s *keyringService) ImportMnemonic(
	ctx context.Context, mnemonic string,
) (*domain.AccountInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.isLocked() {
		return nil, ErrWalletIsLocked
	}
	if !keyring.IsMnemonicValid(mnemonic) {
		return nil, keyring.ErrInvalidMnemonic
	}

	account, secret, err := deriveAccountAtIndex(mnemonic, 0)
	if err != nil {
		return nil, err
	}
	if err := s.addAccount(ctx, *account, *secret); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *keyringService) ImportPrivateKey(
	ctx context.Context, rawKey string,
) (*domain.AccountInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.isLocked() {
		return nil, ErrWalletIsLocked
	}

	privateKey, err := keyring.DecodePrivateKey(rawKey)
	if err != nil {
		return nil, err
	}
	publicKey, err := keyring.PublicKeyFromPrivateKey(privateKey)
	if err != nil {
		return nil, err
	}

	account := domain.AccountInfo{
		ID:        uuid.New().String(),
		Name:      "Imported Account",
		PublicKey: publicKey,
		Type:      domain.PrivateKeySecret,
	}
	secret := domain.Secret{
		Type:       domain.PrivateKeySecret,
		PrivateKey: privateKey,
		PublicKey:  publicKey,
	}
	if err := s.addAccount(ctx, account, secret); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *keyringService) AddViewOnlyAccount(
	ctx context.Context, publicKey string,
) (*domain.AccountInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.isLocked() {
		return nil, ErrWalletIsLocked
	}
	if !keyring.IsValidPublicKey(publicKey) {
		return nil, keyring.ErrInvalidPublicKey
	}

	account := domain.AccountInfo{
		ID:        uuid.New().String(),
		Name:      "Watched Account",
		PublicKey: publicKey,
		Type:      domain.ViewOnlySecret,
		ViewOnly:  true,
	}
	secret := domain.Secret{
		Type:      domain.ViewOnlySecret,
		PublicKey: publicKey,
	}
	if err := s.addAccount(ctx, account, secret); err != nil {
		return nil, err
	}
	return &account, nil
}

// AddNextDerivedAccount derives the account at the registry's next unused
// derivation index from the wallet's seed mnemonic and makes it active.
func (s *keyringService) AddNextDerivedAccount(
	ctx context.Context,
) (*domain.AccountInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.isLocked() {
		return nil, ErrWalletIsLocked
	}
	registry, err := s.registry(ctx)
	if err != nil {
		return nil, err
	}
	mnemonic, err := s.seedMnemonic(registry)
	if err != nil {
		return nil, err
	}

	account, secret, err := deriveAccountAtIndex(mnemonic, registry.NextDerivationIndex())
	if err != nil {
		return nil, err
	}
	if err := s.addAccount(ctx, *account, *secret); err != nil {
		return nil, err
	}

	s.activeAccountID = account.ID
	return account, nil
}

func (s *keyringService) isLocked() bool {
	return s.vault == nil || s.vault.IsLocked()
}

func (s *keyringService) registry(ctx context.Context) (*domain.Registry, error) {
	return s.repoManager.RegistryRepository().GetOrCreateRegistry(ctx)
}

func (s *keyringService) persistVault(ctx context.Context) error {
	return s.repoManager.VaultRepository().UpdateVault(
		ctx, func(*domain.Vault) (*domain.Vault, error) {
			return s.vault, nil
		},
	)
}

func (s *keyringService) updateVaultSecrets(
	ctx context.Context, secrets domain.SecretSet,
) error {
	if err := s.vault.UpdateSecrets(secrets); err != nil {
		return err
	}
	return s.persistVault(ctx)
}

// seedMnemonic returns the phrase backing the first mnemonic-derived
// account in display order.
func (s *keyringService) seedMnemonic(registry *domain.Registry) (string, error) {
	secrets, err := s.vault.Secrets()
	if err != nil {
		return "", err
	}
	for _, account := range registry.Accounts {
		if !account.IsDerived() {
			continue
		}
		if secret, ok := secrets[account.ID]; ok && secret.Type == domain.MnemonicSecret {
			return secret.Mnemonic, nil
		}
	}
	return "", ErrNoMnemonicSeed
}

// addAccount stores the secret in the vault and the metadata in the
// registry. The registry is the source of truth for duplicates, so it is
// checked first; a failure to update it afterwards rolls the vault back.
func (s *keyringService) addAccount(
	ctx context.Context, account domain.AccountInfo, secret domain.Secret,
) error {
	registry, err := s.registry(ctx)
	if err != nil {
		return err
	}
	if _, err := registry.AccountByPublicKey(account.PublicKey); err == nil {
		return domain.ErrDuplicatePublicKey
	}

	secrets, err := s.vault.Secrets()
	if err != nil {
		return err
	}
	secrets[account.ID] = secret
	if err := s.updateVaultSecrets(ctx, secrets); err != nil {
		return err
	}

	if err := s.repoManager.RegistryRepository().UpdateRegistry(
		ctx, func(r *domain.Registry) (*domain.Registry, error) {
			if err := r.AddAccount(account); err != nil {
				return nil, err
			}
			return r, nil
		},
	); err != nil {
		delete(secrets, account.ID)
		if rollbackErr := s.updateVaultSecrets(ctx, secrets); rollbackErr != nil {
			log.WithError(rollbackErr).Warn(
				"failed to roll back vault after registry update failure",
			)
		}
		return err
	}

	log.WithFields(log.Fields{
		"account":   account.ID,
		"publicKey": account.PublicKey,
	}).Debug("account added")
	return nil
}

// deriveAccountAtIndex builds the metadata and secret of the account at the
// provided derivation index of the mnemonic.
func deriveAccountAtIndex(
	mnemonic string, index uint32,
) (*domain.AccountInfo, *domain.Secret, error) {
	seed, err := keyring.SeedFromMnemonic(mnemonic)
	if err != nil {
		return nil, nil, err
	}
	keyPair, err := keyring.DeriveKeyPair(keyring.DeriveKeyPairOpts{
		Seed: seed,
		Path: keyring.DefaultPathForAccount(index),
	})
	if err != nil {
		return nil, nil, err
	}

	publicKey := keyring.EncodePublicKey(keyPair.PublicKey)
	derivationIndex := index
	account := &domain.AccountInfo{
		ID:              uuid.New().String(),
		Name:            fmt.Sprintf("Account %d", index+1),
		PublicKey:       publicKey,
		Type:            domain.MnemonicSecret,
		DerivationIndex: &derivationIndex,
	}
	secret := &domain.Secret{
		Type:            domain.MnemonicSecret,
		Mnemonic:        mnemonic,
		DerivationIndex: index,
		PublicKey:       publicKey,
	}
	return account, secret, nil
}
