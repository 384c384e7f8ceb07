package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/halcyon-wallet/keyring-daemon/internal/core/domain"
	"github.com/halcyon-wallet/keyring-daemon/pkg/keyring"
)

const (
	// scanWindowSize is how many consecutive derivation indices are probed
	// when scanning a mnemonic for funded accounts.
	scanWindowSize = 10
	// scanBatchSize bounds how many balance probes run against the chain
	// at once.
	scanBatchSize = 4
	// scanBatchesPerSecond bounds the probe batch rate.
	scanBatchesPerSecond = 10
	// stagedSecretTTL is how long a staged secret stays committable.
	stagedSecretTTL = 10 * time.Minute
)

// DerivedAccountInfo describes one scan candidate. Never persisted.
type DerivedAccountInfo struct {
	PublicKey      string
	DerivationPath string
	Balance        decimal.Decimal
}

// AccountImportResult is the per-item outcome of ResolveScan.
type AccountImportResult struct {
	PublicKey string
	Account   *domain.AccountInfo
	Err       error
}

// stagedSecret holds a secret that has not been committed to the vault yet.
// It lives in volatile memory only, at most one per process.
type stagedSecret struct {
	mnemonic   string
	candidates []scanCandidate
	createdAt  time.Time
}

func (s *stagedSecret) expired() bool {
	return time.Since(s.createdAt) > stagedSecretTTL
}

type scanCandidate struct {
	publicKey string
	index     uint32
}

// BeginMnemonicScan stages the mnemonic in memory, derives the scan window
// and probes each candidate's balance in bounded batches. It returns the
// funded candidates, or the first candidate when none is funded so that an
// empty wallet still has one importable account. Staging replaces any prior
// staged secret and does not require the vault to be unlocked.
func (s *keyringService) BeginMnemonicScan(
	ctx context.Context, mnemonic string,
) ([]DerivedAccountInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.staged = nil
	if !keyring.IsMnemonicValid(mnemonic) {
		return nil, keyring.ErrInvalidMnemonic
	}
	seed, err := keyring.SeedFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	candidates, infos := deriveScanWindow(seed)
	if len(candidates) <= 0 {
		return nil, ErrNoDerivableAccounts
	}

	if err := s.probeCandidates(ctx, infos); err != nil {
		return nil, err
	}

	funded := make([]DerivedAccountInfo, 0, len(infos))
	for _, info := range infos {
		if info.Balance.IsPositive() {
			funded = append(funded, info)
		}
	}
	if len(funded) <= 0 {
		funded = infos[:1]
	}

	s.staged = &stagedSecret{
		mnemonic:   mnemonic,
		candidates: candidates,
		createdAt:  time.Now(),
	}
	log.WithField("candidates", len(funded)).Debug("mnemonic scan completed")
	return funded, nil
}

// ResolveScan commits the selected candidates of the staged secret to the
// vault and registry. Commit is single-shot: the staged secret is discarded
// on every outcome, full success, partial success or total failure.
func (s *keyringService) ResolveScan(
	ctx context.Context, selectedPublicKeys []string,
) ([]AccountImportResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	staged := s.staged
	s.staged = nil
	if staged == nil || staged.expired() {
		return nil, ErrNoScanInProgress
	}
	if s.isLocked() {
		return nil, ErrWalletIsLocked
	}

	byPublicKey := make(map[string]uint32, len(staged.candidates))
	for _, candidate := range staged.candidates {
		byPublicKey[candidate.publicKey] = candidate.index
	}

	results := make([]AccountImportResult, 0, len(selectedPublicKeys))
	for _, publicKey := range selectedPublicKeys {
		index, ok := byPublicKey[publicKey]
		if !ok {
			results = append(results, AccountImportResult{
				PublicKey: publicKey,
				Err:       ErrNotAScanCandidate,
			})
			continue
		}

		account, secret, err := deriveAccountAtIndex(staged.mnemonic, index)
		if err == nil {
			err = s.addAccount(ctx, *account, *secret)
		}
		if err != nil {
			results = append(results, AccountImportResult{
				PublicKey: publicKey,
				Err:       err,
			})
			continue
		}

		if s.activeAccountID == "" {
			s.activeAccountID = account.ID
		}
		results = append(results, AccountImportResult{
			PublicKey: publicKey,
			Account:   account,
		})
	}
	return results, nil
}

// CancelScan discards the staged secret without committing anything
func (s *keyringService) CancelScan(ctx context.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.staged = nil
}

// probeCandidates fills in the balances of the scan window. Probes run in
// batches of scanBatchSize, rate limited per batch, each wrapped in the
// shared circuit breaker. A failing batch aborts the whole scan, results
// are never silently truncated. Cancellation is effective between batches.
func (s *keyringService) probeCandidates(
	ctx context.Context, infos []DerivedAccountInfo,
) error {
	for start := 0; start < len(infos); start += scanBatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.limiter.Take()

		end := start + scanBatchSize
		if end > len(infos) {
			end = len(infos)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				balance, err := s.cb.Execute(func() (interface{}, error) {
					return s.probe.GetBalance(gctx, infos[i].PublicKey)
				})
				if err != nil {
					return err
				}
				infos[i].Balance = balance.(decimal.Decimal)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// deriveScanWindow derives the first scanWindowSize accounts of the seed.
// Indices failing derivation are skipped.
func deriveScanWindow(seed []byte) ([]scanCandidate, []DerivedAccountInfo) {
	candidates := make([]scanCandidate, 0, scanWindowSize)
	infos := make([]DerivedAccountInfo, 0, scanWindowSize)
	for i := uint32(0); i < scanWindowSize; i++ {
		path := keyring.DefaultPathForAccount(i)
		keyPair, err := keyring.DeriveKeyPair(keyring.DeriveKeyPairOpts{
			Seed: seed,
			Path: path,
		})
		if err != nil {
			log.WithError(err).WithField("index", i).Warn("skipping derivation index")
			continue
		}
		publicKey := keyring.EncodePublicKey(keyPair.PublicKey)
		candidates = append(candidates, scanCandidate{publicKey: publicKey, index: i})
		infos = append(infos, DerivedAccountInfo{
			PublicKey:      publicKey,
			DerivationPath: path.String(),
			Balance:        decimal.Zero,
		})
	}
	return candidates, infos
}
