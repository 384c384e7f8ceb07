package application_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-wallet/keyring-daemon/internal/core/application"
	"github.com/halcyon-wallet/keyring-daemon/internal/core/domain"
	"github.com/halcyon-wallet/keyring-daemon/pkg/keyring"
)

func TestBeginMnemonicScan(t *testing.T) {
	t.Run("no_funded_candidate_returns_first_index", func(t *testing.T) {
		svc := newTestService(t, nil)

		candidates, err := svc.BeginMnemonicScan(ctx, testMnemonic)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		require.Equal(t, publicKeyAtIndex(t, testMnemonic, 0), candidates[0].PublicKey)
		require.Equal(t, "m/44'/501'/0'/0'", candidates[0].DerivationPath)
		require.True(t, candidates[0].Balance.IsZero())
	})

	t.Run("returns_exactly_the_funded_candidates", func(t *testing.T) {
		probe := &fakeBalanceProbe{
			funded: map[string]decimal.Decimal{
				publicKeyAtIndex(t, testMnemonic, 2): decimal.NewFromInt(1500),
				publicKeyAtIndex(t, testMnemonic, 5): decimal.NewFromInt(42),
			},
		}
		svc := newTestService(t, probe)

		candidates, err := svc.BeginMnemonicScan(ctx, testMnemonic)
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		require.Equal(t, publicKeyAtIndex(t, testMnemonic, 2), candidates[0].PublicKey)
		require.Equal(t, "m/44'/501'/2'/0'", candidates[0].DerivationPath)
		require.True(t, candidates[0].Balance.Equal(decimal.NewFromInt(1500)))
		require.Equal(t, publicKeyAtIndex(t, testMnemonic, 5), candidates[1].PublicKey)
		require.True(t, candidates[1].Balance.Equal(decimal.NewFromInt(42)))

		// the whole window was probed
		require.Equal(t, 10, probe.calls)
	})

	t.Run("does_not_require_unlocked_wallet", func(t *testing.T) {
		svc := newTestService(t, nil)
		initTestWallet(t, svc)
		require.NoError(t, svc.Lock(ctx))

		candidates, err := svc.BeginMnemonicScan(ctx, otherMnemonic)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
	})

	t.Run("failing_with_invalid_mnemonic", func(t *testing.T) {
		svc := newTestService(t, nil)
		_, err := svc.BeginMnemonicScan(ctx, "definitely not a mnemonic")
		require.EqualError(t, err, keyring.ErrInvalidMnemonic.Error())
	})

	t.Run("failing_probe_aborts_the_scan", func(t *testing.T) {
		probe := &fakeBalanceProbe{err: fmt.Errorf("node unreachable")}
		svc := newTestService(t, probe)

		_, err := svc.BeginMnemonicScan(ctx, testMnemonic)
		require.Error(t, err)
	})
}

func TestResolveScan(t *testing.T) {
	svc := newTestService(t, nil)
	initTestWallet(t, svc)

	_, err := svc.BeginMnemonicScan(ctx, otherMnemonic)
	require.NoError(t, err)

	selected := []string{
		publicKeyAtIndex(t, otherMnemonic, 0),
		publicKeyAtIndex(t, testMnemonic, 7), // never a candidate of this scan
	}
	results, err := svc.ResolveScan(ctx, selected)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Account)
	require.Equal(t, selected[0], results[0].Account.PublicKey)
	require.EqualError(t, results[1].Err, application.ErrNotAScanCandidate.Error())
	require.Nil(t, results[1].Account)

	accounts, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	// commit is single-shot
	_, err = svc.ResolveScan(ctx, selected)
	require.EqualError(t, err, application.ErrNoScanInProgress.Error())
}

func TestResolveScanDiscardsStagedSecretOnFailure(t *testing.T) {
	svc := newTestService(t, nil)
	initTestWallet(t, svc)
	require.NoError(t, svc.Lock(ctx))

	_, err := svc.BeginMnemonicScan(ctx, otherMnemonic)
	require.NoError(t, err)

	selected := []string{publicKeyAtIndex(t, otherMnemonic, 0)}
	_, err = svc.ResolveScan(ctx, selected)
	require.EqualError(t, err, application.ErrWalletIsLocked.Error())

	// the staged secret is gone even though nothing was committed
	_, err = svc.Unlock(ctx, testPassphrase)
	require.NoError(t, err)
	_, err = svc.ResolveScan(ctx, selected)
	require.EqualError(t, err, application.ErrNoScanInProgress.Error())
}

func TestResolveScanReportsDuplicates(t *testing.T) {
	svc := newTestService(t, nil)
	initTestWallet(t, svc)

	// the wallet seed itself is staged, its first account already exists
	_, err := svc.BeginMnemonicScan(ctx, testMnemonic)
	require.NoError(t, err)

	results, err := svc.ResolveScan(
		ctx, []string{publicKeyAtIndex(t, testMnemonic, 0)},
	)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.EqualError(t, results[0].Err, domain.ErrDuplicatePublicKey.Error())
}

func TestCancelScan(t *testing.T) {
	svc := newTestService(t, nil)
	initTestWallet(t, svc)

	_, err := svc.BeginMnemonicScan(ctx, otherMnemonic)
	require.NoError(t, err)

	svc.CancelScan(ctx)

	_, err = svc.ResolveScan(ctx, []string{publicKeyAtIndex(t, otherMnemonic, 0)})
	require.EqualError(t, err, application.ErrNoScanInProgress.Error())
}
