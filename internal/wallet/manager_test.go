package wallet_test

import (
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/launchpad/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	testPhrase  = "test test test test test test test test test test test junk"
)

func TestAddWatchOnlyWallet(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())

	err := mgr.Add("watcher", &wallet.Wallet{Address: "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"})
	require.NoError(t, err)

	w, err := mgr.Get("watcher")
	require.NoError(t, err)
	assert.Equal(t, "watcher", w.Name)
	assert.Equal(t, wallet.TypeWatchOnly, w.Type)
	assert.Equal(t, testAddress, w.Address, "address is stored checksummed")
	assert.False(t, w.CanSign())
	assert.NotEmpty(t, w.CreatedAt)
}

func TestAddRejectsBadAddress(t *testing.T) {
	mgr := wallet.NewManager()
	err := mgr.Add("bad", &wallet.Wallet{Address: "0x123"})
	assert.ErrorIs(t, err, wallet.ErrInvalidAddress)
}

func TestAddDuplicateWalletErrors(t *testing.T) {
	mgr := wallet.NewManager()
	require.NoError(t, mgr.Add("dup", &wallet.Wallet{Address: testAddress}))
	assert.ErrorIs(t, mgr.Add("dup", &wallet.Wallet{Address: testAddress}), wallet.ErrWalletExists)
	assert.ErrorIs(t, mgr.AddWithKey("dup", testKey), wallet.ErrWalletExists)
}

func TestAddSigningWallet(t *testing.T) {
	ks := wallet.NewInMemoryKeystore()
	mgr := wallet.NewManager(wallet.WithKeystore(ks))

	require.NoError(t, mgr.AddWithKey("signer", testKey))

	w, err := mgr.Get("signer")
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeSigning, w.Type)
	assert.Equal(t, testAddress, w.Address)
	assert.Equal(t, "launchpad.signer", w.KeyRef)

	stored, err := ks.Retrieve(w.KeyRef)
	require.NoError(t, err)
	assert.Equal(t, testKey, stored)
}

func TestInvalidPrivateKey(t *testing.T) {
	mgr := wallet.NewManager()
	assert.ErrorIs(t, mgr.AddWithKey("bad", "not-a-valid-key"), wallet.ErrInvalidKey)
	assert.Empty(t, mgr.List())
}

func TestImportMnemonic(t *testing.T) {
	mgr := wallet.NewManager()

	require.NoError(t, mgr.ImportMnemonic("first", testPhrase, 0))
	require.NoError(t, mgr.ImportMnemonic("second", testPhrase, 1))

	first, err := mgr.Get("first")
	require.NoError(t, err)
	assert.Equal(t, testAddress, first.Address)

	second, err := mgr.Get("second")
	require.NoError(t, err)
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", second.Address)

	assert.ErrorIs(t, mgr.ImportMnemonic("bad", "not a phrase", 0), wallet.ErrInvalidMnemonic)
}

func TestListWalletsSorted(t *testing.T) {
	mgr := wallet.NewManager()
	require.NoError(t, mgr.Add("zeta", &wallet.Wallet{Address: testAddress}))
	require.NoError(t, mgr.Add("alpha", &wallet.Wallet{Address: testAddress}))

	list := mgr.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "zeta", list[1].Name)
}

func TestRemoveWalletDeletesKey(t *testing.T) {
	ks := wallet.NewInMemoryKeystore()
	mgr := wallet.NewManager(wallet.WithKeystore(ks))
	require.NoError(t, mgr.AddWithKey("gone", testKey))

	require.NoError(t, mgr.Remove("gone"))

	_, err := mgr.Get("gone")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	_, err = ks.Retrieve("launchpad.gone")
	assert.Error(t, err)
	assert.ErrorIs(t, mgr.Remove("gone"), wallet.ErrWalletNotFound)
}

func TestDefaultWallet(t *testing.T) {
	mgr := wallet.NewManager()
	assert.Nil(t, mgr.Default())

	require.NoError(t, mgr.Add("a", &wallet.Wallet{Address: testAddress}))
	require.NotNil(t, mgr.Default())
	assert.Equal(t, "a", mgr.Default().Name, "a single wallet is the default")

	require.NoError(t, mgr.Add("b", &wallet.Wallet{Address: testAddress}))
	assert.Nil(t, mgr.Default())

	require.NoError(t, mgr.SetDefault("b"))
	assert.Equal(t, "b", mgr.Default().Name)

	assert.ErrorIs(t, mgr.SetDefault("missing"), wallet.ErrWalletNotFound)
}

func TestSignerForWatchOnlyWallet(t *testing.T) {
	mgr := wallet.NewManager()
	require.NoError(t, mgr.Add("watch", &wallet.Wallet{Address: testAddress}))

	_, err := mgr.Signer("watch")
	assert.ErrorIs(t, err, wallet.ErrWatchOnly)

	_, err = mgr.Signer("nobody")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wallets.json")
	ks := wallet.NewInMemoryKeystore()

	mgr := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(path)), wallet.WithKeystore(ks))
	require.NoError(t, mgr.AddWithKey("main", testKey))
	require.NoError(t, mgr.SetDefault("main"))

	reopened := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(path)), wallet.WithKeystore(ks))
	w := reopened.Default()
	require.NotNil(t, w)
	assert.Equal(t, "main", w.Name)
	assert.Equal(t, testAddress, w.Address)
	assert.Equal(t, "launchpad.main", w.KeyRef)
}

func TestJSONStoreMissingFile(t *testing.T) {
	wallets, err := wallet.NewJSONStore(filepath.Join(t.TempDir(), "none.json")).Load()
	require.NoError(t, err)
	assert.Empty(t, wallets)
}
