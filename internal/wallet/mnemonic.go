package wallet

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
)

// DerivationPath is the BIP-44 path for the i-th Ethereum account.
const DerivationPath = "m/44'/60'/0'/0/%d"

// DeriveKey returns the hex private key and address of the account at
// index on the standard Ethereum derivation path.
func DeriveKey(mnemonic string, index uint32) (string, common.Address, error) {
	hw, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return "", common.Address{}, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	path, err := hdwallet.ParseDerivationPath(fmt.Sprintf(DerivationPath, index))
	if err != nil {
		return "", common.Address{}, err
	}
	account, err := hw.Derive(path, false)
	if err != nil {
		return "", common.Address{}, fmt.Errorf("deriving account %d: %w", index, err)
	}
	key, err := hw.PrivateKeyHex(account)
	if err != nil {
		return "", common.Address{}, err
	}
	return "0x" + key, account.Address, nil
}
