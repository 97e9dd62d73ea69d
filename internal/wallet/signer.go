package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer signs transactions for a signing wallet. The key is read from the
// keystore on first use and kept for the lifetime of the signer.
type Signer struct {
	wallet *Wallet
	ks     KeyStore

	once sync.Once
	key  *ecdsa.PrivateKey
	err  error
}

// NewSigner creates a signer for the given wallet.
func NewSigner(w *Wallet, ks KeyStore) *Signer {
	return &Signer{wallet: w, ks: ks}
}

// SignTx signs tx for chainID with the London signer.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if s.wallet.Type != TypeSigning {
		return nil, fmt.Errorf("%w: %q", ErrWatchOnly, s.wallet.Name)
	}
	key, err := s.privateKey()
	if err != nil {
		return nil, err
	}
	signed, err := types.SignTx(tx, types.NewLondonSigner(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}
	return signed, nil
}

// Address returns the wallet's address.
func (s *Signer) Address() common.Address {
	return common.HexToAddress(s.wallet.Address)
}

func (s *Signer) privateKey() (*ecdsa.PrivateKey, error) {
	s.once.Do(func() {
		hexKey, err := s.ks.Retrieve(s.wallet.KeyRef)
		if err != nil {
			s.err = fmt.Errorf("retrieving key: %w", err)
			return
		}
		key, err := crypto.HexToECDSA(stripHexPrefix(hexKey))
		if err != nil {
			s.err = fmt.Errorf("%w: %v", ErrInvalidKey, err)
			return
		}
		if crypto.PubkeyToAddress(key.PublicKey) != s.Address() {
			s.err = fmt.Errorf("key for %q does not match %s", s.wallet.Name, s.wallet.Address)
			return
		}
		s.key = key
	})
	return s.key, s.err
}
