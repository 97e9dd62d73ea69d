package contract

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/Mohsinsiddi/launchpad/internal/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Signer signs transactions on behalf of a single account.
type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Sender signs simulated requests and broadcasts them.
type Sender struct {
	tr     Transport
	signer Signer

	mu      sync.Mutex
	chainID *big.Int
}

// NewSender creates a Sender. The chain ID is fetched on first use.
func NewSender(tr Transport, signer Signer) *Sender {
	return &Sender{tr: tr, signer: signer}
}

// Account returns the address transactions are sent from.
func (s *Sender) Account() common.Address {
	return s.signer.Address()
}

// Send signs req as an EIP-1559 transaction and broadcasts it.
// It returns as soon as the node accepts the transaction.
func (s *Sender) Send(ctx context.Context, req *Request) (common.Hash, error) {
	chainID, err := s.chainIDFor(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting chain ID: %w", err)
	}

	from := s.signer.Address()
	msg := req.msg()
	msg.From = from

	gas, err := s.tr.EstimateGas(ctx, msg)
	if err != nil {
		gas = config.GasLimitContractCall
	}

	gasPrice, err := s.tr.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := s.tr.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting nonce: %w", err)
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}
	to := req.To
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      req.Data,
	})

	signed, err := s.signer.SignTx(tx, chainID)
	if err != nil {
		return common.Hash{}, fmt.Errorf("signing transaction: %w", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return common.Hash{}, fmt.Errorf("encoding transaction: %w", err)
	}

	hash, err := s.tr.SendRawTransaction(ctx, raw)
	if err != nil {
		return common.Hash{}, fmt.Errorf("broadcasting transaction: %w", err)
	}
	return hash, nil
}

func (s *Sender) chainIDFor(ctx context.Context) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chainID != nil {
		return s.chainID, nil
	}
	id, err := s.tr.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	s.chainID = id
	return id, nil
}
