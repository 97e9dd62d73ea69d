package contract_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"github.com/Mohsinsiddi/launchpad/internal/contract"
	"github.com/Mohsinsiddi/launchpad/internal/contract/contracttest"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSenderSignsAndBroadcasts(t *testing.T) {
	fake := contracttest.New()
	signer := contracttest.NewKeySigner()
	sender := contract.NewSender(fake, signer)
	ctx := context.Background()

	req, err := contract.NewPresale(presaleAddr, fake).SimulateBuy(ctx, signer.Address(), contract.NativeToken, big.NewInt(1000))
	require.NoError(t, err)

	hash, err := sender.Send(ctx, req)
	require.NoError(t, err)

	sent := fake.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, hash, sent[0].Hash)
	assert.Equal(t, signer.Address(), sent[0].From)
	assert.Equal(t, presaleAddr, sent[0].To)
	assert.Equal(t, contract.MethodBuyToken, sent[0].Method)
	assert.Equal(t, int64(1000), sent[0].Value.Int64())
	assert.Equal(t, uint64(0), sent[0].Nonce)

	receipt, err := fake.WaitForReceipt(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), receipt.Status)
}

func TestSenderUsesPendingNonce(t *testing.T) {
	fake := contracttest.New()
	signer := contracttest.NewKeySigner()
	sender := contract.NewSender(fake, signer)
	p := contract.NewPresale(presaleAddr, fake)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		req, err := p.Simulate(ctx, signer.Address(), nil, contract.MethodClaim)
		require.NoError(t, err)
		_, err = sender.Send(ctx, req)
		require.NoError(t, err)
	}

	sent := fake.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, uint64(0), sent[0].Nonce)
	assert.Equal(t, uint64(1), sent[1].Nonce)
	assert.NotEqual(t, sent[0].Hash, sent[1].Hash)
}

func TestSenderBroadcastError(t *testing.T) {
	fake := contracttest.New()
	boom := errors.New("user denied transaction signature")
	fake.FailSend(contract.MethodFinalize, boom)
	signer := contracttest.NewKeySigner()

	req, err := contract.NewPresale(presaleAddr, fake).Simulate(context.Background(), signer.Address(), nil, contract.MethodFinalize)
	require.NoError(t, err)

	_, err = contract.NewSender(fake, signer).Send(context.Background(), req)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, fake.Sent())
}

func TestRevertedReceipt(t *testing.T) {
	fake := contracttest.New()
	fake.RevertOnChain(contract.MethodCancel)
	signer := contracttest.NewKeySigner()
	ctx := context.Background()

	req, err := contract.NewPresale(presaleAddr, fake).Simulate(ctx, signer.Address(), nil, contract.MethodCancel)
	require.NoError(t, err)
	hash, err := contract.NewSender(fake, signer).Send(ctx, req)
	require.NoError(t, err)

	_, err = fake.WaitForReceipt(ctx, hash)
	var rerr *chain.ReceiptError
	assert.True(t, errors.As(err, &rerr))
}

func TestSenderAccount(t *testing.T) {
	signer := contracttest.NewKeySigner()
	sender := contract.NewSender(contracttest.New(), signer)
	assert.Equal(t, signer.Address(), sender.Account())
	assert.NotEqual(t, common.Address{}, sender.Account())
}
