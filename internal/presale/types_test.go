package presale_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/presale"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presaleJSON = `{
  "id": 7,
  "chain_id": 137,
  "token_id": 3,
  "token_price": "0.05",
  "softcap": 500,
  "hardcap": 1000,
  "min_buy_amount": 10,
  "max_buy_amount": 100,
  "start_time": "2026-03-01T10:00:00.000Z",
  "end_time": "2026-03-02T10:00:00.000Z",
  "sale_contract_address": "0x1111111111111111111111111111111111111111",
  "contract_owner_address": "0x00000000000000000000000000000000000000aa",
  "displayed_token": 2,
  "blockchain": {"id": 137, "name": "Polygon", "symbol": "MATIC"},
  "token": {"id": 3, "name": "Launch", "symbol": "LNC", "contract_address": "0x2222222222222222222222222222222222222222", "decimals": 18},
  "whitelisted_tokens": [
    {"id": 1, "name": "Matic", "symbol": "MATIC", "contract_address": "0x0000000000000000000000000000000000000000", "decimals": 18, "chain_id": 137, "price": 0.5},
    {"id": 2, "name": "Tether", "symbol": "USDT", "contract_address": "0xc2132D05D31c914a87C6611C10748AEb04B58e8F", "decimals": 6, "chain_id": 137, "price": 2}
  ]
}`

func decodePresale(t *testing.T) presale.Presale {
	t.Helper()
	var p presale.Presale
	require.NoError(t, json.Unmarshal([]byte(presaleJSON), &p))
	return p
}

func TestDecodeAndValidate(t *testing.T) {
	p := decodePresale(t)
	require.NoError(t, p.Validate())

	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, 0.05, p.Price())
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), p.StartTime.UTC())
	assert.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), p.SaleContractAddress)
	assert.Equal(t, uint8(18), p.Token.Decimals)

	native, ok := p.TokenBySymbol("MATIC")
	require.True(t, ok)
	assert.True(t, native.IsNative())

	usdt, ok := p.TokenBySymbol("USDT")
	require.True(t, ok)
	assert.False(t, usdt.IsNative())
	assert.Equal(t, uint8(6), usdt.Decimals)

	_, ok = p.TokenBySymbol("DAI")
	assert.False(t, ok)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*presale.Presale)
	}{
		{"zero hardcap", func(p *presale.Presale) { p.Hardcap = 0 }},
		{"softcap above hardcap", func(p *presale.Presale) { p.Softcap = 2000 }},
		{"max below min", func(p *presale.Presale) { p.MaxBuyAmount = 1 }},
		{"end before start", func(p *presale.Presale) { p.EndTime = p.StartTime.Add(-time.Hour) }},
		{"no payment tokens", func(p *presale.Presale) { p.WhitelistedTokens = nil }},
		{"unpriced payment token", func(p *presale.Presale) { p.WhitelistedTokens[0].Price = 0 }},
		{"missing sale contract", func(p *presale.Presale) { p.SaleContractAddress = common.Address{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := decodePresale(t)
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), presale.ErrInvalidPresale)
		})
	}
}

func TestIsOwner(t *testing.T) {
	p := decodePresale(t)
	assert.True(t, p.IsOwner(common.HexToAddress("0x00000000000000000000000000000000000000aa")))
	assert.False(t, p.IsOwner(common.HexToAddress("0x00000000000000000000000000000000000000bb")))
	assert.False(t, (&presale.Presale{}).IsOwner(common.Address{}))
}
