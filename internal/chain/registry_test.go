package chain_test

import (
	"testing"

	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetByChainID(t *testing.T) {
	registry := chain.NewRegistry()

	tests := []struct {
		id   int64
		name string
	}{
		{137, "polygon"},
		{1337, "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := registry.GetByChainID(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.name, c.Name)
		})
	}
}

func TestRegistryGetByNameIsCaseInsensitive(t *testing.T) {
	c, err := chain.NewRegistry().GetByName("Polygon")
	require.NoError(t, err)
	assert.Equal(t, int64(137), c.ChainID)
}

func TestRegistryUnknownChain(t *testing.T) {
	registry := chain.NewRegistry()
	_, err := registry.GetByName("unknownchain")
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
	_, err = registry.GetByChainID(999999)
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
}

func TestAllChainsHaveRPC(t *testing.T) {
	for _, c := range chain.NewRegistry().All() {
		t.Run(c.Name, func(t *testing.T) {
			assert.NotEmpty(t, c.RPCs, "chain %s has no RPCs", c.Name)
			assert.NotEmpty(t, c.NativeCurrency)
		})
	}
}

func TestFactoryOnlyOnPolygon(t *testing.T) {
	registry := chain.NewRegistry()

	polygon, err := registry.GetByName("polygon")
	require.NoError(t, err)
	assert.True(t, polygon.HasFactory())
	assert.Equal(t, "1", polygon.CreationFee)

	local, err := registry.GetByName("localhost")
	require.NoError(t, err)
	assert.False(t, local.HasFactory())
}

func TestTxURL(t *testing.T) {
	registry := chain.NewRegistry()
	polygon, _ := registry.GetByName("polygon")
	assert.Equal(t, "https://polygonscan.com/tx/0xabc", polygon.TxURL("0xabc"))

	local, _ := registry.GetByName("localhost")
	assert.Equal(t, "", local.TxURL("0xabc"))
	assert.Equal(t, "", local.AddressURL("0xabc"))
	assert.Equal(t, "https://polygonscan.com/address/0xdef", polygon.AddressURL("0xdef"))
}
