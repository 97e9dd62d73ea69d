package chain

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// ErrNoFactory is returned when a chain has no presale factory deployed.
var ErrNoFactory = errors.New("no presale factory on chain")

// ServiceReceiver collects launchpad service fees on every chain.
var ServiceReceiver = common.HexToAddress("0xA018d9467f3Cda7DC3731C2031851FF3F4bCdC6C")

// Chain holds the launchpad metadata for a single EVM chain.
type Chain struct {
	Name           string         `json:"name"`
	DisplayName    string         `json:"display_name"`
	ChainID        int64          `json:"chain_id"`
	NativeCurrency string         `json:"native_currency"`
	RPCs           []string       `json:"rpcs"`
	Explorer       string         `json:"explorer"`
	PresaleFactory common.Address `json:"presale_factory"`
	// Fees are denominated in the native currency.
	CreationFee string `json:"creation_fee"`
	ServiceFee  string `json:"service_fee"`
}

// HasFactory reports whether presales can be created on this chain.
func (c *Chain) HasFactory() bool {
	return c.PresaleFactory != (common.Address{})
}

// TxURL returns the explorer link for a transaction, or "" when the chain
// has no explorer.
func (c *Chain) TxURL(hash string) string {
	if c.Explorer == "" {
		return ""
	}
	return c.Explorer + "/tx/" + hash
}

// AddressURL returns the explorer link for an address, or "".
func (c *Chain) AddressURL(addr string) string {
	if c.Explorer == "" {
		return ""
	}
	return c.Explorer + "/address/" + addr
}

// Registry is the chain registry.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
	byID   map[int64]*Chain
}

// NewRegistry creates the registry of chains the launchpad is deployed on.
func NewRegistry() *Registry {
	chains := allChains()
	r := &Registry{
		chains: chains,
		byName: make(map[string]*Chain, len(chains)),
		byID:   make(map[int64]*Chain, len(chains)),
	}
	for i := range r.chains {
		c := &r.chains[i]
		r.byName[c.Name] = c
		r.byID[c.ChainID] = c
	}
	return r
}

// All returns every chain in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a chain by its slug name (e.g. "polygon").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// GetByChainID finds a chain by its numeric chain ID.
func (r *Registry) GetByChainID(id int64) (*Chain, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// --- chain data ---

func allChains() []Chain {
	return []Chain{
		{
			Name: "polygon", DisplayName: "Polygon", ChainID: 137,
			NativeCurrency: "MATIC",
			RPCs:           []string{"https://polygon-rpc.com", "https://polygon-bor-rpc.publicnode.com"},
			Explorer:       "https://polygonscan.com",
			PresaleFactory: common.HexToAddress("0xFA5cE3A4745b35d50742b4F5486333b219ce4BE9"),
			CreationFee:    "1",
			ServiceFee:     "1",
		},
		{
			Name: "localhost", DisplayName: "Localhost", ChainID: 1337,
			NativeCurrency: "ETH",
			RPCs:           []string{"http://127.0.0.1:8545"},
		},
	}
}
