package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/presale"
	"github.com/ethereum/go-ethereum/common"
)

// NewToken registers a sale token.
type NewToken struct {
	ChainID         int64          `json:"chain_id"`
	Name            string         `json:"name"`
	Symbol          string         `json:"symbol"`
	ContractAddress common.Address `json:"contract_address"`
	Decimals        uint8          `json:"decimals"`
}

// SelectedToken prices one accepted payment token of a new launchpad.
type SelectedToken struct {
	TokenID int64  `json:"token_id"`
	Price   string `json:"price"`
}

// NewLaunchpad is the record stored after a presale contract is created.
type NewLaunchpad struct {
	ChainID              int64           `json:"chain_id"`
	TokenID              int64           `json:"token_id"`
	TokenPrice           string          `json:"token_price"`
	Softcap              float64         `json:"softcap"`
	Hardcap              float64         `json:"hardcap"`
	MinBuyAmount         float64         `json:"min_buy_amount"`
	MaxBuyAmount         float64         `json:"max_buy_amount"`
	StartTime            time.Time       `json:"start_time"`
	EndTime              time.Time       `json:"end_time"`
	Logo                 string          `json:"logo,omitempty"`
	Website              string          `json:"website,omitempty"`
	Facebook             string          `json:"facebook,omitempty"`
	Github               string          `json:"github,omitempty"`
	Twitter              string          `json:"twitter,omitempty"`
	Telegram             string          `json:"telegram,omitempty"`
	Discord              string          `json:"discord,omitempty"`
	Instagram            string          `json:"instagram,omitempty"`
	Reddit               string          `json:"reddit,omitempty"`
	Youtube              string          `json:"youtube,omitempty"`
	Description          string          `json:"description,omitempty"`
	DisplayedToken       int64           `json:"displayed_token,omitempty"`
	SelectedTokens       []SelectedToken `json:"selected_tokens"`
	ContractOwnerAddress common.Address  `json:"contract_owner_address"`
	SaleContractAddress  common.Address  `json:"sale_contract_address"`
}

// CreateToken registers a token and returns it with its backend id.
func (c *Client) CreateToken(ctx context.Context, t NewToken) (presale.Token, error) {
	var out struct {
		Data presale.Token `json:"data"`
	}
	if err := c.send(ctx, http.MethodPost, "/v1/token/create", t, &out); err != nil {
		return presale.Token{}, fmt.Errorf("creating token: %w", err)
	}
	return out.Data, nil
}

// CreateLaunchpad stores a new launchpad record.
func (c *Client) CreateLaunchpad(ctx context.Context, l NewLaunchpad) error {
	if err := c.send(ctx, http.MethodPost, "/v1/launchpad/create", l, nil); err != nil {
		return fmt.Errorf("creating launchpad: %w", err)
	}
	return nil
}
