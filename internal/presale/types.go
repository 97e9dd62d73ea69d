// Package presale holds the presale data model, the lifecycle status
// derivation and the state store the action orchestrator writes through.
package presale

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

// Status is the lifecycle state of a presale.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusLive     Status = "live"
	StatusFilled   Status = "filled"
	StatusCanceled Status = "canceled"
	StatusEnded    Status = "ended"
)

// Blockchain identifies the chain a presale is deployed on.
type Blockchain struct {
	ID     int64  `json:"id" validate:"required"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Token is an ERC-20 known to the backend.
type Token struct {
	ID              int64          `json:"id,omitempty"`
	Name            string         `json:"name"`
	Symbol          string         `json:"symbol" validate:"required"`
	ContractAddress common.Address `json:"contract_address"`
	Decimals        uint8          `json:"decimals"`
}

// WhitelistToken is a payment token accepted by a presale, priced in
// payment-token units per sale token.
type WhitelistToken struct {
	Token
	ChainID int64   `json:"chain_id"`
	Image   string  `json:"image,omitempty"`
	Status  string  `json:"status,omitempty"`
	Price   float64 `json:"price" validate:"gt=0"`
}

// IsNative reports whether the token is the chain's native currency.
func (t WhitelistToken) IsNative() bool {
	return t.ContractAddress == (common.Address{})
}

// Presale is the backend record describing a presale.
type Presale struct {
	ID                   int64            `json:"id"`
	ChainID              int64            `json:"chain_id"`
	TokenID              int64            `json:"token_id"`
	AffiliateStatus      string           `json:"affiliate_status,omitempty"`
	TokenPrice           string           `json:"token_price"`
	Softcap              float64          `json:"softcap" validate:"gte=0,ltefield=Hardcap"`
	Hardcap              float64          `json:"hardcap" validate:"gt=0"`
	MinBuyAmount         float64          `json:"min_buy_amount" validate:"gte=0"`
	MaxBuyAmount         float64          `json:"max_buy_amount" validate:"gtefield=MinBuyAmount"`
	StartTime            time.Time        `json:"start_time" validate:"required"`
	EndTime              time.Time        `json:"end_time" validate:"required"`
	Logo                 string           `json:"logo,omitempty"`
	Website              string           `json:"website,omitempty"`
	Facebook             string           `json:"facebook,omitempty"`
	Github               string           `json:"github,omitempty"`
	Twitter              string           `json:"twitter,omitempty"`
	Telegram             string           `json:"telegram,omitempty"`
	Discord              string           `json:"discord,omitempty"`
	Instagram            string           `json:"instagram,omitempty"`
	Reddit               string           `json:"reddit,omitempty"`
	Youtube              string           `json:"youtube,omitempty"`
	Description          string           `json:"description,omitempty"`
	SaleContractAddress  common.Address   `json:"sale_contract_address"`
	ContractOwnerAddress common.Address   `json:"contract_owner_address"`
	DisplayedTokenID     int64            `json:"displayed_token"`
	Blockchain           Blockchain       `json:"blockchain"`
	Token                Token            `json:"token"`
	WhitelistedTokens    []WhitelistToken `json:"whitelisted_tokens" validate:"min=1,dive"`
	TotalTokensSold      *float64         `json:"totalTokensSold,omitempty"`
	CreatedAt            *time.Time       `json:"created_at,omitempty"`
	UpdatedAt            *time.Time       `json:"updated_at,omitempty"`
}

// ErrInvalidPresale wraps every validation failure of a presale record.
var ErrInvalidPresale = errors.New("invalid presale record")

var validate = validator.New()

// Validate checks a decoded record before it is loaded into a Store.
func (p *Presale) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPresale, err)
	}
	if !p.EndTime.After(p.StartTime) {
		return fmt.Errorf("%w: end_time must be after start_time", ErrInvalidPresale)
	}
	if p.SaleContractAddress == (common.Address{}) {
		return fmt.Errorf("%w: missing sale_contract_address", ErrInvalidPresale)
	}
	return nil
}

// TokenBySymbol returns the whitelisted token with the given symbol.
func (p *Presale) TokenBySymbol(symbol string) (WhitelistToken, bool) {
	for _, t := range p.WhitelistedTokens {
		if t.Symbol == symbol {
			return t, true
		}
	}
	return WhitelistToken{}, false
}

// Price returns the numeric token price, or 0 when it cannot be parsed.
func (p *Presale) Price() float64 {
	v, err := strconv.ParseFloat(p.TokenPrice, 64)
	if err != nil {
		return 0
	}
	return v
}

// IsOwner reports whether account owns the presale contract.
func (p *Presale) IsOwner(account common.Address) bool {
	return account != (common.Address{}) && account == p.ContractOwnerAddress
}

// ContributorDetails is the viewer's position in the sale.
type ContributorDetails struct {
	Amount     float64 `json:"amount"`
	IsClaimed  bool    `json:"is_claimed"`
	IsRefunded bool    `json:"is_refunded"`
}

// SaleFlags are the contract's terminal flags.
type SaleFlags struct {
	IsCancelled bool `json:"is_cancelled"`
	IsFinalized bool `json:"is_finalized"`
}

// Figures are the on-chain values refreshed from the sale contract.
type Figures struct {
	TotalTokensSold   float64            `json:"total_tokens_sold"`
	TotalContributors int64              `json:"total_contributors"`
	Contributor       ContributorDetails `json:"contributor"`
	Balances          map[string]float64 `json:"balances"`
	Flags             SaleFlags          `json:"flags"`
}
