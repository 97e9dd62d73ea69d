package launchpad

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/backend"
	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"github.com/Mohsinsiddi/launchpad/internal/contract"
	"github.com/Mohsinsiddi/launchpad/internal/presale"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	msgApproved       = "Spend approve successfully"
	msgCreated        = "Create launchpad successfully"
	msgNoPresaleLog   = "Something went wrong, cannot get presale address"
	msgStoreLaunchpad = "something went wrong while storing launchpad data, please contact with admin!"

	ratePrecision      = 12
	rateDecimals       = 18
	nativeFeeDecimals  = 18
	maxHardcapOverSoft = 0.25
)

// ErrInvalidCreateRequest wraps every validation failure of a CreateRequest.
var ErrInvalidCreateRequest = errors.New("invalid create request")

// CreatorBackend is the part of the backend API presale creation needs.
type CreatorBackend interface {
	WhitelistedTokens(ctx context.Context, chainID int64) ([]presale.WhitelistToken, error)
	CreateToken(ctx context.Context, t backend.NewToken) (presale.Token, error)
	CreateLaunchpad(ctx context.Context, l backend.NewLaunchpad) error
}

var _ CreatorBackend = (*backend.Client)(nil)

// PriceSource quotes native coins. Unknown coins are quoted at 1.
type PriceSource interface {
	CoinPrice(ctx context.Context, symbol string) float64
}

// CreateRequest describes a new presale. Amounts are in display units and
// the token price is quoted in USD.
type CreateRequest struct {
	Name           string         `json:"name" validate:"required"`
	Symbol         string         `json:"symbol" validate:"required"`
	TokenAddress   common.Address `json:"token_address"`
	Decimals       uint8          `json:"decimals" validate:"gt=0"`
	TokenPrice     float64        `json:"token_price" validate:"gt=0"`
	Softcap        float64        `json:"softcap" validate:"gt=0"`
	Hardcap        float64        `json:"hardcap" validate:"gtefield=Softcap"`
	MinBuyAmount   float64        `json:"min_buy_amount" validate:"gte=0"`
	MaxBuyAmount   float64        `json:"max_buy_amount" validate:"gtefield=MinBuyAmount"`
	StartTime      time.Time      `json:"start_time" validate:"required"`
	EndTime        time.Time      `json:"end_time" validate:"required,gtfield=StartTime"`
	PayableTokens  []string       `json:"payable_tokens" validate:"min=1,dive,required"`
	DisplayedToken string         `json:"displayed_token" validate:"required"`
	Logo           string         `json:"logo" validate:"required,url"`
	Website        string         `json:"website" validate:"required,url"`
	Facebook       string         `json:"facebook" validate:"omitempty,url"`
	Github         string         `json:"github" validate:"omitempty,url"`
	Twitter        string         `json:"twitter" validate:"omitempty,url"`
	Telegram       string         `json:"telegram" validate:"omitempty,url"`
	Discord        string         `json:"discord" validate:"omitempty,url"`
	Instagram      string         `json:"instagram" validate:"omitempty,url"`
	Reddit         string         `json:"reddit" validate:"omitempty,url"`
	Youtube        string         `json:"youtube" validate:"omitempty,url"`
	Description    string         `json:"description" validate:"omitempty,min=10"`
}

var validate = validator.New()

// Validate checks the request as of now.
func (r *CreateRequest) Validate(now time.Time) error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCreateRequest, err)
	}
	switch {
	case r.TokenAddress == (common.Address{}):
		return fmt.Errorf("%w: token_address is required", ErrInvalidCreateRequest)
	case r.Hardcap > r.Softcap*(1+maxHardcapOverSoft):
		return fmt.Errorf("%w: softcap must be at least 80%% of hardcap", ErrInvalidCreateRequest)
	case !r.StartTime.After(now):
		return fmt.Errorf("%w: start_time must be in the future", ErrInvalidCreateRequest)
	case !r.pays(r.DisplayedToken):
		return fmt.Errorf("%w: displayed token %s is not a payable token", ErrInvalidCreateRequest, r.DisplayedToken)
	}
	return nil
}

func (r *CreateRequest) pays(symbol string) bool {
	for _, s := range r.PayableTokens {
		if s == symbol {
			return true
		}
	}
	return false
}

// Created is the outcome of a presale creation.
type Created struct {
	TxHash  common.Hash
	Presale common.Address
	Token   presale.Token
}

// Creator deploys presales through the chain's factory and registers them
// with the backend.
type Creator struct {
	*runner
	chain   *chain.Chain
	backend CreatorBackend
	prices  PriceSource
	factory *contract.Factory
	now     func() time.Time
}

// NewCreator creates a Creator for c.
func NewCreator(c *chain.Chain, tr contract.Transport, api CreatorBackend, prices PriceSource, opts ...Option) *Creator {
	return &Creator{
		runner:  newRunner(tr, "creator", opts),
		chain:   c,
		backend: api,
		prices:  prices,
		factory: contract.NewFactory(c.PresaleFactory, tr),
		now:     time.Now,
	}
}

// Create approves the sale token to the factory for the hardcap, deploys
// the presale, decodes its address from the receipt and stores the
// launchpad in the backend. Without a wallet it does nothing.
//
// When the presale was deployed but could not be stored, the returned
// Created still carries the transaction and presale address.
func (c *Creator) Create(ctx context.Context, req CreateRequest) (*Created, error) {
	if !c.Connected() {
		return nil, nil
	}
	if err := req.Validate(c.now()); err != nil {
		return nil, err
	}
	if !c.chain.HasFactory() {
		return nil, c.fail(OpCreate, fmt.Errorf("%s: %w", c.chain.Name, chain.ErrNoFactory))
	}

	tokens, err := c.backend.WhitelistedTokens(ctx, c.chain.ChainID)
	if err != nil {
		return nil, c.fail(OpCreate, err)
	}
	nativePrice := c.nativePrice(ctx)
	params, err := c.params(req, tokens, nativePrice)
	if err != nil {
		return nil, c.fail(OpCreate, err)
	}
	fee, err := chain.ParseUnits(c.chain.CreationFee, nativeFeeDecimals)
	if err != nil {
		return nil, c.fail(OpCreate, fmt.Errorf("creation fee: %w", err))
	}

	created := &Created{}
	hash, err := c.execute(ctx, action{
		op: OpCreate,
		approve: &allowance{
			token:    req.TokenAddress,
			spender:  c.factory.Address(),
			amount:   params.TotalTokens,
			approved: msgApproved,
		},
		prepare: func(ctx context.Context, from common.Address) (*contract.Request, error) {
			return c.factory.SimulateCreate(ctx, from, fee, params)
		},
		after: func(ctx context.Context, rcpt *chain.Receipt) error {
			addr, err := c.factory.PresaleCreated(rcpt.Logs)
			if err != nil {
				return &ActionError{Kind: KindUnknown, Message: msgNoPresaleLog, Err: err}
			}
			created.Presale = addr
			tok, err := c.store(ctx, req, addr, tokens, nativePrice)
			if err != nil {
				return &ActionError{Kind: KindUnknown, Message: msgStoreLaunchpad, Err: err}
			}
			created.Token = tok
			return nil
		},
		success: func() string { return msgCreated },
	})
	created.TxHash = hash
	if err != nil {
		if hash == (common.Hash{}) {
			return nil, err
		}
		return created, err
	}
	c.log.Infow("presale created", "presale", created.Presale.Hex(), "hash", hash.Hex())
	return created, nil
}

func (c *Creator) nativePrice(ctx context.Context) decimal.Decimal {
	if c.prices == nil {
		return decimal.NewFromInt(1)
	}
	p := c.prices.CoinPrice(ctx, c.chain.NativeCurrency)
	if p <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromFloat(p)
}

// params converts req into createPreSale arguments. Only non-native
// payable tokens are passed to the factory.
func (c *Creator) params(req CreateRequest, tokens []presale.WhitelistToken, nativePrice decimal.Decimal) (contract.CreateParams, error) {
	price := decimal.NewFromFloat(req.TokenPrice)
	rate, err := chain.ParseUnits(price.Div(nativePrice).StringFixed(ratePrecision), rateDecimals)
	if err != nil {
		return contract.CreateParams{}, fmt.Errorf("rate: %w", err)
	}
	total, err := chain.ParseFloatUnits(req.Hardcap, req.Decimals)
	if err != nil {
		return contract.CreateParams{}, fmt.Errorf("hardcap: %w", err)
	}
	minBuy, err := chain.ParseFloatUnits(req.MinBuyAmount, req.Decimals)
	if err != nil {
		return contract.CreateParams{}, fmt.Errorf("min buy: %w", err)
	}
	maxBuy, err := chain.ParseFloatUnits(req.MaxBuyAmount, req.Decimals)
	if err != nil {
		return contract.CreateParams{}, fmt.Errorf("max buy: %w", err)
	}

	p := contract.CreateParams{
		Rate:        rate,
		SaleToken:   req.TokenAddress,
		TotalTokens: total,
		MinBuy:      minBuy,
		MaxBuy:      maxBuy,
		Start:       req.StartTime.Unix(),
		End:         req.EndTime.Unix(),
		Tokens:      []common.Address{},
		TokenPrices: []*big.Int{},
	}
	for _, t := range tokens {
		if !req.pays(t.Symbol) || t.IsNative() {
			continue
		}
		tp, err := chain.ParseUnits(price.String(), t.Decimals)
		if err != nil {
			return contract.CreateParams{}, fmt.Errorf("%s price: %w", t.Symbol, err)
		}
		p.Tokens = append(p.Tokens, t.ContractAddress)
		p.TokenPrices = append(p.TokenPrices, tp)
	}
	return p, nil
}

// store registers the sale token and the launchpad record.
func (c *Creator) store(ctx context.Context, req CreateRequest, addr common.Address, tokens []presale.WhitelistToken, nativePrice decimal.Decimal) (presale.Token, error) {
	price := decimal.NewFromFloat(req.TokenPrice)

	var displayed int64
	selected := []backend.SelectedToken{}
	for _, t := range tokens {
		if t.Symbol == req.DisplayedToken {
			displayed = t.ID
		}
		if !req.pays(t.Symbol) {
			continue
		}
		tp := price.String()
		if strings.EqualFold(t.Symbol, c.chain.NativeCurrency) {
			tp = price.Div(nativePrice).StringFixed(ratePrecision)
		}
		selected = append(selected, backend.SelectedToken{TokenID: t.ID, Price: tp})
	}

	tok, err := c.backend.CreateToken(ctx, backend.NewToken{
		ChainID:         c.chain.ChainID,
		Name:            req.Name,
		Symbol:          req.Symbol,
		ContractAddress: req.TokenAddress,
		Decimals:        req.Decimals,
	})
	if err != nil {
		return presale.Token{}, err
	}

	err = c.backend.CreateLaunchpad(ctx, backend.NewLaunchpad{
		ChainID:              c.chain.ChainID,
		TokenID:              tok.ID,
		TokenPrice:           price.String(),
		Softcap:              req.Softcap,
		Hardcap:              req.Hardcap,
		MinBuyAmount:         req.MinBuyAmount,
		MaxBuyAmount:         req.MaxBuyAmount,
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		Logo:                 req.Logo,
		Website:              req.Website,
		Facebook:             req.Facebook,
		Github:               req.Github,
		Twitter:              req.Twitter,
		Telegram:             req.Telegram,
		Discord:              req.Discord,
		Instagram:            req.Instagram,
		Reddit:               req.Reddit,
		Youtube:              req.Youtube,
		Description:          req.Description,
		DisplayedToken:       displayed,
		SelectedTokens:       selected,
		ContractOwnerAddress: c.Account(),
		SaleContractAddress:  addr,
	})
	if err != nil {
		return presale.Token{}, err
	}
	return tok, nil
}
