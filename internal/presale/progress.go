package presale

import "math"

// DisplayedToken is the whitelisted token prices are shown in: the one the
// owner picked, else the first accepted token.
func (p *Presale) DisplayedToken() (WhitelistToken, bool) {
	for _, t := range p.WhitelistedTokens {
		if t.ID == p.DisplayedTokenID {
			return t, true
		}
	}
	if len(p.WhitelistedTokens) == 0 {
		return WhitelistToken{}, false
	}
	return p.WhitelistedTokens[0], true
}

// SaleProgress summarizes how far a sale is towards its caps.
type SaleProgress struct {
	SoftPercent float64 `json:"soft_percent"`
	HardPercent float64 `json:"hard_percent"`
	Remaining   float64 `json:"remaining"`
	Raised      float64 `json:"raised"`
	Target      float64 `json:"target"`
	Symbol      string  `json:"symbol"`
}

// Progress computes cap percentages on the sold amount, and the raised and
// target amounts in the displayed token. Over-sold sales report more than 100%.
func Progress(p *Presale, sold float64) SaleProgress {
	out := SaleProgress{Remaining: p.Hardcap - sold}
	if p.Softcap > 0 {
		out.SoftPercent = sold / p.Softcap * 100
	}
	if p.Hardcap > 0 {
		out.HardPercent = sold / p.Hardcap * 100
	}
	if t, ok := p.DisplayedToken(); ok {
		out.Raised = sold * t.Price
		out.Target = p.Hardcap * t.Price
		out.Symbol = t.Symbol
	}
	return out
}

// Quote is what a payment of Amount in Token buys.
type Quote struct {
	Token     WhitelistToken
	Amount    float64
	SaleTotal float64
}

// NewQuote prices amount of the payment token in sale tokens.
func NewQuote(t WhitelistToken, amount float64) Quote {
	q := Quote{Token: t, Amount: amount}
	if t.Price > 0 {
		q.SaleTotal = amount / t.Price
	}
	return q
}

// MinContribution is the smallest accepted payment in t.
func (p *Presale) MinContribution(t WhitelistToken) float64 {
	return p.MinBuyAmount * t.Price
}

// MaxContribution is the largest accepted payment in t.
func (p *Presale) MaxContribution(t WhitelistToken) float64 {
	return p.MaxBuyAmount * t.Price
}

// MaxSpend is the largest payment the viewer can make in t given balance.
func (p *Presale) MaxSpend(t WhitelistToken, balance float64) float64 {
	return math.Min(balance, p.MaxContribution(t))
}
