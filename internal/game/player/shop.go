package player

import (
	"errors"
	"fmt"
)

// Currency selects which balance a purchase debits.
type Currency string

const (
	CurrencyGold Currency = "gold"
	CurrencyGems Currency = "gems"
)

// ErrUnknownCurrency rejects purchases against a balance that does not exist.
var ErrUnknownCurrency = errors.New("unknown currency")

// Shop price list. Prices are fixed per item kind.
type itemPrice struct {
	amount   int
	currency Currency
}

func priceFor(t ItemType) (itemPrice, error) {
	switch t {
	case ItemSpeedPotion:
		return itemPrice{amount: 50, currency: CurrencyGems}, nil
	case ItemCooldownPotion:
		return itemPrice{amount: 300, currency: CurrencyGold}, nil
	case ItemTrainingBook:
		return itemPrice{amount: 200, currency: CurrencyGold}, nil
	}
	return itemPrice{}, fmt.Errorf("%w: %q", ErrUnknownItem, string(t))
}

// BuyItem purchases one item of kind t at its fixed price.
//
// Postcondition: On any error the aggregate is unchanged.
func (p *Player) BuyItem(t ItemType) error {
	price, err := priceFor(t)
	if err != nil {
		return err
	}
	switch price.currency {
	case CurrencyGold:
		if err := p.SpendGold(price.amount); err != nil {
			return err
		}
	case CurrencyGems:
		if err := p.SpendGems(price.amount); err != nil {
			return err
		}
	}
	p.AddItem(t)
	return nil
}

// Exchange rates: gems buy gold cheaply, gold buys gems at a premium.
const (
	gemToGoldYield = 100
	goldToGemCost  = 150
)

// ExchangeGemToGold converts 1 gem into gold.
func (p *Player) ExchangeGemToGold() error {
	if err := p.SpendGems(1); err != nil {
		return err
	}
	p.Gold += gemToGoldYield
	return nil
}

// ExchangeGoldToGem converts gold into 1 gem.
func (p *Player) ExchangeGoldToGem() error {
	if err := p.SpendGold(goldToGemCost); err != nil {
		return err
	}
	p.Gems++
	return nil
}
