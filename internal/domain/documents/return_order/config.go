package return_order

import (
	"strings"

	"github.com/medtraie/Gaztesto-sub001/internal/core/numerator"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
)

const (
	// DocumentType names settlements in movement trails and audit records.
	DocumentType = "ReturnOrder"

	// NumberPrefix is the settlement ("Bon d'Entrée") number prefix.
	NumberPrefix = "BD"

	// NumeratorStrategy: settlements are accounting documents, so numbers are gap-free by default.
	NumeratorStrategy = numerator.StrategyStrict
)

// Config tunes pricing, numbering and the commit policy.
type Config struct {
	// TaxRate is the informational tax share of the subtotal (0.10 = 10%).
	TaxRate types.Money

	// ConsigneFees maps bottle type names to the deposit fee of one bottle.
	ConsigneFees map[string]types.Money

	// CommitPolicy is an optional CEL expression; empty allows every commit.
	CommitPolicy string

	NumberPrefix   string
	NumberStrategy numerator.Strategy
}

// DefaultConsigneFees is the deposit fee table for the standard bottle sizes.
func DefaultConsigneFees() map[string]types.Money {
	return map[string]types.Money{
		"3KG":  types.NewMoneyFromInt(10),
		"6KG":  types.NewMoneyFromInt(15),
		"12KG": types.NewMoneyFromInt(20),
		"34KG": types.NewMoneyFromInt(50),
	}
}

// DefaultConfig returns the standard settlement configuration.
func DefaultConfig() Config {
	return Config{
		TaxRate:        types.MustMoney("0.10"),
		ConsigneFees:   DefaultConsigneFees(),
		NumberPrefix:   NumberPrefix,
		NumberStrategy: NumeratorStrategy,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ConsigneFees == nil {
		c.ConsigneFees = d.ConsigneFees
	}
	if strings.TrimSpace(c.NumberPrefix) == "" {
		c.NumberPrefix = d.NumberPrefix
	}
	return c
}
