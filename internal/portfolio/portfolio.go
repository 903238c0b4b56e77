package portfolio

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"stockscout/internal/model"
)

var ErrEmpty = errors.New("portfolio has no holdings")

// Load reads a YAML portfolio file:
//
//	name: Core
//	holdings:
//	  - symbol: AAPL
//	    quantity: 10
//	    avg_cost: 150.25
func Load(path string) (model.Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("reading portfolio: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (model.Portfolio, error) {
	var p model.Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return model.Portfolio{}, fmt.Errorf("parsing portfolio: %w", err)
	}
	return Normalize(p)
}

// Normalize upper-cases symbols, merges repeated symbols into one
// position at their weighted average cost and rejects invalid holdings.
func Normalize(p model.Portfolio) (model.Portfolio, error) {
	if p.Name == "" {
		p.Name = "default"
	}

	index := make(map[string]int)
	var holdings []model.Holding

	for i, h := range p.Holdings {
		h.Symbol = strings.ToUpper(strings.TrimSpace(h.Symbol))
		if h.Symbol == "" {
			return model.Portfolio{}, fmt.Errorf("holding %d: symbol is required", i)
		}
		if !h.Quantity.IsPositive() {
			return model.Portfolio{}, fmt.Errorf("holding %s: quantity must be positive", h.Symbol)
		}
		if h.AvgCost.IsNegative() {
			return model.Portfolio{}, fmt.Errorf("holding %s: avg_cost must not be negative", h.Symbol)
		}

		j, seen := index[h.Symbol]
		if !seen {
			index[h.Symbol] = len(holdings)
			holdings = append(holdings, h)
			continue
		}

		prev := holdings[j]
		qty := prev.Quantity.Add(h.Quantity)
		cost := prev.Quantity.Mul(prev.AvgCost).Add(h.Quantity.Mul(h.AvgCost)).DivRound(qty, 4)
		holdings[j] = model.Holding{Symbol: h.Symbol, Quantity: qty, AvgCost: cost}
	}

	if len(holdings) == 0 {
		return model.Portfolio{}, ErrEmpty
	}

	p.Holdings = holdings
	return p, nil
}
