package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Fundamentals struct {
	Name          string   `json:"name,omitempty"`
	Exchange      string   `json:"exchange,omitempty"`
	Sector        string   `json:"sector,omitempty"`
	Industry      string   `json:"industry,omitempty"`
	MarketCap     float64  `json:"market_cap"`
	PERatio       *float64 `json:"pe_ratio"`
	PEGRatio      *float64 `json:"peg_ratio"`
	EPS           *float64 `json:"eps"`
	NextEarnings  string   `json:"next_earnings,omitempty"`
	AnalystRating string   `json:"analyst_rating,omitempty"`
}

type SymbolResearch struct {
	Price        float64       `json:"price"`
	Fundamentals Fundamentals  `json:"fundamentals"`
	News         []NewsSummary `json:"news"`
}

// DefaultSymbolResearch is the entry used for a symbol whose research failed.
func DefaultSymbolResearch() SymbolResearch {
	return SymbolResearch{News: []NewsSummary{}}
}

type Snapshot struct {
	MacroNews []NewsSummary             `json:"macro_news"`
	Symbols   map[string]SymbolResearch `json:"symbols"`
	CreatedAt time.Time                 `json:"created_at"`
}

type Holding struct {
	Symbol   string          `json:"symbol" yaml:"symbol"`
	Quantity decimal.Decimal `json:"quantity" yaml:"quantity"`
	AvgCost  decimal.Decimal `json:"avg_cost" yaml:"avg_cost"`
}

type Portfolio struct {
	Name     string    `json:"name" yaml:"name"`
	Holdings []Holding `json:"holdings" yaml:"holdings"`
}

func (p Portfolio) Symbols() []string {
	symbols := make([]string, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		symbols = append(symbols, h.Symbol)
	}
	return symbols
}
