package portfolio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/shopspring/decimal"

	"stockscout/internal/model"
)

func TestParse(t *testing.T) {
	p, err := Parse([]byte(`
name: Core
holdings:
  - symbol: aapl
    quantity: 10
    avg_cost: 150.25
  - symbol: MSFT
    quantity: "2.5"
    avg_cost: 300
`))

	assert.Equal(t, nil, err)
	assert.Equal(t, "Core", p.Name)
	assert.Equal(t, []string{"AAPL", "MSFT"}, p.Symbols())
	assert.Equal(t, "150.25", p.Holdings[0].AvgCost.String())
	assert.Equal(t, "2.5", p.Holdings[1].Quantity.String())
}

func TestNormalizeMergesRepeatedSymbols(t *testing.T) {
	p, err := Normalize(model.Portfolio{Holdings: []model.Holding{
		{Symbol: "AAPL", Quantity: decimal.NewFromInt(10), AvgCost: decimal.NewFromInt(100)},
		{Symbol: " aapl ", Quantity: decimal.NewFromInt(30), AvgCost: decimal.NewFromInt(200)},
	}})

	assert.Equal(t, nil, err)
	assert.Equal(t, "default", p.Name)
	assert.Equal(t, 1, len(p.Holdings))
	assert.Equal(t, "40", p.Holdings[0].Quantity.String())
	assert.Equal(t, "175", p.Holdings[0].AvgCost.String())
}

func TestNormalizeRejectsInvalidHoldings(t *testing.T) {
	tests := []model.Portfolio{
		{Holdings: []model.Holding{{Symbol: "", Quantity: decimal.NewFromInt(1)}}},
		{Holdings: []model.Holding{{Symbol: "AAPL", Quantity: decimal.Zero}}},
		{Holdings: []model.Holding{{Symbol: "AAPL", Quantity: decimal.NewFromInt(1), AvgCost: decimal.NewFromInt(-1)}}},
	}

	for _, p := range tests {
		_, err := Normalize(p)
		assert.NotEqual(t, nil, err)
	}

	_, err := Normalize(model.Portfolio{})
	assert.Equal(t, true, errors.Is(err, ErrEmpty))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	os.WriteFile(path, []byte("holdings:\n  - symbol: NVDA\n    quantity: 4\n    avg_cost: 90\n"), 0o644)

	p, err := Load(path)

	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"NVDA"}, p.Symbols())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotEqual(t, nil, err)
}
