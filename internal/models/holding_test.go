package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHolding(t *testing.T) {
	h := NewHolding("nvda", "NVIDIA Corporation", AssetClassStock)

	assert.NotEqual(t, uuid.Nil, h.ID, "expected holding ID to be generated")
	assert.Equal(t, "NVDA", h.Symbol)
	assert.Equal(t, DefaultRiskScore(AssetClassStock), h.RiskScore)
	assert.False(t, h.IsAssigned())
}

func TestHolding_MarketValue(t *testing.T) {
	h := Holding{
		Quantity:     decimal.NewFromInt(10),
		CurrentPrice: decimal.RequireFromString("789.45"),
	}

	assert.True(t, h.MarketValue().Equal(decimal.RequireFromString("7894.5")), "got %s", h.MarketValue())
}

func TestHolding_UnrealizedPnL(t *testing.T) {
	h := Holding{
		Quantity:     decimal.NewFromInt(50),
		AverageCost:  decimal.RequireFromString("220.00"),
		CurrentPrice: decimal.RequireFromString("245.67"),
	}

	assert.True(t, h.UnrealizedPnL().Equal(decimal.RequireFromString("1283.5")), "got %s", h.UnrealizedPnL())
	assert.True(t, h.UnrealizedPnLPercent().Equal(decimal.RequireFromString("11.67")), "got %s", h.UnrealizedPnLPercent())
}

func TestHolding_UnrealizedPnLPercent_ZeroCost(t *testing.T) {
	h := Holding{
		Quantity:     decimal.NewFromInt(5),
		CurrentPrice: decimal.NewFromInt(10),
	}

	assert.True(t, h.UnrealizedPnLPercent().IsZero())
}

func TestParseAssetClass(t *testing.T) {
	c, ok := ParseAssetClass(" Crypto ")
	assert.True(t, ok)
	assert.Equal(t, AssetClassCrypto, c)

	_, ok = ParseAssetClass("bond")
	assert.False(t, ok)
}

func TestParseAssetFilter(t *testing.T) {
	tests := []struct {
		in   string
		want AssetFilter
		ok   bool
	}{
		{"", FilterAll, true},
		{"all", FilterAll, true},
		{"STOCK", FilterStock, true},
		{"crypto", FilterCrypto, true},
		{"forex", FilterAll, false},
	}

	for _, tt := range tests {
		got, ok := ParseAssetFilter(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}

	assert.True(t, FilterAll.Matches(AssetClassCrypto))
	assert.True(t, FilterStock.Matches(AssetClassStock))
	assert.False(t, FilterStock.Matches(AssetClassCrypto))
}

func TestHolding_JSONNumbers(t *testing.T) {
	h := Holding{Symbol: "SOL", Quantity: decimal.NewFromInt(50), CurrentPrice: decimal.RequireFromString("245.67")}

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"currentPrice":245.67`)
	assert.Contains(t, string(data), `"quantity":50`)
}

func TestContributionEntry_ImpliedContribution(t *testing.T) {
	e := ContributionEntry{
		Asset:       "NVDA",
		Weight:      decimal.RequireFromString("8.7"),
		Performance: decimal.RequireFromString("52.3"),
	}

	assert.True(t, e.ImpliedContribution().Equal(decimal.RequireFromString("4.5501")), "got %s", e.ImpliedContribution())
}
